package i18n

import "testing"

func TestTranslator(t *testing.T) {
	cases := []struct {
		locale string
		key    string
		args   []string
		want   string
	}{
		{"en", MsgContentHidden, nil, "Content hidden"},
		{"de_DE", MsgContentHidden, nil, "Inhalt ausgeblendet"},
		{"de-AT", MsgSettingsChanged, []string{"Note list"}, "Die Einstellungen von Note list wurden geändert."},
		{"fr_FR", MsgContentHidden, nil, "Content hidden"},
		{"", MsgTemplateError, []string{"boom"}, "The note list template contains an error: boom"},
		{"de", "msg.unknown", nil, "msg.unknown"},
	}
	for _, tc := range cases {
		tr, err := New(tc.locale)
		if err != nil {
			t.Fatal(err)
		}
		if got := tr.T(tc.key, tc.args...); got != tc.want {
			t.Errorf("T(%q, %q) = %q, want %q", tc.locale, tc.key, got, tc.want)
		}
	}
}

func TestTranslator_Locale(t *testing.T) {
	tr, err := New("de_CH")
	if err != nil {
		t.Fatal(err)
	}
	if tr.Locale() != "de" {
		t.Errorf("Locale = %q", tr.Locale())
	}
}

func TestCatalog_Reuses(t *testing.T) {
	c := NewCatalog()
	a := c.For("de")
	if c.For("de") != a {
		t.Error("translator rebuilt for same locale")
	}
	if c.For("en").T(MsgContentHidden) != "Content hidden" {
		t.Error("wrong translator for en")
	}
}
