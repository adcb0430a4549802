package datefmt

import (
	"testing"
	"time"
)

var refNow = time.Date(2021, 6, 21, 15, 30, 45, 0, time.UTC)

func TestFormat(t *testing.T) {
	cases := []struct {
		name   string
		ts     time.Time
		opts   Options
		expect string
	}{
		{
			name:   "outside window",
			ts:     refNow.AddDate(0, 0, -2),
			opts:   Options{DatePattern: "DD/MM/YYYY", TimePattern: "HH:mm", HumanizeDays: 1},
			expect: "19/06/2021 15:30",
		},
		{
			name:   "other patterns",
			ts:     refNow.AddDate(0, 0, -30),
			opts:   Options{DatePattern: "YYYY-MM-DD", TimePattern: "HH-mm", HumanizeDays: 3},
			expect: "2021-05-22 15-30",
		},
		{
			name:   "inside window",
			ts:     refNow.AddDate(0, 0, -2),
			opts:   Options{DatePattern: "DD/MM/YYYY", TimePattern: "HH:mm", HumanizeDays: 7},
			expect: "2 days ago",
		},
		{
			name:   "window boundary",
			ts:     refNow.AddDate(0, 0, -3),
			opts:   Options{DatePattern: "DD/MM/YYYY", TimePattern: "HH:mm", HumanizeDays: 3},
			expect: "3 days ago",
		},
		{
			name:   "never",
			ts:     refNow.Add(-time.Minute),
			opts:   Options{DatePattern: "DD/MM/YYYY", TimePattern: "HH:mm", HumanizeDays: NeverHumanize},
			expect: "21/06/2021 15:29",
		},
		{
			name:   "future",
			ts:     refNow.Add(3 * time.Hour),
			opts:   Options{DatePattern: "DD/MM/YYYY", TimePattern: "HH:mm", HumanizeDays: 0},
			expect: "in 3 hours",
		},
		{
			name:   "twelve hour clock",
			ts:     time.Date(2021, 1, 5, 0, 7, 0, 0, time.UTC),
			opts:   Options{DatePattern: "MMM D, YY", TimePattern: "h:mm A", HumanizeDays: NeverHumanize},
			expect: "Jan 5, 21 12:07 AM",
		},
		{
			name:   "bracket literal",
			ts:     time.Date(2021, 1, 5, 14, 7, 0, 0, time.UTC),
			opts:   Options{DatePattern: "[Day] D", TimePattern: "HH[h]mm", HumanizeDays: NeverHumanize},
			expect: "Day 5 14h07",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.opts.Location = time.UTC
			got, err := Format(tc.ts, refNow, tc.opts)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.expect {
				t.Errorf("Format = %q, want %q", got, tc.expect)
			}
		})
	}
}

func TestFormat_Location(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	got, err := Format(refNow, refNow, Options{
		DatePattern:  "DD/MM/YYYY",
		TimePattern:  "HH:mm",
		HumanizeDays: NeverHumanize,
		Location:     loc,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != "21/06/2021 17:30" {
		t.Errorf("Format = %q", got)
	}
}

func TestFormat_UnknownLocale(t *testing.T) {
	got, err := Format(refNow.AddDate(0, 0, -2), refNow, Options{HumanizeDays: 7, Locale: "xx_YY"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "2 days ago" {
		t.Errorf("Format = %q, want English fallback", got)
	}
}

func TestHumanize(t *testing.T) {
	cases := []struct {
		d      time.Duration
		expect string
	}{
		{10 * time.Second, "a few seconds ago"},
		{60 * time.Second, "a minute ago"},
		{90 * time.Second, "2 minutes ago"},
		{10 * time.Minute, "10 minutes ago"},
		{time.Hour, "an hour ago"},
		{5 * time.Hour, "5 hours ago"},
		{30 * time.Hour, "a day ago"},
		{36 * time.Hour, "2 days ago"},
		{40 * time.Hour, "2 days ago"},
		{47 * time.Hour, "2 days ago"},
		{48 * time.Hour, "2 days ago"},
		{90 * day, "3 months ago"},
		{3 * 365 * day, "3 years ago"},
		{-3 * time.Hour, "in 3 hours"},
		{-40 * time.Hour, "in 2 days"},
		{-10 * time.Second, "in a few seconds"},
	}
	for _, tc := range cases {
		got, err := Humanize(refNow.Add(-tc.d), refNow, "en")
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.expect {
			t.Errorf("Humanize(-%v) = %q, want %q", tc.d, got, tc.expect)
		}
	}
}

func TestLanguage(t *testing.T) {
	cases := map[string]string{
		"de_DE": "de",
		"en-US": "en",
		" FR ":  "fr",
		"":      "",
	}
	for in, want := range cases {
		if got := language(in); got != want {
			t.Errorf("language(%q) = %q, want %q", in, got, want)
		}
	}
}
