// Package i18n looks up the user facing messages of the note list.
package i18n

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/locales/de"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
)

// Message keys.
const (
	MsgSettingsChanged      = "msg.settingsChanged"
	MsgContentHidden        = "msg.contentHidden"
	MsgThumbnailPurgeFailed = "msg.thumbnailPurgeFailed"
	MsgTemplateError        = "msg.templateError"
)

// DefaultLocale is used when the requested locale is unknown.
const DefaultLocale = "en"

var messages = map[string]map[string]string{
	"en": {
		MsgSettingsChanged:      "The settings of {0} have changed.",
		MsgContentHidden:        "Content hidden",
		MsgThumbnailPurgeFailed: "Old thumbnails could not be deleted: {0}",
		MsgTemplateError:        "The note list template contains an error: {0}",
	},
	"de": {
		MsgSettingsChanged:      "Die Einstellungen von {0} wurden geändert.",
		MsgContentHidden:        "Inhalt ausgeblendet",
		MsgThumbnailPurgeFailed: "Alte Vorschaubilder konnten nicht gelöscht werden: {0}",
		MsgTemplateError:        "Die Vorlage der Notizliste enthält einen Fehler: {0}",
	},
}

// Translator resolves message keys for one locale, falling back to English
// and finally to the key itself.
type Translator struct {
	trans    ut.Translator
	fallback ut.Translator
}

// New creates a Translator for locale ("de", "de_DE", "en-US", ...).
func New(locale string) (*Translator, error) {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale, de.New())

	for lang, msgs := range messages {
		trans, found := uni.GetTranslator(lang)
		if !found {
			return nil, fmt.Errorf("i18n: translator %s not found", lang)
		}
		for key, text := range msgs {
			if err := trans.Add(key, text, false); err != nil {
				return nil, fmt.Errorf("i18n: add %s/%s: %w", lang, key, err)
			}
		}
	}

	fallback, _ := uni.GetTranslator(DefaultLocale)
	trans, _ := uni.FindTranslator(candidates(locale)...)
	return &Translator{trans: trans, fallback: fallback}, nil
}

// Locale returns the locale messages are resolved in.
func (t *Translator) Locale() string {
	return t.trans.Locale()
}

// T returns the message for key with {0}, {1}, ... replaced by args.
func (t *Translator) T(key string, args ...string) string {
	if s, err := t.trans.T(key, args...); err == nil {
		return s
	}
	if s, err := t.fallback.T(key, args...); err == nil {
		return s
	}
	return key
}

func candidates(locale string) []string {
	locale = strings.ReplaceAll(strings.TrimSpace(locale), "-", "_")
	if locale == "" {
		return []string{DefaultLocale}
	}
	out := []string{locale, strings.ToLower(locale)}
	if base, _, ok := strings.Cut(locale, "_"); ok {
		out = append(out, strings.ToLower(base))
	}
	return append(out, DefaultLocale)
}

// Catalog hands out translators per locale, building each one once.
type Catalog struct {
	mu    sync.Mutex
	byLoc map[string]*Translator
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{byLoc: make(map[string]*Translator)}
}

// For returns the translator for locale. It falls back to the default
// locale if the translator cannot be built.
func (c *Catalog) For(locale string) *Translator {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.byLoc[locale]; ok {
		return t
	}
	t, err := New(locale)
	if err != nil {
		if t, err = New(DefaultLocale); err != nil {
			panic(err)
		}
	}
	c.byLoc[locale] = t
	return t
}
