// Package datefmt formats note timestamps for the list, switching to a
// relative phrase ("2 days ago") for recent dates.
package datefmt

import (
	"fmt"
	"strings"
	"time"

	"github.com/nleeper/goment"
)

// NeverHumanize disables relative phrases.
const NeverHumanize = -1

const day = 24 * time.Hour

// Options holds the patterns and humanize window used for formatting.
type Options struct {
	// DatePattern and TimePattern use moment.js tokens ("DD/MM/YYYY", "h:mm A").
	DatePattern  string
	TimePattern  string
	HumanizeDays int
	Location     *time.Location
	// Locale selects month names and relative phrases. Unknown locales fall
	// back to English.
	Locale string
}

// Format renders ts with the date and time patterns, or as a relative phrase
// when ts lies within HumanizeDays of now. Dates in the future always fall
// inside the window unless humanizing is disabled.
func Format(ts, now time.Time, opts Options) (string, error) {
	if opts.HumanizeDays >= 0 && DayDiff(ts, now) <= opts.HumanizeDays {
		return Humanize(ts, now, opts.Locale)
	}

	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	g, err := moment(ts.In(loc), opts.Locale)
	if err != nil {
		return "", err
	}
	return g.Format(opts.DatePattern) + " " + g.Format(opts.TimePattern), nil
}

// DayDiff returns now minus ts in whole days, truncated toward zero.
func DayDiff(ts, now time.Time) int {
	return int(now.Sub(ts) / day)
}

// Humanize describes ts relative to now the way moment's fromNow does,
// e.g. "2 days ago" or "in 3 hours".
func Humanize(ts, now time.Time, locale string) (string, error) {
	g, err := moment(ts, locale)
	if err != nil {
		return "", err
	}
	return g.From(now), nil
}

func moment(t time.Time, locale string) (*goment.Goment, error) {
	g, err := goment.New(t)
	if err != nil {
		return nil, fmt.Errorf("datefmt: %w", err)
	}
	if lang := language(locale); lang != "" {
		g.SetLocale(lang)
	}
	return g, nil
}

// language reduces "de_DE" or "en-US" to the bare language code.
func language(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(locale, "_-"); i >= 0 {
		locale = locale[:i]
	}
	return locale
}
