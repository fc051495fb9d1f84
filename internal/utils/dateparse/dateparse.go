// Package dateparse normalises the date strings found in bank statement exports.
//
// Parsing is best-effort. Purely numeric day/month inputs such as 03/04/2025 are
// inherently ambiguous; they are read as month-first unless the first component
// cannot be a month (> 12) or the caller supplies a day-first locale hint.
package dateparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Locale is a hint for resolving numeric day/month order.
type Locale string

const (
	// LocaleAuto applies the month-first default with the day > 12 fallback.
	LocaleAuto Locale = ""
	// LocaleUS prefers MM/DD.
	LocaleUS Locale = "US"
	// LocaleEU prefers DD/MM.
	LocaleEU Locale = "EU"
)

// ParseLocale maps user input to a Locale. Unknown values fall back to LocaleAuto.
func ParseLocale(s string) Locale {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "US", "MDY", "EN-US":
		return LocaleUS
	case "EU", "DMY", "UK", "EN-GB":
		return LocaleEU
	default:
		return LocaleAuto
	}
}

// unambiguousLayouts are tried in order before the numeric day/month heuristic.
var unambiguousLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"2006.01.02",
	"20060102",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// textualLayouts carry a month name and so never need disambiguation.
var textualLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"January 2 2006",
	"2 Jan 2006",
	"2 January 2006",
	"02-Jan-2006",
	"2-Jan-06",
	"02-Jan-06",
	"Jan-02-2006",
	"Mon, Jan 2, 2006",
	"Monday, January 2, 2006",
	"Mon, 02 Jan 2006",
}

// numericDMY matches d/m/y style dates with '/', '-' or '.' separators and 2 or 4 digit years.
var numericDMY = regexp.MustCompile(`^(\d{1,2})([/\-.])(\d{1,2})([/\-.])(\d{2}|\d{4})$`)

// Parse returns the calendar date (UTC midnight) for text, or false when no pattern fits.
func Parse(text string, locale Locale) (time.Time, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range unambiguousLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), true
		}
	}

	if m := numericDMY.FindStringSubmatch(s); m != nil && m[2] == m[4] {
		return parseNumeric(m[1], m[3], m[5], locale)
	}

	// Month names are matched case-insensitively by normalising to title case.
	titled := titleMonth(s)
	for _, layout := range textualLayouts {
		if t, err := time.Parse(layout, titled); err == nil {
			return dateOnly(t), true
		}
	}

	return time.Time{}, false
}

// MustParse is Parse for fixtures; it panics when text is not a date.
func MustParse(text string) time.Time {
	t, ok := Parse(text, LocaleAuto)
	if !ok {
		panic("dateparse: cannot parse " + strconv.Quote(text))
	}
	return t
}

func parseNumeric(first, second, year string, locale Locale) (time.Time, bool) {
	a, _ := strconv.Atoi(first)
	b, _ := strconv.Atoi(second)
	y, _ := strconv.Atoi(year)
	if len(year) == 2 {
		// Same pivot as the time package: 69-99 => 1900s, 00-68 => 2000s.
		if y >= 69 {
			y += 1900
		} else {
			y += 2000
		}
	}

	month, day := a, b
	switch {
	case locale == LocaleEU && b <= 12:
		month, day = b, a
	case a > 12:
		month, day = b, a
	}

	return buildDate(y, month, day)
}

func buildDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalises overflow (Feb 30 -> Mar 2); reject instead.
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// titleMonth lower-cases s and upper-cases the first letter of each alphabetic run, so
// "JAN 5, 2025" and "jan 5, 2025" both match the "Jan" layouts.
func titleMonth(s string) string {
	b := []byte(strings.ToLower(s))
	start := true
	for i, c := range b {
		isLetter := c >= 'a' && c <= 'z'
		if isLetter && start {
			b[i] = c - 'a' + 'A'
		}
		start = !isLetter
	}
	return string(b)
}

// DaysBetween returns the absolute number of calendar days between two dates.
func DaysBetween(a, b time.Time) int {
	d := dateOnly(a).Sub(dateOnly(b)).Hours() / 24
	if d < 0 {
		d = -d
	}
	return int(d + 0.5)
}
