package match

import (
	"math"
	"regexp"
	"strings"
	"time"
)

var dateNoise = regexp.MustCompile(`[^A-Za-z0-9\s\-/,]`)

// dateLayouts are tried in order against the cleaned input. Single-digit
// day/month variants are listed alongside the zero-padded ones because
// feeds are inconsistent about padding.
var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// genericLayouts are the last-resort shapes attempted when none of the
// documented patterns apply.
var genericLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"January 2 2006",
	"2 January, 2006",
}

// ParseDate parses a deadline-ish free-text date into a calendar date.
// It strips characters outside [A-Za-z0-9\s\-/,] first and never panics
// or errors: an unparseable input reports ok=false.
func ParseDate(text string) (time.Time, bool) {
	cleaned := strings.TrimSpace(dateNoise.ReplaceAllString(text, ""))
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if cleaned == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return midnightUTC(t), true
		}
	}

	// Last resort: generic shapes against the raw input, since timestamp
	// separators are part of the noise the cleanup pass removes.
	raw := strings.TrimSpace(text)
	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return midnightUTC(t), true
		}
	}

	return time.Time{}, false
}

// ParseDateISO is ParseDate rendered to the canonical YYYY-MM-DD form,
// returning "" when the input does not yield a valid calendar date.
func ParseDateISO(text string) string {
	t, ok := ParseDate(text)
	if !ok {
		return ""
	}
	return t.Format("2006-01-02")
}

// IsDeadlineValid reports whether the deadline is on or after the current
// date truncated to midnight, i.e. today still counts as valid. An
// unparseable deadline is invalid.
func IsDeadlineValid(deadline string, now time.Time) bool {
	t, ok := ParseDate(deadline)
	if !ok {
		return false
	}
	return !t.Before(midnightUTC(now))
}

// DaysUntilDeadline is the ceiling of (deadline - today) in whole days.
// Same-day deadlines yield 0 and past deadlines are negative. Callers
// must check the deadline parses before relying on the result; 0 is
// returned for unparseable input.
func DaysUntilDeadline(deadline string, now time.Time) int {
	t, ok := ParseDate(deadline)
	if !ok {
		return 0
	}
	diff := t.Sub(midnightUTC(now))
	return int(math.Ceil(diff.Hours() / 24))
}

func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
