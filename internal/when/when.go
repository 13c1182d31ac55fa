// Package when parses the dates and times given on the command line.
// Exact layouts are tried first; anything else goes through natural
// language parsing ("yesterday", "last friday", "2 hours ago").
package when

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tj/go-naturaldate"
)

var dateLayouts = []string{"2006-01-02", "2006/01/02", "02.01.2006"}

var timeLayouts = []string{"15:04:05", "15:04", "3:04pm", "3pm"}

// Date resolves s to a day relative to now. layout is the configured
// ledger date layout.
func Date(s, layout string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "today") || strings.EqualFold(s, "now") {
		return now, nil
	}
	for _, l := range append([]string{layout}, dateLayouts...) {
		if t, err := time.ParseInLocation(l, s, now.Location()); err == nil {
			return t, nil
		}
	}
	t, err := natural(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// Time resolves s to a time of day on now's date. An empty string or
// "now" means the current time.
func Time(s, layout string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "now") {
		return now, nil
	}
	for _, l := range append([]string{layout}, timeLayouts...) {
		if t, err := time.ParseInLocation(l, strings.ToLower(s), now.Location()); err == nil {
			return onDay(now, t), nil
		}
	}
	t, err := natural(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing time %q: %w", s, err)
	}
	return onDay(now, t), nil
}

var errUnrecognized = errors.New("not a recognized date or time")

// natural parses s as natural language. naturaldate hands back the
// reference time unchanged when s holds no date words, so that result
// counts as a failure; "now" and "today" are handled by the callers.
func natural(s string, now time.Time) (time.Time, error) {
	t, err := naturaldate.Parse(s, now, naturaldate.WithDirection(naturaldate.Past))
	if err != nil {
		return time.Time{}, err
	}
	if t.Equal(now) {
		return time.Time{}, errUnrecognized
	}
	return t, nil
}

func onDay(day, clock time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, day.Location())
}
