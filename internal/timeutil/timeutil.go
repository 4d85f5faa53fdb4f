// ABOUTME: Time helpers for feed display and filtering
// ABOUTME: Relative "5 minutes ago" phrasing plus period cutoffs for list --since

package timeutil

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	minutesInDay   = 24 * 60
	minutesInMonth = 30 * minutesInDay
	minutesInYear  = 365 * minutesInDay
)

// RelativeTime describes t relative to now, e.g. "5 minutes ago" or
// "in about 2 hours". Thresholds round to the nearest minute the way
// people read a feed, not to exact calendar arithmetic.
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	future := d < 0
	if future {
		d = -d
	}

	phrase := distance(d)
	if future {
		return "in " + phrase
	}
	return phrase + " ago"
}

func distance(d time.Duration) string {
	seconds := d.Seconds()
	minutes := int(math.Round(d.Minutes()))

	switch {
	case seconds < 30:
		return "less than a minute"
	case minutes < 2:
		return "1 minute"
	case minutes < 45:
		return fmt.Sprintf("%d minutes", minutes)
	case minutes < 90:
		return "about 1 hour"
	case minutes < minutesInDay:
		return fmt.Sprintf("about %d hours", int(math.Round(float64(minutes)/60)))
	case minutes < 42*60:
		return "1 day"
	case minutes < minutesInMonth:
		return fmt.Sprintf("%d days", int(math.Round(float64(minutes)/minutesInDay)))
	case minutes < 45*minutesInDay:
		return "about 1 month"
	case minutes < 60*minutesInDay:
		return "about 2 months"
	case minutes < minutesInYear:
		return fmt.Sprintf("%d months", int(math.Round(float64(minutes)/minutesInMonth)))
	}

	years := minutes / minutesInYear
	rest := minutes % minutesInYear
	switch {
	case rest < 3*minutesInMonth:
		return plural("about", years, "year")
	case rest < 9*minutesInMonth:
		return plural("over", years, "year")
	default:
		return plural("almost", years+1, "year")
	}
}

func plural(prefix string, n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%s 1 %s", prefix, unit)
	}
	return fmt.Sprintf("%s %d %ss", prefix, n, unit)
}

// StartOfDay returns midnight (00:00:00) of the day containing now, in now's location.
func StartOfDay(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// StartOfWeek returns midnight of the most recent Sunday.
func StartOfWeek(now time.Time) time.Time {
	today := StartOfDay(now)
	return today.AddDate(0, 0, -int(today.Weekday()))
}

// StartOfMonth returns midnight of the first day of now's month.
func StartOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// ParsePeriod converts a period name to the cutoff where that period starts.
// Supported values: "today", "yesterday", "week", "month".
func ParsePeriod(period string, now time.Time) (time.Time, bool) {
	switch period {
	case "today":
		return StartOfDay(now), true
	case "yesterday":
		return StartOfDay(now).AddDate(0, 0, -1), true
	case "week":
		return StartOfWeek(now), true
	case "month":
		return StartOfMonth(now), true
	default:
		return time.Time{}, false
	}
}

// ErrBadDate is returned by ParseSince for input it cannot interpret.
var ErrBadDate = errors.New("cannot parse date: use today, yesterday, week, month, or YYYY-MM-DD format")

// ParseSince parses a period name, an ISO date, or an RFC3339 timestamp.
func ParseSince(s string, now time.Time) (time.Time, error) {
	if t, ok := ParsePeriod(s, now); ok {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, now.Location()); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, ErrBadDate
}
