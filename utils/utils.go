package utils

import (
	"strings"
	"time"
)

// layouts accepted for calendar dates, tried in order
var dateLayouts = []string{
	time.DateOnly,
	"2006/01/02",
	"02-01-2006",
	"02/01/2006",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ParseDate parses s as a calendar date and drops any time of day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var (
		t   time.Time
		err error
	)
	for _, layout := range dateLayouts {
		t, err = time.Parse(layout, s)
		if err == nil {
			return TruncateDay(t), nil
		}
	}
	return time.Time{}, err
}

// TruncateDay maps t to midnight UTC of its own calendar day.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

func DayCntBetween(t1, t2 time.Time) int64 {
	if t1.Before(t2) {
		t1, t2 = t2, t1
	}
	return int64(TruncateDay(t1).Sub(TruncateDay(t2)) / (24 * time.Hour))
}
