package models

import (
	"fmt"
	"time"
)

// DateLayout is the wire format of pickup and delivery dates
const DateLayout = "2006-01-02"

// TimeRanges are the fixed pickup/delivery slots offered to customers
var TimeRanges = []string{
	"09:00 - 10:00",
	"10:00 - 11:30",
	"11:30 - 13:00",
	"13:00 - 14:30",
	"14:30 - 16:00",
	"16:00 - 17:30",
	"17:30 - 19:00",
}

// ValidTimeRange reports whether r is one of the offered slots
func ValidTimeRange(r string) bool {
	for _, tr := range TimeRanges {
		if tr == r {
			return true
		}
	}
	return false
}

// FormatDate renders t as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD date, also accepting full timestamps the API may return
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// NextDay shifts a YYYY-MM-DD date forward by days
func NextDay(date string, days int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, days)), nil
}

// PreviousDay shifts a YYYY-MM-DD date back by days
func PreviousDay(date string, days int) (string, error) {
	return NextDay(date, -days)
}
