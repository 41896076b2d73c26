package pages

import (
	"strconv"
	"time"
)

// DayLabel is the accessible name of t's cell in the date picker.
func DayLabel(t time.Time) string {
	return strconv.Itoa(t.Day())
}

// StayDays returns the picker labels for a one-night stay starting on now.
func StayDays(now time.Time) (checkIn, checkOut string) {
	return DayLabel(now), DayLabel(now.AddDate(0, 0, 1))
}

// MonthYear is the heading the date picker shows for t's month, e.g. "October 2026".
func MonthYear(t time.Time) string {
	return t.Format("January 2006")
}
