package models

import "time"

// Wall-clock formats used across the engine. Dates and times are stored as
// doctor-local strings; both layouts are fixed width, so lexicographic
// comparison is chronological comparison.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ValidDate reports whether s is a well-formed YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ValidTime reports whether s is a well-formed HH:MM time.
func ValidTime(s string) bool {
	_, err := time.Parse(TimeLayout, s)
	return err == nil
}

// DateInRange reports whether date falls inside [start, end], inclusive.
func DateInRange(date, start, end string) bool {
	return date >= start && date <= end
}
