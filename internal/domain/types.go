// Package domain holds the immutable value types shared by the phase
// builder, driver, diagnostics, and analyzer packages.
package domain

import "strings"

// CourseID identifies a course for the duration of a scheduling run.
type CourseID string

// InstructorID identifies an instructor.
type InstructorID string

// StudentID identifies a student.
type StudentID string

// SlotID is a wire-format timeslot label: "<Day> <time-range>", e.g.
// "Monday 9am-10am". Day() extracts the leading whitespace-delimited token.
type SlotID string

// Day returns the weekday token leading the slot label.
func (s SlotID) Day() string {
	parts := strings.Fields(string(s))
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// CourseType classifies a course for the required-pair soft constraint.
type CourseType string

const (
	Required CourseType = "Required"
	Elective CourseType = "Elective"
	Unknown  CourseType = "Unknown"
)

// Weekday is the canonical Mon..Sun ordering used by the no-consecutive-days
// constraint and the day-availability diagnostics.
var Weekday = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// weekdayIndex maps a day token to its 0-based position in Weekday, or -1.
func weekdayIndex(day string) int {
	for i, d := range Weekday {
		if d == day {
			return i
		}
	}
	return -1
}

// ConsecutivePairs returns the adjacent (day1, day2) pairs present in
// availableDays, in canonical order, for the subset of days actually in use.
func ConsecutivePairs(availableDays map[string]bool) [][2]string {
	var ordered []string
	for _, d := range Weekday {
		if availableDays[d] {
			ordered = append(ordered, d)
		}
	}
	var pairs [][2]string
	for i := 0; i < len(ordered)-1; i++ {
		d1idx := weekdayIndex(ordered[i])
		d2idx := weekdayIndex(ordered[i+1])
		if d2idx == d1idx+1 {
			pairs = append(pairs, [2]string{ordered[i], ordered[i+1]})
		}
	}
	return pairs
}
