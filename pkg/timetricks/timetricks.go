package timetricks

import (
	"fmt"
	"time"
)

const (
	dayFormat   = "20060102"
	shortDay    = "01/02"
	clockFormat = "3:04 PM"
)

func SameDay(t time.Time, t2 time.Time) bool {
	return t.Format(dayFormat) == t2.Format(dayFormat)
}

func Today(t time.Time) bool {
	return SameDay(t, time.Now().In(t.Location()))
}

func Tomorrow(t time.Time) bool {
	return Today(t.Add(-24 * time.Hour))
}

// TrimClock returns midnight at the start of t's calendar day.
func TrimClock(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func SetClock(t time.Time, hour, minute time.Duration) time.Time {
	return TrimClock(t).Add(hour*time.Hour + minute*time.Minute)
}

// UniqueDay returns a string representation of t that is unique by the day.
// For instance, two seperate times on the same calendar day return identical
// strings.
func UniqueDay(t time.Time) string {
	return t.Format(dayFormat)
}

// Day names t's calendar day relative to now: "Today", "Tomorrow", a weekday
// within the coming week, or a short date.
func Day(t time.Time) string {
	switch {
	case Today(t):
		return "Today"
	case Tomorrow(t):
		return "Tomorrow"
	case t.After(time.Now()) && t.Before(TrimClock(time.Now()).Add(7*24*time.Hour)):
		return t.Weekday().String()
	default:
		return t.Format(shortDay)
	}
}

// Clock formats the wall clock of t, e.g. "6:42 AM".
func Clock(t time.Time) string {
	if t.IsZero() {
		return "--:--"
	}
	return t.Format(clockFormat)
}

// HourMinute formats a duration as hours and minutes, e.g. "13h 5m".
// Seconds are dropped.
func HourMinute(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign, d = "-", -d
	}
	return fmt.Sprintf("%s%dh %dm", sign, int(d/time.Hour), int(d%time.Hour/time.Minute))
}
