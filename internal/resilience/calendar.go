package resilience

import (
	"time"

	"outage-resilience/internal/model"
)

const (
	monthsPerYear = 12
	hoursPerDay   = 24
)

// calendarStart labels index 0. Series are treated as one non-leap year in local
// clock time; no timezone or DST adjustment is applied.
var calendarStart = time.Date(2017, time.January, 1, 0, 0, 0, 0, time.UTC)

var daysInMonth = [monthsPerYear]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// monthStartHour[m] is the first hour-of-year belonging to month m+1.
var monthStartHour = func() [monthsPerYear + 1]int {
	var out [monthsPerYear + 1]int
	for m, days := range daysInMonth {
		out[m+1] = out[m] + days*hoursPerDay
	}
	return out
}()

// MonthOfIndex returns the calendar month (1-12) of series index t.
// Indices past one year wrap onto the same calendar.
func MonthOfIndex(t int) int {
	h := t % model.HoursPerYear
	for m := 1; m <= monthsPerYear; m++ {
		if h < monthStartHour[m] {
			return m
		}
	}
	return monthsPerYear
}

// HourOfDay returns the hour-of-day (0-23) of series index t.
func HourOfDay(t int) int {
	return t % hoursPerDay
}

// TimestampOfIndex labels series index t on the reference calendar.
func TimestampOfIndex(t int) time.Time {
	return calendarStart.Add(time.Duration(t%model.HoursPerYear) * time.Hour)
}
