package calendar

import (
	"time"
)

// =============================================================================
// DATE MATH - Pure calendar computations
// =============================================================================

// ISOWeek returns the ISO-8601 week number of d (1..53). The week containing
// d's Thursday decides which ISO year the week belongs to, so early January
// can land in week 52 or 53 of the previous ISO year.
func ISOWeek(d Date) int {
	_, week := d.Time().ISOWeek()
	return week
}

// ISOWeekYear returns both the ISO-8601 year and week of d. Near year
// boundaries the ISO year differs from the calendar year: 2021-01-01 is
// week 53 of ISO year 2020.
func ISOWeekYear(d Date) (year, week int) {
	return d.Time().ISOWeek()
}

// DayOfYear returns the ordinal day within d's year, 1..365, or up to 366
// in leap years.
func DayOfYear(d Date) int {
	return d.Time().YearDay()
}

// Quarter returns the calendar quarter of d, 1..4.
func Quarter(d Date) int {
	return (int(d.Month) + 2) / 3
}

// IsWeekend reports whether d falls on Saturday or Sunday. The weekend
// definition is fixed, not locale-dependent.
func IsWeekend(d Date) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsLeapYear reports whether year is a Gregorian leap year: divisible by 4
// and either not divisible by 100 or divisible by 400.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// WeekBounds returns the Monday and Sunday of the ISO week containing d.
func WeekBounds(d Date) (monday, sunday Date) {
	offset := int(d.Weekday())
	if offset == 0 {
		// Sunday closes the ISO week rather than opening it
		offset = 7
	}
	monday = d.AddDays(1 - offset)
	sunday = monday.AddDays(6)
	return monday, sunday
}
