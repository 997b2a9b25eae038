package calendar

import (
	"time"
)

// =============================================================================
// DATE - A single calendar day (UTC, no time-of-day)
// =============================================================================

// DateLayout is the canonical wire format for dates.
const DateLayout = "2006-01-02"

// Date identifies one calendar day. It is comparable and safe as a map key.
// Construct via NewDate, DateOf or ParseDate; all three normalize to UTC.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf truncates an instant to its UTC calendar day.
func DateOf(t time.Time) Date {
	u := t.UTC()
	return Date{Year: u.Year(), Month: u.Month(), Day: u.Day()}
}

// Today returns the current UTC day.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses the canonical YYYY-MM-DD form. Malformed or impossible
// dates (2023-02-29, month 13) fail with an InvalidDateError.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, &InvalidDateError{Input: s}
	}
	return DateOf(t), nil
}

// Time returns the UTC midnight instant of the day.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Comparison
func (d Date) Before(other Date) bool        { return d.Time().Before(other.Time()) }
func (d Date) After(other Date) bool         { return d.Time().After(other.Time()) }
func (d Date) Equal(other Date) bool         { return d.Time().Equal(other.Time()) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date { return DateOf(d.Time().AddDate(0, 0, n)) }

// Properties
func (d Date) Weekday() time.Weekday { return d.Time().Weekday() }
func (d Date) IsZero() bool          { return d == Date{} }

func (d Date) String() string {
	return d.Time().Format(DateLayout)
}

// DaysBetween returns the calendar-day difference to minus from.
// Negative when to precedes from.
func DaysBetween(from, to Date) int {
	return int(to.Time().Sub(from.Time()).Hours() / 24)
}
