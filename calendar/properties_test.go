package calendar_test

import (
	"testing"
	"time"

	"github.com/daymark/calendar-agent/calendar"
)

// Invariant sweeps over long stretches of days. These complement the
// fixture tables in datemath_test.go: instead of checking known answers,
// they check the relationships that must hold for every date.

func TestDayOfYearStaysInBounds(t *testing.T) {
	for _, year := range []int{2023, 2024} {
		d := calendar.NewDate(year, time.January, 1)
		for d.Year == year {
			doy := calendar.DayOfYear(d)
			if doy < 1 || doy > 366 {
				t.Fatalf("DayOfYear(%s) = %d, out of [1, 366]", d, doy)
			}
			if doy == 366 && !calendar.IsLeapYear(year) {
				t.Fatalf("DayOfYear(%s) = 366 in non-leap year %d", d, year)
			}
			d = d.AddDays(1)
		}
	}
}

func TestWeekBoundsInvariants(t *testing.T) {
	// Sweep across two year boundaries, which is where week math breaks
	// first if it is going to break.
	d := calendar.NewDate(2020, time.December, 1)
	for i := 0; i < 600; i++ {
		monday, sunday := calendar.WeekBounds(d)

		if monday.Weekday() != time.Monday {
			t.Fatalf("WeekBounds(%s): monday is a %s", d, monday.Weekday())
		}
		if sunday.Weekday() != time.Sunday {
			t.Fatalf("WeekBounds(%s): sunday is a %s", d, sunday.Weekday())
		}
		if calendar.DaysBetween(monday, sunday) != 6 {
			t.Fatalf("WeekBounds(%s): %s..%s is not a 7-day week", d, monday, sunday)
		}
		if d.Before(monday) || d.After(sunday) {
			t.Fatalf("WeekBounds(%s): %s..%s does not contain the date", d, monday, sunday)
		}

		d = d.AddDays(1)
	}
}

func TestAddDaysRoundTrip(t *testing.T) {
	bases := []calendar.Date{
		calendar.NewDate(2024, time.February, 29),
		calendar.NewDate(2024, time.December, 31),
		calendar.NewDate(2021, time.January, 1),
		calendar.NewDate(2000, time.June, 15),
	}

	for _, base := range bases {
		for n := -800; n <= 800; n += 37 {
			got := base.AddDays(n).AddDays(-n)
			if got != base {
				t.Fatalf("AddDays round trip broke: %s + %d - %d = %s", base, n, n, got)
			}
		}
	}
}

func TestWeekendAlternation(t *testing.T) {
	// Exactly two weekend days in every consecutive run of seven.
	d := calendar.NewDate(2024, time.January, 1)
	for i := 0; i < 52; i++ {
		weekendDays := 0
		for j := 0; j < 7; j++ {
			if calendar.IsWeekend(d.AddDays(j)) {
				weekendDays++
			}
		}
		if weekendDays != 2 {
			t.Fatalf("week starting %s has %d weekend days", d, weekendDays)
		}
		d = d.AddDays(7)
	}
}
