package calendar

// =============================================================================
// DATE RANGE - Inclusive [Start, End] span of days
// =============================================================================

// DateRange is an inclusive span of calendar days.
type DateRange struct {
	Start Date
	End   Date
}

// NewDateRange builds a range and rejects End before Start.
func NewDateRange(start, end Date) (DateRange, error) {
	if end.Before(start) {
		return DateRange{}, &InvalidRangeError{Start: start, End: end}
	}
	return DateRange{Start: start, End: end}, nil
}

// Contains reports whether d lies within the range, bounds included.
func (r DateRange) Contains(d Date) bool {
	return d.AfterOrEqual(r.Start) && d.BeforeOrEqual(r.End)
}

// TotalDays returns the inclusive day count. A single-day range is 1.
func (r DateRange) TotalDays() int {
	return DaysBetween(r.Start, r.End) + 1
}

// Days returns every day in the range in ascending order.
func (r DateRange) Days() []Date {
	days := make([]Date, 0, r.TotalDays())
	for d := r.Start; d.BeforeOrEqual(r.End); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// Years returns each calendar year the range touches, ascending.
func (r DateRange) Years() []int {
	years := make([]int, 0, r.End.Year-r.Start.Year+1)
	for y := r.Start.Year; y <= r.End.Year; y++ {
		years = append(years, y)
	}
	return years
}

func (r DateRange) String() string {
	return r.Start.String() + ".." + r.End.String()
}
