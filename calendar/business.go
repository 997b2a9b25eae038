/*
business.go - Business-day arithmetic over fetched holiday data

PURPOSE:
  BusinessCalendar answers the calendar questions the API exposes: which
  holidays fall in a year, is a date a working day, how many working days
  in a range, what date is N business days out, when is the next holiday.
  It combines the fixed weekend rule (Saturday/Sunday) with holidays
  fetched per request from an injected HolidaySource.

DATA LIFECYCLE:
  Every operation materializes a fresh HolidaySet for exactly the years it
  needs, fetching years concurrently. Nothing is cached between requests.

FAILURE POLICY:
  - Single-year lookups (IsBusinessDay, HolidayOn) propagate fetch errors.
  - Operations that accumulate a multi-year set (Tally, AddBusinessDays,
    NextHoliday) tolerate a failed year: it contributes no holidays and is
    reported in MissingYears. Only all-years-failed is an error.

SEE ALSO:
  - holiday.go: HolidaySet and the HolidaySource interface
  - compare.go: Multi-country comparison on the same fetch machinery
  - datemath.go: The pure weekend/week/quarter math
*/
package calendar

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// walkHorizonYears is how many years of holidays a business-day walk
// prefetches. The walk still extends the set year-by-year if it runs past
// the prefetched horizon, so the value only tunes fetch batching.
const walkHorizonYears = 3

// BusinessCalendar computes business-day facts for a country. The source is
// an injected collaborator; the calendar holds no state between calls and is
// safe for concurrent use.
type BusinessCalendar struct {
	source HolidaySource
	logger *zap.Logger
}

// NewBusinessCalendar wires a calendar to its holiday source.
func NewBusinessCalendar(source HolidaySource, logger *zap.Logger) *BusinessCalendar {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BusinessCalendar{source: source, logger: logger}
}

// =============================================================================
// SINGLE-DATE LOOKUPS - Provider errors propagate
// =============================================================================

// IsBusinessDay reports whether d is neither a weekend day nor a holiday in
// the given country.
func (bc *BusinessCalendar) IsBusinessDay(ctx context.Context, d Date, country string) (bool, error) {
	cc, err := NormalizeCountry(country)
	if err != nil {
		return false, err
	}
	if IsWeekend(d) {
		return false, nil
	}
	set, err := bc.loadSet(ctx, cc, []int{d.Year}, false)
	if err != nil {
		return false, err
	}
	return !set.Contains(d), nil
}

// HolidayOn returns the holiday record falling on d, or nil when d is not a
// holiday in the given country.
func (bc *BusinessCalendar) HolidayOn(ctx context.Context, d Date, country string) (*Holiday, error) {
	cc, err := NormalizeCountry(country)
	if err != nil {
		return nil, err
	}
	set, err := bc.loadSet(ctx, cc, []int{d.Year}, false)
	if err != nil {
		return nil, err
	}
	if h, ok := set.Lookup(d); ok {
		return &h, nil
	}
	return nil, nil
}

// =============================================================================
// YEAR LISTING
// =============================================================================

// HolidaysForYear returns the country's holidays for one year, sorted by
// date. A single year is all the caller asked for, so fetch errors propagate.
func (bc *BusinessCalendar) HolidaysForYear(ctx context.Context, country string, year int) ([]Holiday, error) {
	cc, err := NormalizeCountry(country)
	if err != nil {
		return nil, err
	}
	set, err := bc.loadSet(ctx, cc, []int{year}, false)
	if err != nil {
		return nil, err
	}
	return set.Sorted(), nil
}

// =============================================================================
// RANGE TALLY
// =============================================================================

// BusinessDayTally is the day-type breakdown of an inclusive range.
// TotalDays always equals BusinessDays + WeekendDays + HolidayDays: a
// holiday falling on a weekend counts as a weekend day only.
type BusinessDayTally struct {
	Range        DateRange
	Country      string
	TotalDays    int
	BusinessDays int
	WeekendDays  int
	HolidayDays  int
	MissingYears []int
}

// Tally classifies every day in r as business, weekend or holiday.
func (bc *BusinessCalendar) Tally(ctx context.Context, r DateRange, country string) (*BusinessDayTally, error) {
	cc, err := NormalizeCountry(country)
	if err != nil {
		return nil, err
	}
	if r.End.Before(r.Start) {
		return nil, &InvalidRangeError{Start: r.Start, End: r.End}
	}
	set, err := bc.loadSet(ctx, cc, r.Years(), true)
	if err != nil {
		return nil, err
	}

	tally := &BusinessDayTally{Range: r, Country: cc, MissingYears: set.MissingYears()}
	for d := r.Start; d.BeforeOrEqual(r.End); d = d.AddDays(1) {
		tally.TotalDays++
		switch {
		case IsWeekend(d):
			tally.WeekendDays++
		case set.Contains(d):
			tally.HolidayDays++
		default:
			tally.BusinessDays++
		}
	}
	return tally, nil
}

// =============================================================================
// BUSINESS-DAY WALK
// =============================================================================

// BusinessDayWalk is the outcome of AddBusinessDays.
type BusinessDayWalk struct {
	Start        Date
	Country      string
	BusinessDays int
	Result       Date
	CalendarDays int // calendar days traversed from Start to Result
	MissingYears []int
}

// AddBusinessDays walks forward from start one calendar day at a time until
// it has passed n business days, and returns the date of the n-th one. The
// start date itself never counts, whatever kind of day it is. n must be at
// least 1. The walk prefetches a three-year holiday horizon and extends it
// year-by-year if the walk outruns it.
func (bc *BusinessCalendar) AddBusinessDays(ctx context.Context, start Date, n int, country string) (*BusinessDayWalk, error) {
	cc, err := NormalizeCountry(country)
	if err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, ErrNonPositiveDays
	}
	set, err := bc.loadSet(ctx, cc, yearSpan(start.Year, walkHorizonYears), true)
	if err != nil {
		return nil, err
	}

	d := start
	counted := 0
	traversed := 0
	for counted < n {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d = d.AddDays(1)
		traversed++
		if !set.Covers(d.Year) {
			bc.extendSet(ctx, set, d.Year)
		}
		if !IsWeekend(d) && !set.Contains(d) {
			counted++
		}
	}
	return &BusinessDayWalk{
		Start:        start,
		Country:      cc,
		BusinessDays: n,
		Result:       d,
		CalendarDays: traversed,
		MissingYears: set.MissingYears(),
	}, nil
}

// =============================================================================
// NEXT HOLIDAY
// =============================================================================

// NextHolidayResult reports the earliest holiday strictly after From within
// the two-year scan horizon. Found is false when the horizon holds none.
type NextHolidayResult struct {
	Country      string
	From         Date
	Found        bool
	Holiday      Holiday
	DaysUntil    int // calendar days from From to the holiday
	MissingYears []int
}

// NextHoliday scans the holidays of from's year and the following year and
// returns the first one strictly after from.
func (bc *BusinessCalendar) NextHoliday(ctx context.Context, from Date, country string) (*NextHolidayResult, error) {
	cc, err := NormalizeCountry(country)
	if err != nil {
		return nil, err
	}
	set, err := bc.loadSet(ctx, cc, []int{from.Year, from.Year + 1}, true)
	if err != nil {
		return nil, err
	}

	result := &NextHolidayResult{Country: cc, From: from, MissingYears: set.MissingYears()}
	for _, h := range set.Sorted() {
		if h.Date.After(from) {
			result.Found = true
			result.Holiday = h
			result.DaysUntil = DaysBetween(from, h.Date)
			break
		}
	}
	return result, nil
}

// =============================================================================
// SET LOADING - Concurrent per-year fetches, merged by year
// =============================================================================

// loadSet fetches the given years concurrently and merges them into one set.
// Results merge keyed by year, never by arrival order. In tolerant mode a
// failed year is recorded as missing instead of failing the load; when every
// year fails there is no data to degrade onto, so the first year's error is
// returned.
func (bc *BusinessCalendar) loadSet(ctx context.Context, country string, years []int, tolerant bool) (*HolidaySet, error) {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		byYear = make(map[int][]Holiday, len(years))
		errs   = make(map[int]error)
	)
	for _, year := range years {
		wg.Add(1)
		go func(year int) {
			defer wg.Done()
			records, err := bc.source.Holidays(ctx, country, year)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs[year] = err
				return
			}
			byYear[year] = records
		}(year)
	}
	wg.Wait()

	if len(errs) > 0 && (!tolerant || len(errs) == len(years)) {
		return nil, firstYearError(years, errs)
	}

	set := newHolidaySet(country)
	for _, year := range years {
		if records, ok := byYear[year]; ok {
			set.add(year, records)
			continue
		}
		bc.logger.Warn("holiday fetch failed, treating year as empty",
			zap.String("country", country),
			zap.Int("year", year),
			zap.Error(errs[year]))
		set.markMissing(year)
	}
	return set, nil
}

// extendSet pulls one more year into an existing set. Walk extension is an
// aggregation, so a failure degrades to an empty year rather than erroring.
func (bc *BusinessCalendar) extendSet(ctx context.Context, set *HolidaySet, year int) {
	records, err := bc.source.Holidays(ctx, set.Country, year)
	if err != nil {
		bc.logger.Warn("holiday fetch failed, treating year as empty",
			zap.String("country", set.Country),
			zap.Int("year", year),
			zap.Error(err))
		set.markMissing(year)
		return
	}
	set.add(year, records)
}

// firstYearError picks the earliest requested year's error so failures are
// deterministic regardless of goroutine completion order.
func firstYearError(years []int, errs map[int]error) error {
	for _, y := range years {
		if err, ok := errs[y]; ok {
			return err
		}
	}
	return nil
}

// yearSpan returns count consecutive years starting at from.
func yearSpan(from, count int) []int {
	years := make([]int, count)
	for i := range years {
		years[i] = from + i
	}
	return years
}
