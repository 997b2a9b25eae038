package calendar

import (
	"context"
	"sort"
)

// =============================================================================
// HOLIDAY RECORDS + SOURCES
// =============================================================================

// Holiday is one public-holiday row as reported by a source.
type Holiday struct {
	Date      Date
	Name      string   // English name, e.g. "Independence Day"
	LocalName string   // Name in the country's own language
	National  bool     // Observed nationwide rather than regionally
	Types     []string // Source classification, e.g. ["Public"]
}

// HolidaySource fetches the public holidays of one country for one year.
// Country codes are already normalized (two uppercase letters) by the time
// they reach a source. A failed fetch is a *ProviderError.
type HolidaySource interface {
	Holidays(ctx context.Context, country string, year int) ([]Holiday, error)
}

// =============================================================================
// HOLIDAY SET - Per-request materialized lookup
// =============================================================================

// HolidaySet holds one country's holidays over a set of years, deduplicated
// by date. Sets are built per operation and never shared across requests.
type HolidaySet struct {
	Country string

	byDate  map[Date]Holiday
	covered map[int]bool // years attempted, whether or not data arrived
	missing map[int]bool // attempted years whose fetch failed
}

func newHolidaySet(country string) *HolidaySet {
	return &HolidaySet{
		Country: country,
		byDate:  make(map[Date]Holiday),
		covered: make(map[int]bool),
		missing: make(map[int]bool),
	}
}

// add merges one year's records. The first record wins when two share a date.
func (hs *HolidaySet) add(year int, records []Holiday) {
	hs.covered[year] = true
	for _, h := range records {
		if _, dup := hs.byDate[h.Date]; dup {
			continue
		}
		hs.byDate[h.Date] = h
	}
}

// markMissing records a year whose fetch failed. The year still counts as
// covered so walks do not refetch it; it simply contributes no holidays.
func (hs *HolidaySet) markMissing(year int) {
	hs.covered[year] = true
	hs.missing[year] = true
}

// Contains reports whether d is a holiday date.
func (hs *HolidaySet) Contains(d Date) bool {
	_, ok := hs.byDate[d]
	return ok
}

// Lookup returns the record on d, if any.
func (hs *HolidaySet) Lookup(d Date) (Holiday, bool) {
	h, ok := hs.byDate[d]
	return h, ok
}

// Covers reports whether year has been attempted.
func (hs *HolidaySet) Covers(year int) bool {
	return hs.covered[year]
}

// Count returns the number of distinct holiday dates.
func (hs *HolidaySet) Count() int {
	return len(hs.byDate)
}

// Dates returns every holiday date in ascending order.
func (hs *HolidaySet) Dates() []Date {
	dates := make([]Date, 0, len(hs.byDate))
	for d := range hs.byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Sorted returns every record in ascending date order.
func (hs *HolidaySet) Sorted() []Holiday {
	out := make([]Holiday, 0, len(hs.byDate))
	for _, d := range hs.Dates() {
		out = append(out, hs.byDate[d])
	}
	return out
}

// MissingYears returns the attempted years whose fetch failed, ascending.
// Empty means every requested year produced data.
func (hs *HolidaySet) MissingYears() []int {
	if len(hs.missing) == 0 {
		return nil
	}
	years := make([]int, 0, len(hs.missing))
	for y := range hs.missing {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
