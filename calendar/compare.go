package calendar

import (
	"context"
	"sort"
	"sync"
)

// =============================================================================
// MULTI-COUNTRY COMPARISON
// =============================================================================

// CountryHolidayCount pairs a country with its distinct holiday dates for
// the compared year.
type CountryHolidayCount struct {
	Country string
	Count   int
}

// CountryComparison summarizes 2 to 5 countries side by side for one year.
// Counts preserves the caller's country order. SharedDates holds the dates
// observed in more than one country, ascending. Ties for Most and Fewest
// resolve to whichever country appeared first in the input.
type CountryComparison struct {
	Year        int
	Counts      []CountryHolidayCount
	SharedDates []Date
	Most        string
	Fewest      string
}

// CompareCountries fetches every country's holidays for the year
// concurrently and compares them. Unlike the multi-year aggregations, a
// failed country aborts the comparison: an answer missing one of the
// requested countries would be an answer to a different question.
func (bc *BusinessCalendar) CompareCountries(ctx context.Context, countries []string, year int) (*CountryComparison, error) {
	if len(countries) < 2 || len(countries) > 5 {
		return nil, ErrCountryCount
	}
	normalized := make([]string, 0, len(countries))
	seen := make(map[string]bool, len(countries))
	for _, raw := range countries {
		cc, err := NormalizeCountry(raw)
		if err != nil {
			return nil, err
		}
		if seen[cc] {
			continue
		}
		seen[cc] = true
		normalized = append(normalized, cc)
	}
	if len(normalized) < 2 {
		return nil, ErrCountryCount
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		byCountry = make(map[string][]Holiday, len(normalized))
		errs      = make(map[string]error)
	)
	for _, cc := range normalized {
		wg.Add(1)
		go func(cc string) {
			defer wg.Done()
			records, err := bc.source.Holidays(ctx, cc, year)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs[cc] = err
				return
			}
			byCountry[cc] = records
		}(cc)
	}
	wg.Wait()

	// Merge keyed by country so the outcome never depends on arrival order.
	for _, cc := range normalized {
		if err, ok := errs[cc]; ok {
			return nil, err
		}
	}

	cmp := &CountryComparison{Year: year}
	occurrences := make(map[Date]int)
	for _, cc := range normalized {
		set := newHolidaySet(cc)
		set.add(year, byCountry[cc])
		cmp.Counts = append(cmp.Counts, CountryHolidayCount{Country: cc, Count: set.Count()})
		for _, d := range set.Dates() {
			occurrences[d]++
		}
	}

	for d, n := range occurrences {
		if n > 1 {
			cmp.SharedDates = append(cmp.SharedDates, d)
		}
	}
	sort.Slice(cmp.SharedDates, func(i, j int) bool { return cmp.SharedDates[i].Before(cmp.SharedDates[j]) })

	most, fewest := cmp.Counts[0], cmp.Counts[0]
	for _, c := range cmp.Counts[1:] {
		if c.Count > most.Count {
			most = c
		}
		if c.Count < fewest.Count {
			fewest = c
		}
	}
	cmp.Most = most.Country
	cmp.Fewest = fewest.Country
	return cmp, nil
}
