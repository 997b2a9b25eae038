package calendar

import (
	"context"
	"sync"
)

// =============================================================================
// STATIC SOURCE - In-memory implementation (for testing/dev and custom
// company calendars that never change at runtime)
// =============================================================================

// StaticSource serves holidays from an in-memory table. It satisfies
// HolidaySource and is safe for concurrent use.
type StaticSource struct {
	mu       sync.RWMutex
	holidays map[sourceKey][]Holiday
}

type sourceKey struct {
	Country string
	Year    int
}

func NewStaticSource() *StaticSource {
	return &StaticSource{
		holidays: make(map[sourceKey][]Holiday),
	}
}

// Put replaces the holidays for one country-year.
func (s *StaticSource) Put(country string, year int, records []Holiday) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := sourceKey{Country: country, Year: year}
	s.holidays[k] = append([]Holiday{}, records...)
}

// Add appends a single holiday under its own date's year.
func (s *StaticSource) Add(country string, h Holiday) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := sourceKey{Country: country, Year: h.Date.Year}
	s.holidays[k] = append(s.holidays[k], h)
}

// Holidays returns a copy of the stored records. A country-year that was
// never stored is simply empty, never an error: a static table has no
// notion of an unsupported country.
func (s *StaticSource) Holidays(_ context.Context, country string, year int) ([]Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	k := sourceKey{Country: country, Year: year}
	result := make([]Holiday, len(s.holidays[k]))
	copy(result, s.holidays[k])
	return result, nil
}
