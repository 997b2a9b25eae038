// Package rules serves public holidays computed from statutory rule
// definitions, with no network dependency.
package rules

import (
	"context"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/au"
	"github.com/rickar/cal/v2/be"
	"github.com/rickar/cal/v2/ca"
	"github.com/rickar/cal/v2/de"
	"github.com/rickar/cal/v2/es"
	"github.com/rickar/cal/v2/fr"
	"github.com/rickar/cal/v2/gb"
	"github.com/rickar/cal/v2/ie"
	"github.com/rickar/cal/v2/it"
	"github.com/rickar/cal/v2/nl"
	"github.com/rickar/cal/v2/us"
	"go.uber.org/zap"

	"github.com/daymark/calendar-agent/calendar"
)

// Source computes holidays from embedded statutory rules. It covers a fixed
// set of countries; lookups outside that set fail as unsupported.
type Source struct {
	calendars map[string]*cal.BusinessCalendar
	logger    *zap.Logger
}

// NewSource builds the rule registry for every supported country.
func NewSource(logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Source{
		calendars: make(map[string]*cal.BusinessCalendar),
		logger:    logger,
	}
	s.calendars["AU"] = newCalendar(au.HolidaysNSW...)
	s.calendars["BE"] = newCalendar(be.Holidays...)
	s.calendars["CA"] = newCalendar(ca.Holidays...)
	s.calendars["DE"] = newCalendar(de.Holidays...)
	s.calendars["ES"] = newCalendar(es.Holidays...)
	s.calendars["FR"] = newCalendar(fr.Holidays...)
	s.calendars["GB"] = newCalendar(gb.Holidays...)
	s.calendars["IE"] = newCalendar(ie.Holidays...)
	s.calendars["IT"] = newCalendar(it.Holidays...)
	s.calendars["NL"] = newCalendar(nl.Holidays...)
	s.calendars["US"] = newCalendar(us.Holidays...)
	return s
}

func newCalendar(holidays ...*cal.Holiday) *cal.BusinessCalendar {
	c := cal.NewBusinessCalendar()
	c.AddHoliday(holidays...)
	c.Cacheable = true
	return c
}

// Holidays walks every day of the year and collects the dates on which a
// rule actually falls. Observed substitutes (a Monday off for a Sunday
// holiday) are not separate records.
func (s *Source) Holidays(_ context.Context, country string, year int) ([]calendar.Holiday, error) {
	code := strings.ToUpper(country)
	c, ok := s.calendars[code]
	if !ok {
		return nil, calendar.NewUnsupportedCountryError(code, year)
	}

	var out []calendar.Holiday
	for t := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC); t.Year() == year; t = t.AddDate(0, 0, 1) {
		actual, _, h := c.IsHoliday(t)
		if !actual || h == nil {
			continue
		}
		out = append(out, calendar.Holiday{
			Date:      calendar.DateOf(t),
			Name:      h.Name,
			LocalName: h.Name,
			National:  true,
			Types:     []string{"Public"},
		})
	}

	s.logger.Debug("computed rule-based holidays",
		zap.String("country", code),
		zap.Int("year", year),
		zap.Int("count", len(out)))
	return out, nil
}
