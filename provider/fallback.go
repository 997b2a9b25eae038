// Package provider composes the holiday sources the calendar can be wired
// to: the remote Nager.Date client, the rule-based offline source, and a
// fallback pair of the two.
package provider

import (
	"context"

	"go.uber.org/zap"

	"github.com/daymark/calendar-agent/calendar"
)

// Fallback serves holidays from a primary source and degrades to a secondary
// one when the primary fails. Each source gets exactly one attempt per call;
// there is no retry.
type Fallback struct {
	primary   calendar.HolidaySource
	secondary calendar.HolidaySource
	logger    *zap.Logger
}

// NewFallback composes two sources into one.
func NewFallback(primary, secondary calendar.HolidaySource, logger *zap.Logger) *Fallback {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fallback{primary: primary, secondary: secondary, logger: logger}
}

// Holidays asks the primary source first. On failure it logs and hands the
// same lookup to the secondary; the secondary's answer, good or bad, is
// final.
func (f *Fallback) Holidays(ctx context.Context, country string, year int) ([]calendar.Holiday, error) {
	records, err := f.primary.Holidays(ctx, country, year)
	if err == nil {
		return records, nil
	}
	f.logger.Warn("primary holiday source failed, falling back",
		zap.String("country", country),
		zap.Int("year", year),
		zap.Error(err))
	return f.secondary.Holidays(ctx, country, year)
}
