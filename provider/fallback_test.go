package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/daymark/calendar-agent/calendar"
)

// countingSource wraps a source and records how often it was consulted.
type countingSource struct {
	inner calendar.HolidaySource
	err   error
	calls int
}

func (c *countingSource) Holidays(ctx context.Context, country string, year int) ([]calendar.Holiday, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.inner.Holidays(ctx, country, year)
}

func staticWith(name string) *calendar.StaticSource {
	src := calendar.NewStaticSource()
	src.Put("US", 2024, []calendar.Holiday{
		{Date: calendar.NewDate(2024, time.July, 4), Name: name},
	})
	return src
}

func TestFallbackPrefersPrimary(t *testing.T) {
	primary := &countingSource{inner: staticWith("From Primary")}
	secondary := &countingSource{inner: staticWith("From Secondary")}
	f := NewFallback(primary, secondary, zap.NewNop())

	records, err := f.Holidays(context.Background(), "US", 2024)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "From Primary", records[0].Name)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, secondary.calls, "secondary must not be consulted when the primary succeeds")
}

func TestFallbackDegradesToSecondary(t *testing.T) {
	primary := &countingSource{err: calendar.NewProviderError("US", 2024, 503, errors.New("upstream down"))}
	secondary := &countingSource{inner: staticWith("From Secondary")}
	f := NewFallback(primary, secondary, zap.NewNop())

	records, err := f.Holidays(context.Background(), "US", 2024)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "From Secondary", records[0].Name)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestFallbackReturnsSecondaryError(t *testing.T) {
	errPrimary := calendar.NewProviderError("US", 2024, 503, errors.New("primary down"))
	errSecondary := calendar.NewUnsupportedCountryError("US", 2024)
	primary := &countingSource{err: errPrimary}
	secondary := &countingSource{err: errSecondary}
	f := NewFallback(primary, secondary, zap.NewNop())

	_, err := f.Holidays(context.Background(), "US", 2024)
	require.Error(t, err)
	assert.ErrorIs(t, err, errSecondary)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls, "each source gets exactly one attempt")
}
