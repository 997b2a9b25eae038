// Package nager implements calendar.HolidaySource against the Nager.Date
// public holiday API (https://date.nager.at).
package nager

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/daymark/calendar-agent/calendar"
)

const (
	// DefaultBaseURL is the public Nager.Date deployment.
	DefaultBaseURL = "https://date.nager.at"

	defaultTimeout = 10 * time.Second
)

// Client fetches public holidays from the Nager.Date v3 API. One request
// per country-year, no caching and no retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a Nager.Date client. An empty baseURL selects the
// public deployment; a non-positive timeout selects the default.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// publicHolidayRow mirrors one element of the v3 PublicHolidays response.
type publicHolidayRow struct {
	Date        string   `json:"date"`
	LocalName   string   `json:"localName"`
	Name        string   `json:"name"`
	CountryCode string   `json:"countryCode"`
	Global      bool     `json:"global"`
	Counties    []string `json:"counties"`
	Types       []string `json:"types"`
}

// Holidays implements calendar.HolidaySource. A 404 from the API means the
// country is not supported; that maps to ErrUnsupportedCountry so callers
// can distinguish it from an outage.
func (c *Client) Holidays(ctx context.Context, country string, year int) ([]calendar.Holiday, error) {
	url := fmt.Sprintf("%s/api/v3/PublicHolidays/%d/%s", c.baseURL, year, country)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, calendar.NewProviderError(country, year, 0, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("fetching public holidays",
		zap.String("country", country),
		zap.Int("year", year),
		zap.String("url", url))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, calendar.NewProviderError(country, year, 0, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, calendar.NewUnsupportedCountryError(country, year)
	case resp.StatusCode == http.StatusNoContent:
		// Supported country, nothing scheduled for the year.
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		return nil, calendar.NewProviderError(country, year, resp.StatusCode,
			fmt.Errorf("unexpected status %s", resp.Status))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, calendar.NewProviderError(country, year, resp.StatusCode,
			fmt.Errorf("read response: %w", err))
	}

	var rows []publicHolidayRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, calendar.NewProviderError(country, year, resp.StatusCode,
			fmt.Errorf("decode response: %w", err))
	}

	holidays := make([]calendar.Holiday, 0, len(rows))
	for _, row := range rows {
		date, err := calendar.ParseDate(row.Date)
		if err != nil {
			return nil, calendar.NewProviderError(country, year, resp.StatusCode,
				fmt.Errorf("holiday %q has bad date %q", row.Name, row.Date))
		}
		holidays = append(holidays, calendar.Holiday{
			Date:      date,
			Name:      row.Name,
			LocalName: row.LocalName,
			National:  row.Global,
			Types:     row.Types,
		})
	}

	c.logger.Debug("fetched public holidays",
		zap.String("country", country),
		zap.Int("year", year),
		zap.Int("count", len(holidays)))

	return holidays, nil
}
