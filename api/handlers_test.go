package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/daymark/calendar-agent/agent"
	"github.com/daymark/calendar-agent/api"
	"github.com/daymark/calendar-agent/calendar"
	"github.com/daymark/calendar-agent/provider/wiki"
)

// =============================================================================
// TEST HARNESS
// =============================================================================

// stubHolidaySource wraps a StaticSource with per-country-year error
// injection so tests can drive every failure path through the router.
type stubHolidaySource struct {
	static *calendar.StaticSource
	errs   map[string]error
}

func newStubHolidaySource() *stubHolidaySource {
	return &stubHolidaySource{
		static: calendar.NewStaticSource(),
		errs:   make(map[string]error),
	}
}

func (s *stubHolidaySource) failWith(country string, year int, err error) {
	s.errs[fmt.Sprintf("%s/%d", country, year)] = err
}

func (s *stubHolidaySource) Holidays(ctx context.Context, country string, year int) ([]calendar.Holiday, error) {
	if err := s.errs[fmt.Sprintf("%s/%d", country, year)]; err != nil {
		return nil, err
	}
	return s.static.Holidays(ctx, country, year)
}

// stubEvents mimics the feed client, including its category validation.
type stubEvents struct {
	events []wiki.Event
	err    error
}

func (s *stubEvents) OnThisDay(ctx context.Context, category string, month time.Month, day int) ([]wiki.Event, error) {
	if !wiki.ValidCategory(category) {
		return nil, fmt.Errorf("%w: %q", wiki.ErrInvalidCategory, category)
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.events, nil
}

func seedFixtures(src *stubHolidaySource) {
	src.static.Put("US", 2024, []calendar.Holiday{
		{Date: calendar.NewDate(2024, time.January, 1), Name: "New Year's Day", LocalName: "New Year's Day", National: true, Types: []string{"Public"}},
		{Date: calendar.NewDate(2024, time.July, 4), Name: "Independence Day", LocalName: "Independence Day", National: true, Types: []string{"Public"}},
		{Date: calendar.NewDate(2024, time.December, 25), Name: "Christmas Day", LocalName: "Christmas Day", National: true, Types: []string{"Public"}},
	})
	src.static.Put("US", 2025, []calendar.Holiday{
		{Date: calendar.NewDate(2025, time.January, 1), Name: "New Year's Day", LocalName: "New Year's Day", National: true, Types: []string{"Public"}},
	})
	src.static.Put("GB", 2024, []calendar.Holiday{
		{Date: calendar.NewDate(2024, time.January, 1), Name: "New Year's Day"},
		{Date: calendar.NewDate(2024, time.April, 1), Name: "Easter Monday"},
		{Date: calendar.NewDate(2024, time.December, 25), Name: "Christmas Day"},
		{Date: calendar.NewDate(2024, time.December, 26), Name: "Boxing Day"},
	})
	src.static.Put("DE", 2024, []calendar.Holiday{
		{Date: calendar.NewDate(2024, time.January, 1), Name: "Neujahr"},
		{Date: calendar.NewDate(2024, time.October, 3), Name: "Tag der Deutschen Einheit"},
	})
}

func newTestServer(t *testing.T) (*httptest.Server, *stubHolidaySource, *stubEvents) {
	t.Helper()

	src := newStubHolidaySource()
	seedFixtures(src)
	events := &stubEvents{}

	manifest := agent.NewManifest("calendar-agent", "0.1.0", "USD")
	h := api.NewHandler(
		calendar.NewBusinessCalendar(src, zap.NewNop()),
		events,
		manifest,
		zap.NewNop(),
	)
	router := api.NewRouter(h, agent.NewPricer(manifest), zap.NewNop())

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, src, events
}

func get(t *testing.T, server *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func decodeJSON(t *testing.T, body []byte, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(body, v), "body: %s", body)
}

func assertErrorCode(t *testing.T, resp *http.Response, body []byte, status int, code string) {
	t.Helper()
	assert.Equal(t, status, resp.StatusCode)
	var er api.ErrorResponse
	decodeJSON(t, body, &er)
	assert.Equal(t, code, er.Code)
	assert.NotEmpty(t, er.Error)
}

// =============================================================================
// DISCOVERY
// =============================================================================

func TestHealthEndpoint(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp, body := get(t, server, "/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	// Discovery is free of charge.
	assert.Empty(t, resp.Header.Get(agent.HeaderPrice))
}

func TestManifestEndpoint(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp, body := get(t, server, "/.well-known/agent.json")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get(agent.HeaderPrice))

	var m api.ManifestResponse
	decodeJSON(t, body, &m)
	assert.Equal(t, "calendar-agent", m.Name)
	assert.Equal(t, "USD", m.Currency)
	require.NotEmpty(t, m.Endpoints)

	byName := make(map[string]api.EndpointDTO)
	for _, e := range m.Endpoints {
		byName[e.Name] = e
	}
	listed, ok := byName["holidays.list"]
	require.True(t, ok)
	assert.Equal(t, http.MethodGet, listed.Method)
	assert.Equal(t, "/api/v1/holidays", listed.Pattern)
	assert.Equal(t, "0.002", listed.Price)
}

func TestMeteredRoutesCarryPriceHeaders(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp, _ := get(t, server, "/api/v1/dates/info?date=2024-07-04")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "0.001", resp.Header.Get(agent.HeaderPrice))
	assert.Equal(t, "USD", resp.Header.Get(agent.HeaderCurrency))
}

func TestPriceHeadersSurviveErrors(t *testing.T) {
	server, _, _ := newTestServer(t)

	// A rejected call still tells the agent what the operation costs.
	resp, _ := get(t, server, "/api/v1/dates/info?date=not-a-date")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "0.001", resp.Header.Get(agent.HeaderPrice))
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func TestListHolidays(t *testing.T) {
	// GIVEN a seeded provider
	server, _, _ := newTestServer(t)

	// WHEN listing US holidays for 2024 with a lowercase country code
	resp, body := get(t, server, "/api/v1/holidays?country=us&year=2024")

	// THEN the holidays come back sorted under the normalized code
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list api.HolidayListResponse
	decodeJSON(t, body, &list)
	assert.Equal(t, "US", list.Country)
	assert.Equal(t, 2024, list.Year)
	assert.Equal(t, 3, list.Count)
	require.Len(t, list.Holidays, 3)
	assert.Equal(t, "2024-01-01", list.Holidays[0].Date)
	assert.Equal(t, "2024-07-04", list.Holidays[1].Date)
	assert.Equal(t, "Independence Day", list.Holidays[1].Name)
	assert.Equal(t, "2024-12-25", list.Holidays[2].Date)
	assert.NotEmpty(t, list.FetchedAt)

	assert.Equal(t, "0.002", resp.Header.Get(agent.HeaderPrice))
}

func TestListHolidaysValidation(t *testing.T) {
	server, _, _ := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"missing country", "/api/v1/holidays?year=2024", http.StatusBadRequest, "missing_parameter"},
		{"missing year", "/api/v1/holidays?country=US", http.StatusBadRequest, "missing_parameter"},
		{"bad year", "/api/v1/holidays?country=US&year=MMXXIV", http.StatusBadRequest, "invalid_year"},
		{"bad country", "/api/v1/holidays?country=USA&year=2024", http.StatusBadRequest, "invalid_country"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, server, tt.path)
			assertErrorCode(t, resp, body, tt.status, tt.code)
		})
	}
}

func TestListHolidaysUnsupportedCountry(t *testing.T) {
	server, src, _ := newTestServer(t)
	src.failWith("QQ", 2024, calendar.NewUnsupportedCountryError("QQ", 2024))

	resp, body := get(t, server, "/api/v1/holidays?country=QQ&year=2024")
	assertErrorCode(t, resp, body, http.StatusNotFound, "unsupported_country")
}

func TestListHolidaysProviderFailure(t *testing.T) {
	server, src, _ := newTestServer(t)
	src.failWith("US", 2030, calendar.NewProviderError("US", 2030, 503, errors.New("upstream down")))

	resp, body := get(t, server, "/api/v1/holidays?country=US&year=2030")
	assertErrorCode(t, resp, body, http.StatusBadGateway, "provider_failure")
}

func TestNextHoliday(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp, body := get(t, server, "/api/v1/holidays/next?country=US&from=2024-12-26")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var next api.NextHolidayResponse
	decodeJSON(t, body, &next)
	assert.True(t, next.Found)
	require.NotNil(t, next.Holiday)
	assert.Equal(t, "2025-01-01", next.Holiday.Date)
	assert.Equal(t, "New Year's Day", next.Holiday.Name)
	assert.Equal(t, 6, next.DaysUntil)
	assert.Empty(t, next.MissingYears)
}

func TestNextHolidayDegradesWhenNextYearFails(t *testing.T) {
	server, src, _ := newTestServer(t)
	src.failWith("US", 2025, calendar.NewProviderError("US", 2025, 500, errors.New("boom")))

	resp, body := get(t, server, "/api/v1/holidays/next?country=US&from=2024-12-26")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var next api.NextHolidayResponse
	decodeJSON(t, body, &next)
	assert.False(t, next.Found)
	assert.Nil(t, next.Holiday)
	assert.Equal(t, []int{2025}, next.MissingYears)
}

func TestCompareHolidays(t *testing.T) {
	// GIVEN three seeded countries with overlapping calendars
	server, _, _ := newTestServer(t)

	// WHEN comparing them for 2024
	resp, body := get(t, server, "/api/v1/holidays/compare?countries=US,GB,DE&year=2024")

	// THEN counts keep the request order and shared dates are ascending
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cmp api.CompareResponse
	decodeJSON(t, body, &cmp)
	assert.Equal(t, 2024, cmp.Year)
	require.Len(t, cmp.Countries, 3)
	assert.Equal(t, api.CountryCountDTO{Country: "US", Holidays: 3}, cmp.Countries[0])
	assert.Equal(t, api.CountryCountDTO{Country: "GB", Holidays: 4}, cmp.Countries[1])
	assert.Equal(t, api.CountryCountDTO{Country: "DE", Holidays: 2}, cmp.Countries[2])
	assert.Equal(t, []string{"2024-01-01", "2024-12-25"}, cmp.SharedDates)
	assert.Equal(t, "GB", cmp.MostHolidays)
	assert.Equal(t, "DE", cmp.FewestHolidays)

	assert.Equal(t, "0.005", resp.Header.Get(agent.HeaderPrice))
}

func TestCompareHolidaysValidation(t *testing.T) {
	server, _, _ := newTestServer(t)

	tests := []struct {
		name string
		path string
		code string
	}{
		{"one country", "/api/v1/holidays/compare?countries=US&year=2024", "invalid_country_count"},
		{"six countries", "/api/v1/holidays/compare?countries=US,GB,DE,FR,IT,ES&year=2024", "invalid_country_count"},
		{"duplicates collapse", "/api/v1/holidays/compare?countries=US,us&year=2024", "invalid_country_count"},
		{"bad code", "/api/v1/holidays/compare?countries=US,G8R&year=2024", "invalid_country"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, server, tt.path)
			assertErrorCode(t, resp, body, http.StatusBadRequest, tt.code)
		})
	}
}

func TestCompareHolidaysAbortsOnCountryFailure(t *testing.T) {
	server, src, _ := newTestServer(t)
	src.failWith("GB", 2024, calendar.NewProviderError("GB", 2024, 500, errors.New("boom")))

	resp, body := get(t, server, "/api/v1/holidays/compare?countries=US,GB&year=2024")
	assertErrorCode(t, resp, body, http.StatusBadGateway, "provider_failure")
}

// =============================================================================
// BUSINESS DAYS
// =============================================================================

func TestCheckBusinessDay(t *testing.T) {
	server, _, _ := newTestServer(t)

	tests := []struct {
		date       string
		isBusiness bool
		isWeekend  bool
		isHoliday  bool
	}{
		{"2024-07-04", false, false, true}, // Independence Day
		{"2024-07-05", true, false, false}, // plain friday
		{"2024-07-06", false, true, false}, // saturday
	}
	for _, tt := range tests {
		resp, body := get(t, server, "/api/v1/business-days/check?country=US&date="+tt.date)
		require.Equal(t, http.StatusOK, resp.StatusCode, tt.date)

		var check api.BusinessDayCheckResponse
		decodeJSON(t, body, &check)
		assert.Equal(t, tt.isBusiness, check.IsBusinessDay, tt.date)
		assert.Equal(t, tt.isWeekend, check.IsWeekend, tt.date)
		assert.Equal(t, tt.isHoliday, check.IsHoliday, tt.date)
	}
}

func TestCheckBusinessDayIncludesHolidayRecord(t *testing.T) {
	server, _, _ := newTestServer(t)

	_, body := get(t, server, "/api/v1/business-days/check?country=US&date=2024-07-04")
	var check api.BusinessDayCheckResponse
	decodeJSON(t, body, &check)
	assert.Equal(t, "Thursday", check.Weekday)
	require.NotNil(t, check.Holiday)
	assert.Equal(t, "Independence Day", check.Holiday.Name)
}

func TestBusinessDaysBetween(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp, body := get(t, server, "/api/v1/business-days/between?country=US&start=2024-01-01&end=2024-01-07")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tally api.TallyResponse
	decodeJSON(t, body, &tally)
	assert.Equal(t, 7, tally.TotalDays)
	assert.Equal(t, 4, tally.BusinessDays)
	assert.Equal(t, 2, tally.WeekendDays)
	assert.Equal(t, 1, tally.HolidayDays)
	assert.Equal(t, tally.TotalDays, tally.BusinessDays+tally.WeekendDays+tally.HolidayDays)
	assert.Empty(t, tally.MissingYears)
}

func TestBusinessDaysBetweenRejectsInvertedRange(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp, body := get(t, server, "/api/v1/business-days/between?country=US&start=2024-01-07&end=2024-01-01")
	assertErrorCode(t, resp, body, http.StatusBadRequest, "invalid_range")
}

func TestAddBusinessDays(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp, body := get(t, server, "/api/v1/business-days/add?country=US&start=2024-07-03&days=1")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var walk api.AddBusinessDaysResponse
	decodeJSON(t, body, &walk)
	assert.Equal(t, "2024-07-03", walk.Start)
	assert.Equal(t, 1, walk.BusinessDays)
	// Independence Day sits between the start and the result.
	assert.Equal(t, "2024-07-05", walk.Result)
	assert.Equal(t, 2, walk.CalendarDays)
}

func TestAddBusinessDaysValidation(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp, body := get(t, server, "/api/v1/business-days/add?country=US&start=2024-07-03&days=0")
	assertErrorCode(t, resp, body, http.StatusBadRequest, "invalid_days")

	resp, body = get(t, server, "/api/v1/business-days/add?country=US&start=2024-07-03&days=soon")
	assertErrorCode(t, resp, body, http.StatusBadRequest, "invalid_days")
}

// =============================================================================
// DATES AND EVENTS
// =============================================================================

func TestDateInfo(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp, body := get(t, server, "/api/v1/dates/info?date=2021-01-01")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var info api.DateInfoResponse
	decodeJSON(t, body, &info)
	assert.Equal(t, "2021-01-01", info.Date)
	assert.Equal(t, "Friday", info.Weekday)
	// January 1st 2021 belongs to ISO week 53 of 2020.
	assert.Equal(t, 53, info.ISOWeek)
	assert.Equal(t, 2020, info.ISOYear)
	assert.Equal(t, 1, info.DayOfYear)
	assert.Equal(t, 1, info.Quarter)
	assert.False(t, info.IsWeekend)
	assert.False(t, info.IsLeapYear)
	assert.Equal(t, "2020-12-28", info.WeekStart)
	assert.Equal(t, "2021-01-03", info.WeekEnd)
	assert.NotEmpty(t, info.GeneratedAt)
}

func TestDateInfoRejectsBadDate(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp, body := get(t, server, "/api/v1/dates/info?date=01/01/2021")
	assertErrorCode(t, resp, body, http.StatusBadRequest, "invalid_date")
}

func TestOnThisDay(t *testing.T) {
	server, _, events := newTestServer(t)
	events.events = []wiki.Event{
		{Year: 1969, Text: "Apollo 11 lands on the Moon.", Pages: []string{"Apollo 11"}},
		{Year: 1976, Text: "Viking 1 lands on Mars.", Pages: []string{"Viking 1"}},
	}

	resp, body := get(t, server, "/api/v1/events/on-this-day?date=2024-07-20")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var otd api.OnThisDayResponse
	decodeJSON(t, body, &otd)
	assert.Equal(t, "2024-07-20", otd.Date)
	// The category defaults to plain events.
	assert.Equal(t, "events", otd.Category)
	assert.Equal(t, 2, otd.Count)
	require.Len(t, otd.Events, 2)
	assert.Equal(t, 1969, otd.Events[0].Year)
}

func TestOnThisDayHonorsLimit(t *testing.T) {
	server, _, events := newTestServer(t)
	events.events = []wiki.Event{
		{Year: 1969, Text: "First"},
		{Year: 1976, Text: "Second"},
		{Year: 1989, Text: "Third"},
	}

	_, body := get(t, server, "/api/v1/events/on-this-day?date=2024-07-20&limit=2")
	var otd api.OnThisDayResponse
	decodeJSON(t, body, &otd)
	assert.Equal(t, 2, otd.Count)
	require.Len(t, otd.Events, 2)
	assert.Equal(t, "First", otd.Events[0].Text)
}

func TestOnThisDayValidation(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp, body := get(t, server, "/api/v1/events/on-this-day?date=2024-07-20&category=sports")
	assertErrorCode(t, resp, body, http.StatusBadRequest, "invalid_category")

	resp, body = get(t, server, "/api/v1/events/on-this-day?date=2024-07-20&limit=-1")
	assertErrorCode(t, resp, body, http.StatusBadRequest, "invalid_limit")
}

func TestOnThisDayFeedFailure(t *testing.T) {
	server, _, events := newTestServer(t)
	events.err = &wiki.FeedError{Status: 503, Cause: errors.New("gateway sad")}

	resp, body := get(t, server, "/api/v1/events/on-this-day?date=2024-07-20")
	assertErrorCode(t, resp, body, http.StatusBadGateway, "events_feed_failure")
}
