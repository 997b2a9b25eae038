/*
handlers.go - HTTP API handlers for the calendar intelligence service

PURPOSE:
  Exposes the calendar engine via a metered REST API. Handles query
  parsing, JSON serialization, and the mapping from domain errors to
  HTTP statuses. All domain logic lives in the calendar package.

ENDPOINTS:
  Discovery:
    GET /healthz                      Liveness probe (unpriced)
    GET /.well-known/agent.json      Service manifest with prices (unpriced)

  Holidays:
    GET /api/v1/holidays              List a country's holidays for a year
    GET /api/v1/holidays/next         Next holiday strictly after a date
    GET /api/v1/holidays/compare      2-5 countries side by side

  Business days:
    GET /api/v1/business-days/check   Classify a single date
    GET /api/v1/business-days/between Day-type tally for a range
    GET /api/v1/business-days/add     Date N business days after a start

  Dates and events:
    GET /api/v1/dates/info            Pure date facts (ISO week, quarter...)
    GET /api/v1/events/on-this-day    Historical events for a calendar day

ERROR HANDLING:
  Errors are returned as JSON with a stable machine-readable code:
  - 400: Bad input (dates, ranges, country codes, counts, categories)
  - 404: Country not supported by the holiday provider
  - 502: Upstream provider or feed failure
  - 500: Everything else

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - calendar/business.go: The engine these handlers delegate to
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/daymark/calendar-agent/agent"
	"github.com/daymark/calendar-agent/calendar"
	"github.com/daymark/calendar-agent/provider/wiki"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// EventsSource is the slice of the on-this-day feed the handlers need.
type EventsSource interface {
	OnThisDay(ctx context.Context, category string, month time.Month, day int) ([]wiki.Event, error)
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	cal      *calendar.BusinessCalendar
	events   EventsSource
	manifest *agent.Manifest
	logger   *zap.Logger
}

// NewHandler wires the handlers to their collaborators.
func NewHandler(cal *calendar.BusinessCalendar, events EventsSource, manifest *agent.Manifest, logger *zap.Logger) *Handler {
	return &Handler{
		cal:      cal,
		events:   events,
		manifest: manifest,
		logger:   logger,
	}
}

// =============================================================================
// DISCOVERY HANDLERS
// =============================================================================

// Health answers liveness probes.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// AgentManifest publishes the service catalog with per-call prices.
func (h *Handler) AgentManifest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toManifestResponse(h.manifest))
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns a country's public holidays for one year.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	country, ok := requireParam(w, r, "country")
	if !ok {
		return
	}
	year, ok := requireIntParam(w, r, "year")
	if !ok {
		return
	}

	records, err := h.cal.HolidaysForYear(r.Context(), country, year)
	if err != nil {
		h.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, HolidayListResponse{
		Country:   strings.ToUpper(country),
		Year:      year,
		Count:     len(records),
		Holidays:  toHolidayDTOs(records),
		FetchedAt: timestamp(),
	})
}

// NextHoliday returns the first holiday strictly after a date. The date
// defaults to today.
func (h *Handler) NextHoliday(w http.ResponseWriter, r *http.Request) {
	country, ok := requireParam(w, r, "country")
	if !ok {
		return
	}

	from := calendar.Today()
	if raw := queryParam(r, "from"); raw != "" {
		var err error
		from, err = calendar.ParseDate(raw)
		if err != nil {
			h.respondError(w, err)
			return
		}
	}

	res, err := h.cal.NextHoliday(r.Context(), from, country)
	if err != nil {
		h.respondError(w, err)
		return
	}

	resp := NextHolidayResponse{
		Country:      res.Country,
		From:         res.From.String(),
		Found:        res.Found,
		MissingYears: res.MissingYears,
		FetchedAt:    timestamp(),
	}
	if res.Found {
		dto := toHolidayDTO(res.Holiday)
		resp.Holiday = &dto
		resp.DaysUntil = res.DaysUntil
	}
	writeJSON(w, http.StatusOK, resp)
}

// CompareHolidays puts the holiday calendars of 2-5 countries side by side.
func (h *Handler) CompareHolidays(w http.ResponseWriter, r *http.Request) {
	raw, ok := requireParam(w, r, "countries")
	if !ok {
		return
	}
	year, ok := requireIntParam(w, r, "year")
	if !ok {
		return
	}

	var countries []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			countries = append(countries, s)
		}
	}

	cmp, err := h.cal.CompareCountries(r.Context(), countries, year)
	if err != nil {
		h.respondError(w, err)
		return
	}

	counts := make([]CountryCountDTO, len(cmp.Counts))
	for i, c := range cmp.Counts {
		counts[i] = CountryCountDTO{Country: c.Country, Holidays: c.Count}
	}
	writeJSON(w, http.StatusOK, CompareResponse{
		Year:           cmp.Year,
		Countries:      counts,
		SharedDates:    toDateStrings(cmp.SharedDates),
		MostHolidays:   cmp.Most,
		FewestHolidays: cmp.Fewest,
		FetchedAt:      timestamp(),
	})
}

// =============================================================================
// BUSINESS-DAY HANDLERS
// =============================================================================

// CheckBusinessDay classifies a single date. One provider fetch answers the
// weekend, holiday and business-day questions together.
func (h *Handler) CheckBusinessDay(w http.ResponseWriter, r *http.Request) {
	country, ok := requireParam(w, r, "country")
	if !ok {
		return
	}
	date, ok := h.requireDateParam(w, r, "date")
	if !ok {
		return
	}

	holiday, err := h.cal.HolidayOn(r.Context(), date, country)
	if err != nil {
		h.respondError(w, err)
		return
	}

	weekend := calendar.IsWeekend(date)
	resp := BusinessDayCheckResponse{
		Date:          date.String(),
		Country:       strings.ToUpper(country),
		Weekday:       date.Weekday().String(),
		IsBusinessDay: !weekend && holiday == nil,
		IsWeekend:     weekend,
		IsHoliday:     holiday != nil,
		FetchedAt:     timestamp(),
	}
	if holiday != nil {
		dto := toHolidayDTO(*holiday)
		resp.Holiday = &dto
	}
	writeJSON(w, http.StatusOK, resp)
}

// BusinessDaysBetween tallies an inclusive date range into business, weekend
// and holiday days.
func (h *Handler) BusinessDaysBetween(w http.ResponseWriter, r *http.Request) {
	country, ok := requireParam(w, r, "country")
	if !ok {
		return
	}
	start, ok := h.requireDateParam(w, r, "start")
	if !ok {
		return
	}
	end, ok := h.requireDateParam(w, r, "end")
	if !ok {
		return
	}

	rng, err := calendar.NewDateRange(start, end)
	if err != nil {
		h.respondError(w, err)
		return
	}

	tally, err := h.cal.Tally(r.Context(), rng, country)
	if err != nil {
		h.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, TallyResponse{
		Start:        tally.Range.Start.String(),
		End:          tally.Range.End.String(),
		Country:      tally.Country,
		TotalDays:    tally.TotalDays,
		BusinessDays: tally.BusinessDays,
		WeekendDays:  tally.WeekendDays,
		HolidayDays:  tally.HolidayDays,
		MissingYears: tally.MissingYears,
		FetchedAt:    timestamp(),
	})
}

// AddBusinessDays returns the date N business days after a start date.
func (h *Handler) AddBusinessDays(w http.ResponseWriter, r *http.Request) {
	country, ok := requireParam(w, r, "country")
	if !ok {
		return
	}
	start, ok := h.requireDateParam(w, r, "start")
	if !ok {
		return
	}
	days, ok := requireIntParam(w, r, "days")
	if !ok {
		return
	}

	walk, err := h.cal.AddBusinessDays(r.Context(), start, days, country)
	if err != nil {
		h.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AddBusinessDaysResponse{
		Start:        walk.Start.String(),
		Country:      walk.Country,
		BusinessDays: walk.BusinessDays,
		Result:       walk.Result.String(),
		CalendarDays: walk.CalendarDays,
		MissingYears: walk.MissingYears,
		FetchedAt:    timestamp(),
	})
}

// =============================================================================
// DATE AND EVENT HANDLERS
// =============================================================================

// DateInfo computes the pure facts about a date. No provider involved.
func (h *Handler) DateInfo(w http.ResponseWriter, r *http.Request) {
	date, ok := h.requireDateParam(w, r, "date")
	if !ok {
		return
	}

	isoYear, isoWeek := calendar.ISOWeekYear(date)
	weekStart, weekEnd := calendar.WeekBounds(date)
	writeJSON(w, http.StatusOK, DateInfoResponse{
		Date:        date.String(),
		Weekday:     date.Weekday().String(),
		ISOWeek:     isoWeek,
		ISOYear:     isoYear,
		DayOfYear:   calendar.DayOfYear(date),
		Quarter:     calendar.Quarter(date),
		IsWeekend:   calendar.IsWeekend(date),
		IsLeapYear:  calendar.IsLeapYear(date.Year),
		WeekStart:   weekStart.String(),
		WeekEnd:     weekEnd.String(),
		GeneratedAt: timestamp(),
	})
}

// OnThisDay returns historical events for the month and day of a date.
func (h *Handler) OnThisDay(w http.ResponseWriter, r *http.Request) {
	date, ok := h.requireDateParam(w, r, "date")
	if !ok {
		return
	}

	category := queryParam(r, "category")
	if category == "" {
		category = "events"
	}

	limit := 0
	if raw := queryParam(r, "limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer", err)
			return
		}
		limit = n
	}

	events, err := h.events.OnThisDay(r.Context(), category, date.Month, date.Day)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}

	writeJSON(w, http.StatusOK, OnThisDayResponse{
		Date:      date.String(),
		Category:  category,
		Count:     len(events),
		Events:    toEventDTOs(events),
		FetchedAt: timestamp(),
	})
}

// =============================================================================
// PARAMETER PARSING
// =============================================================================

func queryParam(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}

// requireParam fetches a query parameter and answers the request itself when
// the parameter is absent.
func requireParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	value := queryParam(r, name)
	if value == "" {
		writeError(w, http.StatusBadRequest, "missing_parameter",
			"Missing required parameter: "+name, nil)
		return "", false
	}
	return value, true
}

func requireIntParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw, ok := requireParam(w, r, name)
	if !ok {
		return 0, false
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_"+name,
			name+" must be an integer", err)
		return 0, false
	}
	return value, true
}

func (h *Handler) requireDateParam(w http.ResponseWriter, r *http.Request, name string) (calendar.Date, bool) {
	raw, ok := requireParam(w, r, name)
	if !ok {
		return calendar.Date{}, false
	}
	date, err := calendar.ParseDate(raw)
	if err != nil {
		h.respondError(w, err)
		return calendar.Date{}, false
	}
	return date, true
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string, err error) {
	resp := ErrorResponse{Error: message, Code: code}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// respondError translates a domain error into an HTTP response. Unsupported
// countries are checked before general provider failures because they chain
// to the same sentinel.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, calendar.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, "invalid_date",
			"Invalid date (use YYYY-MM-DD)", err)
	case errors.Is(err, calendar.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, "invalid_range",
			"Range end precedes start", err)
	case errors.Is(err, calendar.ErrInvalidCountry):
		writeError(w, http.StatusBadRequest, "invalid_country",
			"Country must be a two-letter ISO code", err)
	case errors.Is(err, calendar.ErrNonPositiveDays):
		writeError(w, http.StatusBadRequest, "invalid_days",
			"days must be at least 1", err)
	case errors.Is(err, calendar.ErrCountryCount):
		writeError(w, http.StatusBadRequest, "invalid_country_count",
			"Provide between 2 and 5 distinct countries", err)
	case errors.Is(err, wiki.ErrInvalidCategory):
		writeError(w, http.StatusBadRequest, "invalid_category",
			"Unknown event category", err)
	case calendar.IsUnsupportedCountry(err):
		writeError(w, http.StatusNotFound, "unsupported_country",
			"Country not supported by the holiday provider", err)
	case calendar.IsProviderFailure(err):
		h.logger.Error("holiday provider failure", zap.Error(err))
		writeError(w, http.StatusBadGateway, "provider_failure",
			"Holiday provider unavailable", err)
	case errors.Is(err, wiki.ErrFeedFailure):
		h.logger.Error("event feed failure", zap.Error(err))
		writeError(w, http.StatusBadGateway, "events_feed_failure",
			"Event feed unavailable", err)
	default:
		h.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error",
			"Internal error", err)
	}
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
