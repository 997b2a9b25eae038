/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific formatting (dates as YYYY-MM-DD strings)
  - Version evolution

NAMING CONVENTION:
  - *DTO: Nested objects inside responses
  - *Response: Top-level response wrappers

TIMESTAMPS:
  Every response that reflects fetched provider data carries fetched_at;
  purely computed responses carry generated_at. Both are UTC RFC3339.

SEE ALSO:
  - handlers.go: Uses these types
  - agent/manifest.go: The catalog behind ManifestResponse
*/
package api

import (
	"github.com/daymark/calendar-agent/agent"
	"github.com/daymark/calendar-agent/calendar"
	"github.com/daymark/calendar-agent/provider/wiki"
)

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// HolidayDTO represents one public holiday in API responses.
type HolidayDTO struct {
	Date      string   `json:"date"`
	Name      string   `json:"name"`
	LocalName string   `json:"local_name"`
	National  bool     `json:"national"`
	Types     []string `json:"types,omitempty"`
}

// HolidayListResponse lists a country's holidays for one year.
type HolidayListResponse struct {
	Country   string       `json:"country"`
	Year      int          `json:"year"`
	Count     int          `json:"count"`
	Holidays  []HolidayDTO `json:"holidays"`
	FetchedAt string       `json:"fetched_at"`
}

// NextHolidayResponse reports the first holiday strictly after a date.
type NextHolidayResponse struct {
	Country      string      `json:"country"`
	From         string      `json:"from"`
	Found        bool        `json:"found"`
	Holiday      *HolidayDTO `json:"holiday,omitempty"`
	DaysUntil    int         `json:"days_until,omitempty"`
	MissingYears []int       `json:"missing_years,omitempty"`
	FetchedAt    string      `json:"fetched_at"`
}

// CountryCountDTO pairs a country with its holiday count.
type CountryCountDTO struct {
	Country  string `json:"country"`
	Holidays int    `json:"holidays"`
}

// CompareResponse puts 2-5 countries' holiday calendars side by side.
type CompareResponse struct {
	Year           int               `json:"year"`
	Countries      []CountryCountDTO `json:"countries"`
	SharedDates    []string          `json:"shared_dates"`
	MostHolidays   string            `json:"most_holidays"`
	FewestHolidays string            `json:"fewest_holidays"`
	FetchedAt      string            `json:"fetched_at"`
}

// BusinessDayCheckResponse classifies a single date.
type BusinessDayCheckResponse struct {
	Date          string      `json:"date"`
	Country       string      `json:"country"`
	Weekday       string      `json:"weekday"`
	IsBusinessDay bool        `json:"is_business_day"`
	IsWeekend     bool        `json:"is_weekend"`
	IsHoliday     bool        `json:"is_holiday"`
	Holiday       *HolidayDTO `json:"holiday,omitempty"`
	FetchedAt     string      `json:"fetched_at"`
}

// TallyResponse is the day-type breakdown of an inclusive date range.
// total_days always equals business_days + weekend_days + holiday_days.
type TallyResponse struct {
	Start        string `json:"start"`
	End          string `json:"end"`
	Country      string `json:"country"`
	TotalDays    int    `json:"total_days"`
	BusinessDays int    `json:"business_days"`
	WeekendDays  int    `json:"weekend_days"`
	HolidayDays  int    `json:"holiday_days"`
	MissingYears []int  `json:"missing_years,omitempty"`
	FetchedAt    string `json:"fetched_at"`
}

// AddBusinessDaysResponse is the result of a business-day walk.
type AddBusinessDaysResponse struct {
	Start        string `json:"start"`
	Country      string `json:"country"`
	BusinessDays int    `json:"business_days"`
	Result       string `json:"result"`
	CalendarDays int    `json:"calendar_days"`
	MissingYears []int  `json:"missing_years,omitempty"`
	FetchedAt    string `json:"fetched_at"`
}

// DateInfoResponse carries the purely computed facts about a date.
type DateInfoResponse struct {
	Date        string `json:"date"`
	Weekday     string `json:"weekday"`
	ISOWeek     int    `json:"iso_week"`
	ISOYear     int    `json:"iso_year"`
	DayOfYear   int    `json:"day_of_year"`
	Quarter     int    `json:"quarter"`
	IsWeekend   bool   `json:"is_weekend"`
	IsLeapYear  bool   `json:"is_leap_year"`
	WeekStart   string `json:"week_start"`
	WeekEnd     string `json:"week_end"`
	GeneratedAt string `json:"generated_at"`
}

// EventDTO represents one historical event. Year is omitted for entries the
// feed serves without one, such as recurring holidays.
type EventDTO struct {
	Year  int      `json:"year,omitempty"`
	Text  string   `json:"text"`
	Pages []string `json:"pages,omitempty"`
}

// OnThisDayResponse lists historical events for a calendar day.
type OnThisDayResponse struct {
	Date      string     `json:"date"`
	Category  string     `json:"category"`
	Count     int        `json:"count"`
	Events    []EventDTO `json:"events"`
	FetchedAt string     `json:"fetched_at"`
}

// EndpointDTO represents one priced operation in the published manifest.
// Price is a decimal string so clients never see float rounding.
type EndpointDTO struct {
	Name        string `json:"name"`
	Method      string `json:"method"`
	Pattern     string `json:"pattern"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

// ManifestResponse is the machine-readable service description served at
// /.well-known/agent.json.
type ManifestResponse struct {
	Name        string        `json:"name"`
	Version     string        `json:"version"`
	Description string        `json:"description"`
	Currency    string        `json:"currency"`
	Endpoints   []EndpointDTO `json:"endpoints"`
}

// HealthResponse is the liveness probe body.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toHolidayDTO(h calendar.Holiday) HolidayDTO {
	return HolidayDTO{
		Date:      h.Date.String(),
		Name:      h.Name,
		LocalName: h.LocalName,
		National:  h.National,
		Types:     h.Types,
	}
}

func toHolidayDTOs(records []calendar.Holiday) []HolidayDTO {
	dtos := make([]HolidayDTO, len(records))
	for i, h := range records {
		dtos[i] = toHolidayDTO(h)
	}
	return dtos
}

func toEventDTOs(events []wiki.Event) []EventDTO {
	dtos := make([]EventDTO, len(events))
	for i, e := range events {
		dtos[i] = EventDTO{Year: e.Year, Text: e.Text, Pages: e.Pages}
	}
	return dtos
}

func toManifestResponse(m *agent.Manifest) ManifestResponse {
	endpoints := make([]EndpointDTO, len(m.Endpoints))
	for i, e := range m.Endpoints {
		endpoints[i] = EndpointDTO{
			Name:        e.Name,
			Method:      e.Method,
			Pattern:     e.Pattern,
			Description: e.Description,
			Price:       e.Price.String(),
		}
	}
	return ManifestResponse{
		Name:        m.Name,
		Version:     m.Version,
		Description: m.Description,
		Currency:    m.Currency,
		Endpoints:   endpoints,
	}
}

func toDateStrings(dates []calendar.Date) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.String()
	}
	return out
}
