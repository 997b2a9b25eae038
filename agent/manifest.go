/*
Package agent describes this service to the autonomous agents that call it.

PURPOSE:
  Agents discover the service through a manifest served at
  /.well-known/agent.json: what it is, which operations it offers, and
  what each call costs. The catalog is fixed at startup. Prices use
  decimal arithmetic so they survive JSON round-trips without
  floating-point drift.

SEE ALSO:
  - pricing.go: The middleware that stamps each response with its price
*/
package agent

import (
	"net/http"

	"github.com/shopspring/decimal"
)

// Endpoint is one priced operation in the catalog.
type Endpoint struct {
	Name        string
	Method      string
	Pattern     string
	Description string
	Price       decimal.Decimal
}

// Manifest is the machine-readable service catalog.
type Manifest struct {
	Name        string
	Version     string
	Description string
	Currency    string
	Endpoints   []Endpoint
}

// NewManifest builds the catalog of priced operations.
func NewManifest(name, version, currency string) *Manifest {
	return &Manifest{
		Name:        name,
		Version:     version,
		Description: "Calendar intelligence for autonomous agents: public holidays, business-day arithmetic, date facts and on-this-day events.",
		Currency:    currency,
		Endpoints: []Endpoint{
			{
				Name:        "holidays.list",
				Method:      http.MethodGet,
				Pattern:     "/api/v1/holidays",
				Description: "Public holidays for a country and year",
				Price:       mustPrice("0.002"),
			},
			{
				Name:        "holidays.next",
				Method:      http.MethodGet,
				Pattern:     "/api/v1/holidays/next",
				Description: "Next public holiday strictly after a date",
				Price:       mustPrice("0.002"),
			},
			{
				Name:        "holidays.compare",
				Method:      http.MethodGet,
				Pattern:     "/api/v1/holidays/compare",
				Description: "Holiday calendars of two to five countries, side by side",
				Price:       mustPrice("0.005"),
			},
			{
				Name:        "business_days.check",
				Method:      http.MethodGet,
				Pattern:     "/api/v1/business-days/check",
				Description: "Whether a date is a business day in a country",
				Price:       mustPrice("0.002"),
			},
			{
				Name:        "business_days.between",
				Method:      http.MethodGet,
				Pattern:     "/api/v1/business-days/between",
				Description: "Business, weekend and holiday day counts for a date range",
				Price:       mustPrice("0.004"),
			},
			{
				Name:        "business_days.add",
				Method:      http.MethodGet,
				Pattern:     "/api/v1/business-days/add",
				Description: "The date N business days after a start date",
				Price:       mustPrice("0.004"),
			},
			{
				Name:        "dates.info",
				Method:      http.MethodGet,
				Pattern:     "/api/v1/dates/info",
				Description: "ISO week, quarter, weekday and other facts about a date",
				Price:       mustPrice("0.001"),
			},
			{
				Name:        "events.on_this_day",
				Method:      http.MethodGet,
				Pattern:     "/api/v1/events/on-this-day",
				Description: "Historical events, births, deaths and holidays for a calendar day",
				Price:       mustPrice("0.003"),
			},
		},
	}
}

// Endpoint looks up a catalog entry by operation name.
func (m *Manifest) Endpoint(name string) (Endpoint, bool) {
	for _, e := range m.Endpoints {
		if e.Name == name {
			return e, true
		}
	}
	return Endpoint{}, false
}

// mustPrice parses a catalog price literal. The catalog is static, so a bad
// literal is a programming error.
func mustPrice(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
