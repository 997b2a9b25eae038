/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers and prices.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. RequestID:     Unique ID per request for tracing
  2. RequestLogger: Structured request logging (zap)
  3. Recoverer:     Panic recovery (500 instead of crash)
  4. CORS:          Cross-origin requests; exposes the price headers

PRICING:
  Every /api/v1 route is wrapped in the pricer middleware for its catalog
  entry, which stamps X-Call-Price and X-Call-Currency on the response.
  /healthz and the manifest stay unpriced so discovery is free.

SEE ALSO:
  - handlers.go: Handler implementations
  - middleware.go: Request logging
  - agent/pricing.go: The pricer middleware
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/daymark/calendar-agent/agent"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, pricer *agent.Pricer, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{agent.HeaderPrice, agent.HeaderCurrency},
	}))

	// Discovery routes, free of charge
	r.Get("/healthz", h.Health)
	r.Get("/.well-known/agent.json", h.AgentManifest)

	// Metered API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/holidays", func(r chi.Router) {
			r.With(pricer.Priced("holidays.list")).Get("/", h.ListHolidays)
			r.With(pricer.Priced("holidays.next")).Get("/next", h.NextHoliday)
			r.With(pricer.Priced("holidays.compare")).Get("/compare", h.CompareHolidays)
		})

		r.Route("/business-days", func(r chi.Router) {
			r.With(pricer.Priced("business_days.check")).Get("/check", h.CheckBusinessDay)
			r.With(pricer.Priced("business_days.between")).Get("/between", h.BusinessDaysBetween)
			r.With(pricer.Priced("business_days.add")).Get("/add", h.AddBusinessDays)
		})

		r.With(pricer.Priced("dates.info")).Get("/dates/info", h.DateInfo)
		r.With(pricer.Priced("events.on_this_day")).Get("/events/on-this-day", h.OnThisDay)
	})

	return r
}
