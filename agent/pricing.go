package agent

import "net/http"

// Price headers stamped on every metered response. Agents read these to
// account for what a call cost them.
const (
	HeaderPrice    = "X-Call-Price"
	HeaderCurrency = "X-Call-Currency"
)

// Pricer stamps responses with the catalog price of the operation that
// served them.
type Pricer struct {
	manifest *Manifest
}

// NewPricer creates a Pricer over a manifest.
func NewPricer(manifest *Manifest) *Pricer {
	return &Pricer{manifest: manifest}
}

// Priced returns middleware for one named operation. The catalog lookup
// happens once at wiring time. Headers are set before the inner handler
// writes, because headers cannot follow the first body byte. An operation
// missing from the catalog passes through unpriced.
func (p *Pricer) Priced(name string) func(http.Handler) http.Handler {
	endpoint, ok := p.manifest.Endpoint(name)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ok {
				w.Header().Set(HeaderPrice, endpoint.Price.String())
				w.Header().Set(HeaderCurrency, p.manifest.Currency)
			}
			next.ServeHTTP(w, r)
		})
	}
}
