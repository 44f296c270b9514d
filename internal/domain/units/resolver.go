package units

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// NotFoundError reports that no direct or inverse rate links two units.
type NotFoundError struct {
	From string
	To   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no conversion rate from %q to %q", e.From, e.To)
}

// RateSource is where the resolver loads its table from (Postgres in
// production, a literal slice in tests).
type RateSource interface {
	ListRates(ctx context.Context) ([]Rate, error)
}

type pair struct{ from, to string }

// Resolver holds an explicitly loaded conversion table. The table only
// changes on Reload; Resolve itself is a pure lookup.
type Resolver struct {
	src RateSource
	log *slog.Logger

	mu    sync.RWMutex
	rates map[pair]float64
}

func NewResolver(src RateSource, log *slog.Logger) *Resolver {
	return &Resolver{src: src, log: log, rates: map[pair]float64{}}
}

// Reload replaces the whole table from the source. Called at startup and
// whenever an operator edits the rates.
func (r *Resolver) Reload(ctx context.Context) error {
	list, err := r.src.ListRates(ctx)
	if err != nil {
		return fmt.Errorf("load conversion rates: %w", err)
	}

	rates := make(map[pair]float64, len(list))
	for _, cr := range list {
		rates[pair{Normalize(cr.From), Normalize(cr.To)}] = cr.Rate
	}

	r.mu.Lock()
	r.rates = rates
	r.mu.Unlock()

	r.log.Info("conversion rates loaded", "count", len(rates))
	return nil
}

// Normalize trims and case-folds a unit token.
func Normalize(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}

// Resolve returns the factor converting a quantity in from-units to
// to-units. Equal units short-circuit to 1 without a table lookup; a
// missing forward rate is served from the inverse record when one exists.
func (r *Resolver) Resolve(from, to string) (float64, error) {
	f, t := Normalize(from), Normalize(to)
	if f == t {
		return 1.0, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if rate, ok := r.rates[pair{f, t}]; ok {
		return rate, nil
	}
	if rate, ok := r.rates[pair{t, f}]; ok {
		if rate == 0 {
			// A zero stored rate cannot be inverted; treat as unknown
			// rather than dividing.
			r.log.Warn("zero conversion rate, cannot invert", "from", t, "to", f)
			return 0, &NotFoundError{From: from, To: to}
		}
		return 1 / rate, nil
	}
	return 0, &NotFoundError{From: from, To: to}
}
