// Package ledgertest provides in-memory doubles for the ledger's storage
// and conversion contracts, shared by the ledger and bot tests.
package ledgertest

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ovenlog/bakery-bot/internal/domain/ingredients"
	"github.com/ovenlog/bakery-bot/internal/domain/units"
)

// Repo is an in-memory ledger.Repository. Individual operations can be
// forced to fail to exercise the persistence error paths.
type Repo struct {
	mu          sync.Mutex
	byID        map[string]ingredients.Ingredient
	Counters    map[string]string
	Audit       []ingredients.AuditEntry
	UpdateCalls int
	FailUpdate  bool
	FailCreate  bool
	FailAudit   bool
	FailCounter bool // fails WriteCounter only
}

func NewRepo() *Repo {
	return &Repo{
		byID:     map[string]ingredients.Ingredient{},
		Counters: map[string]string{"NEXT_ING_ID": "ING001"},
	}
}

// Seed inserts a record directly, bypassing the failure switches.
func (r *Repo) Seed(ing ingredients.Ingredient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[ing.ID] = ing
}

// Get returns the stored record, for assertions.
func (r *Repo) Get(id string) (ingredients.Ingredient, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ing, ok := r.byID[id]
	return ing, ok
}

func (r *Repo) FindByName(_ context.Context, name string) (*ingredients.Ingredient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := strings.ToLower(strings.TrimSpace(name))
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids) // first match wins, lowest id first
	for _, id := range ids {
		ing := r.byID[id]
		if strings.ToLower(ing.Name) == want {
			out := ing
			return &out, nil
		}
	}
	return nil, nil
}

func (r *Repo) FindByID(_ context.Context, id string) (*ingredients.Ingredient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ing, ok := r.byID[strings.TrimSpace(id)]; ok {
		out := ing
		return &out, nil
	}
	return nil, nil
}

func (r *Repo) Create(_ context.Context, ing ingredients.Ingredient) error {
	if r.FailCreate {
		return errors.New("create refused")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	ing.CreatedAt, ing.UpdatedAt = now, now
	r.byID[ing.ID] = ing
	return nil
}

func (r *Repo) Update(_ context.Context, id string, p ingredients.Patch) error {
	if r.FailUpdate {
		return errors.New("update refused")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.UpdateCalls++
	ing, ok := r.byID[id]
	if !ok {
		return errors.New("no row updated")
	}
	if p.Quantity != nil {
		ing.Quantity = *p.Quantity
	}
	if p.CostPerUnit != nil {
		ing.CostPerUnit = *p.CostPerUnit
	}
	ing.UpdatedAt = time.Now()
	r.byID[id] = ing
	return nil
}

func (r *Repo) List(_ context.Context) ([]ingredients.Ingredient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]ingredients.Ingredient, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.byID[id])
	}
	return out, nil
}

func (r *Repo) AppendAudit(_ context.Context, e ingredients.AuditEntry) error {
	if r.FailAudit {
		return errors.New("audit refused")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e.CreatedAt = time.Now()
	r.Audit = append(r.Audit, e)
	return nil
}

func (r *Repo) ReadCounter(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Counters[key], nil
}

func (r *Repo) WriteCounter(_ context.Context, key, value string) error {
	if r.FailCounter {
		return errors.New("counter write refused")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Counters[key] = value
	return nil
}

// StaticRates is a ledger.Converter over a literal rate table, with the
// same identity and inverse behavior as the production resolver.
type StaticRates map[[2]string]float64

// KitchenRates covers the units the tests cook with.
func KitchenRates() StaticRates {
	return StaticRates{
		{"kg", "g"}:   1000,
		{"l", "ml"}:   1000,
		{"lb", "g"}:   453.592,
		{"cup", "ml"}: 240,
	}
}

func (s StaticRates) Resolve(from, to string) (float64, error) {
	f, t := units.Normalize(from), units.Normalize(to)
	if f == t {
		return 1.0, nil
	}
	if r, ok := s[[2]string{f, t}]; ok {
		return r, nil
	}
	if r, ok := s[[2]string{t, f}]; ok && r != 0 {
		return 1 / r, nil
	}
	return 0, &units.NotFoundError{From: from, To: to}
}
