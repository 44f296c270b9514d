package ledger

import (
	"context"

	"github.com/ovenlog/bakery-bot/internal/domain/ingredients"
)

// Repository is the storage contract the ledger consumes. The Postgres
// implementation lives in internal/domain/ingredients; tests use an
// in-memory fake. The service assumes exactly these primitives and nothing
// more — no query language, no joins, no transactions across calls.
//
// Find methods return (nil, nil) on a lookup miss.
type Repository interface {
	FindByName(ctx context.Context, name string) (*ingredients.Ingredient, error)
	FindByID(ctx context.Context, id string) (*ingredients.Ingredient, error)
	Create(ctx context.Context, ing ingredients.Ingredient) error
	Update(ctx context.Context, id string, p ingredients.Patch) error
	List(ctx context.Context) ([]ingredients.Ingredient, error)
	AppendAudit(ctx context.Context, e ingredients.AuditEntry) error
	ReadCounter(ctx context.Context, key string) (string, error)
	WriteCounter(ctx context.Context, key, value string) error
}

// Converter resolves a multiplicative factor between two unit tokens.
// Implemented by units.Resolver.
type Converter interface {
	Resolve(from, to string) (float64, error)
}
