package ingredients

import "time"

// Ingredient is a unit-tracked stock item. Unit is fixed at creation; every
// later quantity input is converted into it before merging.
type Ingredient struct {
	ID          string // e.g. ING001
	Name        string
	Quantity    float64
	Unit        string
	CostPerUnit float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type AuditField string

const (
	FieldQuantity AuditField = "quantity"
	FieldCost     AuditField = "cost_per_unit"
)

// AuditEntry is an append-only before/after record for one field change.
type AuditEntry struct {
	IngredientID string
	Field        AuditField
	OldValue     float64
	NewValue     float64
	ActorID      string
	CreatedAt    time.Time
}

// Patch is a partial update; nil fields are left untouched. Setting both
// fields issues a single write (the combined stock+price statement relies
// on that).
type Patch struct {
	Quantity    *float64
	CostPerUnit *float64
}
