package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ovenlog/bakery-bot/internal/domain/ingredients"
	"github.com/ovenlog/bakery-bot/internal/domain/units"
)

// Service applies structured intents to the ingredient ledger. Every call
// is an independent read-then-write sequence against the repository; there
// is no in-memory state and no isolation between concurrent calls touching
// the same ingredient (last writer wins at the field level).
type Service struct {
	repo  Repository
	rates Converter
	ids   *Allocator
	log   *slog.Logger
}

func NewService(repo Repository, rates Converter, ids *Allocator, log *slog.Logger) *Service {
	return &Service{repo: repo, rates: rates, ids: ids, log: log}
}

// PurchaseOutcome reports what a purchase did: created a new ingredient,
// or merged stock into an existing one, possibly raising its unit cost.
type PurchaseOutcome struct {
	Ingredient  ingredients.Ingredient
	Created     bool
	PriceRaised bool
	Added       float64 // purchased quantity, converted to the stored unit
}

// CreateIngredient allocates a display id and writes a fresh record.
// If the write fails after allocation the id is wasted; accepted cost.
func (s *Service) CreateIngredient(ctx context.Context, name string, quantity float64, unit string, costPerUnit float64, actorID string) (*ingredients.Ingredient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: ingredient name is empty", ErrInvalidInput)
	}
	if quantity < 0 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidQuantity, quantity)
	}
	if costPerUnit < 0 {
		return nil, fmt.Errorf("%w: cost per unit %g is negative", ErrInvalidInput, costPerUnit)
	}

	id, err := s.ids.Next(ctx, CounterIngredientID, IngredientIDPrefix)
	if err != nil {
		return nil, err
	}

	ing := ingredients.Ingredient{
		ID:          id,
		Name:        name,
		Quantity:    quantity,
		Unit:        units.Normalize(unit),
		CostPerUnit: costPerUnit,
	}
	if err := s.repo.Create(ctx, ing); err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", ErrPersistence, id, err)
	}
	s.log.Info("ingredient created", "id", id, "name", name, "qty", quantity, "unit", ing.Unit)
	return &ing, nil
}

// ProcessPurchase merges a purchase into the ledger. An unknown name
// becomes a new ingredient priced at totalCost/quantity. A known name has
// the quantity converted to its stored unit and added; the stored cost per
// unit only ever moves up (the ledger tracks the highest recent
// acquisition cost, not an average).
func (s *Service) ProcessPurchase(ctx context.Context, name string, quantity float64, unit string, totalCost float64, actorID string) (*PurchaseOutcome, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidQuantity, quantity)
	}
	if totalCost < 0 {
		return nil, fmt.Errorf("%w: cost %g is negative", ErrInvalidInput, totalCost)
	}

	ing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("find ingredient %q: %w", name, err)
	}

	if ing == nil {
		created, err := s.CreateIngredient(ctx, name, quantity, unit, totalCost/quantity, actorID)
		if err != nil {
			return nil, err
		}
		return &PurchaseOutcome{Ingredient: *created, Created: true, Added: quantity}, nil
	}

	rate, err := s.rates.Resolve(unit, ing.Unit)
	if err != nil {
		return nil, err
	}
	converted := quantity * rate
	if converted <= 0 {
		return nil, fmt.Errorf("%w: %g %s converts to %g %s", ErrInvalidQuantity, quantity, unit, converted, ing.Unit)
	}
	newQty := ing.Quantity + converted
	newCost := totalCost / converted

	patch := ingredients.Patch{Quantity: &newQty}
	raised := newCost > ing.CostPerUnit
	if raised {
		patch.CostPerUnit = &newCost
	}
	if err := s.repo.Update(ctx, ing.ID, patch); err != nil {
		return nil, fmt.Errorf("%w: update %s: %v", ErrPersistence, ing.ID, err)
	}

	s.audit(ctx, ing.ID, ingredients.FieldQuantity, ing.Quantity, newQty, actorID)
	if raised {
		s.audit(ctx, ing.ID, ingredients.FieldCost, ing.CostPerUnit, newCost, actorID)
	}

	out := *ing
	out.Quantity = newQty
	if raised {
		out.CostPerUnit = newCost
	}
	return &PurchaseOutcome{Ingredient: out, PriceRaised: raised, Added: converted}, nil
}

// SetAbsoluteQuantity overwrites the stored quantity, converting the input
// into the stored unit first. No merge arithmetic.
func (s *Service) SetAbsoluteQuantity(ctx context.Context, name string, quantity float64, unit string, actorID string) (*ingredients.Ingredient, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidQuantity, quantity)
	}

	ing, err := s.findByName(ctx, name)
	if err != nil {
		return nil, err
	}

	rate, err := s.rates.Resolve(unit, ing.Unit)
	if err != nil {
		return nil, err
	}
	newQty := quantity * rate

	if err := s.repo.Update(ctx, ing.ID, ingredients.Patch{Quantity: &newQty}); err != nil {
		return nil, fmt.Errorf("%w: update %s: %v", ErrPersistence, ing.ID, err)
	}
	s.audit(ctx, ing.ID, ingredients.FieldQuantity, ing.Quantity, newQty, actorID)

	out := *ing
	out.Quantity = newQty
	return &out, nil
}

// AdjustQuantity applies a relative change. The magnitude must be
// positive, and the result may not go negative — such an adjustment is
// refused and nothing is written.
func (s *Service) AdjustQuantity(ctx context.Context, name string, action Action, quantity float64, unit string, actorID string) (*ingredients.Ingredient, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: adjustment must be a positive amount, got %g", ErrInvalidQuantity, quantity)
	}

	ing, err := s.findByName(ctx, name)
	if err != nil {
		return nil, err
	}

	rate, err := s.rates.Resolve(unit, ing.Unit)
	if err != nil {
		return nil, err
	}
	converted := quantity * rate

	newQty := ing.Quantity + action.sign()*converted
	if newQty < 0 {
		return nil, &InsufficientStockError{
			Name: ing.Name,
			Have: ing.Quantity,
			Want: converted,
			Unit: ing.Unit,
		}
	}

	if err := s.repo.Update(ctx, ing.ID, ingredients.Patch{Quantity: &newQty}); err != nil {
		return nil, fmt.Errorf("%w: update %s: %v", ErrPersistence, ing.ID, err)
	}
	s.audit(ctx, ing.ID, ingredients.FieldQuantity, ing.Quantity, newQty, actorID)

	out := *ing
	out.Quantity = newQty
	return &out, nil
}

// UpdateCostFromBatch interprets "N unit NAME now costs PRICE": the batch
// price divided by the converted batch quantity becomes the new cost per
// unit, written unconditionally. This is an explicit price-setting action,
// so the purchase path's only-if-higher guard does not apply.
func (s *Service) UpdateCostFromBatch(ctx context.Context, name string, quantity float64, unit string, totalPrice float64, actorID string) (*ingredients.Ingredient, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidQuantity, quantity)
	}
	if totalPrice < 0 {
		return nil, fmt.Errorf("%w: price %g is negative", ErrInvalidInput, totalPrice)
	}

	ing, err := s.findByName(ctx, name)
	if err != nil {
		return nil, err
	}

	rate, err := s.rates.Resolve(unit, ing.Unit)
	if err != nil {
		return nil, err
	}
	converted := quantity * rate
	if converted <= 0 {
		return nil, fmt.Errorf("%w: %g %s converts to %g %s", ErrInvalidQuantity, quantity, unit, converted, ing.Unit)
	}
	newCost := totalPrice / converted

	if err := s.repo.Update(ctx, ing.ID, ingredients.Patch{CostPerUnit: &newCost}); err != nil {
		return nil, fmt.Errorf("%w: update %s: %v", ErrPersistence, ing.ID, err)
	}
	s.audit(ctx, ing.ID, ingredients.FieldCost, ing.CostPerUnit, newCost, actorID)

	out := *ing
	out.CostPerUnit = newCost
	return &out, nil
}

// SetStockAndPrice overwrites quantity and cost per unit in one repository
// write. One call, both fields — but no isolation from concurrent readers.
func (s *Service) SetStockAndPrice(ctx context.Context, name string, quantity float64, unit string, totalPrice float64, actorID string) (*ingredients.Ingredient, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidQuantity, quantity)
	}
	if totalPrice < 0 {
		return nil, fmt.Errorf("%w: price %g is negative", ErrInvalidInput, totalPrice)
	}

	ing, err := s.findByName(ctx, name)
	if err != nil {
		return nil, err
	}

	rate, err := s.rates.Resolve(unit, ing.Unit)
	if err != nil {
		return nil, err
	}
	newQty := quantity * rate
	if newQty <= 0 {
		return nil, fmt.Errorf("%w: %g %s converts to %g %s", ErrInvalidQuantity, quantity, unit, newQty, ing.Unit)
	}
	newCost := totalPrice / newQty

	if err := s.repo.Update(ctx, ing.ID, ingredients.Patch{Quantity: &newQty, CostPerUnit: &newCost}); err != nil {
		return nil, fmt.Errorf("%w: update %s: %v", ErrPersistence, ing.ID, err)
	}
	s.audit(ctx, ing.ID, ingredients.FieldQuantity, ing.Quantity, newQty, actorID)
	s.audit(ctx, ing.ID, ingredients.FieldCost, ing.CostPerUnit, newCost, actorID)

	out := *ing
	out.Quantity = newQty
	out.CostPerUnit = newCost
	return &out, nil
}

func (s *Service) StockByName(ctx context.Context, name string) (*ingredients.Ingredient, error) {
	return s.findByName(ctx, name)
}

func (s *Service) StockByID(ctx context.Context, id string) (*ingredients.Ingredient, error) {
	ing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find ingredient %s: %w", id, err)
	}
	if ing == nil {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return ing, nil
}

func (s *Service) ListInventory(ctx context.Context) ([]ingredients.Ingredient, error) {
	return s.repo.List(ctx)
}

func (s *Service) findByName(ctx context.Context, name string) (*ingredients.Ingredient, error) {
	ing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("find ingredient %q: %w", name, err)
	}
	if ing == nil {
		return nil, fmt.Errorf("%s: %w", strings.TrimSpace(name), ErrNotFound)
	}
	return ing, nil
}

// audit appends a field-change record. Best effort: a failed append is
// logged and never rolls back or blocks the mutation it accompanies.
func (s *Service) audit(ctx context.Context, id string, field ingredients.AuditField, oldV, newV float64, actorID string) {
	err := s.repo.AppendAudit(ctx, ingredients.AuditEntry{
		IngredientID: id,
		Field:        field,
		OldValue:     oldV,
		NewValue:     newV,
		ActorID:      actorID,
	})
	if err != nil {
		s.log.Warn("audit append failed",
			"ingredient", id, "field", string(field), "err", err)
	}
}
