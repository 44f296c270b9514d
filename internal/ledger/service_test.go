package ledger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovenlog/bakery-bot/internal/domain/ingredients"
	"github.com/ovenlog/bakery-bot/internal/domain/units"
	"github.com/ovenlog/bakery-bot/internal/ledger/ledgertest"
)

func newTestService(t *testing.T) (*Service, *ledgertest.Repo) {
	t.Helper()
	repo := ledgertest.NewRepo()
	log := slog.Default()
	svc := NewService(repo, ledgertest.KitchenRates(), NewAllocator(repo, log), log)
	return svc, repo
}

func seedFlour(repo *ledgertest.Repo, qty, cost float64) {
	repo.Seed(ingredients.Ingredient{
		ID: "ING001", Name: "Flour", Quantity: qty, Unit: "kg", CostPerUnit: cost,
	})
	repo.Counters[CounterIngredientID] = "ING002"
}

func TestPurchaseCreatesUnknownIngredient(t *testing.T) {
	svc, repo := newTestService(t)

	out, err := svc.ProcessPurchase(context.Background(), "Flour", 1, "kg", 5, "u1")
	require.NoError(t, err)
	assert.True(t, out.Created)
	assert.Equal(t, "ING001", out.Ingredient.ID)
	assert.Equal(t, 1.0, out.Ingredient.Quantity)
	assert.Equal(t, "kg", out.Ingredient.Unit)
	assert.Equal(t, 5.0, out.Ingredient.CostPerUnit)

	stored, ok := repo.Get("ING001")
	require.True(t, ok)
	assert.Equal(t, "Flour", stored.Name)
}

func TestPurchaseRaisesPrice(t *testing.T) {
	svc, repo := newTestService(t)
	seedFlour(repo, 1, 5)

	out, err := svc.ProcessPurchase(context.Background(), "Flour", 1, "kg", 6, "u1")
	require.NoError(t, err)
	assert.False(t, out.Created)
	assert.True(t, out.PriceRaised)
	assert.Equal(t, 2.0, out.Ingredient.Quantity)
	assert.Equal(t, 6.0, out.Ingredient.CostPerUnit)

	// one quantity entry and one cost entry in the audit stream
	require.Len(t, repo.Audit, 2)
	assert.Equal(t, ingredients.FieldQuantity, repo.Audit[0].Field)
	assert.Equal(t, ingredients.FieldCost, repo.Audit[1].Field)
	assert.Equal(t, 5.0, repo.Audit[1].OldValue)
	assert.Equal(t, 6.0, repo.Audit[1].NewValue)
}

func TestPurchaseNeverLowersPrice(t *testing.T) {
	svc, repo := newTestService(t)
	seedFlour(repo, 1, 5)

	out, err := svc.ProcessPurchase(context.Background(), "Flour", 1, "kg", 4, "u1")
	require.NoError(t, err)
	assert.False(t, out.PriceRaised)
	assert.Equal(t, 2.0, out.Ingredient.Quantity)
	assert.Equal(t, 5.0, out.Ingredient.CostPerUnit)

	// only the quantity change was audited
	require.Len(t, repo.Audit, 1)
	assert.Equal(t, ingredients.FieldQuantity, repo.Audit[0].Field)
}

func TestPurchaseCostMonotone(t *testing.T) {
	svc, repo := newTestService(t)
	seedFlour(repo, 0, 0)

	last := 0.0
	for _, total := range []float64{5, 3, 8, 1, 8.5, 0.2} {
		out, err := svc.ProcessPurchase(context.Background(), "Flour", 1, "kg", total, "u1")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, out.Ingredient.CostPerUnit, last)
		last = out.Ingredient.CostPerUnit
	}
}

func TestPurchaseConvertsUnits(t *testing.T) {
	svc, repo := newTestService(t)
	repo.Seed(ingredients.Ingredient{
		ID: "ING001", Name: "Flour", Quantity: 500, Unit: "g", CostPerUnit: 0.004,
	})
	repo.Counters[CounterIngredientID] = "ING002"

	out, err := svc.ProcessPurchase(context.Background(), "Flour", 1, "kg", 6, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1500.0, out.Ingredient.Quantity)
	assert.InDelta(t, 6.0/1000, out.Ingredient.CostPerUnit, 1e-12)
	assert.Equal(t, 1000.0, out.Added)
}

func TestPurchaseUnknownUnitAborts(t *testing.T) {
	svc, repo := newTestService(t)
	seedFlour(repo, 1, 5)

	_, err := svc.ProcessPurchase(context.Background(), "Flour", 1, "bag", 5, "u1")
	var nf *units.NotFoundError
	require.ErrorAs(t, err, &nf)

	stored, _ := repo.Get("ING001")
	assert.Equal(t, 1.0, stored.Quantity, "aborted purchase must not apply partially")
	assert.Empty(t, repo.Audit)
}

func TestPurchaseRejectsBadInput(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ProcessPurchase(context.Background(), "Flour", 0, "kg", 5, "u1")
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.ProcessPurchase(context.Background(), "Flour", 1, "kg", -5, "u1")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCaseInsensitiveLookup(t *testing.T) {
	svc, repo := newTestService(t)
	seedFlour(repo, 1, 5)

	out, err := svc.ProcessPurchase(context.Background(), "fLOUr", 1, "kg", 5, "u1")
	require.NoError(t, err)
	assert.False(t, out.Created, "existing record must be reused")
	assert.Equal(t, 2.0, out.Ingredient.Quantity)
}

func TestSetAbsoluteQuantityOverwrites(t *testing.T) {
	svc, repo := newTestService(t)
	seedFlour(repo, 7, 5)

	ing, err := svc.SetAbsoluteQuantity(context.Background(), "Flour", 4, "kg", "u1")
	require.NoError(t, err)
	assert.Equal(t, 4.0, ing.Quantity, "matching unit means plain overwrite")

	ing, err = svc.SetAbsoluteQuantity(context.Background(), "Flour", 500, "g", "u1")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, ing.Quantity, 1e-12)

	_, err = svc.SetAbsoluteQuantity(context.Background(), "Flour", -1, "kg", "u1")
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestAdjustQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("increase and decrease", func(t *testing.T) {
		svc, repo := newTestService(t)
		seedFlour(repo, 2, 5)

		ing, err := svc.AdjustQuantity(ctx, "Flour", ActionIncrease, 500, "g", "u1")
		require.NoError(t, err)
		assert.InDelta(t, 2.5, ing.Quantity, 1e-12)

		ing, err = svc.AdjustQuantity(ctx, "Flour", ActionDecrease, 1, "kg", "u1")
		require.NoError(t, err)
		assert.InDelta(t, 1.5, ing.Quantity, 1e-12)
	})

	t.Run("adjust verb means decrease", func(t *testing.T) {
		svc, repo := newTestService(t)
		seedFlour(repo, 2, 5)

		ing, err := svc.AdjustQuantity(ctx, "Flour", ActionAdjust, 1, "kg", "u1")
		require.NoError(t, err)
		assert.Equal(t, 1.0, ing.Quantity)
	})

	t.Run("refuses to go negative", func(t *testing.T) {
		svc, repo := newTestService(t)
		seedFlour(repo, 2, 5)

		_, err := svc.AdjustQuantity(ctx, "Flour", ActionDecrease, 5, "kg", "u1")
		var insuf *InsufficientStockError
		require.ErrorAs(t, err, &insuf)
		assert.Equal(t, 2.0, insuf.Have)
		assert.Equal(t, 5.0, insuf.Want)

		stored, _ := repo.Get("ING001")
		assert.Equal(t, 2.0, stored.Quantity, "refused write must leave the record unchanged")
		assert.Zero(t, repo.UpdateCalls)
	})

	t.Run("rejects non-positive magnitude", func(t *testing.T) {
		svc, repo := newTestService(t)
		seedFlour(repo, 2, 5)

		_, err := svc.AdjustQuantity(ctx, "Flour", ActionIncrease, 0, "kg", "u1")
		require.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("unknown ingredient", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.AdjustQuantity(ctx, "Saffron", ActionIncrease, 1, "g", "u1")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUpdateCostFromBatchSetsUnconditionally(t *testing.T) {
	svc, repo := newTestService(t)
	seedFlour(repo, 2, 5)

	// 2 kg now costs 6 => 3 per kg, below the stored 5: still written
	ing, err := svc.UpdateCostFromBatch(context.Background(), "Flour", 2, "kg", 6, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3.0, ing.CostPerUnit)
	assert.Equal(t, 2.0, ing.Quantity, "batch price statement leaves stock alone")

	require.Len(t, repo.Audit, 1)
	assert.Equal(t, ingredients.FieldCost, repo.Audit[0].Field)
}

func TestSetStockAndPriceSingleWrite(t *testing.T) {
	svc, repo := newTestService(t)
	seedFlour(repo, 1, 5)

	ing, err := svc.SetStockAndPrice(context.Background(), "Flour", 4, "kg", 20, "u1")
	require.NoError(t, err)
	assert.Equal(t, 4.0, ing.Quantity)
	assert.Equal(t, 5.0, ing.CostPerUnit)
	assert.Equal(t, 1, repo.UpdateCalls, "both fields must land in one repository write")

	// round trip through a fresh read
	got, err := svc.StockByName(context.Background(), "Flour")
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.Quantity)
	assert.Equal(t, 20.0/4.0, got.CostPerUnit)

	require.Len(t, repo.Audit, 2)
}

func TestSetStockAndPriceConvertsBeforeDividing(t *testing.T) {
	svc, repo := newTestService(t)
	seedFlour(repo, 1, 0.001)

	// 4000 g = 4 kg, 20 total => 5 per kg
	ing, err := svc.SetStockAndPrice(context.Background(), "Flour", 4000, "g", 20, "u1")
	require.NoError(t, err)
	assert.InDelta(t, 4.0, ing.Quantity, 1e-9)
	assert.InDelta(t, 5.0, ing.CostPerUnit, 1e-9)
}

func TestCreateIngredient(t *testing.T) {
	svc, repo := newTestService(t)

	ing, err := svc.CreateIngredient(context.Background(), "Sugar", 5, "KG ", 2.5, "u1")
	require.NoError(t, err)
	assert.Equal(t, "ING001", ing.ID)
	assert.Equal(t, "kg", ing.Unit, "stored unit token is normalized")

	_, err = svc.CreateIngredient(context.Background(), "  ", 5, "kg", 2.5, "u1")
	require.ErrorIs(t, err, ErrInvalidInput)

	repo.FailCreate = true
	_, err = svc.CreateIngredient(context.Background(), "Salt", 1, "kg", 1, "u1")
	require.ErrorIs(t, err, ErrPersistence)
}

func TestAuditFailureNeverBlocksMutation(t *testing.T) {
	svc, repo := newTestService(t)
	seedFlour(repo, 1, 5)
	repo.FailAudit = true

	out, err := svc.ProcessPurchase(context.Background(), "Flour", 1, "kg", 6, "u1")
	require.NoError(t, err, "audit is best effort; the mutation must stand")
	assert.Equal(t, 2.0, out.Ingredient.Quantity)

	stored, _ := repo.Get("ING001")
	assert.Equal(t, 6.0, stored.CostPerUnit)
}

func TestPersistenceErrorOnUpdate(t *testing.T) {
	svc, repo := newTestService(t)
	seedFlour(repo, 1, 5)
	repo.FailUpdate = true

	_, err := svc.ProcessPurchase(context.Background(), "Flour", 1, "kg", 6, "u1")
	require.ErrorIs(t, err, ErrPersistence)
}

func TestStockLookups(t *testing.T) {
	svc, repo := newTestService(t)
	seedFlour(repo, 2, 5)

	ing, err := svc.StockByID(context.Background(), "ING001")
	require.NoError(t, err)
	assert.Equal(t, "Flour", ing.Name)

	_, err = svc.StockByID(context.Background(), "ING999")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.StockByName(context.Background(), "Sugar")
	require.ErrorIs(t, err, ErrNotFound)
}
