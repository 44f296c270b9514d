package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ovenlog/bakery-bot/internal/domain/ingredients"
	"github.com/ovenlog/bakery-bot/internal/domain/units"
	"github.com/ovenlog/bakery-bot/internal/intent"
	"github.com/ovenlog/bakery-bot/internal/ledger"
	"github.com/ovenlog/bakery-bot/internal/metrics"
)

// HandleMessage is the single call surface the transport uses: raw text
// in, reply text out. Expected failures (lookup miss, bad input, missing
// conversion rate) render as replies; anything unexpected is caught here
// and turned into a generic retry message, so the user always hears back.
func (b *Bot) HandleMessage(ctx context.Context, raw, actorID string) (reply string) {
	metrics.MessagesTotal.Inc()
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("panic while handling message", "panic", r, "text", raw)
			reply = msgInternalError
		}
	}()

	in := intent.Interpret(raw)
	metrics.IntentsTotal.WithLabelValues(string(in.Kind)).Inc()
	return b.dispatch(ctx, in, actorID)
}

func (b *Bot) dispatch(ctx context.Context, in intent.Intent, actorID string) string {
	switch in.Kind {
	case intent.Purchase:
		qty, err := ledger.ParseQuantity(in.Qty)
		if err != nil {
			return b.renderError(in, err)
		}
		price, err := ledger.ParsePrice(in.Price)
		if err != nil {
			return b.renderError(in, err)
		}
		out, err := b.svc.ProcessPurchase(ctx, in.Name, qty, in.Unit, price, actorID)
		if err != nil {
			return b.renderError(in, err)
		}
		ing := out.Ingredient
		if out.Created {
			return fmt.Sprintf("✅ Added new ingredient %s (%s): %s %s at %s per %s.",
				ing.Name, ing.ID, fmtQty(ing.Quantity), ing.Unit, fmtPrice(ing.CostPerUnit), ing.Unit)
		}
		if out.PriceRaised {
			return fmt.Sprintf("✅ %s: stock is now %s %s, cost per %s raised to %s.",
				ing.Name, fmtQty(ing.Quantity), ing.Unit, ing.Unit, fmtPrice(ing.CostPerUnit))
		}
		return fmt.Sprintf("✅ %s: stock is now %s %s, cost per %s unchanged at %s.",
			ing.Name, fmtQty(ing.Quantity), ing.Unit, ing.Unit, fmtPrice(ing.CostPerUnit))

	case intent.Adjust, intent.Usage, intent.Received:
		action := ledger.ActionDecrease
		switch in.Kind {
		case intent.Received:
			action = ledger.ActionIncrease
		case intent.Adjust:
			var err error
			action, err = ledger.ParseAction(in.Action)
			if err != nil {
				return b.renderError(in, err)
			}
		}
		qty, err := ledger.ParseQuantity(in.Qty)
		if err != nil {
			return b.renderError(in, err)
		}
		ing, err := b.svc.AdjustQuantity(ctx, in.Name, action, qty, in.Unit, actorID)
		if err != nil {
			return b.renderError(in, err)
		}
		return fmt.Sprintf("✅ %s: stock is now %s %s.", ing.Name, fmtQty(ing.Quantity), ing.Unit)

	case intent.SetStock:
		qty, err := ledger.ParseQuantity(in.Qty)
		if err != nil {
			return b.renderError(in, err)
		}
		ing, err := b.svc.SetAbsoluteQuantity(ctx, in.Name, qty, in.Unit, actorID)
		if err != nil {
			return b.renderError(in, err)
		}
		return fmt.Sprintf("✅ %s: stock set to %s %s.", ing.Name, fmtQty(ing.Quantity), ing.Unit)

	case intent.BatchPrice:
		qty, err := ledger.ParseQuantity(in.Qty)
		if err != nil {
			return b.renderError(in, err)
		}
		price, err := ledger.ParsePrice(in.Price)
		if err != nil {
			return b.renderError(in, err)
		}
		ing, err := b.svc.UpdateCostFromBatch(ctx, in.Name, qty, in.Unit, price, actorID)
		if err != nil {
			return b.renderError(in, err)
		}
		return fmt.Sprintf("✅ %s: cost per %s set to %s.", ing.Name, ing.Unit, fmtPrice(ing.CostPerUnit))

	case intent.StockAndPrice:
		qty, err := ledger.ParseQuantity(in.Qty)
		if err != nil {
			return b.renderError(in, err)
		}
		price, err := ledger.ParsePrice(in.Price)
		if err != nil {
			return b.renderError(in, err)
		}
		ing, err := b.svc.SetStockAndPrice(ctx, in.Name, qty, in.Unit, price, actorID)
		if err != nil {
			return b.renderError(in, err)
		}
		return fmt.Sprintf("✅ %s: stock set to %s %s, cost per %s set to %s.",
			ing.Name, fmtQty(ing.Quantity), ing.Unit, ing.Unit, fmtPrice(ing.CostPerUnit))

	case intent.NewIngredient:
		qty, err := ledger.ParseQuantity(in.Qty)
		if err != nil {
			return b.renderError(in, err)
		}
		cost, err := ledger.ParsePrice(in.Price)
		if err != nil {
			return b.renderError(in, err)
		}
		ing, err := b.svc.CreateIngredient(ctx, in.Name, qty, in.Unit, cost, actorID)
		if err != nil {
			return b.renderError(in, err)
		}
		return fmt.Sprintf("✅ Added new ingredient %s (%s): %s %s at %s per %s.",
			ing.Name, ing.ID, fmtQty(ing.Quantity), ing.Unit, fmtPrice(ing.CostPerUnit), ing.Unit)

	case intent.StockQuery:
		ing, err := b.svc.StockByName(ctx, in.Name)
		if err != nil {
			return b.renderError(in, err)
		}
		return renderStockLine(ing)

	case intent.StockQueryID:
		ing, err := b.svc.StockByID(ctx, in.ID)
		if err != nil {
			return b.renderError(in, err)
		}
		return renderStockLine(ing)

	case intent.Report, intent.Export:
		// Export proper (the xlsx document) is handled by the transport;
		// on a text-only surface it degrades to the plain report.
		list, err := b.svc.ListInventory(ctx)
		if err != nil {
			return b.renderError(in, err)
		}
		return renderReport(list)

	case intent.Exit:
		return msgExit

	default:
		return msgHelpFallback
	}
}

func (b *Bot) renderError(in intent.Intent, err error) string {
	var conv *units.NotFoundError
	var insuf *ledger.InsufficientStockError
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		metrics.RepliesFailedTotal.WithLabelValues("not_found").Inc()
		subject := in.Name
		if subject == "" {
			subject = in.ID
		}
		return fmt.Sprintf("❌ I couldn't find %q in the ledger. A purchase like \"Bought 1 kg %s for 5\" will create it.", subject, subject)

	case errors.As(err, &conv):
		metrics.RepliesFailedTotal.WithLabelValues("conversion_not_found").Inc()
		return fmt.Sprintf("❌ I don't know how to convert %s to %s. Nothing was changed.", conv.From, conv.To)

	case errors.As(err, &insuf):
		metrics.RepliesFailedTotal.WithLabelValues("insufficient_stock").Inc()
		return fmt.Sprintf("❌ Not enough %s: only %s %s on hand, tried to remove %s %s. Nothing was changed.",
			insuf.Name, fmtQty(insuf.Have), insuf.Unit, fmtQty(insuf.Want), insuf.Unit)

	case errors.Is(err, ledger.ErrInvalidQuantity):
		metrics.RepliesFailedTotal.WithLabelValues("invalid_quantity").Inc()
		return "❌ That quantity doesn't work here — it must be a positive number."

	case errors.Is(err, ledger.ErrInvalidInput):
		metrics.RepliesFailedTotal.WithLabelValues("invalid_input").Inc()
		return fmt.Sprintf("❌ %v.", err)

	case errors.Is(err, ledger.ErrPersistence):
		metrics.RepliesFailedTotal.WithLabelValues("persistence").Inc()
		b.log.Error("ledger write failed", "err", err)
		return "⚠️ I couldn't save that change. Please try again in a moment."

	default:
		metrics.RepliesFailedTotal.WithLabelValues("internal").Inc()
		b.log.Error("unexpected ledger error", "err", err)
		return msgInternalError
	}
}

func renderStockLine(ing *ingredients.Ingredient) string {
	return fmt.Sprintf("📦 %s (%s): %s %s on hand, cost %s per %s.",
		ing.Name, ing.ID, fmtQty(ing.Quantity), ing.Unit, fmtPrice(ing.CostPerUnit), ing.Unit)
}

func renderReport(list []ingredients.Ingredient) string {
	if len(list) == 0 {
		return "📋 The ledger is empty. Record a purchase to add your first ingredient."
	}
	var sb strings.Builder
	sb.WriteString("📋 Inventory:\n")
	for _, ing := range list {
		fmt.Fprintf(&sb, "• %s (%s): %s %s, %s per %s\n",
			ing.Name, ing.ID, fmtQty(ing.Quantity), ing.Unit, fmtPrice(ing.CostPerUnit), ing.Unit)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func fmtQty(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func fmtPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
