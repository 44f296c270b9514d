package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpretCorpus(t *testing.T) {
	tests := []struct {
		text string
		want Intent
	}{
		{
			"Bought 1 kg Flour for 5",
			Intent{Kind: Purchase, Name: "Flour", Qty: "1", Unit: "kg", Price: "5"},
		},
		{
			"bought 2.5 kg All-Purpose Flour for $12.75",
			Intent{Kind: Purchase, Name: "All-Purpose Flour", Qty: "2.5", Unit: "kg", Price: "12.75"},
		},
		{
			"Increase Flour stock by 2 kg",
			Intent{Kind: Adjust, Action: "Increase", Name: "Flour", Qty: "2", Unit: "kg"},
		},
		{
			"Decrease Flour stock by 5 kg",
			Intent{Kind: Adjust, Action: "Decrease", Name: "Flour", Qty: "5", Unit: "kg"},
		},
		{
			"Adjust Flour by 1 kg",
			Intent{Kind: Adjust, Action: "Adjust", Name: "Flour", Qty: "1", Unit: "kg"},
		},
		{
			"Add 2 kg to Flour stock",
			Intent{Kind: Adjust, Action: "Add", Qty: "2", Unit: "kg", Name: "Flour"},
		},
		{
			"Subtract 200 g from Flour",
			Intent{Kind: Adjust, Action: "Subtract", Qty: "200", Unit: "g", Name: "Flour"},
		},
		{
			"Set Flour stock to 4 kg",
			Intent{Kind: SetStock, Name: "Flour", Qty: "4", Unit: "kg"},
		},
		{
			"2 kg Flour now costs 11",
			Intent{Kind: BatchPrice, Qty: "2", Unit: "kg", Name: "Flour", Price: "11"},
		},
		{
			"Flour stock is 4 kg worth 20",
			Intent{Kind: StockAndPrice, Name: "Flour", Qty: "4", Unit: "kg", Price: "20"},
		},
		{
			"Used 200 g of Flour",
			Intent{Kind: Usage, Qty: "200", Unit: "g", Name: "Flour"},
		},
		{
			"used 2 l milk",
			Intent{Kind: Usage, Qty: "2", Unit: "l", Name: "milk"},
		},
		{
			"Received 2 kg Flour",
			Intent{Kind: Received, Qty: "2", Unit: "kg", Name: "Flour"},
		},
		{
			"Add new ingredient Sugar: 5 kg at 2.5",
			Intent{Kind: NewIngredient, Name: "Sugar", Qty: "5", Unit: "kg", Price: "2.5"},
		},
		{
			"What is the stock of Sugar?",
			Intent{Kind: StockQuery, Name: "Sugar"},
		},
		{
			"what's the stock of brown sugar",
			Intent{Kind: StockQuery, Name: "brown sugar"},
		},
		{
			"Check stock for ING001",
			Intent{Kind: StockQueryID, ID: "ING001"},
		},
		{
			"Check stock for Flour",
			Intent{Kind: StockQuery, Name: "Flour"},
		},
		{
			"Show inventory",
			Intent{Kind: Report},
		},
		{
			"inventory report",
			Intent{Kind: Report},
		},
		{
			"Export inventory",
			Intent{Kind: Export},
		},
		{
			"STOP",
			Intent{Kind: Exit},
		},
		{
			"qwerty nonsense",
			Intent{Kind: Unrecognized},
		},
		{
			"",
			Intent{Kind: Unrecognized},
		},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := Interpret(tt.text)
			tt.want.Raw = tt.text
			assert.Equal(t, tt.want, got)
		})
	}
}

// Overlapping shapes must resolve by rule order, not by accident: the
// purchase rule owns "bought ... for ...", the adjust rules own the
// action verbs, and the id-shaped query outranks the name query.
func TestInterpretPriority(t *testing.T) {
	assert.Equal(t, Purchase, Interpret("Bought 1 kg Flour for 5").Kind)
	assert.Equal(t, Adjust, Interpret("Add 2 kg to Flour").Kind)
	assert.Equal(t, NewIngredient, Interpret("Add new ingredient Flour: 2 kg at 5").Kind)
	assert.Equal(t, StockQueryID, Interpret("check stock of ING042").Kind)
	assert.Equal(t, StockQuery, Interpret("check stock of eggs").Kind)
}

func TestInterpretTrimsAndKeepsRaw(t *testing.T) {
	got := Interpret("   Bought 1 kg Flour for 5   ")
	assert.Equal(t, Purchase, got.Kind)
	assert.Equal(t, "Flour", got.Name)
	assert.Equal(t, "   Bought 1 kg Flour for 5   ", got.Raw)
}
