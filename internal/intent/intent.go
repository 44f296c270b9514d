// Package intent classifies raw chat text into structured intents. The
// recognizer is purely syntactic: it captures fields as text and leaves
// numeric parsing to the ledger boundary.
package intent

// Kind identifies one supported command shape.
type Kind string

const (
	Purchase      Kind = "purchase"
	Adjust        Kind = "adjust"
	SetStock      Kind = "set_stock"
	BatchPrice    Kind = "batch_price"
	StockAndPrice Kind = "stock_and_price"
	Usage         Kind = "usage"
	Received      Kind = "received"
	NewIngredient Kind = "new_ingredient"
	StockQueryID  Kind = "stock_query_id"
	StockQuery    Kind = "stock_query"
	Report        Kind = "report"
	Export        Kind = "export"
	Exit          Kind = "exit"
	Unrecognized  Kind = "unrecognized"
)

// Intent is the verb-plus-operands result of classifying one utterance.
// All operand fields are raw captures; empty means the pattern has no such
// field.
type Intent struct {
	Kind   Kind
	Raw    string
	Name   string
	ID     string
	Action string
	Qty    string
	Unit   string
	Price  string
}
