package dialog

// State is a chat's conversational mode. The ledger core is stateless per
// message; mode membership is pure transport bookkeeping.
type State string

const (
	StateIdle        State = "idle"
	StateIngredients State = "ingredients" // Ingredient Manager mode
)

type Item struct {
	ChatID int64
	State  State
}
