package ledger

import (
	"errors"
	"fmt"
)

// Expected failure kinds. The service returns these as wrapped sentinel
// values (or the typed errors below); it never panics for them. Anything
// else that comes out of an operation is an unexpected storage/read error
// and is the dispatcher's problem.
var (
	ErrNotFound        = errors.New("ingredient not found")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrInvalidInput    = errors.New("invalid input")
	ErrPersistence     = errors.New("storage write failed")
)

// InsufficientStockError rejects an adjustment that would drive the stored
// quantity negative. The record is left untouched.
type InsufficientStockError struct {
	Name string
	Have float64
	Want float64
	Unit string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock of %s: have %g %s, need %g %s",
		e.Name, e.Have, e.Unit, e.Want, e.Unit)
}
