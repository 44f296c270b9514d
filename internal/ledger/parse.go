package ledger

import (
	"fmt"
	"strconv"
	"strings"
)

// The recognizer only captures text; numbers are parsed here, at the
// service boundary, so a bad capture surfaces as ErrInvalidInput and not
// as a pattern mismatch.

func ParseQuantity(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: quantity %q is not a number", ErrInvalidInput, s)
	}
	return v, nil
}

func ParsePrice(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: price %q is not a number", ErrInvalidInput, s)
	}
	return v, nil
}

// Action is the verb of a relative stock adjustment.
type Action string

const (
	ActionIncrease Action = "increase"
	ActionDecrease Action = "decrease"
	ActionAdd      Action = "add"
	ActionSubtract Action = "subtract"
	ActionAdjust   Action = "adjust" // legacy phrasing, reads as decrease
)

func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionIncrease, ActionDecrease, ActionAdd, ActionSubtract, ActionAdjust:
		return a, nil
	default:
		return "", fmt.Errorf("%w: unknown action %q", ErrInvalidInput, s)
	}
}

// sign is +1 for additions and -1 for removals.
func (a Action) sign() float64 {
	switch a {
	case ActionIncrease, ActionAdd:
		return 1
	default:
		return -1
	}
}
