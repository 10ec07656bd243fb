package engine

import "fmt"

// Every failed execution wraps one of these sentinels with the violated
// constraint, so callers can both branch on the kind and report the amounts.
// Failures never mutate account state.
var (
	ErrInsufficientFunds  = fmt.Errorf("insufficient funds")
	ErrNoPosition         = fmt.Errorf("no position")
	ErrInsufficientShares = fmt.Errorf("insufficient shares")
	ErrInsufficientMargin = fmt.Errorf("insufficient margin")
	ErrUnsupported        = fmt.Errorf("unsupported operation")
	ErrInvalidQuantity    = fmt.Errorf("invalid quantity")
	ErrInvalidPrice       = fmt.Errorf("invalid price")
)
