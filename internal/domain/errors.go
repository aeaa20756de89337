package domain

import (
	"errors"
	"fmt"
)

// Not-found and precondition errors surfaced to users as short
// messages; none of these are fatal.
var (
	ErrItemNotFound    = errors.New("item not found")
	ErrHeroNotFound    = errors.New("hero not found")
	ErrMonsterNotFound = errors.New("monster not found")
	ErrAccountNotFound = errors.New("account not found")

	ErrInvalidCount  = errors.New("count must be positive")
	ErrInvalidName   = errors.New("name must not be empty")
	ErrInvalidStock  = errors.New("stock must be -1 or non-negative")
	ErrInvalidRecipe = errors.New("recipe components and result must be positive")

	ErrTagConflict       = errors.New("an item with one of these tags is already owned")
	ErrNotSellable       = errors.New("item cannot be sold")
	ErrNotUsable         = errors.New("item cannot be used")
	ErrNotHeld           = errors.New("item is not in the inventory")
	ErrNoRecipe          = errors.New("no satisfiable recipe")
	ErrMalformedPrice    = errors.New("tiered price is missing its ALL fallback")
	ErrHeroCapReached    = errors.New("hero limit for this guild reached")
	ErrHeroAccountExists = errors.New("this hero already has an account")
	ErrNoHeroAccount     = errors.New("this hero has no account")
	ErrNameTaken         = errors.New("that name is already taken")
	ErrMissingPermission = errors.New("missing permission")
)

// InsufficientFundsError rejects a purchase or transfer. Affordable is
// the maximum quantity the buyer could afford instead; it is zero when
// no reduced-quantity offer applies (hero accounts always get zero).
type InsufficientFundsError struct {
	Affordable int64
}

func (e *InsufficientFundsError) Error() string {
	if e.Affordable > 0 {
		return fmt.Sprintf("not enough money (could afford %d)", e.Affordable)
	}
	return "not enough money"
}

// InsufficientStockError rejects a purchase exceeding finite stock.
// Available is the remaining stock offered instead, zero when no offer
// applies.
type InsufficientStockError struct {
	Available int64
}

func (e *InsufficientStockError) Error() string {
	if e.Available > 0 {
		return fmt.Sprintf("not enough stock (%d left)", e.Available)
	}
	return "out of stock"
}
