package store

import (
	"context"
	"errors"

	"github.com/roach88/paysim/internal/payment"
)

var (
	// ErrAccountNotFound is returned when no account exists for an id.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInjectedFault is returned by stores configured to fail on purpose.
	ErrInjectedFault = errors.New("injected store fault")
)

// AccountStore is the two-operation persistence contract the engine
// depends on.
type AccountStore interface {
	// GetAccount returns a copy of the account, or ErrAccountNotFound.
	GetAccount(ctx context.Context, id string) (payment.Account, error)

	// UpdateAccount replaces an existing account. Unknown ids fail with
	// ErrAccountNotFound.
	UpdateAccount(ctx context.Context, acct payment.Account) error
}
