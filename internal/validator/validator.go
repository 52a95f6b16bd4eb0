// Package validator holds the per-scheme authorization policies.
//
// Policies are pure predicates over an account snapshot and a request.
// They are deliberately heterogeneous:
//
//	Bacs            scheme allowed
//	Chaps           scheme allowed, account Live
//	FasterPayments  scheme allowed, balance covers the amount
//
// A nil account always fails.
package validator

import (
	"github.com/roach88/paysim/internal/payment"
)

// Validator decides whether a request may be authorized against an account.
// Implementations must not mutate either argument.
type Validator interface {
	Validate(account *payment.Account, req payment.MakePaymentRequest) bool
}

// Bacs authorizes any existing account that allows Bacs. Status and balance
// are not checked.
type Bacs struct{}

func (Bacs) Validate(account *payment.Account, _ payment.MakePaymentRequest) bool {
	return account != nil && account.AllowedSchemes.Has(payment.Bacs)
}

// Chaps requires the scheme and a Live account. Overdraft is permitted.
type Chaps struct{}

func (Chaps) Validate(account *payment.Account, _ payment.MakePaymentRequest) bool {
	return account != nil &&
		account.AllowedSchemes.Has(payment.Chaps) &&
		account.Status == payment.Live
}

// FasterPayments requires the scheme and a balance that covers the amount.
// Status is not checked.
type FasterPayments struct{}

func (FasterPayments) Validate(account *payment.Account, req payment.MakePaymentRequest) bool {
	return account != nil &&
		account.AllowedSchemes.Has(payment.FasterPayments) &&
		account.Balance.GreaterThanOrEqual(req.Amount)
}
