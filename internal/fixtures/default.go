// Package fixtures provides the reference account set and loads account
// fixtures from YAML or CUE files.
package fixtures

import (
	"github.com/shopspring/decimal"

	"github.com/roach88/paysim/internal/payment"
)

var allSchemes = payment.AllowedSchemesOf(payment.SupportedSchemes...)

// Default returns the fifteen reference accounts the simulator's
// generated debtors are drawn from. Every call returns a fresh slice.
func Default() []payment.Account {
	return []payment.Account{
		account("1001", 100000, payment.Live, allSchemes),
		account("1002", 600000, payment.Live, allSchemes),
		account("1003", 9000000, payment.Live, allSchemes),
		account("1004", 3400000, payment.InboundPaymentsOnly, allSchemes),
		account("1005", 3520000, payment.Disabled, payment.AllowedSchemesOf(payment.Bacs)),

		account("2001", 400000, payment.Live, allSchemes),
		account("2002", 5600, payment.Live, allSchemes),
		account("2003", 2430000, payment.Live, allSchemes),
		account("2004", 320000, payment.InboundPaymentsOnly, allSchemes),
		account("2005", 76340000, payment.Disabled, allSchemes),

		account("3001", 540000, payment.Live, allSchemes),
		account("3002", 7600000, payment.Live, allSchemes),
		account("3003", 320000, payment.Live, allSchemes),
		account("3004", 65300000, payment.InboundPaymentsOnly, allSchemes),
		account("3005", 1200000, payment.Disabled, allSchemes),
	}
}

func account(id string, balance int64, status payment.AccountStatus, schemes payment.AllowedSchemes) payment.Account {
	return payment.Account{
		ID:             id,
		Balance:        decimal.NewFromInt(balance),
		Status:         status,
		AllowedSchemes: schemes,
	}
}
