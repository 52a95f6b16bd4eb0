package payment

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AccountStatus is the lifecycle state of an account.
type AccountStatus int

const (
	Live AccountStatus = iota
	Disabled
	InboundPaymentsOnly
)

func (s AccountStatus) String() string {
	switch s {
	case Live:
		return "Live"
	case Disabled:
		return "Disabled"
	case InboundPaymentsOnly:
		return "InboundPaymentsOnly"
	default:
		return fmt.Sprintf("AccountStatus(%d)", int(s))
	}
}

// ParseStatus parses a status name case-insensitively.
func ParseStatus(name string) (AccountStatus, error) {
	for _, s := range []AccountStatus{Live, Disabled, InboundPaymentsOnly} {
		if strings.EqualFold(s.String(), strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown account status %q", name)
}

// Account is the state of a customer account. The balance is signed and
// may go negative.
type Account struct {
	ID             string
	Balance        decimal.Decimal
	Status         AccountStatus
	AllowedSchemes AllowedSchemes
}

// Debit returns a copy of the account with amount subtracted from the
// balance. No floor is applied.
func (a Account) Debit(amount decimal.Decimal) Account {
	a.Balance = a.Balance.Sub(amount)
	return a
}
