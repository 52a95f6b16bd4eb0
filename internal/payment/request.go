package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

// MakePaymentRequest is a single payment instruction. The core never
// checks the creditor account or the sign of Amount.
type MakePaymentRequest struct {
	ID                string
	DebtorAccountID   string
	CreditorAccountID string
	Amount            decimal.Decimal
	Scheme            PaymentScheme
	Date              time.Time
}

// Outcome classifies how an authorization ended.
type Outcome int

const (
	OutcomeAuthorized Outcome = iota + 1
	OutcomeRejected
	OutcomeUnsupportedScheme
	OutcomeStoreFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAuthorized:
		return "authorized"
	case OutcomeRejected:
		return "rejected"
	case OutcomeUnsupportedScheme:
		return "unsupported_scheme"
	case OutcomeStoreFailure:
		return "store_failure"
	default:
		return "unknown"
	}
}

// MakePaymentResult is produced once per request and never mutated.
type MakePaymentResult struct {
	Success bool
	Outcome Outcome
}

// ResultFor builds the result for an outcome. Success is true only for
// OutcomeAuthorized.
func ResultFor(o Outcome) MakePaymentResult {
	return MakePaymentResult{Success: o == OutcomeAuthorized, Outcome: o}
}
