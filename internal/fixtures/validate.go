package fixtures

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/roach88/paysim/internal/payment"
)

// Validate checks a parsed fixture and returns every problem found
// (it does not stop at the first one).
func Validate(f *File) []FixtureError {
	var errs []FixtureError

	if len(f.Accounts) == 0 {
		return []FixtureError{{
			Index:   -1,
			Field:   "accounts",
			Message: "at least one account is required",
			Code:    ErrNoAccounts,
		}}
	}

	seen := make(map[string]int, len(f.Accounts))
	for i, spec := range f.Accounts {
		if spec.ID == "" {
			errs = append(errs, FixtureError{
				Index: i, Field: "id", Message: "id is required", Code: ErrEmptyID,
			})
		} else if first, dup := seen[spec.ID]; dup {
			errs = append(errs, FixtureError{
				Index:   i,
				Field:   "id",
				Message: fmt.Sprintf("id %q already declared at accounts[%d]", spec.ID, first),
				Code:    ErrDuplicateID,
			})
		} else {
			seen[spec.ID] = i
		}

		if _, err := parseBalance(spec.Balance); err != nil {
			errs = append(errs, FixtureError{
				Index: i, Field: "balance", Message: err.Error(), Code: ErrInvalidBalance,
			})
		}

		if _, err := payment.ParseStatus(spec.Status); err != nil {
			errs = append(errs, FixtureError{
				Index: i, Field: "status", Message: err.Error(), Code: ErrUnknownStatus,
			})
		}

		listed := make(map[payment.PaymentScheme]bool, len(spec.Schemes))
		for j, name := range spec.Schemes {
			scheme, err := payment.ParseScheme(name)
			if err != nil {
				errs = append(errs, FixtureError{
					Index:   i,
					Field:   fmt.Sprintf("schemes[%d]", j),
					Message: err.Error(),
					Code:    ErrUnknownScheme,
				})
				continue
			}
			if listed[scheme] {
				errs = append(errs, FixtureError{
					Index:   i,
					Field:   fmt.Sprintf("schemes[%d]", j),
					Message: fmt.Sprintf("scheme %s listed more than once", scheme),
					Code:    ErrDuplicateScheme,
				})
			}
			listed[scheme] = true
		}
	}

	return errs
}

func parseBalance(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("balance is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid balance %q", s)
	}
	return d, nil
}
