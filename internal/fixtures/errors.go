package fixtures

import (
	"fmt"
	"strings"
)

// Fixture validation error codes.
const (
	ErrNoAccounts      = "F100" // fixture declares no accounts
	ErrEmptyID         = "F101" // account id is empty
	ErrDuplicateID     = "F102" // account id declared twice
	ErrUnknownStatus   = "F103" // status name not recognized
	ErrUnknownScheme   = "F104" // scheme name not recognized
	ErrInvalidBalance  = "F105" // balance is not a decimal number
	ErrDuplicateScheme = "F106" // scheme listed twice for one account
)

// FixtureError is one problem found in a fixture file.
type FixtureError struct {
	Index   int    `json:"index"`
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e FixtureError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] accounts[%d].%s: %s", e.Code, e.Index, e.Field, e.Message)
}

// FixtureErrors is every problem found in one fixture.
type FixtureErrors []FixtureError

func (errs FixtureErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d fixture error(s): %s", len(errs), strings.Join(msgs, "; "))
}
