package scenario

import (
	"fmt"
	"strings"

	"github.com/roach88/paysim/internal/report"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions checks every assertion against rep and returns the
// failure messages.
func EvaluateAssertions(rep *report.Report, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertRecordedTotal:
			err = assertRecordedTotal(rep, a)
		case AssertWorkersObserved:
			err = assertWorkersObserved(rep, a)
		case AssertWorkerTransactions:
			err = assertWorkerTransactions(rep, a)
		case AssertAccountTransactions:
			err = assertAccountTransactions(rep, a)
		case AssertAccountSuccess:
			err = assertAccountSuccess(rep, a)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}
		if err != nil {
			failures = append(failures, err.Error())
		}
	}
	return failures
}

func assertRecordedTotal(rep *report.Report, a Assertion) error {
	want := rep.TotalTransactions
	if a.Count != nil {
		want = *a.Count
	}
	if got := rep.Recorded(); got != want {
		return &AssertionError{
			Type:     AssertRecordedTotal,
			Expected: fmt.Sprintf("%d recorded transactions", want),
			Actual:   fmt.Sprintf("%d recorded transactions", got),
		}
	}
	return nil
}

func assertWorkersObserved(rep *report.Report, a Assertion) error {
	if got := len(rep.Workers); got != *a.Count {
		return &AssertionError{
			Type:     AssertWorkersObserved,
			Expected: fmt.Sprintf("%d workers", *a.Count),
			Actual:   fmt.Sprintf("%d workers %v", got, rep.WorkerIDs()),
		}
	}
	return nil
}

func assertWorkerTransactions(rep *report.Report, a Assertion) error {
	if got := len(rep.Transactions[*a.Worker]); got != *a.Count {
		return &AssertionError{
			Type:     AssertWorkerTransactions,
			Expected: fmt.Sprintf("%d transactions on worker %d", *a.Count, *a.Worker),
			Actual:   fmt.Sprintf("%d transactions", got),
		}
	}
	return nil
}

func findAccount(rep *report.Report, id string) (report.AccountSummary, bool) {
	for _, as := range rep.AccountSummaries() {
		if as.AccountID == id {
			return as, true
		}
	}
	return report.AccountSummary{}, false
}

func assertAccountTransactions(rep *report.Report, a Assertion) error {
	as, _ := findAccount(rep, a.Account)
	if as.Transactions != *a.Count {
		return &AssertionError{
			Type:     AssertAccountTransactions,
			Expected: fmt.Sprintf("%d transactions for account %s", *a.Count, a.Account),
			Actual:   fmt.Sprintf("%d transactions", as.Transactions),
		}
	}
	return nil
}

func assertAccountSuccess(rep *report.Report, a Assertion) error {
	as, ok := findAccount(rep, a.Account)
	if !ok {
		return &AssertionError{
			Type:     AssertAccountSuccess,
			Expected: fmt.Sprintf("transactions for account %s", a.Account),
			Actual:   "account not in report",
		}
	}

	if (a.MinRatio != nil && as.SuccessRatio < *a.MinRatio) ||
		(a.MaxRatio != nil && as.SuccessRatio > *a.MaxRatio) {
		return &AssertionError{
			Type:     AssertAccountSuccess,
			Expected: fmt.Sprintf("success ratio for account %s within %s", a.Account, ratioBounds(a)),
			Actual:   fmt.Sprintf("%.4f (%d of %d)", as.SuccessRatio, as.Successes, as.Transactions),
		}
	}
	return nil
}

func ratioBounds(a Assertion) string {
	lo, hi := 0.0, 1.0
	if a.MinRatio != nil {
		lo = *a.MinRatio
	}
	if a.MaxRatio != nil {
		hi = *a.MaxRatio
	}
	return fmt.Sprintf("[%.4f, %.4f]", lo, hi)
}
