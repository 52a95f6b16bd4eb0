package simulation

import (
	"github.com/roach88/paysim/internal/payment"
	"github.com/roach88/paysim/internal/report"
)

// Outcome is what a worker hands to the aggregator for one request.
type Outcome struct {
	Seq       int
	Worker    int
	AccountID string
	Scheme    payment.PaymentScheme
	Result    payment.MakePaymentResult
}

// Aggregator buffers outcomes and folds them into a report in batches.
//
// Thread-safety: none. Exactly one goroutine may use an Aggregator.
type Aggregator struct {
	report  *report.Report
	pending []Outcome
}

// NewAggregator returns an aggregator for a run of total transactions.
func NewAggregator(total int) *Aggregator {
	return &Aggregator{report: report.New(total)}
}

// Add buffers o until the next Fold.
func (a *Aggregator) Add(o Outcome) {
	a.pending = append(a.pending, o)
}

// Pending returns the number of buffered outcomes.
func (a *Aggregator) Pending() int {
	return len(a.pending)
}

// Fold moves every buffered outcome into the report, preserving arrival
// order per worker, and returns how many were folded.
func (a *Aggregator) Fold() int {
	n := len(a.pending)
	for _, o := range a.pending {
		a.report.Record(o.Worker, report.Transaction{
			AccountID: o.AccountID,
			Success:   o.Result.Success,
		})
	}
	a.pending = a.pending[:0]
	return n
}

// Snapshot returns a deep copy of the folded report. Buffered outcomes
// are not included.
func (a *Aggregator) Snapshot() *report.Report {
	return a.report.Clone()
}

// Report returns the live report. Callers must not use the aggregator
// afterwards.
func (a *Aggregator) Report() *report.Report {
	return a.report
}
