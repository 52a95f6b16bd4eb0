// Package report holds the simulation report and the reporters that
// render it.
//
// A Report is written by exactly one goroutine, the simulation
// aggregator. Reporters receive clones and may keep them.
package report

import (
	"sort"
)

// Transaction is one completed authorization as seen by the report.
type Transaction struct {
	AccountID string `json:"account"`
	Success   bool   `json:"success"`
}

// Report aggregates simulation outcomes per worker.
type Report struct {
	// TotalTransactions is the number of transactions the run targets.
	TotalTransactions int

	// Workers is the set of worker ids that recorded at least one outcome.
	Workers map[int]struct{}

	// Transactions holds each worker's outcomes in the order they were folded.
	Transactions map[int][]Transaction
}

// New returns an empty report targeting total transactions.
func New(total int) *Report {
	return &Report{
		TotalTransactions: total,
		Workers:           make(map[int]struct{}),
		Transactions:      make(map[int][]Transaction),
	}
}

// Record appends tx to worker's sequence and marks worker as observed.
func (r *Report) Record(worker int, tx Transaction) {
	r.Workers[worker] = struct{}{}
	r.Transactions[worker] = append(r.Transactions[worker], tx)
}

// Recorded returns the number of transactions recorded across all workers.
func (r *Report) Recorded() int {
	n := 0
	for _, txs := range r.Transactions {
		n += len(txs)
	}
	return n
}

// WorkerIDs returns the observed worker ids in ascending order.
func (r *Report) WorkerIDs() []int {
	ids := make([]int, 0, len(r.Workers))
	for id := range r.Workers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Clone returns a deep copy.
func (r *Report) Clone() *Report {
	c := &Report{
		TotalTransactions: r.TotalTransactions,
		Workers:           make(map[int]struct{}, len(r.Workers)),
		Transactions:      make(map[int][]Transaction, len(r.Transactions)),
	}
	for id := range r.Workers {
		c.Workers[id] = struct{}{}
	}
	for id, txs := range r.Transactions {
		c.Transactions[id] = append([]Transaction(nil), txs...)
	}
	return c
}

// Summary counts transactions and successes for one group.
type Summary struct {
	Transactions int     `json:"transactions"`
	Successes    int     `json:"successes"`
	SuccessRatio float64 `json:"success_ratio"`
}

func (s *Summary) add(success bool) {
	s.Transactions++
	if success {
		s.Successes++
	}
}

func (s *Summary) finish() {
	if s.Transactions > 0 {
		s.SuccessRatio = float64(s.Successes) / float64(s.Transactions)
	}
}

// WorkerSummary is the per-worker view used by progress output.
type WorkerSummary struct {
	Worker int `json:"worker"`
	Summary
}

// AccountSummary is the per-account view used by final output.
type AccountSummary struct {
	AccountID string `json:"account"`
	Summary
}

// WorkerSummaries returns one summary per observed worker, ordered by id.
func (r *Report) WorkerSummaries() []WorkerSummary {
	ids := r.WorkerIDs()
	out := make([]WorkerSummary, 0, len(ids))
	for _, id := range ids {
		ws := WorkerSummary{Worker: id}
		for _, tx := range r.Transactions[id] {
			ws.add(tx.Success)
		}
		ws.finish()
		out = append(out, ws)
	}
	return out
}

// AccountSummaries groups every recorded transaction by account id,
// ordered by id.
func (r *Report) AccountSummaries() []AccountSummary {
	byAccount := make(map[string]*AccountSummary)
	for _, txs := range r.Transactions {
		for _, tx := range txs {
			as, ok := byAccount[tx.AccountID]
			if !ok {
				as = &AccountSummary{AccountID: tx.AccountID}
				byAccount[tx.AccountID] = as
			}
			as.add(tx.Success)
		}
	}

	out := make([]AccountSummary, 0, len(byAccount))
	for _, as := range byAccount {
		as.finish()
		out = append(out, *as)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out
}
