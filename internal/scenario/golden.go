package scenario

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Summary is the order-independent view of a scenario run used for golden
// comparison. Only per-worker totals are kept since the order in which a
// worker's transactions complete varies between runs.
type Summary struct {
	Scenario     string          `json:"scenario"`
	Workers      int             `json:"workers"`
	Transactions int             `json:"transactions"`
	Seed         uint64          `json:"seed"`
	Recorded     int             `json:"recorded"`
	Successes    int             `json:"successes"`
	Pass         bool            `json:"pass"`
	PerWorker    []WorkerSummary `json:"per_worker"`
	Errors       []string        `json:"errors,omitempty"`
}

// WorkerSummary is one worker's totals.
type WorkerSummary struct {
	Worker       int `json:"worker"`
	Transactions int `json:"transactions"`
	Successes    int `json:"successes"`
}

// Summarize builds the deterministic JSON summary of a scenario run.
func Summarize(s *Scenario, result *Result) ([]byte, error) {
	sum := Summary{
		Scenario:     s.Name,
		Workers:      s.Workers,
		Transactions: s.Transactions,
		Seed:         s.Seed,
		Pass:         result.Pass,
		PerWorker:    []WorkerSummary{},
		Errors:       result.Errors,
	}

	if result.Report != nil {
		sum.Recorded = result.Report.Recorded()
		for _, ws := range result.Report.WorkerSummaries() {
			sum.Successes += ws.Successes
			sum.PerWorker = append(sum.PerWorker, WorkerSummary{
				Worker:       ws.Worker,
				Transactions: ws.Transactions,
				Successes:    ws.Successes,
			})
		}
	}

	data, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// AssertGolden compares the scenario summary against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/scenario -update
func AssertGolden(t *testing.T, s *Scenario, result *Result) error {
	t.Helper()

	summary, err := Summarize(s, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, s.Name, summary)
	return nil
}
