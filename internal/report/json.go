package report

import (
	"encoding/json"
	"io"
	"log/slog"
	"sync"
)

// Event is one line of JSONReporter output.
type Event struct {
	Event    string           `json:"event"`
	Recorded int              `json:"recorded"`
	Total    int              `json:"total"`
	Workers  []WorkerSummary  `json:"workers,omitempty"`
	Accounts []AccountSummary `json:"accounts,omitempty"`
}

// JSONReporter writes one JSON object per snapshot (JSON Lines).
// Progress lines carry worker summaries, the final line carries both
// worker and account summaries.
type JSONReporter struct {
	mu     sync.Mutex
	enc    *json.Encoder
	logger *slog.Logger
}

// JSONOption configures a JSONReporter.
type JSONOption func(*JSONReporter)

// WithLogger sets where write failures are logged. Default: slog.Default().
func WithLogger(logger *slog.Logger) JSONOption {
	return func(r *JSONReporter) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewJSONReporter returns a JSONReporter writing to w.
func NewJSONReporter(w io.Writer, opts ...JSONOption) *JSONReporter {
	r := &JSONReporter{enc: json.NewEncoder(w), logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *JSONReporter) Progress(snapshot *Report) {
	r.write(Event{
		Event:    "progress",
		Recorded: snapshot.Recorded(),
		Total:    snapshot.TotalTransactions,
		Workers:  snapshot.WorkerSummaries(),
	})
}

func (r *JSONReporter) Final(snapshot *Report) {
	r.write(Event{
		Event:    "final",
		Recorded: snapshot.Recorded(),
		Total:    snapshot.TotalTransactions,
		Workers:  snapshot.WorkerSummaries(),
		Accounts: snapshot.AccountSummaries(),
	})
}

func (r *JSONReporter) write(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enc.Encode(ev); err != nil {
		r.logger.Warn("report write failed", "event", ev.Event, "error", err)
	}
}
