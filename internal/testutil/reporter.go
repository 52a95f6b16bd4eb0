package testutil

import (
	"sync"

	"github.com/roach88/paysim/internal/report"
)

// RecordingReporter keeps every snapshot it receives.
//
// Thread-safety: safe for concurrent use, so tests may inspect it while a
// simulation is still running.
type RecordingReporter struct {
	mu       sync.Mutex
	progress []*report.Report
	finals   []*report.Report
}

// Progress implements report.Reporter.
func (r *RecordingReporter) Progress(snapshot *report.Report) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, snapshot)
}

// Final implements report.Reporter.
func (r *RecordingReporter) Final(snapshot *report.Report) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finals = append(r.finals, snapshot)
}

// ProgressSnapshots returns the progress snapshots in call order.
func (r *RecordingReporter) ProgressSnapshots() []*report.Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*report.Report(nil), r.progress...)
}

// FinalSnapshots returns the final snapshots in call order.
func (r *RecordingReporter) FinalSnapshots() []*report.Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*report.Report(nil), r.finals...)
}
