package report

import (
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const clearScreen = "\033[H\033[2J"

// TextReporter writes human-readable progress and final reports.
// Numbers are formatted for the configured language (English by default).
type TextReporter struct {
	w       io.Writer
	printer *message.Printer
	clear   bool
}

// TextOption configures a TextReporter.
type TextOption func(*TextReporter)

// WithLanguage sets the language used for number formatting.
func WithLanguage(tag language.Tag) TextOption {
	return func(r *TextReporter) {
		r.printer = message.NewPrinter(tag)
	}
}

// WithClearScreen clears the terminal before each progress update.
func WithClearScreen() TextOption {
	return func(r *TextReporter) {
		r.clear = true
	}
}

// NewTextReporter returns a TextReporter writing to w.
func NewTextReporter(w io.Writer, opts ...TextOption) *TextReporter {
	r := &TextReporter{
		w:       w,
		printer: message.NewPrinter(language.English),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Progress prints per-worker counts and success ratios.
func (r *TextReporter) Progress(snapshot *Report) {
	if r.clear {
		io.WriteString(r.w, clearScreen)
	}

	r.printer.Fprintf(r.w, "Simulation in progress\n\n")
	for _, ws := range snapshot.WorkerSummaries() {
		r.printer.Fprintf(r.w, "Worker: %d, transactions: %d, success ratio: %.2f%%\n",
			ws.Worker, ws.Transactions, 100*ws.SuccessRatio)
	}
	r.printer.Fprintf(r.w, "\n[%d transactions executed out of %d]\n",
		snapshot.Recorded(), snapshot.TotalTransactions)
}

// Final prints per-account counts and success ratios.
func (r *TextReporter) Final(snapshot *Report) {
	r.printer.Fprintf(r.w, "Simulation complete. Transactions: %d of %d recorded\n\n",
		snapshot.Recorded(), snapshot.TotalTransactions)
	for _, as := range snapshot.AccountSummaries() {
		r.printer.Fprintf(r.w, "Account: %s, transactions: %d, success ratio: %.2f%%\n",
			as.AccountID, as.Transactions, 100*as.SuccessRatio)
	}
}
