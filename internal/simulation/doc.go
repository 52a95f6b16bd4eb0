// Package simulation drives concurrent authorization load through a fixed
// pool of partitioned engines and aggregates the outcomes into a report.
//
// Requests are generated sequentially by the dispatcher from one seeded
// stream, so a seed fixes the request sequence and its worker
// assignment. Completion order is not fixed; each request runs in its
// own goroutine and only the per-worker fold order depends on timing.
//
// A single aggregator goroutine owns the report. Workers hand it
// outcomes over a channel; it folds them once per window and passes a
// cloned snapshot to the configured report.Reporter after every window,
// including windows in which nothing completed.
package simulation
