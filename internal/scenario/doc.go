// Package scenario runs declarative simulation scenarios and checks their
// reports.
//
// A scenario is a YAML file naming the run parameters (workers,
// transactions, seed, aggregation window, account fixture) and a list of
// assertions over the final report. Each run uses fresh zero-latency
// memory stores, so a fixed seed reproduces the same request stream and
// worker assignment.
//
// Supported assertions:
//   - recorded_total: number of recorded transactions (defaults to the
//     scenario's transaction count)
//   - workers_observed: number of workers that recorded anything
//   - worker_transactions: transactions recorded by one worker
//   - account_transactions: transactions recorded for one debtor account
//   - account_success: success ratio bounds for one debtor account
//
// Reports are summarized as indented JSON for golden comparison.
package scenario
