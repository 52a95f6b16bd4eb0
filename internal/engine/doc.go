// Package engine implements payment authorization against an account store.
//
// One Engine serves one partition. Authorize runs the fixed sequence:
//
//  1. read the debtor account (absent or unreadable -> nil account)
//  2. resolve the validator for the request's scheme
//  3. validate; a rejection leaves the store untouched
//  4. debit a copy of the account and write it back
//
// Every call performs exactly one store read and at most one store write.
// Nothing is retried. A failed write is reported to the ErrorReporter and
// logged, and the request fails; the debited copy is discarded, so the
// store keeps its previous value.
//
// The only error Authorize returns is ErrNilRequest. Business failures are
// expressed through MakePaymentResult.
//
// Concurrency: an Engine is safe for concurrent use as long as its store
// is. Two concurrent payments from the same account race on the
// read-modify-write unless WithAccountSerialization is set.
package engine
