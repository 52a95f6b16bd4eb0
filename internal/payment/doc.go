// Package payment defines the payment data model shared by the account
// stores, the scheme validators and the authorization engine.
//
// Amounts and balances are shopspring decimals. An Account returned by a
// store is always a copy; mutating it has no effect until it is written
// back through the store's UpdateAccount.
package payment
