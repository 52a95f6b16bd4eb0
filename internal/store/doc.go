// Package store provides account persistence for the authorization engine.
//
// Every backend implements AccountStore: a read that returns a copy of the
// account (or ErrAccountNotFound) and an update that replaces an existing
// account (or fails with ErrAccountNotFound; updates never upsert).
//
// Backends:
//   - MemoryStore: in-process map with simulated I/O latency and optional
//     fault injection. The reference store for simulations and tests.
//   - SQLiteStore: durable accounts in a single SQLite file, sharded by
//     partition id. WAL mode, single writer connection.
//   - RedisStore: one hash per account, updates applied by a Lua script so
//     the exists-check and the write are atomic.
//
// Stores are keyed by partition. A simulation worker owns exactly one
// partition, but many goroutines may use that worker at once, so every
// backend is safe for concurrent use.
package store
