// Package ledger implements the balance and settlement engine.
//
// Every function is a pure computation over a snapshot of expense/share data
// fetched by the caller: no storage access, no caching, no shared state.
// Amounts are float64 rounded to 2 decimals; comparisons against zero use a
// fixed one-cent Epsilon to absorb floating-point noise.
package ledger
