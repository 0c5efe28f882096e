// Package models defines the core domain models for SplitEase.
//
// # Models
//
//   - User: registered account, referenced everywhere by UUID string
//   - Group: a named set of member users, owned by its creator
//   - Expense: money spent by one member on behalf of a group
//   - ExpenseShare: one ledger line, the slice of an expense a user is responsible for
//   - Friend: a friendship edge between two users (pending or accepted)
//
// # Design Principles
//
//  1. **IDs over pointers**: relationships are UUID strings, never embedded structs,
//     to avoid circular references between models.
//  2. **Derived values are not models**: net balances and settlement transactions are
//     computed on demand by the ledger package and never persisted.
//  3. **Unix timestamps**: CreatedAt fields are Unix seconds, assigned by the store.
package models
