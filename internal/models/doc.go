// Package models defines the core domain models for the trip expense ledger.
//
// # Models
//
//   - User: registered account that owns or participates in trips
//   - Trip: a planned trip with a participant roster and an expense list
//   - Participant: a person on a trip's roster (trip-scoped, not a User)
//   - Expense: a single paid cost with per-participant splits
//   - Split: one participant's share of an expense
//   - SettledMark: a persisted record that a computed transfer was paid
//
// # Design principles
//
//  1. Participants are trip-scoped records, deliberately decoupled from
//     user accounts: a trip owner can add people who never log in.
//  2. Balances and transfers are never persisted. They are recomputed
//     from the expense snapshot on every read (see internal/calculator).
//     The only settlement state that survives recomputation is the
//     SettledMark table.
//  3. Relationships use ID strings instead of pointers to avoid
//     circular references.
package models
