// Package game holds the per-table poker state machine.
//
// A Table is the single persisted record for one table. Hands are driven by
// an Engine whose reducers (StartHand, Act, and the stack operations) take a
// Table and return a modified copy, leaving the input untouched. Callers are
// expected to persist the returned record in one write.
package game
