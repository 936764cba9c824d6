// Package models defines the core domain models for the credit ledger.
//
// # Entities
//
//   - Customer: a person who buys on credit; carries the running Balance
//   - Movement: a single payment or debt entry against one customer
//   - Settings: string key/value pairs (backup frequency, last backup time, shop profile)
//
// # Design Principles
//
//  1. **Balance is a running total**: it is updated incrementally by the ledger
//     engine together with the movement that caused it, never recomputed on write.
//  2. **Decimal money**: amounts and balances use decimal.Decimal, never float64.
//  3. **IDs, not pointers**: movements reference customers by ID only.
//  4. **Typed errors**: callers branch on error kinds with errors.As.
package models
