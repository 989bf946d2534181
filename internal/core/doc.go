// Package core provides the inventory business logic for shelfstock.
//
// This package has no transport dependencies and is used unchanged by the
// HTTP server, the command-line bridge, and tests.
//
// # Hierarchy
//
// Stock is organised as Section → Type → Product → Batch. A [Batch] holds
// a total quantity and the part of it currently on the shelf; the remainder
// is the backroom reserve. The shelf never exceeds the total and never goes
// negative, which the ledger enforces with conditional updates and the
// batches table backs with a CHECK constraint.
//
// # Service
//
// [Service] is the entry point for every operation:
//
//   - Catalog: create, list, delete (with explicit cascade) and search.
//   - Ledger: [Service.Sell], [Service.Restock], [Service.SetShelfQuantity].
//   - Report: [Service.Report] rolls totals up the hierarchy.
//   - CSV: [Service.ExportCSV] and the destructive [Service.ImportCSV].
//   - Expiry: [Service.BatchesExpiringWithin].
//
// # CSV Format
//
// Files use the header [CSVHeader]. An import replaces the whole catalog in
// one transaction; rows that cannot be parsed are skipped and counted.
//
// # Error Handling
//
// Operations return errors wrapping one of the Err* kinds. [MapError]
// converts them to user-facing messages with support codes.
package core
