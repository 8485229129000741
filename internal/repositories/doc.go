// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [TemplateRepository] : Layout definitions with their ordered holes, looked up by print size
//   - [PackageRepository] : Template bundles with ordered items and quantities
//   - [SessionRepository] : Client sessions with their ordered slot sequence
//
// Child rows (holes, package items, session slots) are always written as a whole inside one transaction,
// so a reader never observes a partially replaced sequence.
//
// Sequence numbers provide stable, human-readable ordering (e.g., template #4, session #17) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
