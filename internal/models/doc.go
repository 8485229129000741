// Package models defines domain entities and persistence interfaces for the studio print composer.
//
// The package contains two categories of types:
//
// 1. Value types: Lightweight structs passed between the catalog, the reconciler and callers
//   - [Slot] : One photo position bound to one hole of a template instance
//   - [Placement] : Crop/offset/scale of a photo inside a hole
//   - [TemplateShape] : A layout definition (holes, print size, display name)
//   - [Photo] : A Google Drive file that can be referenced from a slot
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [Template] : Stored layout definition with ordered holes
//   - [Package] : Named bundle of templates sold together for one print size
//   - [Session] : A client's working session holding the ordered slot sequence
//
// All persistent entities embed [Record] and implement the [Model] interface providing ID generation,
// timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
