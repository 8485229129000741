// Package tasks composes the catalog, the session store and the slot-group reconciler into the
// operations the CLI and TUI perform on a client session.
//
// # Core Operations
//
// The [StudioEngine] interface is implemented by [Engine]:
//
//  1. [Engine.NewSession] : expand a package into print groups
//     - Each package item adds Quantity groups named "{template} (Print #N)"
//
//  2. [Engine.AddPrint] / [Engine.RemovePrint] : grow or shrink a session by one group
//     - Additional prints are named "{template} (Additional Print #N)"
//     - Remaining group names are not renumbered on removal
//
//  3. [Engine.Swap] : re-bind a group to another template of the same print size
//     - Validates group, template holes and print size before calling [reconcile.Reconcile]
//     - Persists the full slot sequence with [SessionStore.SaveSlots]
//
//  4. [Engine.PreviewPackage] / [Engine.PreviewSwap] : the same logic without persistence
//
// # Concurrency
//
// Mutating operations hold a per-session lock from load to save, so a second swap on the
// same session waits for the first to be persisted.
//
// # Progress Reporting
//
// When a channel is registered with [Engine.SetProgress], operations publish [ProgressUpdate]
// values on it. Updates use select with default to prevent blocking.
package tasks
