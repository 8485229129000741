// Package reconcile rebuilds a session's ordered slot sequence when one print is re-bound to a different template.
//
// # Slot Sequences
//
// A session holds a flat, ordered list of [models.Slot]. Consecutive slots sharing a GroupID form a
// group: one printed template instance. Groups are never stored as a separate structure; they are
// derived by scanning the sequence with [GroupSlotsByGroupID], which is the only place the ordinal
// ("Print #N") and positional bookkeeping of a group is computed.
//
// # Template Swap
//
// [Reconcile] replaces every slot of the target group with slots shaped by the replacement template:
//   - the group keeps its GroupID and its ordinal position among groups
//   - photos are carried over index by index; a shrinking swap whose first slot was empty pulls
//     forward the first photo found in the old group instead
//   - Placement is always cleared, since crops are relative to the old hole's aspect ratio
//   - slot IDs are regenerated, even when the template does not change
//   - the print size is copied from the group, or taken from [Request] when the group has none
//
// Reconcile is a pure function over its [Request]. Callers check preconditions with [Validate]
// before invoking it, then persist the returned sequence themselves. A caller holding the
// [Group] already uses [Rebind] to skip the second scan.
//
// # Editing Helpers
//
// [AddGroup], [RemoveGroup], [AssignPhoto] and [ClearPhoto] are the other in-memory edits a session
// goes through. Like Reconcile they never mutate their input.
package reconcile
