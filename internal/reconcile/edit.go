package reconcile

import (
	"github.com/desertthunder/studio/internal/models"
	"github.com/desertthunder/studio/internal/shared"
)

// NewGroup builds the empty slots for one instance of shape.
func NewGroup(shape models.TemplateShape, groupID, groupName string, newID func() string) []models.Slot {
	if newID == nil {
		newID = shared.GenerateID
	}
	slots := make([]models.Slot, shape.SlotCount())
	for i := range slots {
		slots[i] = models.Slot{
			ID:           newID(),
			GroupID:      groupID,
			GroupName:    groupName,
			TemplateID:   shape.ID,
			IndexInGroup: i,
			PrintSize:    shape.PrintSize,
		}
	}
	return slots
}

// AddGroup appends a new group for shape to the end of slots and returns the new sequence and group id.
// The group is numbered past every existing label, so it never repeats one left behind by [RemoveGroup].
func AddGroup(slots []models.Slot, shape models.TemplateShape, additional bool, newID func() string) ([]models.Slot, string) {
	if newID == nil {
		newID = shared.GenerateID
	}
	groupID := newID()
	ordinal := nextOrdinal(GroupSlotsByGroupID(slots))
	group := NewGroup(shape, groupID, GroupName(shape.Name, ordinal, additional), newID)

	out := make([]models.Slot, 0, len(slots)+len(group))
	out = append(out, slots...)
	return append(out, group...), groupID
}

// RemoveGroup returns slots without any slot belonging to groupID. Remaining group names are kept as-is.
func RemoveGroup(slots []models.Slot, groupID string) []models.Slot {
	out := make([]models.Slot, 0, len(slots))
	for _, s := range slots {
		if s.GroupID != groupID {
			out = append(out, s)
		}
	}
	return out
}

// AssignPhoto sets the photo of slotID and clears its placement. It reports false when the slot does not exist.
func AssignPhoto(slots []models.Slot, slotID, photoRef string) ([]models.Slot, bool) {
	out := append([]models.Slot(nil), slots...)
	for i := range out {
		if out[i].ID == slotID {
			out[i].PhotoRef = photoRef
			out[i].Placement = nil
			return out, true
		}
	}
	return slots, false
}

// ClearPhoto empties slotID. It reports false when the slot does not exist.
func ClearPhoto(slots []models.Slot, slotID string) ([]models.Slot, bool) {
	return AssignPhoto(slots, slotID, "")
}

// SetPlacement stores a placement for slotID. It reports false when the slot does not exist.
func SetPlacement(slots []models.Slot, slotID string, placement models.Placement) ([]models.Slot, bool) {
	out := append([]models.Slot(nil), slots...)
	for i := range out {
		if out[i].ID == slotID {
			p := placement
			out[i].Placement = &p
			return out, true
		}
	}
	return slots, false
}
