package reconcile

import (
	"fmt"

	"github.com/desertthunder/studio/internal/models"
)

// Group is a derived view of the slots sharing one GroupID.
type Group struct {
	ID         string
	Name       string
	TemplateID string
	PrintSize  string
	Ordinal    int           // 1-based position among groups, by first occurrence
	Indices    []int         // positions of the group's slots in the sequence, ascending
	Slots      []models.Slot // the group's slots in sequence order
}

// First returns the sequence position of the group's first slot.
func (g Group) First() int { return g.Indices[0] }

// PhotoCount returns how many of the group's slots have a photo.
func (g Group) PhotoCount() int {
	n := 0
	for _, s := range g.Slots {
		if s.HasPhoto() {
			n++
		}
	}
	return n
}

// GroupSlotsByGroupID scans slots once and returns their groups in first-occurrence order.
// Group members need not be contiguous in the sequence.
func GroupSlotsByGroupID(slots []models.Slot) []Group {
	var groups []Group
	byID := make(map[string]int)

	for i, s := range slots {
		gi, ok := byID[s.GroupID]
		if !ok {
			gi = len(groups)
			byID[s.GroupID] = gi
			groups = append(groups, Group{
				ID:         s.GroupID,
				Name:       s.GroupName,
				TemplateID: s.TemplateID,
				PrintSize:  s.PrintSize,
				Ordinal:    gi + 1,
			})
		}
		groups[gi].Indices = append(groups[gi].Indices, i)
		groups[gi].Slots = append(groups[gi].Slots, s)
	}

	return groups
}

// FindGroup returns the group with the given id.
func FindGroup(slots []models.Slot, groupID string) (Group, bool) {
	for _, g := range GroupSlotsByGroupID(slots) {
		if g.ID == groupID {
			return g, true
		}
	}
	return Group{}, false
}

// CheckInvariants verifies that every group is internally consistent: one name, template and
// print size per group, and IndexInGroup values forming the range 0..n-1.
func CheckInvariants(slots []models.Slot) error {
	seen := make(map[string]bool, len(slots))
	for _, s := range slots {
		if s.ID == "" {
			return fmt.Errorf("slot in group %s has no id", s.GroupID)
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate slot id %s", s.ID)
		}
		seen[s.ID] = true
	}

	for _, g := range GroupSlotsByGroupID(slots) {
		indexes := make([]bool, len(g.Slots))
		for _, s := range g.Slots {
			if s.GroupName != g.Name || s.TemplateID != g.TemplateID || s.PrintSize != g.PrintSize {
				return fmt.Errorf("group %s has inconsistent slot %s", g.ID, s.ID)
			}
			if s.IndexInGroup < 0 || s.IndexInGroup >= len(g.Slots) || indexes[s.IndexInGroup] {
				return fmt.Errorf("group %s has invalid or duplicate index %d", g.ID, s.IndexInGroup)
			}
			indexes[s.IndexInGroup] = true
		}
	}

	return nil
}
