package reconcile

import (
	"fmt"

	"github.com/desertthunder/studio/internal/models"
	"github.com/desertthunder/studio/internal/shared"
)

// Request describes a template swap for one group of a slot sequence.
type Request struct {
	Slots       []models.Slot        // current ordered sequence; never modified
	GroupID     string               // group being re-bound
	Replacement models.TemplateShape // template the group is re-bound to
	PrintSize   string               // used when the old group carries no print size
	NewID       func() string        // slot id generator, defaults to [shared.GenerateID]
}

// Validate checks the preconditions of [Reconcile].
func Validate(req Request) error {
	if req.Replacement.SlotCount() < 1 {
		return fmt.Errorf("%w: %s", shared.ErrEmptyTemplate, req.Replacement.ID)
	}
	if _, ok := FindGroup(req.Slots, req.GroupID); !ok {
		return fmt.Errorf("%w: %s", shared.ErrGroupNotFound, req.GroupID)
	}
	return nil
}

// Reconcile returns a new sequence in which every slot of req.GroupID is replaced by
// req.Replacement.SlotCount() fresh slots, placed where the group's first slot was.
//
// The group must exist in req.Slots and the replacement must have at least one hole;
// behaviour is undefined otherwise (see [Validate]).
func Reconcile(req Request) []models.Slot {
	g, _ := FindGroup(req.Slots, req.GroupID)
	return Rebind(req, g)
}

// Rebind is [Reconcile] for a caller that already derived the target group from req.Slots
// with [GroupSlotsByGroupID] or [FindGroup].
func Rebind(req Request, g Group) []models.Slot {
	newID := req.NewID
	if newID == nil {
		newID = shared.GenerateID
	}

	printSize := g.PrintSize
	if printSize == "" {
		printSize = req.PrintSize
	}
	name := GroupName(req.Replacement.Name, g.Ordinal, IsAdditional(g.Name))

	old := g.Slots
	shrinking := req.Replacement.SlotCount() < len(old)
	replacement := make([]models.Slot, req.Replacement.SlotCount())
	for i := range replacement {
		replacement[i] = models.Slot{
			ID:           newID(),
			GroupID:      req.GroupID,
			GroupName:    name,
			TemplateID:   req.Replacement.ID,
			IndexInGroup: i,
			PrintSize:    printSize,
		}

		switch {
		case i < len(old) && old[i].HasPhoto():
			replacement[i].PhotoRef = old[i].PhotoRef
		case i == 0 && shrinking:
			replacement[i].PhotoRef = firstPhoto(old)
		}
	}

	return splice(req.Slots, g.Indices, g.First(), replacement)
}

func firstPhoto(slots []models.Slot) string {
	for _, s := range slots {
		if s.HasPhoto() {
			return s.PhotoRef
		}
	}
	return ""
}

// splice removes the slots at indices (ascending) and inserts block where firstIndex pointed,
// correcting the insertion point for any removed positions that preceded it.
func splice(slots []models.Slot, indices []int, firstIndex int, block []models.Slot) []models.Slot {
	remaining := append([]models.Slot(nil), slots...)
	for i := len(indices) - 1; i >= 0; i-- {
		idx := indices[i]
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}

	insertAt := firstIndex
	for _, idx := range indices {
		if idx < firstIndex {
			insertAt--
		}
	}

	out := make([]models.Slot, 0, len(remaining)+len(block))
	out = append(out, remaining[:insertAt]...)
	out = append(out, block...)
	out = append(out, remaining[insertAt:]...)
	return out
}
