package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/studio/internal/models"
	"github.com/desertthunder/studio/internal/reconcile"
)

var (
	_ list.Item = groupItem{}
	_ list.Item = templateItem{}
)

// groupItem wraps [reconcile.Group] to implement [list.Item].
type groupItem struct {
	group reconcile.Group
}

func (i groupItem) FilterValue() string { return i.group.Name }
func (i groupItem) Title() string       { return i.group.Name }
func (i groupItem) Description() string {
	return fmt.Sprintf("%s • %d/%d photos • %s", i.group.TemplateID, i.group.PhotoCount(), len(i.group.Slots), i.group.PrintSize)
}

// templateItem wraps [models.TemplateShape] to implement [list.Item].
type templateItem struct {
	shape   models.TemplateShape
	current bool
}

func (i templateItem) FilterValue() string { return i.shape.Name }
func (i templateItem) Title() string {
	if i.current {
		return i.shape.Name + " (current)"
	}
	return i.shape.Name
}
func (i templateItem) Description() string {
	holes := "holes"
	if i.shape.SlotCount() == 1 {
		holes = "hole"
	}
	return fmt.Sprintf("%d %s • %s", i.shape.SlotCount(), holes, i.shape.PrintSize)
}

func groupItems(slots []models.Slot) []list.Item {
	groups := reconcile.GroupSlotsByGroupID(slots)
	items := make([]list.Item, len(groups))
	for i, g := range groups {
		items[i] = groupItem{group: g}
	}
	return items
}

func templateItems(shapes []models.TemplateShape, currentID string) []list.Item {
	items := make([]list.Item, len(shapes))
	for i, s := range shapes {
		items[i] = templateItem{shape: s, current: s.ID == currentID}
	}
	return items
}
