package models

// Placement positions a photo inside a hole. Offsets are fractions of the hole size and
// Scale is relative to the auto-fit scale for the hole's aspect ratio.
type Placement struct {
	OffsetX  float64 `json:"offset_x"`
	OffsetY  float64 `json:"offset_y"`
	Scale    float64 `json:"scale"`
	Rotation float64 `json:"rotation"`
}

// Slot is a single photo position within a group (one printed template instance).
//
// All slots sharing a GroupID carry the same GroupName, TemplateID and PrintSize,
// and their IndexInGroup values form a contiguous range starting at 0.
type Slot struct {
	ID           string     `json:"id"`
	GroupID      string     `json:"group_id"`
	GroupName    string     `json:"group_name"`
	TemplateID   string     `json:"template_id"`
	IndexInGroup int        `json:"index_in_group"`
	PhotoRef     string     `json:"photo_ref,omitempty"`
	Placement    *Placement `json:"placement,omitempty"`
	PrintSize    string     `json:"print_size"`
}

// HasPhoto reports whether a photo is assigned to the slot.
func (s Slot) HasPhoto() bool { return s.PhotoRef != "" }
