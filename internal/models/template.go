package models

import (
	"fmt"
	"strings"
)

// Hole is a photo rectangle within a template, in template pixels.
type Hole struct {
	X      int `json:"x" toml:"x"`
	Y      int `json:"y" toml:"y"`
	Width  int `json:"width" toml:"width"`
	Height int `json:"height" toml:"height"`
}

// AspectRatio returns width/height, or 0 for a degenerate hole.
func (h Hole) AspectRatio() float64 {
	if h.Height == 0 {
		return 0
	}
	return float64(h.Width) / float64(h.Height)
}

// TemplateShape is the catalog view of a template: what the reconciler and callers consume.
type TemplateShape struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	PrintSize string `json:"print_size"`
	Holes     []Hole `json:"holes"`
}

// SlotCount returns the number of photo slots a group bound to this shape has.
func (t TemplateShape) SlotCount() int { return len(t.Holes) }

// Template is a persisted layout definition.
type Template struct {
	Record
	name      string
	printSize string
	holes     []Hole
}

// NewTemplate creates a new Template with the given sequence number and layout.
func NewTemplate(sequence int, name, printSize string, holes []Hole) *Template {
	return &Template{
		Record:    newRecord(sequence),
		name:      name,
		printSize: printSize,
		holes:     append([]Hole(nil), holes...),
	}
}

func (t *Template) Name() string             { return t.name }
func (t *Template) SetName(name string)      { t.name = name }
func (t *Template) PrintSize() string        { return t.printSize }
func (t *Template) Holes() []Hole            { return append([]Hole(nil), t.holes...) }
func (t *Template) SetHoles(holes []Hole)    { t.holes = append([]Hole(nil), holes...) }
func (t *Template) SetPrintSize(size string) { t.printSize = size }

// Shape returns the catalog view of the template.
func (t *Template) Shape() TemplateShape {
	return TemplateShape{ID: t.ID(), Name: t.name, PrintSize: t.printSize, Holes: t.Holes()}
}

// Validate checks required fields and hole geometry.
func (t *Template) Validate() error {
	if t.ID() == "" {
		return fmt.Errorf("template ID is required")
	}
	if strings.TrimSpace(t.name) == "" {
		return fmt.Errorf("template name is required")
	}
	if strings.TrimSpace(t.printSize) == "" {
		return fmt.Errorf("template print size is required")
	}
	if len(t.holes) == 0 {
		return fmt.Errorf("template %q must define at least one hole", t.name)
	}
	for i, h := range t.holes {
		if h.Width <= 0 || h.Height <= 0 {
			return fmt.Errorf("template %q hole %d has non-positive size %dx%d", t.name, i, h.Width, h.Height)
		}
	}
	return nil
}
