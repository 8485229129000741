package models

import (
	"fmt"
	"strings"
)

// PackageItem is one template in a package and how many prints of it the package includes.
type PackageItem struct {
	TemplateID string `json:"template_id"`
	Quantity   int    `json:"quantity"`
}

// Package is a named bundle of templates sold together for a single print size.
type Package struct {
	Record
	name        string
	printSize   string
	description string
	items       []PackageItem
}

// NewPackage creates a new Package with the given sequence number.
func NewPackage(sequence int, name, printSize, description string, items []PackageItem) *Package {
	return &Package{
		Record:      newRecord(sequence),
		name:        name,
		printSize:   printSize,
		description: description,
		items:       append([]PackageItem(nil), items...),
	}
}

func (p *Package) Name() string                 { return p.name }
func (p *Package) SetName(name string)          { p.name = name }
func (p *Package) PrintSize() string            { return p.printSize }
func (p *Package) Description() string          { return p.description }
func (p *Package) SetDescription(d string)      { p.description = d }
func (p *Package) Items() []PackageItem         { return append([]PackageItem(nil), p.items...) }
func (p *Package) SetItems(items []PackageItem) { p.items = append([]PackageItem(nil), items...) }

// Clone returns a copy of p that shares no mutable state with it.
func (p *Package) Clone() *Package {
	c := *p
	c.items = p.Items()
	if p.deletedAt != nil {
		deleted := *p.deletedAt
		c.deletedAt = &deleted
	}
	return &c
}

// PrintCount returns the total number of prints the package expands to.
func (p *Package) PrintCount() int {
	total := 0
	for _, item := range p.items {
		total += item.Quantity
	}
	return total
}

// Validate checks required fields and item quantities.
func (p *Package) Validate() error {
	if p.ID() == "" {
		return fmt.Errorf("package ID is required")
	}
	if strings.TrimSpace(p.name) == "" {
		return fmt.Errorf("package name is required")
	}
	if strings.TrimSpace(p.printSize) == "" {
		return fmt.Errorf("package print size is required")
	}
	for i, item := range p.items {
		if item.TemplateID == "" {
			return fmt.Errorf("package item %d is missing a template", i)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("package item %d has quantity %d", i, item.Quantity)
		}
	}
	return nil
}
