package services

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/studio/internal/cache"
	"github.com/desertthunder/studio/internal/models"
	"github.com/desertthunder/studio/internal/shared"
)

// CachedCatalog implements [Catalog] with read-through TTL caches.
type CachedCatalog struct {
	templates TemplateSource
	packages  PackageSource
	ttl       time.Duration

	bySize     *cache.Cache[string, []models.TemplateShape]
	byID       *cache.Cache[string, models.TemplateShape]
	packageIDs *cache.Cache[string, *models.Package]
}

// NewCatalog creates a catalog reading from templates and packages, caching results for ttl.
// A non-positive ttl disables caching.
func NewCatalog(templates TemplateSource, packages PackageSource, ttl time.Duration) *CachedCatalog {
	return NewCatalogWithClock(templates, packages, ttl, time.Now)
}

// NewCatalogWithClock is [NewCatalog] with an injectable clock.
func NewCatalogWithClock(templates TemplateSource, packages PackageSource, ttl time.Duration, now func() time.Time) *CachedCatalog {
	return &CachedCatalog{
		templates:  templates,
		packages:   packages,
		ttl:        ttl,
		bySize:     cache.NewWithClock[string, []models.TemplateShape](now),
		byID:       cache.NewWithClock[string, models.TemplateShape](now),
		packageIDs: cache.NewWithClock[string, *models.Package](now),
	}
}

// TemplatesForSize returns the shapes for printSize in creation order.
func (c *CachedCatalog) TemplatesForSize(ctx context.Context, printSize string) ([]models.TemplateShape, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if shapes, ok := c.bySize.Get(printSize); ok {
		return cloneShapes(shapes), nil
	}

	templates, err := c.templates.ListByPrintSize(printSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates for %s: %w", printSize, err)
	}
	if len(templates) == 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrNoTemplates, printSize)
	}

	shapes := make([]models.TemplateShape, len(templates))
	for i, t := range templates {
		shapes[i] = t.Shape()
		c.byID.Put(t.ID(), shapes[i], c.ttl)
	}
	c.bySize.Put(printSize, shapes, c.ttl)

	return cloneShapes(shapes), nil
}

// Template returns the shape for templateID.
func (c *CachedCatalog) Template(ctx context.Context, templateID string) (*models.TemplateShape, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if shape, ok := c.byID.Get(templateID); ok {
		shape = cloneShape(shape)
		return &shape, nil
	}

	template, err := c.templates.Get(templateID)
	if err != nil {
		return nil, err
	}

	shape := template.Shape()
	c.byID.Put(templateID, shape, c.ttl)

	shape = cloneShape(shape)
	return &shape, nil
}

// Package returns a copy of the package for packageID.
func (c *CachedCatalog) Package(ctx context.Context, packageID string) (*models.Package, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if pkg, ok := c.packageIDs.Get(packageID); ok {
		return pkg.Clone(), nil
	}

	pkg, err := c.packages.Get(packageID)
	if err != nil {
		return nil, err
	}

	c.packageIDs.Put(packageID, pkg, c.ttl)
	return pkg.Clone(), nil
}

// Invalidate empties every cache.
func (c *CachedCatalog) Invalidate() {
	c.bySize.Invalidate()
	c.byID.Invalidate()
	c.packageIDs.Invalidate()
}

func cloneShape(s models.TemplateShape) models.TemplateShape {
	s.Holes = append([]models.Hole(nil), s.Holes...)
	return s
}

func cloneShapes(shapes []models.TemplateShape) []models.TemplateShape {
	out := make([]models.TemplateShape, len(shapes))
	for i, s := range shapes {
		out[i] = cloneShape(s)
	}
	return out
}
