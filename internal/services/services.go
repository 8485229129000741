// package services defines the catalog and Google Drive services used by the studio engine
package services

import (
	"context"

	"github.com/desertthunder/studio/internal/models"
)

// Catalog resolves template shapes and packages for callers that compose sessions.
type Catalog interface {
	// TemplatesForSize returns every template shape of the given print size.
	// Returns [shared.ErrNoTemplates] when none exist.
	TemplatesForSize(ctx context.Context, printSize string) ([]models.TemplateShape, error)

	// Template returns a single template shape by ID.
	Template(ctx context.Context, templateID string) (*models.TemplateShape, error)

	// Package returns a package with its items.
	Package(ctx context.Context, packageID string) (*models.Package, error)

	// Invalidate drops any cached lookups so the next call reads through to storage.
	Invalidate()
}

// TemplateSource is the storage the catalog reads templates from.
type TemplateSource interface {
	Get(id string) (*models.Template, error)
	ListByPrintSize(printSize string) ([]*models.Template, error)
}

// PackageSource is the storage the catalog reads packages from.
type PackageSource interface {
	Get(id string) (*models.Package, error)
}
