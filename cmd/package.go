package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/studio/internal/models"
	"github.com/desertthunder/studio/internal/reconcile"
	"github.com/desertthunder/studio/internal/shared"
)

// PackageCreate creates a package from repeated --item template:quantity flags.
// Every referenced template must exist and match the package's print size.
func (r *Runner) PackageCreate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	printSize := shared.NormalizePrintSize(cmd.String("size"))
	items, err := parseItems(cmd.StringSlice("item"))
	if err != nil {
		return err
	}

	for _, item := range items {
		shape, err := r.catalog.Template(ctx, item.TemplateID)
		if err != nil {
			return err
		}
		if shape.PrintSize != printSize {
			return fmt.Errorf("%w: %s is %s, package is %s", shared.ErrPrintSizeMismatch, shape.Name, shape.PrintSize, printSize)
		}
	}

	pkg := models.NewPackage(0, cmd.String("name"), printSize, cmd.String("description"), items)
	if err := r.packages.Create(pkg); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	r.catalog.Invalidate()

	r.logger.Info("created package", "package", pkg.ID(), "name", pkg.Name(), "prints", pkg.PrintCount())
	return r.writePlain("✓ Created package %s (%s) with %d prints\n", pkg.Name(), pkg.ID(), pkg.PrintCount())
}

// PackageList prints all packages.
func (r *Runner) PackageList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	criteria := map[string]any{}
	if size := cmd.String("size"); size != "" {
		criteria["print_size"] = shared.NormalizePrintSize(size)
	}

	pkgs, err := r.packages.List(criteria)
	if err != nil {
		return err
	}

	if len(pkgs) == 0 {
		return r.writePlain("No packages found\n")
	}

	r.writePlainHeader(fmt.Sprintf("Packages (%d)", len(pkgs)))
	for _, p := range pkgs {
		r.writePlain("%s  %-20s %-6s %d prints\n", p.ID(), p.Name(), p.PrintSize(), p.PrintCount())
	}
	return nil
}

// PackageShow prints one package with its items.
func (r *Runner) PackageShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	pkg, err := r.catalog.Package(ctx, cmd.String("id"))
	if err != nil {
		return err
	}

	r.writePlainHeader(pkg.Name())
	r.writePlain("ID: %s\nPrint size: %s\n", pkg.ID(), pkg.PrintSize())
	if pkg.Description() != "" {
		r.writePlain("Description: %s\n", pkg.Description())
	}
	r.writePlainln("Items:")
	for _, item := range pkg.Items() {
		name := item.TemplateID
		if shape, err := r.catalog.Template(ctx, item.TemplateID); err == nil {
			name = shape.Name
		}
		r.writePlain("  %d × %s\n", item.Quantity, name)
	}
	return nil
}

// PackagePreview shows the prints a new session would start with, without creating one.
func (r *Runner) PackagePreview(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	slots, err := r.engine.PreviewPackage(ctx, cmd.String("id"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(slots, cmd.Bool("pretty"))
	}

	groups := reconcile.GroupSlotsByGroupID(slots)
	r.writePlainHeader(fmt.Sprintf("Preview (%d prints, %d slots)", len(groups), len(slots)))
	for _, g := range groups {
		r.writePlain("%s  %d slots\n", g.Name, len(g.Slots))
	}
	return nil
}

// parseItems reads "templateID:quantity" values. A missing quantity means 1.
func parseItems(values []string) ([]models.PackageItem, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: at least one --item", shared.ErrMissingArgument)
	}

	items := make([]models.PackageItem, 0, len(values))
	for _, v := range values {
		id, qty, found := strings.Cut(strings.TrimSpace(v), ":")
		if id == "" {
			return nil, fmt.Errorf("%w: item %q has no template", shared.ErrInvalidArgument, v)
		}

		quantity := 1
		if found {
			n, err := strconv.Atoi(qty)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("%w: item %q quantity must be a positive integer", shared.ErrInvalidArgument, v)
			}
			quantity = n
		}
		items = append(items, models.PackageItem{TemplateID: id, Quantity: quantity})
	}
	return items, nil
}
