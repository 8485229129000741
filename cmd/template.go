package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/studio/internal/models"
	"github.com/desertthunder/studio/internal/shared"
)

// templateFile is the TOML layout accepted by 'template import'.
//
//	[[template]]
//	name = "Quad"
//	print_size = "4x6"
//	holes = [{ x = 0, y = 0, width = 600, height = 900 }]
type templateFile struct {
	Templates []templateDef `toml:"template"`
}

type templateDef struct {
	Name      string        `toml:"name"`
	PrintSize string        `toml:"print_size"`
	Holes     []models.Hole `toml:"holes"`
}

// TemplateList prints the catalog, optionally filtered to one print size.
func (r *Runner) TemplateList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	criteria := map[string]any{}
	if size := cmd.String("size"); size != "" {
		criteria["print_size"] = shared.NormalizePrintSize(size)
	}

	templates, err := r.templates.List(criteria)
	if err != nil {
		return err
	}

	shapes := make([]models.TemplateShape, len(templates))
	for i, t := range templates {
		shapes[i] = t.Shape()
	}

	if cmd.Bool("json") {
		return r.writeJSON(shapes, cmd.Bool("pretty"))
	}

	if len(shapes) == 0 {
		return r.writePlain("No templates found\n")
	}

	r.writePlainHeader(fmt.Sprintf("Templates (%d)", len(shapes)))
	for _, s := range shapes {
		r.writePlain("%s  %-20s %-6s %d holes\n", s.ID, s.Name, s.PrintSize, s.SlotCount())
	}
	return nil
}

// TemplateAdd creates a template from flags.
func (r *Runner) TemplateAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	holes, err := parseHoles(cmd.String("holes"))
	if err != nil {
		return err
	}

	template := models.NewTemplate(0, cmd.String("name"), shared.NormalizePrintSize(cmd.String("size")), holes)
	if err := r.templates.Create(template); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	r.catalog.Invalidate()

	r.logger.Info("created template", "template", template.ID(), "name", template.Name(), "holes", len(holes))
	return r.writePlain("✓ Created template %s (%s)\n", template.Name(), template.ID())
}

// TemplateImport creates every template defined in a TOML file.
func (r *Runner) TemplateImport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: template file path", shared.ErrMissingArgument)
	}

	var file templateFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return fmt.Errorf("%w: failed to parse %s: %v", shared.ErrInvalidInput, path, err)
	}
	if len(file.Templates) == 0 {
		return fmt.Errorf("%w: %s defines no [[template]] tables", shared.ErrInvalidInput, path)
	}

	defer r.catalog.Invalidate()

	for _, def := range file.Templates {
		template := models.NewTemplate(0, def.Name, shared.NormalizePrintSize(def.PrintSize), def.Holes)
		if err := r.templates.Create(template); err != nil {
			return fmt.Errorf("%w: template %q: %v", shared.ErrInvalidInput, def.Name, err)
		}
		r.logger.Info("imported template", "template", template.ID(), "name", def.Name)
		r.writePlain("✓ Imported %s (%s)\n", def.Name, template.ID())
	}
	return nil
}

// TemplateDelete soft-deletes a template.
func (r *Runner) TemplateDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	id := cmd.String("id")
	if err := r.templates.Delete(id); err != nil {
		return err
	}
	r.catalog.Invalidate()

	return r.writePlain("✓ Deleted template %s\n", id)
}

// parseHoles reads "x,y,w,h;x,y,w,h" into holes.
func parseHoles(s string) ([]models.Hole, error) {
	var holes []models.Hole
	for i, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		fields := strings.Split(part, ",")
		if len(fields) != 4 {
			return nil, fmt.Errorf("%w: hole %d %q must be x,y,width,height", shared.ErrInvalidArgument, i, part)
		}

		var v [4]int
		for j, f := range fields {
			n, err := strconv.Atoi(strings.TrimSpace(f))
			if err != nil {
				return nil, fmt.Errorf("%w: hole %d: %v", shared.ErrInvalidArgument, i, err)
			}
			v[j] = n
		}
		holes = append(holes, models.Hole{X: v[0], Y: v[1], Width: v[2], Height: v[3]})
	}

	if len(holes) == 0 {
		return nil, fmt.Errorf("%w: at least one hole is required", shared.ErrMissingArgument)
	}
	return holes, nil
}
