package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/studio/internal/formatter"
	"github.com/desertthunder/studio/internal/models"
	"github.com/desertthunder/studio/internal/reconcile"
	"github.com/desertthunder/studio/internal/tasks"
)

// SessionCreate starts a client session, expanding its package into prints.
func (r *Runner) SessionCreate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	session, err := r.engine.NewSession(ctx, cmd.String("client"), cmd.String("package"), cmd.String("folder"))
	if err != nil {
		return err
	}

	r.writePlain("✓ Created session %s for %s\n", session.ID(), session.ClientName())
	return r.writeGroups(session.Slots())
}

// SessionList prints sessions, newest first.
func (r *Runner) SessionList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	criteria := map[string]any{}
	if client := cmd.String("client"); client != "" {
		criteria["client_name"] = client
	}
	if pkg := cmd.String("package"); pkg != "" {
		criteria["package_id"] = pkg
	}

	sessions, err := r.sessions.List(criteria)
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		return r.writePlain("No sessions found\n")
	}

	r.writePlainHeader(fmt.Sprintf("Sessions (%d)", len(sessions)))
	for _, s := range sessions {
		r.writePlain("%s  %-20s %-6s %s\n", s.ID(), s.ClientName(), s.PrintSize(), s.CreatedAt().Format("2006-01-02"))
	}
	return nil
}

// SessionShow renders a session in the requested format, to stdout or --output.
func (r *Runner) SessionShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	session, err := r.engine.Session(ctx, cmd.String("id"))
	if err != nil {
		return err
	}

	if output := cmd.String("output"); output != "" {
		path, err := formatter.WriteExport(session, format, output)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exported session to %s\n", path)
	}

	data, err := formatter.Export(session, format)
	if err != nil {
		return err
	}
	_, err = r.output.Write(data)
	return err
}

// SessionAddPrint appends a print of a template to the session.
func (r *Runner) SessionAddPrint(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	session, groupID, err := r.engine.AddPrint(ctx, cmd.String("id"), cmd.String("template"), cmd.Bool("additional"))
	if err != nil {
		return err
	}

	if g, ok := reconcile.FindGroup(session.Slots(), groupID); ok {
		r.writePlain("✓ Added %s (%s)\n", g.Name, g.ID)
	}
	return nil
}

// SessionRemovePrint removes one print from the session.
func (r *Runner) SessionRemovePrint(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	session, err := r.engine.RemovePrint(ctx, cmd.String("id"), cmd.String("group"))
	if err != nil {
		return err
	}

	r.writePlain("✓ Removed print %s\n", cmd.String("group"))
	return r.writeGroups(session.Slots())
}

// SessionAssign puts a photo into a slot.
func (r *Runner) SessionAssign(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	if _, err := r.engine.AssignPhoto(ctx, cmd.String("id"), cmd.String("slot"), cmd.String("photo")); err != nil {
		return err
	}
	return r.writePlain("✓ Assigned %s to slot %s\n", cmd.String("photo"), cmd.String("slot"))
}

// SessionClear empties a slot.
func (r *Runner) SessionClear(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	if _, err := r.engine.ClearPhoto(ctx, cmd.String("id"), cmd.String("slot")); err != nil {
		return err
	}
	return r.writePlain("✓ Cleared slot %s\n", cmd.String("slot"))
}

// SessionPlace sets the crop of the photo in a slot.
func (r *Runner) SessionPlace(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	placement := models.Placement{
		OffsetX:  cmd.Float("offset-x"),
		OffsetY:  cmd.Float("offset-y"),
		Scale:    cmd.Float("scale"),
		Rotation: cmd.Float("rotation"),
	}
	if _, err := r.engine.Place(ctx, cmd.String("id"), cmd.String("slot"), placement); err != nil {
		return err
	}
	return r.writePlain("✓ Placed slot %s (scale %.2f)\n", cmd.String("slot"), placement.Scale)
}

// SessionCandidates lists the templates a print can be swapped to.
func (r *Runner) SessionCandidates(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	shapes, err := r.engine.Candidates(ctx, cmd.String("id"), cmd.String("group"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(shapes, cmd.Bool("pretty"))
	}

	for _, s := range shapes {
		r.writePlain("%s  %-20s %d holes\n", s.ID, s.Name, s.SlotCount())
	}
	return nil
}

// SessionSwap re-binds a print to another template and saves the session.
func (r *Runner) SessionSwap(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	var (
		result *tasks.SwapResult
		err    error
	)
	if cmd.Bool("dry-run") {
		var session *models.Session
		if session, err = r.engine.Session(ctx, cmd.String("id")); err != nil {
			return err
		}
		result, err = r.engine.PreviewSwap(ctx, session.Slots(), cmd.String("group"), cmd.String("template"))
	} else {
		result, err = r.engine.Swap(ctx, cmd.String("id"), cmd.String("group"), cmd.String("template"))
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	verb := "Swapped"
	if cmd.Bool("dry-run") {
		verb = "Would swap"
	}
	r.writePlain("✓ %s %s → %s (%d slots)\n", verb, result.FromName, result.Group.Name, len(result.Group.Slots))
	if len(result.Dropped) > 0 {
		r.writePlain("⚠ Unplaced photos: %s\n", strings.Join(result.Dropped, ", "))
	}
	return nil
}

// writeGroups prints one line per print with its slot ids.
func (r *Runner) writeGroups(slots []models.Slot) error {
	for _, g := range reconcile.GroupSlotsByGroupID(slots) {
		r.writePlain("%s  %s\n", g.ID, g.Name)
		for _, s := range g.Slots {
			photo := s.PhotoRef
			if photo == "" {
				photo = "-"
			}
			r.writePlain("    %d  %s  %s\n", s.IndexInGroup+1, s.ID, photo)
		}
	}
	return nil
}
