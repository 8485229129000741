package tasks

import (
	"fmt"

	"github.com/desertthunder/studio/internal/models"
)

// ProgressUpdate represents a progress event during an engine operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	LoadSession Phase = iota
	ResolveTemplate
	ExpandPackage
	ReconcileGroup
	SaveSession
)

func (p Phase) String() string {
	switch p {
	case LoadSession:
		return "load_session"
	case ResolveTemplate:
		return "resolve_template"
	case ExpandPackage:
		return "expand_package"
	case ReconcileGroup:
		return "reconcile_group"
	case SaveSession:
		return "save_session"
	default:
		return ""
	}
}

func loadSessionUpdate(sessionID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadSession,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Loading session %s...", sessionID),
	}
}

func resolveTemplateUpdate(templateID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveTemplate,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Resolving template %s...", templateID),
	}
}

func expandPackageUpdate(step, total int, shape *models.TemplateShape) ProgressUpdate {
	update := ProgressUpdate{
		Phase: ExpandPackage,
		Step:  step,
		Total: total,
	}
	if shape != nil {
		update.Message = fmt.Sprintf("Adding print %d/%d: %s", step, total, shape.Name)
		update.Data = *shape
	} else {
		update.Message = fmt.Sprintf("Expanding package into %d prints...", total)
	}
	return update
}

func reconcileUpdate(groupName string, shape models.TemplateShape) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ReconcileGroup,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Re-binding %s to %s (%d slots)", groupName, shape.Name, shape.SlotCount()),
		Data:    shape,
	}
}

func saveSessionUpdate(slotCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SaveSession,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Saving %d slots...", slotCount),
	}
}
