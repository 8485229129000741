package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/studio/internal/models"
	"github.com/desertthunder/studio/internal/reconcile"
	"github.com/desertthunder/studio/internal/services"
	"github.com/desertthunder/studio/internal/shared"
)

// SessionStore persists sessions and their slot sequences.
// Implemented by repositories.SessionRepository.
type SessionStore interface {
	Create(session *models.Session) error
	Get(id string) (*models.Session, error)
	SaveSlots(sessionID string, slots []models.Slot) error
}

// StudioEngine defines the operations callers perform on client sessions.
type StudioEngine interface {
	// NewSession creates a session for client and expands packageID into print groups.
	NewSession(ctx context.Context, client, packageID, folderID string) (*models.Session, error)

	// Session loads a session with its slots.
	Session(ctx context.Context, sessionID string) (*models.Session, error)

	// AddPrint appends one group bound to templateID.
	AddPrint(ctx context.Context, sessionID, templateID string, additional bool) (*models.Session, string, error)

	// RemovePrint drops every slot of groupID.
	RemovePrint(ctx context.Context, sessionID, groupID string) (*models.Session, error)

	// AssignPhoto puts photoRef into slotID, clearing any placement.
	AssignPhoto(ctx context.Context, sessionID, slotID, photoRef string) (*models.Session, error)

	// ClearPhoto empties slotID.
	ClearPhoto(ctx context.Context, sessionID, slotID string) (*models.Session, error)

	// Place stores crop data for the photo in slotID.
	Place(ctx context.Context, sessionID, slotID string, placement models.Placement) (*models.Session, error)

	// Candidates lists the templates groupID may be swapped to.
	Candidates(ctx context.Context, sessionID, groupID string) ([]models.TemplateShape, error)

	// Swap re-binds groupID to templateID and persists the result.
	Swap(ctx context.Context, sessionID, groupID, templateID string) (*SwapResult, error)

	// PreviewPackage expands packageID into slots without creating a session.
	PreviewPackage(ctx context.Context, packageID string) ([]models.Slot, error)

	// PreviewSwap computes a swap on slots without persisting anything.
	PreviewSwap(ctx context.Context, slots []models.Slot, groupID, templateID string) (*SwapResult, error)
}

// SwapResult describes a completed or previewed swap.
type SwapResult struct {
	GroupID        string               // group that was re-bound
	FromTemplateID string               // template the group was bound to
	FromName       string               // group name before the swap
	To             models.TemplateShape // template the group is now bound to
	Slots          []models.Slot        // full sequence after the swap
	Group          reconcile.Group      // the re-bound group within Slots
	Dropped        []string             // photos from the old group no longer placed
}

// EngineOpts configures an [Engine].
type EngineOpts struct {
	Catalog          services.Catalog
	Sessions         SessionStore
	Logger           *log.Logger
	DefaultPrintSize string        // print size for sessions created without a package
	NewID            func() string // slot and group id generator, defaults to [shared.GenerateID]
}

// Engine implements [StudioEngine].
type Engine struct {
	catalog          services.Catalog
	sessions         SessionStore
	logger           *log.Logger
	defaultPrintSize string
	newID            func() string

	mu       sync.Mutex
	locks    map[string]*sessionLock
	progress chan<- ProgressUpdate
}

// NewEngine creates an Engine from opts.
func NewEngine(opts EngineOpts) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	newID := opts.NewID
	if newID == nil {
		newID = shared.GenerateID
	}
	printSize := shared.NormalizePrintSize(opts.DefaultPrintSize)

	return &Engine{
		catalog:          opts.Catalog,
		sessions:         opts.Sessions,
		logger:           logger,
		defaultPrintSize: printSize,
		newID:            newID,
		locks:            make(map[string]*sessionLock),
	}
}

// SetProgress registers a channel that receives progress updates. Pass nil to stop reporting.
func (e *Engine) SetProgress(progress chan<- ProgressUpdate) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.progress = progress
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Engine) sendProgress(update ProgressUpdate) {
	e.mu.Lock()
	progress := e.progress
	e.mu.Unlock()

	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// sessionLock serialises writes to one session. holders counts goroutines holding or
// waiting on it; the entry is dropped from Engine.locks when it reaches zero.
type sessionLock struct {
	sync.Mutex
	holders int
}

// lock acquires the per-session lock and returns its release function.
func (e *Engine) lock(sessionID string) func() {
	e.mu.Lock()
	l, ok := e.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		e.locks[sessionID] = l
	}
	l.holders++
	e.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()

		e.mu.Lock()
		l.holders--
		if l.holders == 0 {
			delete(e.locks, sessionID)
		}
		e.mu.Unlock()
	}
}

// lockCount reports how many sessions currently have a lock entry.
func (e *Engine) lockCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.locks)
}

// NewSession creates a session for client. With an empty packageID the session starts without
// prints and uses the engine's default print size.
func (e *Engine) NewSession(ctx context.Context, client, packageID, folderID string) (*models.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if client == "" {
		return nil, fmt.Errorf("%w: client name", shared.ErrMissingArgument)
	}

	printSize := e.defaultPrintSize
	var slots []models.Slot

	if packageID != "" {
		pkg, err := e.catalog.Package(ctx, packageID)
		if err != nil {
			return nil, err
		}

		printSize = pkg.PrintSize()
		slots, err = e.expand(ctx, pkg)
		if err != nil {
			return nil, err
		}
	}

	session := models.NewSession(0, client, packageID, printSize, folderID)
	session.SetSlots(slots)

	e.sendProgress(saveSessionUpdate(len(slots)))
	if err := e.sessions.Create(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	e.logger.Info("created session", "session", session.ID(), "client", client, "package", packageID, "slots", len(slots))
	return session, nil
}

// Session loads a session with its slots.
func (e *Engine) Session(ctx context.Context, sessionID string) (*models.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.sessions.Get(sessionID)
}

// AddPrint appends a group for templateID and returns the updated session and the new group id.
func (e *Engine) AddPrint(ctx context.Context, sessionID, templateID string, additional bool) (*models.Session, string, error) {
	defer e.lock(sessionID)()

	session, err := e.load(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}

	shape, err := e.resolve(ctx, templateID)
	if err != nil {
		return nil, "", err
	}
	if shape.PrintSize != session.PrintSize() {
		return nil, "", fmt.Errorf("%w: template %s is %s, session is %s",
			shared.ErrPrintSizeMismatch, shape.ID, shape.PrintSize, session.PrintSize())
	}

	slots, groupID := reconcile.AddGroup(session.Slots(), *shape, additional, e.newID)
	if err := e.save(session, slots); err != nil {
		return nil, "", err
	}

	e.logger.Info("added print", "session", sessionID, "group", groupID, "template", templateID, "additional", additional)
	return session, groupID, nil
}

// RemovePrint drops groupID from the session.
func (e *Engine) RemovePrint(ctx context.Context, sessionID, groupID string) (*models.Session, error) {
	defer e.lock(sessionID)()

	session, err := e.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	group, ok := reconcile.FindGroup(session.Slots(), groupID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrGroupNotFound, groupID)
	}

	if err := e.save(session, reconcile.RemoveGroup(session.Slots(), groupID)); err != nil {
		return nil, err
	}

	e.logger.Info("removed print", "session", sessionID, "group", groupID, "name", group.Name, "photos", group.PhotoCount())
	return session, nil
}

// AssignPhoto puts photoRef into slotID.
func (e *Engine) AssignPhoto(ctx context.Context, sessionID, slotID, photoRef string) (*models.Session, error) {
	if photoRef == "" {
		return nil, fmt.Errorf("%w: photo reference", shared.ErrMissingArgument)
	}
	return e.editSlot(ctx, sessionID, slotID, func(slots []models.Slot) ([]models.Slot, error) {
		return found(reconcile.AssignPhoto(slots, slotID, photoRef))
	})
}

// ClearPhoto empties slotID.
func (e *Engine) ClearPhoto(ctx context.Context, sessionID, slotID string) (*models.Session, error) {
	return e.editSlot(ctx, sessionID, slotID, func(slots []models.Slot) ([]models.Slot, error) {
		return found(reconcile.ClearPhoto(slots, slotID))
	})
}

// Place stores placement for slotID. The slot must hold a photo.
func (e *Engine) Place(ctx context.Context, sessionID, slotID string, placement models.Placement) (*models.Session, error) {
	if placement.Scale <= 0 {
		return nil, fmt.Errorf("%w: scale must be positive", shared.ErrInvalidArgument)
	}
	return e.editSlot(ctx, sessionID, slotID, func(slots []models.Slot) ([]models.Slot, error) {
		for _, s := range slots {
			if s.ID == slotID && !s.HasPhoto() {
				return nil, fmt.Errorf("%w: slot %s has no photo", shared.ErrInvalidInput, slotID)
			}
		}
		return found(reconcile.SetPlacement(slots, slotID, placement))
	})
}

func (e *Engine) editSlot(ctx context.Context, sessionID, slotID string, edit func([]models.Slot) ([]models.Slot, error)) (*models.Session, error) {
	defer e.lock(sessionID)()

	session, err := e.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	slots, err := edit(session.Slots())
	if errors.Is(err, shared.ErrSlotNotFound) {
		return nil, fmt.Errorf("%w: %s", err, slotID)
	}
	if err != nil {
		return nil, err
	}

	if err := e.save(session, slots); err != nil {
		return nil, err
	}

	e.logger.Debug("edited slot", "session", sessionID, "slot", slotID)
	return session, nil
}

// found maps a missing slot to [shared.ErrSlotNotFound].
func found(slots []models.Slot, ok bool) ([]models.Slot, error) {
	if !ok {
		return nil, shared.ErrSlotNotFound
	}
	return slots, nil
}

// Candidates lists the templates of the group's print size, the current one included.
func (e *Engine) Candidates(ctx context.Context, sessionID, groupID string) ([]models.TemplateShape, error) {
	session, err := e.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	group, ok := reconcile.FindGroup(session.Slots(), groupID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrGroupNotFound, groupID)
	}

	printSize := group.PrintSize
	if printSize == "" {
		printSize = session.PrintSize()
	}

	return e.catalog.TemplatesForSize(ctx, printSize)
}

// Swap re-binds groupID to templateID and persists the new sequence.
func (e *Engine) Swap(ctx context.Context, sessionID, groupID, templateID string) (*SwapResult, error) {
	defer e.lock(sessionID)()

	session, err := e.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result, err := e.swap(ctx, session.Slots(), session.PrintSize(), groupID, templateID)
	if err != nil {
		return nil, err
	}

	if err := e.save(session, result.Slots); err != nil {
		return nil, err
	}

	e.logger.Info("swapped template",
		"session", sessionID,
		"group", groupID,
		"from", result.FromTemplateID,
		"template", templateID,
		"dropped", len(result.Dropped),
	)
	return result, nil
}

// PreviewPackage expands packageID into the slots a new session would start with.
func (e *Engine) PreviewPackage(ctx context.Context, packageID string) ([]models.Slot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pkg, err := e.catalog.Package(ctx, packageID)
	if err != nil {
		return nil, err
	}
	return e.expand(ctx, pkg)
}

// PreviewSwap computes the swap of groupID on slots without persisting. slots is not modified.
func (e *Engine) PreviewSwap(ctx context.Context, slots []models.Slot, groupID, templateID string) (*SwapResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.swap(ctx, slots, "", groupID, templateID)
}

// swap validates and runs the reconciler. fallbackSize is used when the group has no print size.
func (e *Engine) swap(ctx context.Context, slots []models.Slot, fallbackSize, groupID, templateID string) (*SwapResult, error) {
	old, ok := reconcile.FindGroup(slots, groupID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrGroupNotFound, groupID)
	}

	shape, err := e.resolve(ctx, templateID)
	if err != nil {
		return nil, err
	}

	if shape.SlotCount() < 1 {
		return nil, fmt.Errorf("%w: %s", shared.ErrEmptyTemplate, shape.ID)
	}

	groupSize := old.PrintSize
	if groupSize == "" {
		groupSize = fallbackSize
	}
	if groupSize != "" && shape.PrintSize != groupSize {
		return nil, fmt.Errorf("%w: template %s is %s, group is %s",
			shared.ErrPrintSizeMismatch, shape.ID, shape.PrintSize, groupSize)
	}

	e.sendProgress(reconcileUpdate(old.Name, *shape))
	next := reconcile.Rebind(reconcile.Request{
		Slots:       slots,
		GroupID:     groupID,
		Replacement: *shape,
		PrintSize:   fallbackSize,
		NewID:       e.newID,
	}, old)

	group, _ := reconcile.FindGroup(next, groupID)
	return &SwapResult{
		GroupID:        groupID,
		FromTemplateID: old.TemplateID,
		FromName:       old.Name,
		To:             *shape,
		Slots:          next,
		Group:          group,
		Dropped:        droppedPhotos(old.Slots, group.Slots),
	}, nil
}

// expand builds the slot sequence for pkg, one group per unit of quantity.
func (e *Engine) expand(ctx context.Context, pkg *models.Package) ([]models.Slot, error) {
	total := pkg.PrintCount()
	e.sendProgress(expandPackageUpdate(0, total, nil))

	var slots []models.Slot
	step := 0
	for _, item := range pkg.Items() {
		shape, err := e.resolve(ctx, item.TemplateID)
		if err != nil {
			return nil, err
		}
		if shape.SlotCount() < 1 {
			return nil, fmt.Errorf("%w: %s", shared.ErrEmptyTemplate, shape.ID)
		}
		if shape.PrintSize != pkg.PrintSize() {
			return nil, fmt.Errorf("%w: template %s is %s, package is %s",
				shared.ErrPrintSizeMismatch, shape.ID, shape.PrintSize, pkg.PrintSize())
		}

		for range item.Quantity {
			step++
			e.sendProgress(expandPackageUpdate(step, total, shape))
			slots, _ = reconcile.AddGroup(slots, *shape, false, e.newID)
		}
	}
	return slots, nil
}

func (e *Engine) load(ctx context.Context, sessionID string) (*models.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.sendProgress(loadSessionUpdate(sessionID))
	return e.sessions.Get(sessionID)
}

func (e *Engine) resolve(ctx context.Context, templateID string) (*models.TemplateShape, error) {
	e.sendProgress(resolveTemplateUpdate(templateID))
	return e.catalog.Template(ctx, templateID)
}

func (e *Engine) save(session *models.Session, slots []models.Slot) error {
	e.sendProgress(saveSessionUpdate(len(slots)))
	if err := e.sessions.SaveSlots(session.ID(), slots); err != nil {
		return fmt.Errorf("failed to save session %s: %w", session.ID(), err)
	}
	session.SetSlots(slots)
	return nil
}

// droppedPhotos returns the photos of before that no slot of after still holds.
func droppedPhotos(before, after []models.Slot) []string {
	kept := make(map[string]bool, len(after))
	for _, s := range after {
		if s.HasPhoto() {
			kept[s.PhotoRef] = true
		}
	}

	var dropped []string
	for _, s := range before {
		if s.HasPhoto() && !kept[s.PhotoRef] {
			dropped = append(dropped, s.PhotoRef)
		}
	}
	return dropped
}
