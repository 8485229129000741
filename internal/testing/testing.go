// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/studio/internal/models"
	"github.com/desertthunder/studio/internal/shared"
)

// MockCatalog is a test double for [services.Catalog] backed by in-memory shapes.
type MockCatalog struct {
	Shapes      []models.TemplateShape
	Packages    map[string]*models.Package
	Err         error
	Invalidated int
}

// NewMockCatalog creates a catalog holding shapes.
func NewMockCatalog(shapes ...models.TemplateShape) *MockCatalog {
	return &MockCatalog{Shapes: shapes, Packages: make(map[string]*models.Package)}
}

// AddPackage registers a package under id.
func (m *MockCatalog) AddPackage(id, name, printSize string, items ...models.PackageItem) *models.Package {
	pkg := models.NewPackage(len(m.Packages)+1, name, printSize, "", items)
	pkg.SetID(id)
	m.Packages[id] = pkg
	return pkg
}

func (m *MockCatalog) TemplatesForSize(ctx context.Context, printSize string) ([]models.TemplateShape, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.TemplateShape
	for _, s := range m.Shapes {
		if s.PrintSize == printSize {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrNoTemplates, printSize)
	}
	return out, nil
}

func (m *MockCatalog) Template(ctx context.Context, templateID string) (*models.TemplateShape, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, s := range m.Shapes {
		if s.ID == templateID {
			shape := s
			return &shape, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", shared.ErrTemplateNotFound, templateID)
}

func (m *MockCatalog) Package(ctx context.Context, packageID string) (*models.Package, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if pkg, ok := m.Packages[packageID]; ok {
		return pkg, nil
	}
	return nil, fmt.Errorf("%w: %s", shared.ErrPackageNotFound, packageID)
}

func (m *MockCatalog) Invalidate() { m.Invalidated++ }

// Shape builds a template shape with n identical holes.
func Shape(id, name, printSize string, n int) models.TemplateShape {
	holes := make([]models.Hole, n)
	for i := range holes {
		holes[i] = models.Hole{X: i * 100, Width: 100, Height: 150}
	}
	return models.TemplateShape{ID: id, Name: name, PrintSize: printSize, Holes: holes}
}

// MockSessionStore is an in-memory session store.
type MockSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
	next     int

	SaveErr error
	Saves   int
}

// NewMockSessionStore creates an empty store.
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{sessions: make(map[string]*models.Session)}
}

func (m *MockSessionStore) Create(session *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.next++
	session.SetID(fmt.Sprintf("session-%d", m.next))
	session.SetSequence(m.next)
	if err := session.Validate(); err != nil {
		return err
	}
	m.sessions[session.ID()] = copySession(session)
	return nil
}

func (m *MockSessionStore) Get(id string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrSessionNotFound, id)
	}
	return copySession(session), nil
}

func (m *MockSessionStore) SaveSlots(sessionID string, slots []models.Slot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveErr != nil {
		return m.SaveErr
	}
	session, ok := m.sessions[sessionID]
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrSessionNotFound, sessionID)
	}
	m.Saves++
	session.SetSlots(slots)
	return nil
}

func copySession(s *models.Session) *models.Session {
	c := models.NewSession(s.Sequence(), s.ClientName(), s.PackageID(), s.PrintSize(), s.DriveFolderID())
	c.SetID(s.ID())
	c.SetSlots(s.Slots())
	return c
}

// Counter returns a deterministic id generator yielding prefix1, prefix2, ...
func Counter(prefix string) func() string {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
