package ui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/desertthunder/studio/internal/models"
	"github.com/desertthunder/studio/internal/reconcile"
	"github.com/desertthunder/studio/internal/shared"
	"github.com/desertthunder/studio/internal/tasks"
	tu "github.com/desertthunder/studio/internal/testing"
)

type fixture struct {
	model   *Model
	store   *tu.MockSessionStore
	catalog *tu.MockCatalog
	session *models.Session
}

// newFixture builds a session holding one Quad print with photos p1..p4 and a loaded model.
func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	catalog := tu.NewMockCatalog(
		tu.Shape("single", "Single", "4x6", 1),
		tu.Shape("duo", "Duo", "4x6", 2),
		tu.Shape("quad", "Quad", "4x6", 4),
		tu.Shape("poster", "Poster", "8x10", 1),
	)
	catalog.AddPackage("collage", "Collage", "4x6", models.PackageItem{TemplateID: "quad", Quantity: 1})
	store := tu.NewMockSessionStore()

	engine := tasks.NewEngine(tasks.EngineOpts{
		Catalog:  catalog,
		Sessions: store,
		Logger:   shared.NewLogger(io.Discard),
		NewID:    tu.Counter("id"),
	})

	session, err := engine.NewSession(ctx, "Ada", "collage", "")
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	for i, s := range session.Slots() {
		session, err = engine.AssignPhoto(ctx, session.ID(), s.ID, "p"+string(rune('1'+i)))
		if err != nil {
			t.Fatalf("failed to assign photo: %v", err)
		}
	}

	m := NewModel(ctx, engine, session.ID())
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	step(t, m, m.Init())

	return fixture{model: m, store: store, catalog: catalog, session: session}
}

// step runs cmd and feeds its message back into the model.
func step(t *testing.T, m *Model, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	_, next := m.Update(cmd())
	return next
}

func press(m *Model, k string) tea.Cmd {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func TestModel(t *testing.T) {
	t.Run("Init loads the session's prints", func(t *testing.T) {
		f := newFixture(t)

		if f.model.State() != GroupListView {
			t.Fatalf("expected group list view, got %v", f.model.State())
		}
		items := f.model.groupList.Items()
		if len(items) != 1 {
			t.Fatalf("expected 1 group, got %d", len(items))
		}
		if got := items[0].(groupItem).Title(); got != "Quad (Print #1)" {
			t.Errorf("unexpected group title %q", got)
		}
		if !strings.Contains(f.model.View(), "Prints for Ada") {
			t.Errorf("expected title in view, got:\n%s", f.model.View())
		}
	})

	t.Run("full swap flow", func(t *testing.T) {
		f := newFixture(t)
		saves := f.store.Saves

		step(t, f.model, press(f.model, "enter"))
		if f.model.State() != TemplateListView {
			t.Fatalf("expected template list view, got %v", f.model.State())
		}

		var titles []string
		for _, item := range f.model.templateList.Items() {
			titles = append(titles, item.(templateItem).Title())
		}
		if diff := cmp.Diff([]string{"Single", "Duo", "Quad (current)"}, titles); diff != "" {
			t.Errorf("candidates mismatch (-want +got):\n%s", diff)
		}

		step(t, f.model, press(f.model, "enter"))
		if f.model.State() != ConfirmView {
			t.Fatalf("expected confirm view, got %v", f.model.State())
		}
		if diff := cmp.Diff([]string{"p2", "p3", "p4"}, f.model.preview.Dropped); diff != "" {
			t.Errorf("dropped mismatch (-want +got):\n%s", diff)
		}
		if f.store.Saves != saves {
			t.Error("preview should not persist")
		}
		view := f.model.View()
		if !strings.Contains(view, "Slots: 4 → 1") || !strings.Contains(view, "p2, p3, p4") {
			t.Errorf("unexpected confirm view:\n%s", view)
		}

		cmd := press(f.model, "y")
		if f.model.State() != SwapView {
			t.Fatalf("expected swap view, got %v", f.model.State())
		}
		step(t, f.model, cmd)

		if f.model.State() != ResultView {
			t.Fatalf("expected result view, got %v", f.model.State())
		}
		if err := f.model.Err(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.store.Saves != saves+1 {
			t.Errorf("expected one save, got %d", f.store.Saves-saves)
		}

		stored, _ := f.store.Get(f.session.ID())
		groups := reconcile.GroupSlotsByGroupID(stored.Slots())
		if len(groups) != 1 || groups[0].Name != "Single (Print #1)" || groups[0].Slots[0].PhotoRef != "p1" {
			t.Errorf("unexpected stored groups: %+v", groups)
		}
		if !strings.Contains(f.model.View(), "Swap Complete") {
			t.Errorf("unexpected result view:\n%s", f.model.View())
		}
	})

	t.Run("restart reloads the session", func(t *testing.T) {
		f := newFixture(t)
		step(t, f.model, press(f.model, "enter"))
		step(t, f.model, press(f.model, "enter"))
		step(t, f.model, press(f.model, "y"))

		step(t, f.model, press(f.model, "r"))
		if f.model.State() != GroupListView {
			t.Fatalf("expected group list view, got %v", f.model.State())
		}
		if got := f.model.groupList.Items()[0].(groupItem).Title(); got != "Single (Print #1)" {
			t.Errorf("expected reloaded group, got %q", got)
		}
	})

	t.Run("cancel returns to templates without saving", func(t *testing.T) {
		f := newFixture(t)
		saves := f.store.Saves
		step(t, f.model, press(f.model, "enter"))
		step(t, f.model, press(f.model, "enter"))

		if cmd := press(f.model, "n"); cmd != nil {
			t.Error("cancel should not issue a command")
		}
		if f.model.State() != TemplateListView {
			t.Errorf("expected template list view, got %v", f.model.State())
		}
		if f.model.preview != nil {
			t.Error("expected preview to be cleared")
		}
		if f.store.Saves != saves {
			t.Error("cancel should not persist")
		}
	})

	t.Run("esc returns to prints", func(t *testing.T) {
		f := newFixture(t)
		step(t, f.model, press(f.model, "enter"))
		press(f.model, "esc")

		if f.model.State() != GroupListView {
			t.Errorf("expected group list view, got %v", f.model.State())
		}
	})

	t.Run("candidate errors are shown", func(t *testing.T) {
		f := newFixture(t)
		f.catalog.Err = errors.New("catalog offline")

		step(t, f.model, press(f.model, "enter"))
		if f.model.State() != GroupListView {
			t.Errorf("expected group list view, got %v", f.model.State())
		}
		if !strings.Contains(f.model.View(), "catalog offline") {
			t.Errorf("expected error in view, got:\n%s", f.model.View())
		}
	})

	t.Run("swap errors are reported in the result", func(t *testing.T) {
		f := newFixture(t)
		step(t, f.model, press(f.model, "enter"))
		step(t, f.model, press(f.model, "enter"))
		f.store.SaveErr = errors.New("disk full")

		step(t, f.model, press(f.model, "y"))
		if f.model.State() != ResultView {
			t.Fatalf("expected result view, got %v", f.model.State())
		}
		if !errors.Is(f.model.Err(), f.store.SaveErr) {
			t.Errorf("expected save error, got %v", f.model.Err())
		}
		if !strings.Contains(f.model.View(), "Swap failed") {
			t.Errorf("unexpected view:\n%s", f.model.View())
		}
	})

	t.Run("missing session quits", func(t *testing.T) {
		f := newFixture(t)
		m := NewModel(context.Background(), f.model.engine, "nope")

		_, cmd := m.Update(m.Init()())
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
		if !errors.Is(m.Err(), shared.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound, got %v", m.Err())
		}
	})
}

func TestItems(t *testing.T) {
	slots := reconcile.NewGroup(tu.Shape("duo", "Duo", "4x6", 2), "g1", "Duo (Print #1)", tu.Counter("s"))
	slots[0].PhotoRef = "p1"

	tests := []struct {
		name string
		item interface {
			Title() string
			Description() string
		}
		title string
		desc  string
	}{
		{"group", groupItem{group: reconcile.GroupSlotsByGroupID(slots)[0]}, "Duo (Print #1)", "duo • 1/2 photos • 4x6"},
		{"template", templateItem{shape: tu.Shape("single", "Single", "4x6", 1)}, "Single", "1 hole • 4x6"},
		{"current template", templateItem{shape: tu.Shape("quad", "Quad", "4x6", 4), current: true}, "Quad (current)", "4 holes • 4x6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.Title(); got != tt.title {
				t.Errorf("Title() = %q, want %q", got, tt.title)
			}
			if got := tt.item.Description(); got != tt.desc {
				t.Errorf("Description() = %q, want %q", got, tt.desc)
			}
		})
	}
}

func TestKeyMapHelp(t *testing.T) {
	keys := newKeyMap()

	tests := []struct {
		view ViewState
		want []string
	}{
		{GroupListView, []string{"↑/k", "↓/j", "/", "enter", "q"}},
		{TemplateListView, []string{"↑/k", "↓/j", "enter", "esc", "q"}},
		{ConfirmView, []string{"y", "n", "q"}},
		{SwapView, []string{"q"}},
		{ResultView, []string{"r", "q"}},
	}

	for _, tt := range tests {
		var got []string
		for _, b := range keys.helpFor(tt.view) {
			got = append(got, b.Help().Key)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("view %d help mismatch (-want +got):\n%s", tt.view, diff)
		}
	}
}
