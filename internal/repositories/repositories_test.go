package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/desertthunder/studio/internal/models"
	"github.com/desertthunder/studio/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func collage(t *testing.T, repo *TemplateRepository, name, size string, holes int) *models.Template {
	t.Helper()

	hs := make([]models.Hole, holes)
	for i := range hs {
		hs[i] = models.Hole{X: i * 100, Y: 0, Width: 100, Height: 150}
	}

	template := models.NewTemplate(0, name, size, hs)
	if err := repo.Create(template); err != nil {
		t.Fatalf("failed to create template: %v", err)
	}
	return template
}

func TestTemplateRepository(t *testing.T) {
	t.Run("Create & Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTemplateRepository(db)
		template := collage(t, repo, "Triptych", "4x6", 3)

		if template.ID() == "" {
			t.Fatal("template ID should be set after creation")
		}
		if template.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", template.Sequence())
		}

		retrieved, err := repo.Get(template.ID())
		if err != nil {
			t.Fatalf("failed to get template: %v", err)
		}

		if retrieved.Name() != "Triptych" {
			t.Errorf("expected name Triptych, got %s", retrieved.Name())
		}
		if diff := cmp.Diff(template.Holes(), retrieved.Holes()); diff != "" {
			t.Errorf("holes mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Create rejects template without holes", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTemplateRepository(db)
		if err := repo.Create(models.NewTemplate(0, "Empty", "4x6", nil)); err == nil {
			t.Error("expected validation error for template without holes")
		}
	})

	t.Run("Get missing", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		_, err := NewTemplateRepository(db).Get("nope")
		if !errors.Is(err, shared.ErrTemplateNotFound) {
			t.Errorf("expected ErrTemplateNotFound, got %v", err)
		}
	})

	t.Run("Update replaces holes", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTemplateRepository(db)
		template := collage(t, repo, "Triptych", "4x6", 3)

		template.SetName("Diptych")
		template.SetHoles([]models.Hole{{X: 0, Y: 0, Width: 200, Height: 300}, {X: 200, Y: 0, Width: 200, Height: 300}})

		if err := repo.Update(template); err != nil {
			t.Fatalf("failed to update template: %v", err)
		}

		retrieved, err := repo.Get(template.ID())
		if err != nil {
			t.Fatalf("failed to get template: %v", err)
		}

		if retrieved.Name() != "Diptych" {
			t.Errorf("expected name Diptych, got %s", retrieved.Name())
		}
		if len(retrieved.Holes()) != 2 {
			t.Errorf("expected 2 holes, got %d", len(retrieved.Holes()))
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTemplateRepository(db)
		template := collage(t, repo, "Single", "4x6", 1)

		if err := repo.Delete(template.ID()); err != nil {
			t.Fatalf("failed to delete template: %v", err)
		}

		if _, err := repo.Get(template.ID()); !errors.Is(err, shared.ErrTemplateNotFound) {
			t.Errorf("expected ErrTemplateNotFound after delete, got %v", err)
		}

		if err := repo.Delete(template.ID()); !errors.Is(err, shared.ErrTemplateNotFound) {
			t.Errorf("expected ErrTemplateNotFound on second delete, got %v", err)
		}
	})

	t.Run("ListByPrintSize", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTemplateRepository(db)
		collage(t, repo, "Single", "4x6", 1)
		collage(t, repo, "Quad", "4x6", 4)
		collage(t, repo, "Poster", "8x10", 1)

		all, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list templates: %v", err)
		}
		if len(all) != 3 {
			t.Errorf("expected 3 templates, got %d", len(all))
		}

		small, err := repo.ListByPrintSize("4x6")
		if err != nil {
			t.Fatalf("failed to list templates by size: %v", err)
		}
		if len(small) != 2 {
			t.Fatalf("expected 2 templates, got %d", len(small))
		}
		if small[0].Name() != "Single" || small[1].Name() != "Quad" {
			t.Errorf("expected creation order, got %s, %s", small[0].Name(), small[1].Name())
		}
		if len(small[1].Holes()) != 4 {
			t.Errorf("expected holes to be loaded, got %d", len(small[1].Holes()))
		}
	})
}

func TestPackageRepository(t *testing.T) {
	t.Run("Create & Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		templates := NewTemplateRepository(db)
		single := collage(t, templates, "Single", "4x6", 1)
		quad := collage(t, templates, "Quad", "4x6", 4)

		repo := NewPackageRepository(db)
		items := []models.PackageItem{{TemplateID: single.ID(), Quantity: 2}, {TemplateID: quad.ID(), Quantity: 1}}
		pkg := models.NewPackage(0, "Family", "4x6", "two singles and a quad", items)

		if err := repo.Create(pkg); err != nil {
			t.Fatalf("failed to create package: %v", err)
		}

		retrieved, err := repo.Get(pkg.ID())
		if err != nil {
			t.Fatalf("failed to get package: %v", err)
		}

		if diff := cmp.Diff(items, retrieved.Items()); diff != "" {
			t.Errorf("items mismatch (-want +got):\n%s", diff)
		}
		if retrieved.PrintCount() != 3 {
			t.Errorf("expected 3 prints, got %d", retrieved.PrintCount())
		}
		if retrieved.Description() != "two singles and a quad" {
			t.Errorf("unexpected description %q", retrieved.Description())
		}
	})

	t.Run("Create rejects unknown template", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPackageRepository(db)
		pkg := models.NewPackage(0, "Broken", "4x6", "", []models.PackageItem{{TemplateID: "missing", Quantity: 1}})

		if err := repo.Create(pkg); err == nil {
			t.Error("expected foreign key error for unknown template")
		}
	})

	t.Run("Update & List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		templates := NewTemplateRepository(db)
		single := collage(t, templates, "Single", "4x6", 1)
		poster := collage(t, templates, "Poster", "8x10", 1)

		repo := NewPackageRepository(db)
		small := models.NewPackage(0, "Small", "4x6", "", []models.PackageItem{{TemplateID: single.ID(), Quantity: 1}})
		large := models.NewPackage(0, "Large", "8x10", "", []models.PackageItem{{TemplateID: poster.ID(), Quantity: 1}})

		for _, pkg := range []*models.Package{small, large} {
			if err := repo.Create(pkg); err != nil {
				t.Fatalf("failed to create package: %v", err)
			}
		}

		small.SetItems([]models.PackageItem{{TemplateID: single.ID(), Quantity: 5}})
		if err := repo.Update(small); err != nil {
			t.Fatalf("failed to update package: %v", err)
		}

		filtered, err := repo.List(map[string]any{"print_size": "4x6"})
		if err != nil {
			t.Fatalf("failed to list packages: %v", err)
		}
		if len(filtered) != 1 {
			t.Fatalf("expected 1 package, got %d", len(filtered))
		}
		if filtered[0].PrintCount() != 5 {
			t.Errorf("expected updated quantity 5, got %d", filtered[0].PrintCount())
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPackageRepository(db)
		pkg := models.NewPackage(0, "Empty", "4x6", "", nil)
		if err := repo.Create(pkg); err != nil {
			t.Fatalf("failed to create package: %v", err)
		}

		if err := repo.Delete(pkg.ID()); err != nil {
			t.Fatalf("failed to delete package: %v", err)
		}
		if _, err := repo.Get(pkg.ID()); !errors.Is(err, shared.ErrPackageNotFound) {
			t.Errorf("expected ErrPackageNotFound, got %v", err)
		}
	})
}

func TestSessionRepository(t *testing.T) {
	slots := []models.Slot{
		{ID: "s1", GroupID: "g1", GroupName: "Single (Print #1)", TemplateID: "t1", IndexInGroup: 0, PhotoRef: "p1", PrintSize: "4x6"},
		{ID: "s2", GroupID: "g2", GroupName: "Duo (Print #2)", TemplateID: "t2", IndexInGroup: 0, PrintSize: "4x6",
			Placement: &models.Placement{OffsetX: 0.25, OffsetY: -0.1, Scale: 1.5, Rotation: 90}},
		{ID: "s3", GroupID: "g2", GroupName: "Duo (Print #2)", TemplateID: "t2", IndexInGroup: 1, PhotoRef: "p2", PrintSize: "4x6"},
	}

	t.Run("Create & Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		session := models.NewSession(0, "Ada", "", "4x6", "folder-1")
		session.SetSlots(slots)

		if err := repo.Create(session); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		retrieved, err := repo.Get(session.ID())
		if err != nil {
			t.Fatalf("failed to get session: %v", err)
		}

		if retrieved.ClientName() != "Ada" {
			t.Errorf("expected client Ada, got %s", retrieved.ClientName())
		}
		if retrieved.PackageID() != "" {
			t.Errorf("expected empty package, got %s", retrieved.PackageID())
		}
		if diff := cmp.Diff(slots, retrieved.Slots()); diff != "" {
			t.Errorf("slots mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("SaveSlots replaces sequence", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		session := models.NewSession(0, "Ada", "", "4x6", "")
		session.SetSlots(slots)
		if err := repo.Create(session); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		reordered := []models.Slot{slots[2], slots[0]}
		if err := repo.SaveSlots(session.ID(), reordered); err != nil {
			t.Fatalf("failed to save slots: %v", err)
		}

		got, err := repo.Slots(session.ID())
		if err != nil {
			t.Fatalf("failed to load slots: %v", err)
		}
		if diff := cmp.Diff(reordered, got); diff != "" {
			t.Errorf("slots mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("SaveSlots on missing session", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		err := NewSessionRepository(db).SaveSlots("missing", slots)
		if !errors.Is(err, shared.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		session := models.NewSession(0, "Ada", "", "4x6", "")
		if err := repo.Create(session); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		session.SetDriveFolderID("folder-2")
		session.SetSlots(slots[:1])
		if err := repo.Update(session); err != nil {
			t.Fatalf("failed to update session: %v", err)
		}

		retrieved, err := repo.Get(session.ID())
		if err != nil {
			t.Fatalf("failed to get session: %v", err)
		}
		if retrieved.DriveFolderID() != "folder-2" {
			t.Errorf("expected folder-2, got %s", retrieved.DriveFolderID())
		}
		if len(retrieved.Slots()) != 1 {
			t.Errorf("expected 1 slot, got %d", len(retrieved.Slots()))
		}
	})

	t.Run("Delete & List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		sessions := []*models.Session{
			models.NewSession(0, "Ada", "", "4x6", ""),
			models.NewSession(0, "Grace", "", "4x6", ""),
			models.NewSession(0, "Ada", "", "8x10", ""),
		}
		for _, s := range sessions {
			if err := repo.Create(s); err != nil {
				t.Fatalf("failed to create session: %v", err)
			}
		}

		if err := repo.Delete(sessions[1].ID()); err != nil {
			t.Fatalf("failed to delete session: %v", err)
		}

		all, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list sessions: %v", err)
		}
		if len(all) != 2 {
			t.Errorf("expected 2 sessions, got %d", len(all))
		}

		ada, err := repo.List(map[string]any{"client_name": "Ada"})
		if err != nil {
			t.Fatalf("failed to list sessions: %v", err)
		}
		if len(ada) != 2 {
			t.Fatalf("expected 2 sessions for Ada, got %d", len(ada))
		}
		if ada[0].Sequence() < ada[1].Sequence() {
			t.Error("expected newest session first")
		}
	})
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	seq1, err := NextSequence(db, "templates")
	if err != nil {
		t.Fatalf("failed to get first sequence: %v", err)
	}

	if seq1 != 1 {
		t.Errorf("expected first sequence to be 1, got %d", seq1)
	}

	seq2, err := NextSequence(db, "templates")
	if err != nil {
		t.Fatalf("failed to get second sequence: %v", err)
	}

	if seq2 != 2 {
		t.Errorf("expected second sequence to be 2, got %d", seq2)
	}

	sessionSeq, err := NextSequence(db, "sessions")
	if err != nil {
		t.Fatalf("failed to get session sequence: %v", err)
	}

	if sessionSeq != 1 {
		t.Errorf("expected first session sequence to be 1, got %d", sessionSeq)
	}
}
