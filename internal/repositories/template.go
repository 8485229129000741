package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/studio/internal/models"
	"github.com/desertthunder/studio/internal/shared"
)

// TemplateRepository implements models.Repository[*models.Template] for layout definitions.
//
// Holes are stored in template_holes ordered by position and always replaced as a whole.
type TemplateRepository struct {
	db *sql.DB
}

// NewTemplateRepository creates a new TemplateRepository with the given database connection
func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// Create inserts a new template and its holes with generated ID and sequence
func (r *TemplateRepository) Create(template *models.Template) error {
	sequence, err := NextSequence(r.db, "templates")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	template.SetID(shared.GenerateID())
	template.SetSequence(sequence)

	if err := template.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO templates (id, sequence, name, print_size, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = tx.Exec(query,
		template.ID(),
		sequence,
		template.Name(),
		template.PrintSize(),
		template.CreatedAt(),
		template.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert template: %w", err)
	}

	if err := writeHoles(tx, template.ID(), template.Holes()); err != nil {
		return err
	}

	return tx.Commit()
}

// Get retrieves a template by ID with its holes, excluding soft-deleted templates
func (r *TemplateRepository) Get(id string) (*models.Template, error) {
	query := `
		SELECT id, sequence, name, print_size, created_at, updated_at, deleted_at
		FROM templates
		WHERE id = ? AND deleted_at IS NULL
	`

	template, err := r.scan(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrTemplateNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadHoles(template); err != nil {
		return nil, err
	}

	return template, nil
}

// Update modifies an existing template and replaces its holes
func (r *TemplateRepository) Update(template *models.Template) error {
	if err := template.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	template.SetUpdatedAt(now)

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE templates
		SET name = ?, print_size = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := tx.Exec(query, template.Name(), template.PrintSize(), now, template.ID())
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrTemplateNotFound, template.ID())
	}

	if _, err := tx.Exec("DELETE FROM template_holes WHERE template_id = ?", template.ID()); err != nil {
		return fmt.Errorf("failed to clear template holes: %w", err)
	}

	if err := writeHoles(tx, template.ID(), template.Holes()); err != nil {
		return err
	}

	return tx.Commit()
}

// Delete soft-deletes a template by ID
func (r *TemplateRepository) Delete(id string) error {
	return softDelete(r.db, "templates", id, shared.ErrTemplateNotFound)
}

// List retrieves all templates matching the given criteria, excluding soft-deleted templates.
//
// Supported criteria: "print_size" and "name" (exact match).
func (r *TemplateRepository) List(criteria map[string]any) ([]*models.Template, error) {
	query := `
		SELECT id, sequence, name, print_size, created_at, updated_at, deleted_at
		FROM templates
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if size, ok := criteria["print_size"].(string); ok && size != "" {
		query += " AND print_size = ?"
		args = append(args, size)
	}

	if name, ok := criteria["name"].(string); ok && name != "" {
		query += " AND name = ?"
		args = append(args, name)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}

	var templates []*models.Template
	for rows.Next() {
		template, err := r.scan(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		templates = append(templates, template)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	rows.Close()

	for _, template := range templates {
		if err := r.loadHoles(template); err != nil {
			return nil, err
		}
	}

	return templates, nil
}

// ListByPrintSize retrieves every live template for a print size
func (r *TemplateRepository) ListByPrintSize(printSize string) ([]*models.Template, error) {
	return r.List(map[string]any{"print_size": printSize})
}

func (r *TemplateRepository) scan(row scanner) (*models.Template, error) {
	var (
		id        string
		sequence  int
		name      string
		printSize string
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := row.Scan(&id, &sequence, &name, &printSize, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan template: %w", err)
	}

	template := models.NewTemplate(sequence, name, printSize, nil)
	template.SetID(id)
	template.SetCreatedAt(createdAt)
	template.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		template.SetDeletedAt(&deletedAt.Time)
	}

	return template, nil
}

func (r *TemplateRepository) loadHoles(template *models.Template) error {
	rows, err := r.db.Query(`
		SELECT x, y, width, height
		FROM template_holes
		WHERE template_id = ?
		ORDER BY position ASC
	`, template.ID())
	if err != nil {
		return fmt.Errorf("failed to query template holes: %w", err)
	}
	defer rows.Close()

	var holes []models.Hole
	for rows.Next() {
		var h models.Hole
		if err := rows.Scan(&h.X, &h.Y, &h.Width, &h.Height); err != nil {
			return fmt.Errorf("failed to scan template hole: %w", err)
		}
		holes = append(holes, h)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}

	template.SetHoles(holes)
	return nil
}

func writeHoles(tx *sql.Tx, templateID string, holes []models.Hole) error {
	stmt, err := tx.Prepare(`
		INSERT INTO template_holes (template_id, position, x, y, width, height)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare hole insert: %w", err)
	}
	defer stmt.Close()

	for i, h := range holes {
		if _, err := stmt.Exec(templateID, i, h.X, h.Y, h.Width, h.Height); err != nil {
			return fmt.Errorf("failed to insert hole %d: %w", i, err)
		}
	}
	return nil
}
