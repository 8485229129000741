package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/studio/internal/models"
	"github.com/desertthunder/studio/internal/shared"
)

// PackageRepository implements models.Repository[*models.Package] for template bundles.
type PackageRepository struct {
	db *sql.DB
}

// NewPackageRepository creates a new PackageRepository with the given database connection
func NewPackageRepository(db *sql.DB) *PackageRepository {
	return &PackageRepository{db: db}
}

// Create inserts a new package and its items with generated ID and sequence
func (r *PackageRepository) Create(pkg *models.Package) error {
	sequence, err := NextSequence(r.db, "packages")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	pkg.SetID(shared.GenerateID())
	pkg.SetSequence(sequence)

	if err := pkg.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO packages (id, sequence, name, print_size, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.Exec(query,
		pkg.ID(),
		sequence,
		pkg.Name(),
		pkg.PrintSize(),
		pkg.Description(),
		pkg.CreatedAt(),
		pkg.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert package: %w", err)
	}

	if err := writeItems(tx, pkg.ID(), pkg.Items()); err != nil {
		return err
	}

	return tx.Commit()
}

// Get retrieves a package by ID with its items, excluding soft-deleted packages
func (r *PackageRepository) Get(id string) (*models.Package, error) {
	query := `
		SELECT id, sequence, name, print_size, description, created_at, updated_at, deleted_at
		FROM packages
		WHERE id = ? AND deleted_at IS NULL
	`

	pkg, err := r.scan(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrPackageNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

// Update modifies an existing package and replaces its items
func (r *PackageRepository) Update(pkg *models.Package) error {
	if err := pkg.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	pkg.SetUpdatedAt(now)

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE packages
		SET name = ?, description = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, pkg.Name(), pkg.Description(), now, pkg.ID())
	if err != nil {
		return fmt.Errorf("failed to update package: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrPackageNotFound, pkg.ID())
	}

	if _, err := tx.Exec("DELETE FROM package_items WHERE package_id = ?", pkg.ID()); err != nil {
		return fmt.Errorf("failed to clear package items: %w", err)
	}

	if err := writeItems(tx, pkg.ID(), pkg.Items()); err != nil {
		return err
	}

	return tx.Commit()
}

// Delete soft-deletes a package by ID
func (r *PackageRepository) Delete(id string) error {
	return softDelete(r.db, "packages", id, shared.ErrPackageNotFound)
}

// List retrieves all packages matching the given criteria, excluding soft-deleted packages.
//
// Supported criteria: "print_size".
func (r *PackageRepository) List(criteria map[string]any) ([]*models.Package, error) {
	query := `
		SELECT id, sequence, name, print_size, description, created_at, updated_at, deleted_at
		FROM packages
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if size, ok := criteria["print_size"].(string); ok && size != "" {
		query += " AND print_size = ?"
		args = append(args, size)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query packages: %w", err)
	}

	var packages []*models.Package
	for rows.Next() {
		pkg, err := r.scan(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		packages = append(packages, pkg)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	rows.Close()

	for _, pkg := range packages {
		if err := r.loadItems(pkg); err != nil {
			return nil, err
		}
	}

	return packages, nil
}

func (r *PackageRepository) scan(row scanner) (*models.Package, error) {
	var (
		id          string
		sequence    int
		name        string
		printSize   string
		description string
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := row.Scan(&id, &sequence, &name, &printSize, &description, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan package: %w", err)
	}

	pkg := models.NewPackage(sequence, name, printSize, description, nil)
	pkg.SetID(id)
	pkg.SetCreatedAt(createdAt)
	pkg.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		pkg.SetDeletedAt(&deletedAt.Time)
	}

	return pkg, nil
}

func (r *PackageRepository) loadItems(pkg *models.Package) error {
	rows, err := r.db.Query(`
		SELECT template_id, quantity
		FROM package_items
		WHERE package_id = ?
		ORDER BY position ASC
	`, pkg.ID())
	if err != nil {
		return fmt.Errorf("failed to query package items: %w", err)
	}
	defer rows.Close()

	var items []models.PackageItem
	for rows.Next() {
		var item models.PackageItem
		if err := rows.Scan(&item.TemplateID, &item.Quantity); err != nil {
			return fmt.Errorf("failed to scan package item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}

	pkg.SetItems(items)
	return nil
}

func writeItems(tx *sql.Tx, packageID string, items []models.PackageItem) error {
	for i, item := range items {
		_, err := tx.Exec(`
			INSERT INTO package_items (package_id, position, template_id, quantity)
			VALUES (?, ?, ?, ?)
		`, packageID, i, item.TemplateID, item.Quantity)
		if err != nil {
			return fmt.Errorf("failed to insert package item %d: %w", i, err)
		}
	}
	return nil
}
