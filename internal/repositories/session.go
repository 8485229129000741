package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/studio/internal/models"
	"github.com/desertthunder/studio/internal/shared"
)

// SessionRepository implements models.Repository[*models.Session] for client sessions.
//
// The ordered slot sequence lives in session_slots keyed by position; it is only ever
// written as a whole (see [SessionRepository.SaveSlots]).
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session and its slots with generated ID and sequence
func (r *SessionRepository) Create(session *models.Session) error {
	sequence, err := NextSequence(r.db, "sessions")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	session.SetID(shared.GenerateID())
	session.SetSequence(sequence)

	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO sessions (id, sequence, client_name, package_id, print_size, drive_folder_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.Exec(query,
		session.ID(),
		sequence,
		session.ClientName(),
		nullString(session.PackageID()),
		session.PrintSize(),
		session.DriveFolderID(),
		session.CreatedAt(),
		session.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	if err := writeSlots(tx, session.ID(), session.Slots()); err != nil {
		return err
	}

	return tx.Commit()
}

// Get retrieves a session by ID with its slots, excluding soft-deleted sessions
func (r *SessionRepository) Get(id string) (*models.Session, error) {
	query := `
		SELECT id, sequence, client_name, package_id, print_size, drive_folder_id, created_at, updated_at, deleted_at
		FROM sessions
		WHERE id = ? AND deleted_at IS NULL
	`

	session, err := r.scan(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	slots, err := r.Slots(id)
	if err != nil {
		return nil, err
	}
	session.SetSlots(slots)

	return session, nil
}

// Update modifies session metadata and replaces its slot sequence
func (r *SessionRepository) Update(session *models.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	session.SetUpdatedAt(now)

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE sessions
		SET drive_folder_id = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, session.DriveFolderID(), now, session.ID())
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSessionNotFound, session.ID())
	}

	if err := replaceSlots(tx, session.ID(), session.Slots()); err != nil {
		return err
	}

	return tx.Commit()
}

// Delete soft-deletes a session by ID
func (r *SessionRepository) Delete(id string) error {
	return softDelete(r.db, "sessions", id, shared.ErrSessionNotFound)
}

// List retrieves all sessions matching the given criteria, excluding soft-deleted sessions.
// Slots are not loaded; use [SessionRepository.Get] for the full session.
//
// Supported criteria: "client_name", "package_id".
func (r *SessionRepository) List(criteria map[string]any) ([]*models.Session, error) {
	query := `
		SELECT id, sequence, client_name, package_id, print_size, drive_folder_id, created_at, updated_at, deleted_at
		FROM sessions
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if client, ok := criteria["client_name"].(string); ok && client != "" {
		query += " AND client_name = ?"
		args = append(args, client)
	}

	if packageID, ok := criteria["package_id"].(string); ok && packageID != "" {
		query += " AND package_id = ?"
		args = append(args, packageID)
	}

	query += " ORDER BY sequence DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		session, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return sessions, nil
}

// SaveSlots replaces the full ordered slot sequence of a session and bumps its updated_at
func (r *SessionRepository) SaveSlots(sessionID string, slots []models.Slot) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec("UPDATE sessions SET updated_at = ? WHERE id = ? AND deleted_at IS NULL", time.Now(), sessionID)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSessionNotFound, sessionID)
	}

	if err := replaceSlots(tx, sessionID, slots); err != nil {
		return err
	}

	return tx.Commit()
}

// Slots loads the ordered slot sequence of a session
func (r *SessionRepository) Slots(sessionID string) ([]models.Slot, error) {
	rows, err := r.db.Query(`
		SELECT id, group_id, group_name, template_id, index_in_group, photo_ref, placement, print_size
		FROM session_slots
		WHERE session_id = ?
		ORDER BY position ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query session slots: %w", err)
	}
	defer rows.Close()

	var slots []models.Slot
	for rows.Next() {
		var (
			slot      models.Slot
			photoRef  sql.NullString
			placement sql.NullString
		)

		err := rows.Scan(&slot.ID, &slot.GroupID, &slot.GroupName, &slot.TemplateID, &slot.IndexInGroup, &photoRef, &placement, &slot.PrintSize)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session slot: %w", err)
		}

		slot.PhotoRef = photoRef.String
		if placement.Valid && placement.String != "" {
			var p models.Placement
			if err := json.Unmarshal([]byte(placement.String), &p); err != nil {
				return nil, fmt.Errorf("failed to decode placement for slot %s: %w", slot.ID, err)
			}
			slot.Placement = &p
		}

		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return slots, nil
}

func (r *SessionRepository) scan(row scanner) (*models.Session, error) {
	var (
		id            string
		sequence      int
		clientName    string
		packageID     sql.NullString
		printSize     string
		driveFolderID string
		createdAt     time.Time
		updatedAt     time.Time
		deletedAt     sql.NullTime
	)

	err := row.Scan(&id, &sequence, &clientName, &packageID, &printSize, &driveFolderID, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}

	session := models.NewSession(sequence, clientName, packageID.String, printSize, driveFolderID)
	session.SetID(id)
	session.SetCreatedAt(createdAt)
	session.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		session.SetDeletedAt(&deletedAt.Time)
	}

	return session, nil
}

func replaceSlots(tx *sql.Tx, sessionID string, slots []models.Slot) error {
	if _, err := tx.Exec("DELETE FROM session_slots WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to clear session slots: %w", err)
	}
	return writeSlots(tx, sessionID, slots)
}

func writeSlots(tx *sql.Tx, sessionID string, slots []models.Slot) error {
	stmt, err := tx.Prepare(`
		INSERT INTO session_slots (id, session_id, position, group_id, group_name, template_id, index_in_group, photo_ref, placement, print_size)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare slot insert: %w", err)
	}
	defer stmt.Close()

	for i, slot := range slots {
		var placement any
		if slot.Placement != nil {
			data, err := json.Marshal(slot.Placement)
			if err != nil {
				return fmt.Errorf("failed to encode placement for slot %s: %w", slot.ID, err)
			}
			placement = string(data)
		}

		_, err := stmt.Exec(
			slot.ID,
			sessionID,
			i,
			slot.GroupID,
			slot.GroupName,
			slot.TemplateID,
			slot.IndexInGroup,
			nullString(slot.PhotoRef),
			placement,
			slot.PrintSize,
		)
		if err != nil {
			return fmt.Errorf("failed to insert slot %d: %w", i, err)
		}
	}
	return nil
}
