package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/riffvalley/riffvalley-app-back/internal/models"
	"github.com/riffvalley/riffvalley-app-back/internal/shared"
)

// MediumRepository persists articles, spotify segments and videos in the media table.
type MediumRepository struct {
	db DBTX
}

var _ models.Repository[*models.Medium] = (*MediumRepository)(nil)

func NewMediumRepository(db DBTX) *MediumRepository {
	return &MediumRepository{db: db}
}

const mediumColumns = `id, sequence, kind, name, status, type, link, update_date, user_id, editor_id, list_id, created_at, updated_at`

// Create inserts a new medium with generated ID and sequence.
func (r *MediumRepository) Create(m *models.Medium) error {
	if err := m.Validate(); err != nil {
		return err
	}

	sequence, err := NextSequence(r.db, "media")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	m.ID = shared.GenerateID()
	m.Sequence = sequence

	_, err = r.db.Exec(`INSERT INTO media (`+mediumColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Sequence, m.Kind, m.Name, m.Status, m.Type, m.Link, nullTime(m.UpdateDate),
		nullString(m.UserID), nullString(m.EditorID), nullString(m.ListID), m.CreatedAt.UTC(), m.UpdatedAt.UTC())
	if err != nil {
		return shared.TranslateConstraint(fmt.Errorf("failed to insert %s: %w", m.Kind, err))
	}
	return nil
}

// Get retrieves a medium of any kind by ID.
func (r *MediumRepository) Get(id string) (*models.Medium, error) {
	m, err := r.scan(r.db.QueryRow(`SELECT `+mediumColumns+` FROM media WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.NotFound("medium", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query medium: %w", err)
	}
	return m, nil
}

// GetKind retrieves a medium by ID, reporting not found when it belongs to another kind.
func (r *MediumRepository) GetKind(kind models.MediumKind, id string) (*models.Medium, error) {
	m, err := r.scan(r.db.QueryRow(`SELECT `+mediumColumns+` FROM media WHERE id = ? AND kind = ?`, id, kind))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.NotFound(string(kind), id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", kind, err)
	}
	return m, nil
}

// Update saves every mutable field of m.
func (r *MediumRepository) Update(m *models.Medium) error {
	if err := m.Validate(); err != nil {
		return err
	}

	m.UpdatedAt = time.Now()
	result, err := r.db.Exec(`
		UPDATE media
		SET name = ?, status = ?, type = ?, link = ?, update_date = ?, user_id = ?, editor_id = ?, list_id = ?, updated_at = ?
		WHERE id = ?
	`, m.Name, m.Status, m.Type, m.Link, nullTime(m.UpdateDate), nullString(m.UserID),
		nullString(m.EditorID), nullString(m.ListID), m.UpdatedAt.UTC(), m.ID)
	if err != nil {
		return shared.TranslateConstraint(fmt.Errorf("failed to update %s: %w", m.Kind, err))
	}
	return affected(result, shared.NotFound(string(m.Kind), m.ID))
}

// UpdateStatus writes only the status column, leaving update_date untouched.
func (r *MediumRepository) UpdateStatus(id string, status models.Status) error {
	result, err := r.db.Exec(`UPDATE media SET status = ?, updated_at = ? WHERE id = ?`, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update medium status: %w", err)
	}
	return affected(result, shared.NotFound("medium", id))
}

// Delete removes a medium by ID.
func (r *MediumRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM media WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete medium: %w", err)
	}
	return affected(result, shared.NotFound("medium", id))
}

// List retrieves media matching criteria.
//
// Supported keys: "kind", "status", "type", "user_id", "q" (case-insensitive name match),
// "from" and "to" (update_date bounds, [time.Time]), "limit" and "offset".
func (r *MediumRepository) List(criteria map[string]any) ([]*models.Medium, error) {
	query := `SELECT ` + mediumColumns + ` FROM media WHERE 1 = 1`
	args := []any{}

	if kind, ok := criteria["kind"].(models.MediumKind); ok && kind != "" {
		query += " AND kind = ?"
		args = append(args, kind)
	}
	if status, ok := criteria["status"].(models.Status); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	if typ, ok := criteria["type"].(string); ok && typ != "" {
		query += " AND type = ?"
		args = append(args, typ)
	}
	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}
	if q, ok := criteria["q"].(string); ok && q != "" {
		query += " AND name LIKE ? COLLATE NOCASE"
		args = append(args, "%"+q+"%")
	}
	if from, ok := criteria["from"].(time.Time); ok && !from.IsZero() {
		query += " AND update_date >= ?"
		args = append(args, from.UTC())
	}
	if to, ok := criteria["to"].(time.Time); ok && !to.IsZero() {
		query += " AND update_date <= ?"
		args = append(args, to.UTC())
	}

	query += " ORDER BY update_date IS NULL, update_date DESC, sequence DESC"
	query, args = pagination(criteria, query, args)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query media: %w", err)
	}
	defer rows.Close()

	var media []*models.Medium
	for rows.Next() {
		m, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan medium: %w", err)
		}
		media = append(media, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return media, nil
}

func (r *MediumRepository) scan(s scanner) (*models.Medium, error) {
	var (
		m                        models.Medium
		updateDate               sql.NullTime
		userID, editorID, listID sql.NullString
	)

	err := s.Scan(&m.ID, &m.Sequence, &m.Kind, &m.Name, &m.Status, &m.Type, &m.Link, &updateDate,
		&userID, &editorID, &listID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}

	m.UpdateDate = timePtr(updateDate)
	m.UserID = userID.String
	m.EditorID = editorID.String
	m.ListID = listID.String
	return &m, nil
}
