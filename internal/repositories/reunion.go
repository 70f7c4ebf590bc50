package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/riffvalley/riffvalley-app-back/internal/models"
	"github.com/riffvalley/riffvalley-app-back/internal/shared"
)

// ReunionRepository implements [models.Repository] for [models.Reunion] and its points.
type ReunionRepository struct {
	db DBTX
}

var _ models.Repository[*models.Reunion] = (*ReunionRepository)(nil)

func NewReunionRepository(db DBTX) *ReunionRepository {
	return &ReunionRepository{db: db}
}

// Create inserts the reunion and every point it carries.
func (r *ReunionRepository) Create(reunion *models.Reunion) error {
	if err := reunion.Validate(); err != nil {
		return err
	}

	reunion.ID = shared.GenerateID()
	_, err := r.db.Exec(`INSERT INTO reunions (id, title, date, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		reunion.ID, reunion.Title, reunion.Date.UTC(), reunion.CreatedAt.UTC(), reunion.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert reunion: %w", err)
	}

	for i := range reunion.Points {
		if err := r.AddPoint(reunion.ID, &reunion.Points[i]); err != nil {
			return err
		}
	}
	return nil
}

// AddPoint appends a checklist item to the reunion, generating its ID.
func (r *ReunionRepository) AddPoint(reunionID string, p *models.Point) error {
	p.ID = shared.GenerateID()
	p.ReunionID = reunionID
	_, err := r.db.Exec(`INSERT INTO points (id, reunion_id, position, title, content, done) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.ReunionID, p.Position, p.Title, p.Content, p.Done)
	if err != nil {
		return fmt.Errorf("failed to insert point: %w", err)
	}
	return nil
}

// Get retrieves a reunion by ID with its points in order.
func (r *ReunionRepository) Get(id string) (*models.Reunion, error) {
	var reunion models.Reunion
	err := r.db.QueryRow(`SELECT id, title, date, created_at, updated_at FROM reunions WHERE id = ?`, id).
		Scan(&reunion.ID, &reunion.Title, &reunion.Date, &reunion.CreatedAt, &reunion.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.NotFound("reunion", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query reunion: %w", err)
	}

	rows, err := r.db.Query(`SELECT id, reunion_id, position, title, content, done FROM points WHERE reunion_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query points: %w", err)
	}
	defer rows.Close()

	reunion.Points = []models.Point{}
	for rows.Next() {
		var p models.Point
		if err := rows.Scan(&p.ID, &p.ReunionID, &p.Position, &p.Title, &p.Content, &p.Done); err != nil {
			return nil, fmt.Errorf("failed to scan point: %w", err)
		}
		reunion.Points = append(reunion.Points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return &reunion, nil
}

// Update saves title and date.
func (r *ReunionRepository) Update(reunion *models.Reunion) error {
	if err := reunion.Validate(); err != nil {
		return err
	}

	reunion.UpdatedAt = time.Now()
	result, err := r.db.Exec(`UPDATE reunions SET title = ?, date = ?, updated_at = ? WHERE id = ?`,
		reunion.Title, reunion.Date.UTC(), reunion.UpdatedAt.UTC(), reunion.ID)
	if err != nil {
		return fmt.Errorf("failed to update reunion: %w", err)
	}
	return affected(result, shared.NotFound("reunion", reunion.ID))
}

// Delete removes a reunion; its points cascade.
func (r *ReunionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM reunions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reunion: %w", err)
	}
	return affected(result, shared.NotFound("reunion", id))
}

// List retrieves reunions ordered by date, without points. Supports "limit" and "offset".
func (r *ReunionRepository) List(criteria map[string]any) ([]*models.Reunion, error) {
	query, args := pagination(criteria, `SELECT id, title, date, created_at, updated_at FROM reunions ORDER BY date DESC`, nil)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reunions: %w", err)
	}
	defer rows.Close()

	var reunions []*models.Reunion
	for rows.Next() {
		var reunion models.Reunion
		if err := rows.Scan(&reunion.ID, &reunion.Title, &reunion.Date, &reunion.CreatedAt, &reunion.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reunion: %w", err)
		}
		reunions = append(reunions, &reunion)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return reunions, nil
}
