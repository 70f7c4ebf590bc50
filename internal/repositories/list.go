package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/riffvalley/riffvalley-app-back/internal/models"
	"github.com/riffvalley/riffvalley-app-back/internal/shared"
)

// ListRepository implements [models.Repository] for [models.List], including its assignments and links.
type ListRepository struct {
	db DBTX
}

var _ models.Repository[*models.List] = (*ListRepository)(nil)

func NewListRepository(db DBTX) *ListRepository {
	return &ListRepository{db: db}
}

const listColumns = `id, sequence, name, type, status, special_type, free, list_date, release_date, close_date, created_at, updated_at`

// Create inserts a list together with any assignments and links it carries.
func (r *ListRepository) Create(l *models.List) error {
	if err := l.Validate(); err != nil {
		return err
	}

	sequence, err := NextSequence(r.db, "lists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	l.ID = shared.GenerateID()
	l.Sequence = sequence

	_, err = r.db.Exec(`INSERT INTO lists (`+listColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Sequence, l.Name, l.Type, l.Status, nullString(l.SpecialType), l.Free, nullTime(l.ListDate),
		nullTime(l.ReleaseDate), nullTime(l.CloseDate), l.CreatedAt.UTC(), l.UpdatedAt.UTC())
	if err != nil {
		return shared.TranslateConstraint(fmt.Errorf("failed to insert list: %w", err))
	}

	for i := range l.Assignments {
		if err := r.AddAssignment(l.ID, &l.Assignments[i]); err != nil {
			return err
		}
	}
	for i := range l.Links {
		if err := r.AddLink(l.ID, &l.Links[i]); err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves a list by ID with its assignments and links.
func (r *ListRepository) Get(id string) (*models.List, error) {
	l, err := r.scan(r.db.QueryRow(`SELECT `+listColumns+` FROM lists WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.NotFound("list", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query list: %w", err)
	}

	if err := r.loadRelations(l); err != nil {
		return nil, err
	}
	return l, nil
}

// Update saves the list's scalar fields. Assignments and links are managed separately.
func (r *ListRepository) Update(l *models.List) error {
	if err := l.Validate(); err != nil {
		return err
	}

	l.UpdatedAt = time.Now()
	result, err := r.db.Exec(`
		UPDATE lists
		SET name = ?, status = ?, special_type = ?, free = ?, list_date = ?, release_date = ?, close_date = ?, updated_at = ?
		WHERE id = ?
	`, l.Name, l.Status, nullString(l.SpecialType), l.Free, nullTime(l.ListDate), nullTime(l.ReleaseDate),
		nullTime(l.CloseDate), l.UpdatedAt.UTC(), l.ID)
	if err != nil {
		return shared.TranslateConstraint(fmt.Errorf("failed to update list: %w", err))
	}
	return affected(result, shared.NotFound("list", l.ID))
}

// Delete removes a list; assignments and links cascade.
func (r *ListRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM lists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	return affected(result, shared.NotFound("list", id))
}

// List retrieves lists matching criteria, ordered by release date.
//
// Supported keys: "type" ([models.ListType]), "exclude_status" ([]models.ListStatus),
// "release_from" and "release_to" ([time.Time]), "limit" and "offset".
// Assignments and links are not loaded.
func (r *ListRepository) List(criteria map[string]any) ([]*models.List, error) {
	where, args := r.where(criteria)
	query := `SELECT ` + listColumns + ` FROM lists` + where + ` ORDER BY release_date IS NULL, release_date ASC, sequence ASC`
	query, args = pagination(criteria, query, args)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query lists: %w", err)
	}
	defer rows.Close()

	var lists []*models.List
	for rows.Next() {
		l, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return lists, nil
}

// Count returns how many lists match criteria, ignoring pagination keys.
func (r *ListRepository) Count(criteria map[string]any) (int, error) {
	where, args := r.where(criteria)
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM lists`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count lists: %w", err)
	}
	return n, nil
}

func (r *ListRepository) where(criteria map[string]any) (string, []any) {
	where := " WHERE 1 = 1"
	args := []any{}

	if typ, ok := criteria["type"].(models.ListType); ok && typ != "" {
		where += " AND type = ?"
		args = append(args, typ)
	}
	if excluded, ok := criteria["exclude_status"].([]models.ListStatus); ok {
		for _, s := range excluded {
			where += " AND status <> ?"
			args = append(args, s)
		}
	}
	if from, ok := criteria["release_from"].(time.Time); ok && !from.IsZero() {
		where += " AND release_date >= ?"
		args = append(args, from.UTC())
	}
	if to, ok := criteria["release_to"].(time.Time); ok && !to.IsZero() {
		where += " AND release_date <= ?"
		args = append(args, to.UTC())
	}
	return where, args
}

// AddAssignment attaches an assignment to the list, generating its ID.
func (r *ListRepository) AddAssignment(listID string, a *models.Assignment) error {
	a.ID = shared.GenerateID()
	a.ListID = listID
	_, err := r.db.Exec(`INSERT INTO list_assignments (id, list_id, user_id, position, done) VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.ListID, a.UserID, a.Position, a.Done)
	if err != nil {
		return shared.TranslateConstraint(fmt.Errorf("failed to insert assignment: %w", err))
	}
	return nil
}

// AddLink attaches a link to the list, generating its ID.
func (r *ListRepository) AddLink(listID string, link *models.Link) error {
	link.ID = shared.GenerateID()
	link.ListID = listID
	_, err := r.db.Exec(`INSERT INTO list_links (id, list_id, name, url) VALUES (?, ?, ?, ?)`,
		link.ID, link.ListID, link.Name, link.URL)
	if err != nil {
		return shared.TranslateConstraint(fmt.Errorf("failed to insert link: %w", err))
	}
	return nil
}

func (r *ListRepository) loadRelations(l *models.List) error {
	rows, err := r.db.Query(`SELECT id, list_id, user_id, position, done FROM list_assignments WHERE list_id = ? ORDER BY position, created_at`, l.ID)
	if err != nil {
		return fmt.Errorf("failed to query assignments: %w", err)
	}
	l.Assignments = []models.Assignment{}
	for rows.Next() {
		var a models.Assignment
		if err := rows.Scan(&a.ID, &a.ListID, &a.UserID, &a.Position, &a.Done); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan assignment: %w", err)
		}
		l.Assignments = append(l.Assignments, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}

	rows, err = r.db.Query(`SELECT id, list_id, name, url FROM list_links WHERE list_id = ? ORDER BY created_at`, l.ID)
	if err != nil {
		return fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()
	l.Links = []models.Link{}
	for rows.Next() {
		var link models.Link
		if err := rows.Scan(&link.ID, &link.ListID, &link.Name, &link.URL); err != nil {
			return fmt.Errorf("failed to scan link: %w", err)
		}
		l.Links = append(l.Links, link)
	}
	return rows.Err()
}

func (r *ListRepository) scan(s scanner) (*models.List, error) {
	var (
		l                              models.List
		specialType                    sql.NullString
		listDate, releaseDate, closing sql.NullTime
	)

	err := s.Scan(&l.ID, &l.Sequence, &l.Name, &l.Type, &l.Status, &specialType, &l.Free, &listDate,
		&releaseDate, &closing, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}

	l.SpecialType = specialType.String
	l.ListDate = timePtr(listDate)
	l.ReleaseDate = timePtr(releaseDate)
	l.CloseDate = timePtr(closing)
	return &l, nil
}
