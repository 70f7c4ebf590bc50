package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/riffvalley/riffvalley-app-back/internal/models"
	"github.com/riffvalley/riffvalley-app-back/internal/shared"
)

// ContentRepository implements [models.Repository] for [models.Content].
//
// The medium link is stored as a single medium_id column; its kind is implied by the content type.
type ContentRepository struct {
	db DBTX
}

var _ models.Repository[*models.Content] = (*ContentRepository)(nil)

func NewContentRepository(db DBTX) *ContentRepository {
	return &ContentRepository{db: db}
}

const contentColumns = `id, sequence, type, name, notes, publication_date, close_date, list_date, author_id, ready,
	reunion_id, medium_id, list_id, created_at, updated_at`

// Create inserts a new content with generated ID and sequence.
func (r *ContentRepository) Create(c *models.Content) error {
	if err := c.Validate(); err != nil {
		return err
	}

	sequence, err := NextSequence(r.db, "contents")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	c.ID = shared.GenerateID()
	c.Sequence = sequence

	_, err = r.db.Exec(`INSERT INTO contents (`+contentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Sequence, c.Type, c.Name, c.Notes, nullTime(c.PublicationDate), nullTime(c.CloseDate),
		nullTime(c.ListDate), c.AuthorID, c.Ready, nullString(c.ReunionID), nullString(c.Medium.ID),
		nullString(c.ListID), c.CreatedAt.UTC(), c.UpdatedAt.UTC())
	if err != nil {
		return shared.TranslateConstraint(fmt.Errorf("failed to insert content: %w", err))
	}
	return nil
}

// Get retrieves a content by ID.
func (r *ContentRepository) Get(id string) (*models.Content, error) {
	c, err := r.scan(r.db.QueryRow(`SELECT `+contentColumns+` FROM contents WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.NotFound("content", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query content: %w", err)
	}
	return c, nil
}

// FindByMedium returns the content wrapping the medium, or nil when there is none.
func (r *ContentRepository) FindByMedium(mediumID string) (*models.Content, error) {
	return r.findBy("medium_id", mediumID)
}

// FindByList returns the content owning the list, or nil when there is none.
func (r *ContentRepository) FindByList(listID string) (*models.Content, error) {
	return r.findBy("list_id", listID)
}

func (r *ContentRepository) findBy(column, value string) (*models.Content, error) {
	c, err := r.scan(r.db.QueryRow(`SELECT `+contentColumns+` FROM contents WHERE `+column+` = ?`, value))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query content by %s: %w", column, err)
	}
	return c, nil
}

// Update saves every mutable field of c.
func (r *ContentRepository) Update(c *models.Content) error {
	if err := c.Validate(); err != nil {
		return err
	}

	c.UpdatedAt = time.Now()
	result, err := r.db.Exec(`
		UPDATE contents
		SET name = ?, notes = ?, publication_date = ?, close_date = ?, list_date = ?, author_id = ?, ready = ?,
			reunion_id = ?, medium_id = ?, list_id = ?, updated_at = ?
		WHERE id = ?
	`, c.Name, c.Notes, nullTime(c.PublicationDate), nullTime(c.CloseDate), nullTime(c.ListDate), c.AuthorID,
		c.Ready, nullString(c.ReunionID), nullString(c.Medium.ID), nullString(c.ListID), c.UpdatedAt.UTC(), c.ID)
	if err != nil {
		return shared.TranslateConstraint(fmt.Errorf("failed to update content: %w", err))
	}
	return affected(result, shared.NotFound("content", c.ID))
}

// UnlinkList clears list_id on whichever content points at listID.
func (r *ContentRepository) UnlinkList(listID string) error {
	if _, err := r.db.Exec(`UPDATE contents SET list_id = NULL, updated_at = ? WHERE list_id = ?`, time.Now().UTC(), listID); err != nil {
		return fmt.Errorf("failed to unlink list: %w", err)
	}
	return nil
}

// Delete removes a content by ID.
func (r *ContentRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM contents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete content: %w", err)
	}
	return affected(result, shared.NotFound("content", id))
}

// List retrieves contents matching criteria, newest publication first and undated last.
//
// Supported keys: "ready" (bool), "type" ([models.ContentType]), "author_id",
// "from" and "to" (publication_date bounds, [time.Time]), "limit" and "offset".
func (r *ContentRepository) List(criteria map[string]any) ([]*models.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM contents WHERE 1 = 1`
	args := []any{}

	if ready, ok := criteria["ready"].(bool); ok {
		query += " AND ready = ?"
		args = append(args, ready)
	}
	if typ, ok := criteria["type"].(models.ContentType); ok && typ != "" {
		query += " AND type = ?"
		args = append(args, typ)
	}
	if authorID, ok := criteria["author_id"].(string); ok && authorID != "" {
		query += " AND author_id = ?"
		args = append(args, authorID)
	}
	if from, ok := criteria["from"].(time.Time); ok && !from.IsZero() {
		query += " AND publication_date >= ?"
		args = append(args, from.UTC())
	}
	if to, ok := criteria["to"].(time.Time); ok && !to.IsZero() {
		query += " AND publication_date <= ?"
		args = append(args, to.UTC())
	}

	query += " ORDER BY publication_date IS NULL, publication_date DESC, sequence DESC"
	query, args = pagination(criteria, query, args)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contents: %w", err)
	}
	defer rows.Close()

	var contents []*models.Content
	for rows.Next() {
		c, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content: %w", err)
		}
		contents = append(contents, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return contents, nil
}

func (r *ContentRepository) scan(s scanner) (*models.Content, error) {
	var (
		c                            models.Content
		publication, closing, listed sql.NullTime
		reunionID, mediumID, list    sql.NullString
	)

	err := s.Scan(&c.ID, &c.Sequence, &c.Type, &c.Name, &c.Notes, &publication, &closing, &listed, &c.AuthorID,
		&c.Ready, &reunionID, &mediumID, &list, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	c.PublicationDate = timePtr(publication)
	c.CloseDate = timePtr(closing)
	c.ListDate = timePtr(listed)
	c.ReunionID = reunionID.String
	c.ListID = list.String
	if kind, ok := c.Type.MediumKind(); ok && mediumID.Valid {
		c.Medium = models.MediumRef{Kind: kind, ID: mediumID.String}
	}
	return &c, nil
}
