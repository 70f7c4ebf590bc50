package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/riffvalley/riffvalley-app-back/internal/models"
	"github.com/riffvalley/riffvalley-app-back/internal/shared"
)

// UserRepository implements [models.Repository] for [models.User].
type UserRepository struct {
	db DBTX
}

var _ models.Repository[*models.User] = (*UserRepository)(nil)

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, sequence, name, email, created_at, updated_at`

// Create inserts a new user with generated ID and sequence.
func (r *UserRepository) Create(user *models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	sequence, err := NextSequence(r.db, "users")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	user.ID = shared.GenerateID()
	user.Sequence = sequence

	_, err = r.db.Exec(`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Sequence, user.Name, user.Email, user.CreatedAt.UTC(), user.UpdatedAt.UTC())
	if err != nil {
		return shared.TranslateConstraint(fmt.Errorf("failed to insert user: %w", err))
	}
	return nil
}

// Get retrieves a user by ID.
func (r *UserRepository) Get(id string) (*models.User, error) {
	user, err := r.scan(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.NotFound("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

// Exists reports whether a user with id exists.
func (r *UserRepository) Exists(id string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to query user: %w", err)
	}
	return exists, nil
}

// Update modifies an existing user.
func (r *UserRepository) Update(user *models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	user.UpdatedAt = time.Now()
	result, err := r.db.Exec(`UPDATE users SET name = ?, email = ?, updated_at = ? WHERE id = ?`,
		user.Name, user.Email, user.UpdatedAt.UTC(), user.ID)
	if err != nil {
		return shared.TranslateConstraint(fmt.Errorf("failed to update user: %w", err))
	}
	return affected(result, shared.NotFound("user", user.ID))
}

// Delete removes a user by ID.
func (r *UserRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return affected(result, shared.NotFound("user", id))
}

// List retrieves users, optionally filtered by "email".
func (r *UserRepository) List(criteria map[string]any) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE 1 = 1`
	args := []any{}

	if email, ok := criteria["email"].(string); ok && email != "" {
		query += " AND email = ?"
		args = append(args, email)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return users, nil
}

func (r *UserRepository) scan(s scanner) (*models.User, error) {
	var u models.User
	if err := s.Scan(&u.ID, &u.Sequence, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
