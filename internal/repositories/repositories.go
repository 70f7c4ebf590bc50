// package repositories provides SQLite persistence for every editorial entity.
//
// Repositories run against a [DBTX], so the same code serves plain connections and
// the per-request transactions opened by [Store.WithTx].
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DBTX is the subset of [sql.DB] and [sql.Tx] used by repositories.
type DBTX interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Repos groups one repository per entity over the same [DBTX].
type Repos struct {
	Users    *UserRepository
	Media    *MediumRepository
	Contents *ContentRepository
	Lists    *ListRepository
	Reunions *ReunionRepository
}

// NewRepos builds every repository over db.
func NewRepos(db DBTX) *Repos {
	return &Repos{
		Users:    NewUserRepository(db),
		Media:    NewMediumRepository(db),
		Contents: NewContentRepository(db),
		Lists:    NewListRepository(db),
		Reunions: NewReunionRepository(db),
	}
}

// Store owns the database handle and hands out repositories.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Repos returns repositories bound to the connection pool, for reads.
func (s *Store) Repos() *Repos {
	return NewRepos(s.db)
}

// WithTx runs fn with repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) WithTx(ctx context.Context, fn func(*Repos) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// NextSequence atomically increments and returns the next sequence number for the given table.
//
// Sequence numbers give human-readable ordering (content #42, list #15) independent of UUIDs.
func NextSequence(db DBTX, table string) (int, error) {
	var sequence int
	query := fmt.Sprintf("UPDATE %s_sequence SET value = value + 1 WHERE id = 1 RETURNING value", table)
	if err := db.QueryRow(query).Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}
	return sequence, nil
}

// scanner is implemented by both [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

// affected returns err when the statement touched no rows.
func affected(result sql.Result, err error) error {
	rows, rerr := result.RowsAffected()
	if rerr != nil {
		return fmt.Errorf("failed to get affected rows: %w", rerr)
	}
	if rows == 0 {
		return err
	}
	return nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

// pagination appends LIMIT/OFFSET from criteria keys "limit" and "offset".
func pagination(criteria map[string]any, query string, args []any) (string, []any) {
	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
		if offset, ok := criteria["offset"].(int); ok && offset > 0 {
			query += " OFFSET ?"
			args = append(args, offset)
		}
	}
	return query, args
}
