package snippets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"resume-composer/internal/relationships"
)

// PGStore implements Store using Postgres.
type PGStore struct {
	DB *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{DB: db}
}

// migrateSQL repoints bullet placements from one version of a lineage to
// another. Built from the bullets kind config so join-table names live in
// one place.
var migrateSQL = fmt.Sprintf(
	"UPDATE %s SET %s = $1 WHERE %s = $2 AND %s = $3",
	relationships.ExperienceBullets.Table,
	relationships.ExperienceBullets.VersionCol,
	relationships.ExperienceBullets.ChildCol,
	relationships.ExperienceBullets.VersionCol,
)

// Create inserts the initial version of a new lineage.
func (s *PGStore) Create(ctx context.Context, snippet Snippet) (Snippet, error) {
	const query = `
INSERT INTO snippets (lineage_id, version, user_id, kind, content, created_at)
VALUES ($1, $2, $3, $4, $5, now())
RETURNING created_at`
	err := s.DB.QueryRowContext(ctx, query,
		snippet.LineageID,
		snippet.Version,
		snippet.UserID,
		snippet.Kind,
		snippet.Content,
	).Scan(&snippet.CreatedAt)
	if err != nil {
		return Snippet{}, translatePG(err)
	}
	return snippet, nil
}

// CreateVersionAndMigrate inserts the new version and repoints placements
// in one transaction.
func (s *PGStore) CreateVersionAndMigrate(ctx context.Context, snippet Snippet, fromVersion int64) (Snippet, int, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return Snippet{}, 0, err
	}
	defer tx.Rollback()

	const insertQuery = `
INSERT INTO snippets (lineage_id, version, user_id, kind, content, created_at)
VALUES ($1, $2, $3, $4, $5, now())
RETURNING created_at`
	err = tx.QueryRowContext(ctx, insertQuery,
		snippet.LineageID,
		snippet.Version,
		snippet.UserID,
		snippet.Kind,
		snippet.Content,
	).Scan(&snippet.CreatedAt)
	if err != nil {
		return Snippet{}, 0, translatePG(err)
	}

	res, err := tx.ExecContext(ctx, migrateSQL, snippet.Version, snippet.LineageID, fromVersion)
	if err != nil {
		return Snippet{}, 0, err
	}
	moved, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return Snippet{}, 0, err
	}
	return snippet, int(moved), nil
}

// GetVersion returns one exact version of a lineage.
func (s *PGStore) GetVersion(ctx context.Context, lineageID string, version int64) (Snippet, error) {
	const query = `
SELECT lineage_id, version, user_id, kind, content, created_at
FROM snippets
WHERE lineage_id = $1 AND version = $2
LIMIT 1`
	return s.scanOne(s.DB.QueryRowContext(ctx, query, lineageID, version))
}

// GetLatest returns the highest version of a lineage.
func (s *PGStore) GetLatest(ctx context.Context, lineageID string) (Snippet, error) {
	const query = `
SELECT lineage_id, version, user_id, kind, content, created_at
FROM snippets
WHERE lineage_id = $1
ORDER BY version DESC
LIMIT 1`
	return s.scanOne(s.DB.QueryRowContext(ctx, query, lineageID))
}

// ListVersions returns every version of a lineage, newest first.
func (s *PGStore) ListVersions(ctx context.Context, lineageID string) ([]Snippet, error) {
	const query = `
SELECT lineage_id, version, user_id, kind, content, created_at
FROM snippets
WHERE lineage_id = $1
ORDER BY version DESC`
	return s.scanMany(ctx, query, lineageID)
}

// ListByUser returns the latest version of each lineage the user owns.
func (s *PGStore) ListByUser(ctx context.Context, userID string) ([]Snippet, error) {
	const query = `
SELECT DISTINCT ON (lineage_id) lineage_id, version, user_id, kind, content, created_at
FROM snippets
WHERE user_id = $1
ORDER BY lineage_id, version DESC`
	return s.scanMany(ctx, query, userID)
}

// DeleteLineage removes a lineage with all its versions; placements go with
// it via the cascade.
func (s *PGStore) DeleteLineage(ctx context.Context, lineageID string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM snippets WHERE lineage_id = $1`, lineageID)
	return err
}

func (s *PGStore) scanOne(row *sql.Row) (Snippet, error) {
	var snippet Snippet
	err := row.Scan(
		&snippet.LineageID,
		&snippet.Version,
		&snippet.UserID,
		&snippet.Kind,
		&snippet.Content,
		&snippet.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snippet{}, ErrNotFound
		}
		return Snippet{}, err
	}
	return snippet, nil
}

func (s *PGStore) scanMany(ctx context.Context, query string, arg any) ([]Snippet, error) {
	rows, err := s.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Snippet
	for rows.Next() {
		var snippet Snippet
		if err := rows.Scan(
			&snippet.LineageID,
			&snippet.Version,
			&snippet.UserID,
			&snippet.Kind,
			&snippet.Content,
			&snippet.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, snippet)
	}
	return out, rows.Err()
}

func translatePG(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrConflict
		case "23503":
			return ErrNotFound
		}
	}
	return err
}

var _ Store = (*PGStore)(nil)
