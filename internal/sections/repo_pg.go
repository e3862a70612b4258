package sections

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, sec Section) error {
	const query = `
INSERT INTO sections (id, user_id, title, content, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.ExecContext(ctx, query, sec.ID, sec.UserID, sec.Title, nullStr(sec.Content), sec.CreatedAt, sec.UpdatedAt)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Section, error) {
	const query = `
SELECT id, user_id, title, content, created_at, updated_at
FROM sections
WHERE id = $1
LIMIT 1`
	var sec Section
	var content sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&sec.ID, &sec.UserID, &sec.Title, &content, &sec.CreatedAt, &sec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Section{}, ErrNotFound
		}
		return Section{}, err
	}
	sec.Content = content.String
	return sec, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Section, error) {
	const query = `
SELECT id, user_id, title, content, created_at, updated_at
FROM sections
WHERE user_id = $1
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Section
	for rows.Next() {
		var sec Section
		var content sql.NullString
		if err := rows.Scan(&sec.ID, &sec.UserID, &sec.Title, &content, &sec.CreatedAt, &sec.UpdatedAt); err != nil {
			return nil, err
		}
		sec.Content = content.String
		out = append(out, sec)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, sec Section) error {
	const query = `
UPDATE sections
SET title = $1, content = $2, updated_at = $3
WHERE id = $4`
	res, err := r.DB.ExecContext(ctx, query, sec.Title, nullStr(sec.Content), sec.UpdatedAt, sec.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM sections WHERE id = $1`, id)
	return err
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var _ Repo = (*PGRepo)(nil)
