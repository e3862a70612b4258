package experiences

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, exp Experience) error {
	const query = `
INSERT INTO experiences (
    id,
    user_id,
    company,
    title,
    location,
    start_date,
    end_date,
    summary,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		exp.ID,
		exp.UserID,
		exp.Company,
		exp.Title,
		nullStr(exp.Location),
		nullStr(exp.StartDate),
		nullStr(exp.EndDate),
		nullStr(exp.Summary),
		exp.CreatedAt,
		exp.UpdatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Experience, error) {
	const query = `
SELECT id, user_id, company, title, location, start_date, end_date, summary, created_at, updated_at
FROM experiences
WHERE id = $1
LIMIT 1`
	exp, err := scanExperience(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Experience{}, ErrNotFound
		}
		return Experience{}, err
	}
	return exp, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Experience, error) {
	const query = `
SELECT id, user_id, company, title, location, start_date, end_date, summary, created_at, updated_at
FROM experiences
WHERE user_id = $1
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Experience
	for rows.Next() {
		exp, err := scanExperience(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, exp)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, exp Experience) error {
	const query = `
UPDATE experiences
SET company = $1, title = $2, location = $3, start_date = $4, end_date = $5, summary = $6, updated_at = $7
WHERE id = $8`
	res, err := r.DB.ExecContext(
		ctx,
		query,
		exp.Company,
		exp.Title,
		nullStr(exp.Location),
		nullStr(exp.StartDate),
		nullStr(exp.EndDate),
		nullStr(exp.Summary),
		exp.UpdatedAt,
		exp.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an entry. Placements and their bullets go with it through
// the cascade chain.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM experiences WHERE id = $1`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExperience(row rowScanner) (Experience, error) {
	var exp Experience
	var location, startDate, endDate, summary sql.NullString
	err := row.Scan(
		&exp.ID,
		&exp.UserID,
		&exp.Company,
		&exp.Title,
		&location,
		&startDate,
		&endDate,
		&summary,
		&exp.CreatedAt,
		&exp.UpdatedAt,
	)
	if err != nil {
		return Experience{}, err
	}
	exp.Location = location.String
	exp.StartDate = startDate.String
	exp.EndDate = endDate.String
	exp.Summary = summary.String
	return exp, nil
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var _ Repo = (*PGRepo)(nil)
