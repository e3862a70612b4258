package educations

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new education entry.
func (r *PGRepo) Create(ctx context.Context, edu Education) error {
	const query = `
INSERT INTO educations (
    id,
    user_id,
    school,
    degree,
    field_of_study,
    start_year,
    end_year,
    description,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		edu.ID,
		edu.UserID,
		edu.School,
		nullStr(edu.Degree),
		nullStr(edu.FieldOfStudy),
		nullInt(edu.StartYear),
		nullInt(edu.EndYear),
		nullStr(edu.Description),
		edu.CreatedAt,
		edu.UpdatedAt,
	)
	return err
}

// GetByID fetches an entry by ID regardless of owner.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Education, error) {
	const query = `
SELECT id, user_id, school, degree, field_of_study, start_year, end_year, description, created_at, updated_at
FROM educations
WHERE id = $1
LIMIT 1`
	edu, err := scanEducation(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Education{}, ErrNotFound
		}
		return Education{}, err
	}
	return edu, nil
}

// ListByUser lists a user's entries, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Education, error) {
	const query = `
SELECT id, user_id, school, degree, field_of_study, start_year, end_year, description, created_at, updated_at
FROM educations
WHERE user_id = $1
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Education
	for rows.Next() {
		edu, err := scanEducation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, edu)
	}
	return out, rows.Err()
}

// Update rewrites the mutable columns of an entry.
func (r *PGRepo) Update(ctx context.Context, edu Education) error {
	const query = `
UPDATE educations
SET school = $1, degree = $2, field_of_study = $3, start_year = $4, end_year = $5, description = $6, updated_at = $7
WHERE id = $8`
	res, err := r.DB.ExecContext(
		ctx,
		query,
		edu.School,
		nullStr(edu.Degree),
		nullStr(edu.FieldOfStudy),
		nullInt(edu.StartYear),
		nullInt(edu.EndYear),
		nullStr(edu.Description),
		edu.UpdatedAt,
		edu.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an entry; placements on resumes go with it via the cascade.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM educations WHERE id = $1`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEducation(row rowScanner) (Education, error) {
	var edu Education
	var degree, fieldOfStudy, description sql.NullString
	var startYear, endYear sql.NullInt64
	err := row.Scan(
		&edu.ID,
		&edu.UserID,
		&edu.School,
		&degree,
		&fieldOfStudy,
		&startYear,
		&endYear,
		&description,
		&edu.CreatedAt,
		&edu.UpdatedAt,
	)
	if err != nil {
		return Education{}, err
	}
	edu.Degree = degree.String
	edu.FieldOfStudy = fieldOfStudy.String
	edu.Description = description.String
	edu.StartYear = int(startYear.Int64)
	edu.EndYear = int(endYear.Int64)
	return edu, nil
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}

var _ Repo = (*PGRepo)(nil)
