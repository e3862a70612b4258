package resumes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"resume-composer/internal/relationships"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new resume. The partial unique index on (user_id) where
// is_master rejects a second master.
func (r *PGRepo) Create(ctx context.Context, resume Resume) error {
	const query = `
INSERT INTO resumes (id, user_id, name, is_master, is_template, is_locked, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.ExecContext(
		ctx,
		query,
		resume.ID,
		resume.UserID,
		resume.Name,
		resume.IsMaster,
		resume.IsTemplate,
		resume.IsLocked,
		resume.CreatedAt,
		resume.UpdatedAt,
	)
	return err
}

// GetByID fetches a resume by ID regardless of owner.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Resume, error) {
	const query = `
SELECT id, user_id, name, is_master, is_template, is_locked, created_at, updated_at
FROM resumes
WHERE id = $1
LIMIT 1`
	return scanResume(r.DB.QueryRowContext(ctx, query, id))
}

// GetMasterByUser returns the user's master resume.
func (r *PGRepo) GetMasterByUser(ctx context.Context, userID string) (Resume, error) {
	const query = `
SELECT id, user_id, name, is_master, is_template, is_locked, created_at, updated_at
FROM resumes
WHERE user_id = $1 AND is_master
LIMIT 1`
	return scanResume(r.DB.QueryRowContext(ctx, query, userID))
}

// ListByUser lists a user's resumes, master first, then newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Resume, error) {
	const query = `
SELECT id, user_id, name, is_master, is_template, is_locked, created_at, updated_at
FROM resumes
WHERE user_id = $1
ORDER BY is_master DESC, created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Resume
	for rows.Next() {
		var resume Resume
		if err := rows.Scan(
			&resume.ID,
			&resume.UserID,
			&resume.Name,
			&resume.IsMaster,
			&resume.IsTemplate,
			&resume.IsLocked,
			&resume.CreatedAt,
			&resume.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, resume)
	}
	return out, rows.Err()
}

// Update rewrites the mutable columns of a resume.
func (r *PGRepo) Update(ctx context.Context, resume Resume) error {
	const query = `
UPDATE resumes
SET name = $1, is_template = $2, is_locked = $3, updated_at = $4
WHERE id = $5`
	res, err := r.DB.ExecContext(ctx, query, resume.Name, resume.IsTemplate, resume.IsLocked, resume.UpdatedAt, resume.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a resume; placements and their bullets go with it via the
// cascade chain.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	return err
}

// Duplicate copies a resume row, its placements, and the bullets under its
// experience placements in one transaction. Positions and pinned versions
// carry over unchanged.
func (r *PGRepo) Duplicate(ctx context.Context, src, dst Resume) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const insertResume = `
INSERT INTO resumes (id, user_id, name, is_master, is_template, is_locked, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := tx.ExecContext(
		ctx,
		insertResume,
		dst.ID,
		dst.UserID,
		dst.Name,
		dst.IsMaster,
		dst.IsTemplate,
		dst.IsLocked,
		dst.CreatedAt,
		dst.UpdatedAt,
	); err != nil {
		return translateConstraint(err)
	}

	for _, kind := range []relationships.Kind{
		relationships.ResumeEducations,
		relationships.ResumeExperiences,
		relationships.ResumeSections,
	} {
		copyQuery := fmt.Sprintf(`
INSERT INTO %s (id, %s, %s, position, created_at)
SELECT gen_random_uuid(), $1, %s, position, now()
FROM %s
WHERE %s = $2`,
			kind.Table, kind.ParentCol, kind.ChildCol,
			kind.ChildCol,
			kind.Table,
			kind.ParentCol,
		)
		if _, err := tx.ExecContext(ctx, copyQuery, dst.ID, src.ID); err != nil {
			return translateConstraint(err)
		}
	}

	// Bullets follow their experience placement. The join pairs each source
	// placement with the copy made above through the shared experience id.
	const copyBullets = `
INSERT INTO experience_bullets (id, resume_experience_id, lineage_id, version, position, created_at)
SELECT gen_random_uuid(), dst_row.id, b.lineage_id, b.version, b.position, now()
FROM experience_bullets b
JOIN resume_experiences src_row ON src_row.id = b.resume_experience_id AND src_row.resume_id = $1
JOIN resume_experiences dst_row ON dst_row.resume_id = $2 AND dst_row.experience_id = src_row.experience_id`
	if _, err := tx.ExecContext(ctx, copyBullets, src.ID, dst.ID); err != nil {
		return translateConstraint(err)
	}

	return tx.Commit()
}

func scanResume(row *sql.Row) (Resume, error) {
	var resume Resume
	err := row.Scan(
		&resume.ID,
		&resume.UserID,
		&resume.Name,
		&resume.IsMaster,
		&resume.IsTemplate,
		&resume.IsLocked,
		&resume.CreatedAt,
		&resume.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return resume, nil
}

func translateConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrInvalidInput
		case "23503":
			return ErrNotFound
		}
	}
	return err
}

var _ Repo = (*PGRepo)(nil)
