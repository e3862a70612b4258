package profiles

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

var _ Repo = (*PGRepo)(nil)

func (r *PGRepo) Get(ctx context.Context, userID string) (Profile, error) {
	const query = `
SELECT headline, email, phone, website, location, summary, photo_key, photo_mime, created_at, updated_at
FROM profiles
WHERE user_id = $1
LIMIT 1`
	profile := Profile{UserID: userID}
	var headline, email, phone, website, location, summary, photoKey, photoMime sql.NullString
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&headline,
		&email,
		&phone,
		&website,
		&location,
		&summary,
		&photoKey,
		&photoMime,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	profile.Headline = headline.String
	profile.Email = email.String
	profile.Phone = phone.String
	profile.Website = website.String
	profile.Location = location.String
	profile.Summary = summary.String
	profile.PhotoKey = photoKey.String
	profile.PhotoMime = photoMime.String
	return profile, nil
}

func (r *PGRepo) Upsert(ctx context.Context, profile Profile) (Profile, bool, error) {
	// xmax is zero only on rows this statement inserted.
	const query = `
INSERT INTO profiles (user_id, headline, email, phone, website, location, summary, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
ON CONFLICT (user_id) DO UPDATE SET
  headline = EXCLUDED.headline,
  email = EXCLUDED.email,
  phone = EXCLUDED.phone,
  website = EXCLUDED.website,
  location = EXCLUDED.location,
  summary = EXCLUDED.summary,
  updated_at = now()
RETURNING (xmax = 0), photo_key, photo_mime, created_at, updated_at`
	var created bool
	var photoKey, photoMime sql.NullString
	err := r.DB.QueryRowContext(ctx, query,
		profile.UserID,
		nullableString(profile.Headline),
		nullableString(profile.Email),
		nullableString(profile.Phone),
		nullableString(profile.Website),
		nullableString(profile.Location),
		nullableString(profile.Summary),
	).Scan(&created, &photoKey, &photoMime, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return Profile{}, false, err
	}
	profile.PhotoKey = photoKey.String
	profile.PhotoMime = photoMime.String
	return profile, created, nil
}

func (r *PGRepo) SetPhoto(ctx context.Context, userID, photoKey, photoMime string) error {
	const query = `
INSERT INTO profiles (user_id, photo_key, photo_mime, created_at, updated_at)
VALUES ($1, $2, $3, now(), now())
ON CONFLICT (user_id) DO UPDATE SET
  photo_key = EXCLUDED.photo_key,
  photo_mime = EXCLUDED.photo_mime,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query, userID, photoKey, photoMime)
	return err
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
