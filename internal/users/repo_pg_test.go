package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateTranslatesUniqueViolation(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO users").
		WithArgs("user-1", "casey", "hash", nil, nil, nil).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), User{ID: "user-1", Username: "casey", PasswordHash: "hash"})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpsertReturnsCanonicalID(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now().UTC()
	// The conflict path keeps the first sign-in's row, so the returned id
	// can differ from the one passed in.
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("candidate-id", "google:12345", "casey@example.com", "Casey Doe", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow("original-id", now, now))

	user, err := repo.Upsert(context.Background(), User{
		ID:       "candidate-id",
		Username: "google:12345",
		Email:    "casey@example.com",
		FullName: "Casey Doe",
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if user.ID != "original-id" {
		t.Fatalf("expected the stored id, got %q", user.ID)
	}
	if user.Email != "casey@example.com" {
		t.Fatalf("expected refreshed email, got %q", user.Email)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByUsernameMissingIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT id, username, password_hash").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "email", "full_name", "picture_url", "created_at", "updated_at"}))

	_, err := repo.GetByUsername(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDScansNullableColumns(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, username, password_hash").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "email", "full_name", "picture_url", "created_at", "updated_at"}).
			AddRow("user-1", "casey", nil, nil, nil, nil, now, now))

	user, err := repo.GetByID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if user.Username != "casey" || user.PasswordHash != "" || user.Email != "" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
