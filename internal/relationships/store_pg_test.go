package relationships

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func newMockStore(t *testing.T, kind Kind) (*PGStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewPGStore(db, kind), mock
}

func TestPGStoreAppendLocksParentAndUsesMaxPosition(t *testing.T) {
	store, mock := newMockStore(t, ResumeEducations)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM resumes WHERE id = ").
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("doc-1"))
	mock.ExpectQuery("SELECT position FROM resume_educations").
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"position"}).AddRow(9).AddRow(3))
	mock.ExpectQuery("INSERT INTO resume_educations").
		WithArgs(sqlmock.AnyArg(), "doc-1", "edu-1", 10).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now().UTC()))
	mock.ExpectCommit()

	row, err := store.Append(context.Background(), Row{ParentID: "doc-1", ChildID: "edu-1"})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if row.Position != 10 {
		t.Fatalf("expected position 10, got %d", row.Position)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreAppendMissingParentIsNotFound(t *testing.T) {
	store, mock := newMockStore(t, ResumeEducations)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM resumes WHERE id = ").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := store.Append(context.Background(), Row{ParentID: "missing", ChildID: "edu-1"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreAddTranslatesUniqueViolation(t *testing.T) {
	store, mock := newMockStore(t, ResumeEducations)

	mock.ExpectQuery("INSERT INTO resume_educations").
		WithArgs(sqlmock.AnyArg(), "doc-1", "edu-1", 0).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := store.Add(context.Background(), Row{ParentID: "doc-1", ChildID: "edu-1", Position: 0})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreAddTranslatesForeignKeyViolation(t *testing.T) {
	store, mock := newMockStore(t, ResumeEducations)

	mock.ExpectQuery("INSERT INTO resume_educations").
		WithArgs(sqlmock.AnyArg(), "doc-1", "edu-missing", 0).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err := store.Add(context.Background(), Row{ParentID: "doc-1", ChildID: "edu-missing", Position: 0})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreVersionedInsertIncludesVersion(t *testing.T) {
	store, mock := newMockStore(t, ExperienceBullets)

	mock.ExpectQuery("INSERT INTO experience_bullets").
		WithArgs(sqlmock.AnyArg(), "scope-1", "lineage-1", int64(42), 0).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now().UTC()))

	row, err := store.Add(context.Background(), Row{ParentID: "scope-1", ChildID: "lineage-1", Version: 42, Position: 0})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if row.Version != 42 {
		t.Fatalf("expected version 42, got %d", row.Version)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreUpdateAllPositionsRollsBackOnMismatchedSet(t *testing.T) {
	store, mock := newMockStore(t, ResumeEducations)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM resumes WHERE id = ").
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("doc-1"))
	mock.ExpectQuery("SELECT education_id FROM resume_educations").
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"education_id"}).AddRow("edu-1").AddRow("edu-2"))
	mock.ExpectRollback()

	err := store.UpdateAllPositions(context.Background(), "doc-1", map[string]int{"edu-1": 0})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreUpdateAllPositionsCommitsFullMapping(t *testing.T) {
	store, mock := newMockStore(t, ResumeEducations)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM resumes WHERE id = ").
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("doc-1"))
	mock.ExpectQuery("SELECT education_id FROM resume_educations").
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"education_id"}).AddRow("edu-1"))
	mock.ExpectExec("UPDATE resume_educations SET position = ").
		WithArgs(0, "doc-1", "edu-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := store.UpdateAllPositions(context.Background(), "doc-1", map[string]int{"edu-1": 0}); err != nil {
		t.Fatalf("UpdateAllPositions: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreDeleteIgnoresAbsentRow(t *testing.T) {
	store, mock := newMockStore(t, ResumeSections)

	mock.ExpectExec("DELETE FROM resume_sections").
		WithArgs("doc-1", "sec-missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := store.Delete(context.Background(), "doc-1", "sec-missing"); err != nil {
		t.Fatalf("expected idempotent delete, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
