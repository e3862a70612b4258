package relationships

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// PGStore implements Store for one Kind using Postgres. The per-kind SQL is
// built once at construction from the Kind's table and column names.
type PGStore struct {
	DB   *sql.DB
	kind Kind

	insertSQL     string
	selectOneSQL  string
	selectAllSQL  string
	updateOneSQL  string
	updateBulkSQL string
	deleteOneSQL  string
	deleteAllSQL  string
	lockParentSQL string
	positionsSQL  string
	childrenSQL   string
}

// NewPGStore constructs a PGStore for the given kind.
func NewPGStore(db *sql.DB, kind Kind) *PGStore {
	insertCols := fmt.Sprintf("id, %s, %s, position, created_at", kind.ParentCol, kind.ChildCol)
	insertVals := "$1, $2, $3, $4, now()"
	selectCols := fmt.Sprintf("id, %s, %s, position, created_at", kind.ParentCol, kind.ChildCol)
	if kind.Versioned() {
		insertCols = fmt.Sprintf("id, %s, %s, %s, position, created_at", kind.ParentCol, kind.ChildCol, kind.VersionCol)
		insertVals = "$1, $2, $3, $4, $5, now()"
		selectCols = fmt.Sprintf("id, %s, %s, %s, position, created_at", kind.ParentCol, kind.ChildCol, kind.VersionCol)
	}
	return &PGStore{
		DB:   db,
		kind: kind,
		insertSQL: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING created_at",
			kind.Table, insertCols, insertVals),
		selectOneSQL: fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 AND %s = $2 LIMIT 1",
			selectCols, kind.Table, kind.ParentCol, kind.ChildCol),
		selectAllSQL: fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 ORDER BY position ASC",
			selectCols, kind.Table, kind.ParentCol),
		updateOneSQL: fmt.Sprintf("UPDATE %s SET position = $1 WHERE %s = $2 AND %s = $3 RETURNING %s",
			kind.Table, kind.ParentCol, kind.ChildCol, selectCols),
		updateBulkSQL: fmt.Sprintf("UPDATE %s SET position = $1 WHERE %s = $2 AND %s = $3",
			kind.Table, kind.ParentCol, kind.ChildCol),
		deleteOneSQL: fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND %s = $2",
			kind.Table, kind.ParentCol, kind.ChildCol),
		deleteAllSQL: fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
			kind.Table, kind.ParentCol),
		lockParentSQL: fmt.Sprintf("SELECT id FROM %s WHERE id = $1 FOR UPDATE",
			kind.ParentTable),
		positionsSQL: fmt.Sprintf("SELECT position FROM %s WHERE %s = $1",
			kind.Table, kind.ParentCol),
		childrenSQL: fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
			kind.ChildCol, kind.Table, kind.ParentCol),
	}
}

// Kind returns the kind this store serves.
func (s *PGStore) Kind() Kind { return s.kind }

// Add inserts a row at the position already set on it.
func (s *PGStore) Add(ctx context.Context, row Row) (Row, error) {
	return s.insert(ctx, s.DB, row)
}

// Append inserts a row one past the parent's current maximum position.
func (s *PGStore) Append(ctx context.Context, row Row) (Row, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return Row{}, err
	}
	defer tx.Rollback()

	// Serialize appends and reorders per parent.
	if err := s.lockParent(ctx, tx, row.ParentID); err != nil {
		return Row{}, err
	}
	positions, err := s.positions(ctx, tx, row.ParentID)
	if err != nil {
		return Row{}, err
	}
	row.Position = NextPosition(positions)
	created, err := s.insert(ctx, tx, row)
	if err != nil {
		return Row{}, err
	}
	if err := tx.Commit(); err != nil {
		return Row{}, err
	}
	return created, nil
}

// Get returns the row for (parentID, childID).
func (s *PGStore) Get(ctx context.Context, parentID, childID string) (Row, error) {
	row, err := s.scanRow(s.DB.QueryRowContext(ctx, s.selectOneSQL, parentID, childID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Row{}, ErrNotFound
		}
		return Row{}, err
	}
	return row, nil
}

// GetAll returns the parent's rows ascending by position.
func (s *PGStore) GetAll(ctx context.Context, parentID string) ([]Row, error) {
	rows, err := s.DB.QueryContext(ctx, s.selectAllSQL, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		row, err := s.scanRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// UpdatePosition moves one row to a new position.
func (s *PGStore) UpdatePosition(ctx context.Context, parentID, childID string, position int) (Row, error) {
	row, err := s.scanRow(s.DB.QueryRowContext(ctx, s.updateOneSQL, position, parentID, childID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Row{}, ErrNotFound
		}
		return Row{}, err
	}
	return row, nil
}

// UpdateAllPositions applies a reorder mapping in one transaction.
func (s *PGStore) UpdateAllPositions(ctx context.Context, parentID string, positions map[string]int) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.lockParent(ctx, tx, parentID); err != nil {
		return err
	}
	// The mapping must still cover exactly the attached children; an attach
	// or detach that raced the caller's validation surfaces here.
	current, err := s.children(ctx, tx, parentID)
	if err != nil {
		return err
	}
	if len(current) != len(positions) {
		return ErrConflict
	}
	for _, childID := range current {
		if _, ok := positions[childID]; !ok {
			return ErrConflict
		}
	}
	for childID, position := range positions {
		res, err := tx.ExecContext(ctx, s.updateBulkSQL, position, parentID, childID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrConflict
		}
	}
	return tx.Commit()
}

// Delete detaches if present; deleting an absent row is a no-op.
func (s *PGStore) Delete(ctx context.Context, parentID, childID string) error {
	_, err := s.DB.ExecContext(ctx, s.deleteOneSQL, parentID, childID)
	return err
}

// DeleteAllForParent removes every row under the parent.
func (s *PGStore) DeleteAllForParent(ctx context.Context, parentID string) error {
	_, err := s.DB.ExecContext(ctx, s.deleteAllSQL, parentID)
	return err
}

func (s *PGStore) insert(ctx context.Context, q queryer, row Row) (Row, error) {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	args := []any{row.ID, row.ParentID, row.ChildID}
	if s.kind.Versioned() {
		args = append(args, row.Version)
	}
	args = append(args, row.Position)
	if err := q.QueryRowContext(ctx, s.insertSQL, args...).Scan(&row.CreatedAt); err != nil {
		return Row{}, translateConstraint(err)
	}
	return row, nil
}

func (s *PGStore) lockParent(ctx context.Context, q queryer, parentID string) error {
	var id string
	if err := q.QueryRowContext(ctx, s.lockParentSQL, parentID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *PGStore) positions(ctx context.Context, q queryer, parentID string) ([]int, error) {
	rows, err := q.QueryContext(ctx, s.positionsSQL, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var p int
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PGStore) children(ctx context.Context, q queryer, parentID string) ([]string, error) {
	rows, err := q.QueryContext(ctx, s.childrenSQL, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *PGStore) scanRow(scan func(dest ...any) error) (Row, error) {
	var row Row
	var err error
	if s.kind.Versioned() {
		err = scan(&row.ID, &row.ParentID, &row.ChildID, &row.Version, &row.Position, &row.CreatedAt)
	} else {
		err = scan(&row.ID, &row.ParentID, &row.ChildID, &row.Position, &row.CreatedAt)
	}
	return row, err
}

// translateConstraint converts Postgres constraint violations into domain
// errors: unique_violation means the pair is already attached, and
// foreign_key_violation means an endpoint row does not exist.
func translateConstraint(err error) error {
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

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var _ Store = (*PGStore)(nil)
