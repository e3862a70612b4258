package snippets

import "context"

// Store persists snippet versions. Rows are append-only: a version is
// inserted once and never updated in place.
type Store interface {
	// Create inserts the initial version of a new lineage.
	Create(ctx context.Context, snippet Snippet) (Snippet, error)

	// CreateVersionAndMigrate inserts a new version row and, in the same
	// atomic step, repoints every bullet placement referencing
	// (lineage, fromVersion) to the new version. The superseded row is
	// retained. Returns the snippet and the number of placements moved.
	CreateVersionAndMigrate(ctx context.Context, snippet Snippet, fromVersion int64) (Snippet, int, error)

	GetVersion(ctx context.Context, lineageID string, version int64) (Snippet, error)

	// GetLatest returns the highest version of a lineage.
	GetLatest(ctx context.Context, lineageID string) (Snippet, error)

	// ListVersions returns every version of a lineage, newest first.
	ListVersions(ctx context.Context, lineageID string) ([]Snippet, error)

	// ListByUser returns the latest version of each lineage the user owns.
	ListByUser(ctx context.Context, userID string) ([]Snippet, error)

	// DeleteLineage removes a lineage with all its versions and placements.
	DeleteLineage(ctx context.Context, lineageID string) error
}
