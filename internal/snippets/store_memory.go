package snippets

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"resume-composer/internal/relationships"
)

// MemoryStore is an in-memory Store. It shares the bullets relationship
// store so version migration moves the same placements the PG path would.
type MemoryStore struct {
	mu       sync.RWMutex
	lineages map[string][]Snippet // lineageID -> versions ascending
	bullets  *relationships.MemoryStore
}

// NewMemoryStore constructs a MemoryStore migrating placements in bullets.
func NewMemoryStore(bullets *relationships.MemoryStore) *MemoryStore {
	return &MemoryStore{
		lineages: make(map[string][]Snippet),
		bullets:  bullets,
	}
}

// Create inserts the initial version of a new lineage.
func (s *MemoryStore) Create(ctx context.Context, snippet Snippet) (Snippet, error) {
	if err := ctx.Err(); err != nil {
		return Snippet{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(snippet)
}

// CreateVersionAndMigrate inserts the new version and repoints placements.
func (s *MemoryStore) CreateVersionAndMigrate(ctx context.Context, snippet Snippet, fromVersion int64) (Snippet, int, error) {
	if err := ctx.Err(); err != nil {
		return Snippet{}, 0, err
	}
	if s.bullets == nil {
		return Snippet{}, 0, errors.New("bullets store not configured")
	}

	s.mu.Lock()
	inserted, err := s.insertLocked(snippet)
	s.mu.Unlock()
	if err != nil {
		return Snippet{}, 0, err
	}

	moved, err := s.bullets.MigrateChildVersion(ctx, snippet.LineageID, fromVersion, snippet.Version)
	if err != nil {
		return Snippet{}, 0, err
	}
	return inserted, moved, nil
}

// GetVersion returns one exact version of a lineage.
func (s *MemoryStore) GetVersion(ctx context.Context, lineageID string, version int64) (Snippet, error) {
	if err := ctx.Err(); err != nil {
		return Snippet{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, snippet := range s.lineages[lineageID] {
		if snippet.Version == version {
			return snippet, nil
		}
	}
	return Snippet{}, ErrNotFound
}

// GetLatest returns the highest version of a lineage.
func (s *MemoryStore) GetLatest(ctx context.Context, lineageID string) (Snippet, error) {
	if err := ctx.Err(); err != nil {
		return Snippet{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	versions := s.lineages[lineageID]
	if len(versions) == 0 {
		return Snippet{}, ErrNotFound
	}
	return versions[len(versions)-1], nil
}

// ListVersions returns every version of a lineage, newest first.
func (s *MemoryStore) ListVersions(ctx context.Context, lineageID string) ([]Snippet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	versions := s.lineages[lineageID]
	if len(versions) == 0 {
		return nil, ErrNotFound
	}
	out := make([]Snippet, len(versions))
	for i, snippet := range versions {
		out[len(versions)-1-i] = snippet
	}
	return out, nil
}

// ListByUser returns the latest version of each lineage the user owns.
func (s *MemoryStore) ListByUser(ctx context.Context, userID string) ([]Snippet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Snippet
	for _, versions := range s.lineages {
		if len(versions) == 0 {
			continue
		}
		latest := versions[len(versions)-1]
		if latest.UserID == userID {
			out = append(out, latest)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// DeleteLineage removes a lineage with all its versions and placements.
func (s *MemoryStore) DeleteLineage(ctx context.Context, lineageID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.lineages, lineageID)
	s.mu.Unlock()

	if s.bullets != nil {
		return s.bullets.DeleteChildEverywhere(ctx, lineageID)
	}
	return nil
}

func (s *MemoryStore) insertLocked(snippet Snippet) (Snippet, error) {
	for _, existing := range s.lineages[snippet.LineageID] {
		if existing.Version == snippet.Version {
			return Snippet{}, ErrConflict
		}
	}
	snippet.CreatedAt = time.Now().UTC()
	versions := append(s.lineages[snippet.LineageID], snippet)
	sort.Slice(versions, func(i, j int) bool {
		return versions[i].Version < versions[j].Version
	})
	s.lineages[snippet.LineageID] = versions
	return snippet, nil
}

var _ Store = (*MemoryStore)(nil)
