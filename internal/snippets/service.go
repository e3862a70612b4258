package snippets

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-composer/internal/ownership"
	"resume-composer/internal/shared/metrics"
)

// Service contains business logic for snippet lineages and versions.
type Service struct {
	Store Store
}

// nextVersion returns a version token strictly greater than prev. Tokens
// are microsecond timestamps; writes landing in the same microsecond fall
// back to prev+1 so versions stay monotonic within a lineage.
func nextVersion(prev int64) int64 {
	v := time.Now().UnixMicro()
	if v <= prev {
		v = prev + 1
	}
	return v
}

// CreateLineage starts a new lineage owned by userID with an initial version.
func (s *Service) CreateLineage(ctx context.Context, userID, kind, content string) (Snippet, error) {
	if userID == "" || strings.TrimSpace(content) == "" {
		return Snippet{}, ErrInvalidInput
	}
	if kind == "" {
		kind = DefaultKind
	}
	created, err := s.Store.Create(ctx, Snippet{
		LineageID: uuid.NewString(),
		Version:   nextVersion(0),
		UserID:    userID,
		Kind:      kind,
		Content:   content,
	})
	if err != nil {
		return Snippet{}, err
	}
	metrics.IncSnippetVersion()
	return created, nil
}

// Edit mints a new version from fromVersion, carrying over any unspecified
// fields, and atomically repoints every placement of (lineage, fromVersion)
// to the new version. The superseded version stays readable by explicit
// version lookup but is no longer referenced.
func (s *Service) Edit(ctx context.Context, userID, lineageID string, fromVersion int64, newKind, newContent *string) (Snippet, error) {
	base, err := ownership.Verify(ctx, userID, func(ctx context.Context) (Snippet, error) {
		return s.Store.GetVersion(ctx, lineageID, fromVersion)
	})
	if err != nil {
		return Snippet{}, err
	}

	next := base
	if newKind != nil && strings.TrimSpace(*newKind) != "" {
		next.Kind = strings.TrimSpace(*newKind)
	}
	if newContent != nil {
		if strings.TrimSpace(*newContent) == "" {
			return Snippet{}, ErrInvalidInput
		}
		next.Content = *newContent
	}
	next.Version = nextVersion(base.Version)

	created, _, err := s.Store.CreateVersionAndMigrate(ctx, next, base.Version)
	if err != nil {
		return Snippet{}, err
	}
	metrics.IncSnippetVersion()
	return created, nil
}

// Get returns one version of an owned lineage. Version <= 0 means latest.
func (s *Service) Get(ctx context.Context, userID, lineageID string, version int64) (Snippet, error) {
	return ownership.Verify(ctx, userID, func(ctx context.Context) (Snippet, error) {
		if version <= 0 {
			return s.Store.GetLatest(ctx, lineageID)
		}
		return s.Store.GetVersion(ctx, lineageID, version)
	})
}

// History returns every version of an owned lineage, newest first.
func (s *Service) History(ctx context.Context, userID, lineageID string) ([]Snippet, error) {
	if _, err := ownership.Verify(ctx, userID, func(ctx context.Context) (Snippet, error) {
		return s.Store.GetLatest(ctx, lineageID)
	}); err != nil {
		return nil, err
	}
	return s.Store.ListVersions(ctx, lineageID)
}

// List returns the user's snippet library, latest version per lineage.
func (s *Service) List(ctx context.Context, userID string) ([]Snippet, error) {
	return s.Store.ListByUser(ctx, userID)
}

// Delete removes an owned lineage with all its versions and placements.
func (s *Service) Delete(ctx context.Context, userID, lineageID string) error {
	if _, err := ownership.Verify(ctx, userID, func(ctx context.Context) (Snippet, error) {
		return s.Store.GetLatest(ctx, lineageID)
	}); err != nil {
		return err
	}
	return s.Store.DeleteLineage(ctx, lineageID)
}

// Latest returns the newest version of a lineage without an ownership
// check. Composition applies its own guard before attaching.
func (s *Service) Latest(ctx context.Context, lineageID string) (Snippet, error) {
	return s.Store.GetLatest(ctx, lineageID)
}

// Version returns an exact version without an ownership check.
func (s *Service) Version(ctx context.Context, lineageID string, version int64) (Snippet, error) {
	return s.Store.GetVersion(ctx, lineageID, version)
}
