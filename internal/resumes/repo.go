package resumes

import "context"

// Repo defines persistence operations for resumes. Lookups are not scoped
// by user; ownership checks live in the service.
type Repo interface {
	Create(ctx context.Context, resume Resume) error
	GetByID(ctx context.Context, id string) (Resume, error)
	GetMasterByUser(ctx context.Context, userID string) (Resume, error)
	ListByUser(ctx context.Context, userID string) ([]Resume, error)
	Update(ctx context.Context, resume Resume) error
	Delete(ctx context.Context, id string) error
}
