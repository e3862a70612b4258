package educations

import "context"

// Repo defines persistence operations for education entries. Lookups are
// not scoped by user; ownership checks live in the service.
type Repo interface {
	Create(ctx context.Context, edu Education) error
	GetByID(ctx context.Context, id string) (Education, error)
	ListByUser(ctx context.Context, userID string) ([]Education, error)
	Update(ctx context.Context, edu Education) error
	Delete(ctx context.Context, id string) error
}
