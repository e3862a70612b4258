package sections

import "context"

// Repo defines persistence operations for sections.
type Repo interface {
	Create(ctx context.Context, sec Section) error
	GetByID(ctx context.Context, id string) (Section, error)
	ListByUser(ctx context.Context, userID string) ([]Section, error)
	Update(ctx context.Context, sec Section) error
	Delete(ctx context.Context, id string) error
}
