package experiences

import "context"

// Repo defines persistence operations for experience entries.
type Repo interface {
	Create(ctx context.Context, exp Experience) error
	GetByID(ctx context.Context, id string) (Experience, error)
	ListByUser(ctx context.Context, userID string) ([]Experience, error)
	Update(ctx context.Context, exp Experience) error
	Delete(ctx context.Context, id string) error
}
