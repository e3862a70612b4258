package educations

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Education // id -> entry
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Education),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, edu Education) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[edu.ID] = edu
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Education, error) {
	if err := ctx.Err(); err != nil {
		return Education{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	edu, ok := r.data[id]
	if !ok {
		return Education{}, ErrNotFound
	}
	return edu, nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Education, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Education, 0)
	for _, edu := range r.data {
		if edu.UserID == userID {
			out = append(out, edu)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, edu Education) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[edu.ID]; !ok {
		return ErrNotFound
	}
	r.data[edu.ID] = edu
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, id)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
