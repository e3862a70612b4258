package profiles

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

var _ Repo = (*MemoryRepo)(nil)

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{profiles: make(map[string]Profile)}
}

func (r *MemoryRepo) Get(ctx context.Context, userID string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := r.profiles[userID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return profile, nil
}

func (r *MemoryRepo) Upsert(ctx context.Context, profile Profile) (Profile, bool, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	existing, ok := r.profiles[profile.UserID]
	if ok {
		profile.PhotoKey = existing.PhotoKey
		profile.PhotoMime = existing.PhotoMime
		profile.CreatedAt = existing.CreatedAt
	} else {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	r.profiles[profile.UserID] = profile
	return profile, !ok, nil
}

func (r *MemoryRepo) SetPhoto(ctx context.Context, userID, photoKey, photoMime string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	profile, ok := r.profiles[userID]
	if !ok {
		profile = Profile{UserID: userID, CreatedAt: now}
	}
	profile.PhotoKey = photoKey
	profile.PhotoMime = photoMime
	profile.UpdatedAt = now
	r.profiles[userID] = profile
	return nil
}
