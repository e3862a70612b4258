package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"resume-composer/internal/shared/auth"
)

const minPasswordLength = 8

type Service struct {
	Repo Repo
	// SeedMaster provisions the account's master resume. It runs after
	// register and after the first OAuth sign-in; bootstrap wires it to the
	// resumes service.
	SeedMaster func(ctx context.Context, userID string) error
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Register creates a password account and seeds its master resume.
func (s *Service) Register(ctx context.Context, username, password string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	username = strings.TrimSpace(username)
	if username == "" || len(password) < minPasswordLength {
		return User{}, ErrInvalidInput
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	if err := s.seedMaster(ctx, user.ID); err != nil {
		return User{}, err
	}
	return user, nil
}

// Login checks a password against the stored hash. Unknown usernames and
// wrong passwords fail identically.
func (s *Service) Login(ctx context.Context, username, password string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	user, err := s.Repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if user.PasswordHash == "" || !auth.CheckPassword(user.PasswordHash, password) {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// UpsertFromAuth persists the identity delivered by an OAuth provider and
// returns the canonical account, seeding the master resume on first sign-in.
func (s *Service) UpsertFromAuth(ctx context.Context, user User) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(user.Username) == "" {
		return User{}, ErrInvalidInput
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	stored, err := s.Repo.Upsert(ctx, user)
	if err != nil {
		return User{}, err
	}
	if err := s.seedMaster(ctx, stored.ID); err != nil {
		return User{}, err
	}
	return stored, nil
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}

func (s *Service) seedMaster(ctx context.Context, userID string) error {
	if s.SeedMaster == nil {
		return nil
	}
	return s.SeedMaster(ctx, userID)
}
