package service

import (
	"context"
	"errors"
	"fmt"

	app_errors "article-agent/backend/internal/errors"
	"article-agent/backend/internal/model"
	"article-agent/backend/internal/repository"
)

// UserService resolves the identity attached to a request.
type UserService struct {
	repo repository.Repository
}

func NewUserService(repo repository.Repository) *UserService {
	return &UserService{repo: repo}
}

// Authenticate returns the user with the given ID. An empty or unknown ID is
// reported as ErrUnauthenticated.
func (s *UserService) Authenticate(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, app_errors.ErrUnauthenticated
	}
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("unknown user %s: %w", userID, app_errors.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("could not load user: %w", err)
	}
	return user, nil
}
