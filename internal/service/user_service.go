package service

import (
	"context"
	"time"

	"clinicbook/internal/cache"
	"clinicbook/internal/model"
	"clinicbook/internal/repository"
)

const providersCacheTTL = 5 * time.Minute

const providersCacheKey = "users:providers"

// UserService exposes user directory reads.
type UserService interface {
	List(ctx context.Context, providersOnly bool) ([]model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

// List returns users, optionally narrowed to providers. The provider
// directory changes rarely and is served from cache.
func (s *userService) List(ctx context.Context, providersOnly bool) ([]model.User, error) {
	if !providersOnly {
		return s.repo.List(ctx)
	}

	var cached []model.User
	if s.cache.GetJSON(ctx, providersCacheKey, &cached) {
		return cached, nil
	}

	users, err := s.repo.ListProviders(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, providersCacheKey, users, providersCacheTTL)
	return users, nil
}
