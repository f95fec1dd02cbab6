package services

import (
	"context"
	"errors"
	"fmt"

	"eshop/internal/models"
	"eshop/internal/repositories"
)

// UserService manages user accounts on behalf of administrators.
type UserService struct {
	repo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.GetAll(ctx)
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateUser stores a user with the admin flag taken from the request.
func (s *UserService) CreateUser(ctx context.Context, req models.UserRequest) (*models.User, error) {
	return createUser(ctx, s.repo, req)
}

// UpdateUser overwrites the profile of a user. An empty password keeps the
// stored hash.
func (s *UserService) UpdateUser(ctx context.Context, id string, req models.UserRequest) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if email := normalizeEmail(req.Email); email != user.Email {
		if other, err := s.repo.GetByEmail(ctx, email); err == nil && other.ID != user.ID {
			return nil, fmt.Errorf("email '%s': %w", email, ErrEmailTaken)
		} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
	}

	if req.Password != "" {
		hash, err := hashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	applyUserRequest(user, req)

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("email '%s': %w", user.Email, ErrEmailTaken)
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *UserService) CountUsers(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}
