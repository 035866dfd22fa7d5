package core

import (
	"context"
	"errors"
	"time"

	"github.com/riquemorozine/containers-api/internal/db"
	"github.com/riquemorozine/containers-api/internal/models"
)

// userService implements the UserService interface.
type userService struct {
	users db.UserRepository
}

// NewUserService creates a UserService instance.
func NewUserService(users db.UserRepository) UserService {
	return &userService{users: users}
}

// GetOrCreate returns the stored profile for userID, creating it from the
// verified token claims on first sight. The boolean reports whether the
// profile already existed.
func (s *userService) GetOrCreate(ctx context.Context, userID, email, displayName string) (*models.User, bool, error) {
	existing, err := s.users.GetByID(ctx, userID)
	if err == nil {
		return existing, true, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, false, err
	}

	user := &models.User{
		ID:          userID,
		Email:       email,
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, false, err
	}
	return user, false, nil
}

func (s *userService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}
