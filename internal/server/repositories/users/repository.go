// Package users persists user accounts.
package users

import (
	"context"

	"github.com/memoryengine/backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// UsernameTaken reports whether some other user already holds the
	// username (case-insensitive). excludeID may be empty.
	UsernameTaken(ctx context.Context, username string, excludeID string) (bool, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	CountByRole(ctx context.Context, role models.UserRole) (int, error)
}
