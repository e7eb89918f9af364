// Package pages persists the page tree.
package pages

import (
	"context"

	"github.com/memoryengine/backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, page *models.Page) (*models.Page, error)
	// GetByID carries no ownership filter; callers gate through the access
	// evaluator before exposing the result.
	GetByID(ctx context.Context, id string) (*models.Page, error)
	// GetOwned returns the page only when ownerID owns it.
	GetOwned(ctx context.Context, id, ownerID string) (*models.Page, error)
	Update(ctx context.Context, page *models.Page) error
	// Delete removes the page; descendants and shares go with it via the
	// store's cascading foreign keys.
	Delete(ctx context.Context, id string) error
	// ListChildren returns direct children ordered by case-folded title, then id.
	ListChildren(ctx context.Context, pageID string) ([]*models.Page, error)
	// ListOwned returns every page owned by userID, unordered.
	ListOwned(ctx context.Context, userID string) ([]models.Page, error)
}
