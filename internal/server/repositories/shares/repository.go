// Package shares persists page share grants.
package shares

import (
	"context"

	"github.com/memoryengine/backend/internal/server/models"
)

type Repository interface {
	// Upsert inserts the grant or, when one already exists for
	// (page, shared-with user), updates its permission level in place.
	// The returned grant carries the surviving row's id and created_at.
	Upsert(ctx context.Context, share *models.PageShare) (*models.PageShare, error)
	Get(ctx context.Context, pageID, sharedWithUserID string) (*models.PageShare, error)
	Delete(ctx context.Context, pageID, sharedWithUserID string) error
	// ListForPage returns all grants for the page joined with each target
	// user's email, ordered by that email ascending.
	ListForPage(ctx context.Context, pageID string) ([]*models.PageShareView, error)
	// ListSharedWith returns pages shared with userID whose owner is not
	// userID, joined with the grant level and the owner's email.
	ListSharedWith(ctx context.Context, userID string) ([]models.SharedPage, error)
}
