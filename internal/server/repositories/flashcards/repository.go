// Package flashcards persists flashcards attached to pages.
package flashcards

import (
	"context"

	"github.com/memoryengine/backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, card *models.Flashcard) (*models.Flashcard, error)
	GetByID(ctx context.Context, id string) (*models.Flashcard, error)
	Update(ctx context.Context, card *models.Flashcard) error
	Delete(ctx context.Context, id string) error
	ListForPage(ctx context.Context, pageID string) ([]*models.Flashcard, error)
}
