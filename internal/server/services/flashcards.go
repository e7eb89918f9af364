package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/memoryengine/backend/internal/common"
	"github.com/memoryengine/backend/internal/dbx"
	"github.com/memoryengine/backend/internal/server/models"
	"github.com/memoryengine/backend/internal/server/repositories/repomanager"
)

// FlashcardUpdate describes a partial flashcard update; nil fields are
// left untouched. The review fields are stored verbatim — no scheduling
// algorithm runs here.
type FlashcardUpdate struct {
	Question       *string
	Answer         *string
	LastReviewedAt *time.Time
	NextReviewAt   *time.Time
	ReviewCount    *int
	MasteryScore   *int
}

// FlashcardService manages flashcards attached to pages. Writing requires
// edit access on the page, reading requires view access.
type FlashcardService struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	access *AccessEvaluator
}

func NewFlashcardService(db *sql.DB, rm repomanager.RepositoryManager, access *AccessEvaluator) *FlashcardService {
	return &FlashcardService{db: db, rm: rm, access: access}
}

// Create adds a card to the page, owned by the creating user.
func (s *FlashcardService) Create(ctx context.Context, userID, pageID, question, answer string) (*models.Flashcard, error) {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" {
		return nil, fmt.Errorf("%w: question cannot be empty", common.ErrorValidation)
	}
	if answer == "" {
		return nil, fmt.Errorf("%w: answer cannot be empty", common.ErrorValidation)
	}

	var card *models.Flashcard
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.access.Require(ctx, tx, pageID, userID, models.AccessEdit); err != nil {
			return err
		}

		now := time.Now().UTC()
		card = &models.Flashcard{
			ID:           uuid.NewString(),
			PageID:       pageID,
			UserID:       userID,
			Question:     question,
			Answer:       answer,
			NextReviewAt: now,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		_, err := s.rm.Flashcards(tx).Create(ctx, card)
		return err
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// ListForPage returns the page's cards ordered by creation time.
func (s *FlashcardService) ListForPage(ctx context.Context, userID, pageID string) ([]*models.Flashcard, error) {
	if _, err := s.access.Require(ctx, s.db, pageID, userID, models.AccessViewOnly); err != nil {
		return nil, err
	}
	return s.rm.Flashcards(s.db).ListForPage(ctx, pageID)
}

// Update applies a partial update to a card (edit access on its page).
func (s *FlashcardService) Update(ctx context.Context, userID, cardID string, upd FlashcardUpdate) (*models.Flashcard, error) {
	var card *models.Flashcard
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		card, err = s.rm.Flashcards(tx).GetByID(ctx, cardID)
		if err != nil {
			return err
		}

		if _, err := s.access.Require(ctx, tx, card.PageID, userID, models.AccessEdit); err != nil {
			return err
		}

		if upd.Question != nil {
			q := strings.TrimSpace(*upd.Question)
			if q == "" {
				return fmt.Errorf("%w: question cannot be empty", common.ErrorValidation)
			}
			card.Question = q
		}
		if upd.Answer != nil {
			a := strings.TrimSpace(*upd.Answer)
			if a == "" {
				return fmt.Errorf("%w: answer cannot be empty", common.ErrorValidation)
			}
			card.Answer = a
		}
		if upd.LastReviewedAt != nil {
			card.LastReviewedAt = upd.LastReviewedAt
		}
		if upd.NextReviewAt != nil {
			card.NextReviewAt = *upd.NextReviewAt
		}
		if upd.ReviewCount != nil {
			if *upd.ReviewCount < 0 {
				return fmt.Errorf("%w: review count cannot be negative", common.ErrorValidation)
			}
			card.ReviewCount = *upd.ReviewCount
		}
		if upd.MasteryScore != nil {
			if *upd.MasteryScore < 0 || *upd.MasteryScore > 100 {
				return fmt.Errorf("%w: mastery score must be between 0 and 100", common.ErrorValidation)
			}
			card.MasteryScore = *upd.MasteryScore
		}

		card.UpdatedAt = time.Now().UTC()
		return s.rm.Flashcards(tx).Update(ctx, card)
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// Delete removes a card (edit access on its page).
func (s *FlashcardService) Delete(ctx context.Context, userID, cardID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		card, err := s.rm.Flashcards(tx).GetByID(ctx, cardID)
		if err != nil {
			return err
		}

		if _, err := s.access.Require(ctx, tx, card.PageID, userID, models.AccessEdit); err != nil {
			return err
		}

		return s.rm.Flashcards(tx).Delete(ctx, cardID)
	})
}
