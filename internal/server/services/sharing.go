package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/memoryengine/backend/internal/common"
	"github.com/memoryengine/backend/internal/dbx"
	"github.com/memoryengine/backend/internal/server/models"
	"github.com/memoryengine/backend/internal/server/repositories/repomanager"
)

// SharingService manages share grants. Every operation is owner-only; a
// non-owner (even one holding an edit grant) gets ErrorForbidden.
type SharingService struct {
	db *sql.DB
	rm repomanager.RepositoryManager
}

func NewSharingService(db *sql.DB, rm repomanager.RepositoryManager) *SharingService {
	return &SharingService{db: db, rm: rm}
}

// Share grants targetUserID access to the page at the given level. Sharing
// the same page with the same user again updates the existing grant's
// level in place rather than adding a second row.
func (s *SharingService) Share(ctx context.Context, pageID, ownerID, targetUserID string, level models.PermissionLevel) (*models.PageShare, error) {
	var share *models.PageShare
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.requirePageOwner(ctx, tx, pageID, ownerID); err != nil {
			return err
		}

		if _, err := s.rm.Users(tx).GetByID(ctx, targetUserID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return fmt.Errorf("%w: target user", common.ErrorNotFound)
			}
			return err
		}

		if ownerID == targetUserID {
			return fmt.Errorf("%w: cannot share page with yourself", common.ErrorValidation)
		}

		share = &models.PageShare{
			ID:               uuid.NewString(),
			PageID:           pageID,
			OwnerID:          ownerID,
			SharedWithUserID: targetUserID,
			PermissionLevel:  level,
			CreatedAt:        time.Now().UTC(),
		}
		var err error
		share, err = s.rm.Shares(tx).Upsert(ctx, share)
		return err
	})
	if err != nil {
		return nil, err
	}
	return share, nil
}

// Revoke deletes the grant for (page, target user). Missing grants are
// ErrorNotFound.
func (s *SharingService) Revoke(ctx context.Context, pageID, ownerID, targetUserID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.requirePageOwner(ctx, tx, pageID, ownerID); err != nil {
			return err
		}

		if err := s.rm.Shares(tx).Delete(ctx, pageID, targetUserID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return fmt.Errorf("%w: share record", common.ErrorNotFound)
			}
			return err
		}
		return nil
	})
}

// ListForPage returns all grants for the page with each target's email,
// ordered by email ascending.
func (s *SharingService) ListForPage(ctx context.Context, pageID, ownerID string) ([]*models.PageShareView, error) {
	if err := s.requirePageOwner(ctx, s.db, pageID, ownerID); err != nil {
		return nil, err
	}
	return s.rm.Shares(s.db).ListForPage(ctx, pageID)
}

// requirePageOwner fails with ErrorForbidden whenever ownerID does not own
// the page — including when the page does not exist, so probing the share
// API cannot reveal which page ids exist.
func (s *SharingService) requirePageOwner(ctx context.Context, db dbx.DBTX, pageID, ownerID string) error {
	if _, err := s.rm.Pages(db).GetOwned(ctx, pageID, ownerID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: only page owner can manage shares", common.ErrorForbidden)
		}
		return err
	}
	return nil
}
