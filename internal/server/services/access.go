// Package services contains server-side business logic: authentication and
// account management, the page tree, sharing, and flashcards. Services run
// each mutating operation inside one dbx.WithTx transaction and return the
// sentinel errors from internal/common.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/memoryengine/backend/internal/common"
	"github.com/memoryengine/backend/internal/dbx"
	"github.com/memoryengine/backend/internal/server/models"
	"github.com/memoryengine/backend/internal/server/repositories/repomanager"
)

// AccessEvaluator computes the effective permission a user has on a page
// from ownership and share grants.
type AccessEvaluator struct {
	rm repomanager.RepositoryManager
}

func NewAccessEvaluator(rm repomanager.RepositoryManager) *AccessEvaluator {
	return &AccessEvaluator{rm: rm}
}

// Evaluate returns the user's access level on the page: owner for the
// page's owner, otherwise the level of their share grant. A missing page
// and a missing grant both come back as common.ErrorNotFound, so callers
// can never distinguish (and never leak) "exists but hidden" from
// "does not exist".
func (e *AccessEvaluator) Evaluate(ctx context.Context, db dbx.DBTX, pageID, userID string) (models.AccessLevel, error) {
	page, err := e.rm.Pages(db).GetByID(ctx, pageID)
	if err != nil {
		return 0, err
	}

	if page.UserID == userID {
		return models.AccessOwner, nil
	}

	share, err := e.rm.Shares(db).Get(ctx, pageID, userID)
	if err != nil {
		return 0, err
	}

	return share.PermissionLevel.Access(), nil
}

// Require evaluates and then checks the level against the ordered minimum
// (view_only < edit < owner). Absence surfaces as ErrorNotFound; an
// insufficient level as ErrorForbidden.
func (e *AccessEvaluator) Require(ctx context.Context, db dbx.DBTX, pageID, userID string, minimum models.AccessLevel) (models.AccessLevel, error) {
	level, err := e.Evaluate(ctx, db, pageID, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, fmt.Errorf("%w: page", common.ErrorNotFound)
		}
		return 0, err
	}

	if !level.Meets(minimum) {
		return 0, fmt.Errorf("%w: insufficient permission for this operation", common.ErrorForbidden)
	}

	return level, nil
}
