package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/memoryengine/backend/internal/common"
	"github.com/memoryengine/backend/internal/dbx"
	"github.com/memoryengine/backend/internal/server/models"
	"github.com/memoryengine/backend/internal/server/repositories/repomanager"
)

// PageUpdate describes a partial page update. The Set* flags distinguish
// "field absent from the request" from "field explicitly set to null".
type PageUpdate struct {
	Title      *string
	SetContent bool
	Content    *string
	SetParent  bool
	ParentID   *string
}

// PageService implements page CRUD and tree listing on top of the page and
// share repositories, gating every operation through the access evaluator.
type PageService struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	access *AccessEvaluator
}

func NewPageService(db *sql.DB, rm repomanager.RepositoryManager, access *AccessEvaluator) *PageService {
	return &PageService{db: db, rm: rm, access: access}
}

// Create makes a new page owned by ownerID. When parentID is given, the
// parent must exist and be owned by ownerID — a share grant does not allow
// nesting new pages under someone else's page.
func (s *PageService) Create(ctx context.Context, ownerID, title string, content *string, parentID *string) (*models.Page, error) {
	normalized, err := normalizeTitle(title)
	if err != nil {
		return nil, err
	}

	var page *models.Page
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if parentID != nil {
			if _, err := s.rm.Pages(tx).GetOwned(ctx, *parentID, ownerID); err != nil {
				if errors.Is(err, common.ErrorNotFound) {
					return fmt.Errorf("%w: parent page", common.ErrorNotFound)
				}
				return err
			}
		}

		now := time.Now().UTC()
		page = &models.Page{
			ID:        uuid.NewString(),
			UserID:    ownerID,
			ParentID:  parentID,
			Title:     normalized,
			Content:   content,
			CreatedAt: now,
			UpdatedAt: now,
		}
		_, err := s.rm.Pages(tx).Create(ctx, page)
		return err
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// Get returns the page when userID has at least view access.
func (s *PageService) Get(ctx context.Context, userID, pageID string) (*models.Page, error) {
	if _, err := s.access.Require(ctx, s.db, pageID, userID, models.AccessViewOnly); err != nil {
		return nil, err
	}
	return s.rm.Pages(s.db).GetByID(ctx, pageID)
}

// GetChildren returns the page's direct children (view access required),
// ordered by case-folded title then id.
func (s *PageService) GetChildren(ctx context.Context, userID, pageID string) ([]*models.Page, error) {
	if _, err := s.access.Require(ctx, s.db, pageID, userID, models.AccessViewOnly); err != nil {
		return nil, err
	}
	return s.rm.Pages(s.db).ListChildren(ctx, pageID)
}

// Update applies a partial update. Title and content need edit access;
// moving the page (parent change) is owner-only. A reparent that would
// close a cycle fails validation: the immediate self-parent case directly,
// longer chains via a bounded upward walk from the new parent (the store's
// hierarchy trigger backstops the same rule).
func (s *PageService) Update(ctx context.Context, userID, pageID string, upd PageUpdate) (*models.Page, error) {
	var page *models.Page
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		level, err := s.access.Require(ctx, tx, pageID, userID, models.AccessEdit)
		if err != nil {
			return err
		}

		page, err = s.rm.Pages(tx).GetByID(ctx, pageID)
		if err != nil {
			return err
		}

		if upd.Title != nil {
			normalized, err := normalizeTitle(*upd.Title)
			if err != nil {
				return err
			}
			page.Title = normalized
		}

		if upd.SetContent {
			page.Content = upd.Content
		}

		if upd.SetParent {
			if level != models.AccessOwner {
				return fmt.Errorf("%w: only page owner can change page hierarchy", common.ErrorForbidden)
			}
			if upd.ParentID == nil {
				page.ParentID = nil
			} else {
				if *upd.ParentID == page.ID {
					return fmt.Errorf("%w: page cannot be its own parent", common.ErrorValidation)
				}
				if _, err := s.rm.Pages(tx).GetOwned(ctx, *upd.ParentID, userID); err != nil {
					if errors.Is(err, common.ErrorNotFound) {
						return fmt.Errorf("%w: parent page", common.ErrorNotFound)
					}
					return err
				}
				if err := s.ensureNoCycle(ctx, tx, page.ID, *upd.ParentID); err != nil {
					return err
				}
				page.ParentID = upd.ParentID
			}
		}

		page.UpdatedAt = time.Now().UTC()
		return s.rm.Pages(tx).Update(ctx, page)
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// Delete removes the page (owner only). Descendant pages and all shares
// referencing the subtree go with it through the store's cascades.
func (s *PageService) Delete(ctx context.Context, userID, pageID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.access.Require(ctx, tx, pageID, userID, models.AccessOwner); err != nil {
			return err
		}
		return s.rm.Pages(tx).Delete(ctx, pageID)
	})
}

// ListTrees returns the user's forest: owned pages merged with pages
// shared with them, nested and annotated per AssembleForest. With a
// parentID it returns that page's direct children instead.
func (s *PageService) ListTrees(ctx context.Context, userID string, parentID *string) ([]*PageNode, error) {
	owned, err := s.rm.Pages(s.db).ListOwned(ctx, userID)
	if err != nil {
		return nil, err
	}

	shared, err := s.rm.Shares(s.db).ListSharedWith(ctx, userID)
	if err != nil {
		return nil, err
	}

	return AssembleForest(owned, shared, parentID)
}

// maxHierarchyDepth matches the bound used by the store's hierarchy
// trigger.
const maxHierarchyDepth = 100

// ensureNoCycle walks upward from newParentID and fails when the chain
// reaches pageID, so a page can never become its own ancestor. The walk is
// depth-bounded like the store-side trigger.
func (s *PageService) ensureNoCycle(ctx context.Context, db dbx.DBTX, pageID, newParentID string) error {
	current := &newParentID
	for depth := 0; current != nil; depth++ {
		if depth >= maxHierarchyDepth {
			return fmt.Errorf("%w: page hierarchy exceeds maximum depth of %d", common.ErrorValidation, maxHierarchyDepth)
		}
		if *current == pageID {
			return fmt.Errorf("%w: circular reference detected in page hierarchy", common.ErrorValidation)
		}

		ancestor, err := s.rm.Pages(db).GetByID(ctx, *current)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil
			}
			return err
		}
		current = ancestor.ParentID
	}
	return nil
}

func normalizeTitle(title string) (string, error) {
	normalized := strings.TrimSpace(title)
	if normalized == "" {
		return "", fmt.Errorf("%w: title cannot be empty", common.ErrorValidation)
	}
	if utf8.RuneCountInString(normalized) > models.MaxTitleLength {
		return "", fmt.Errorf("%w: title too long", common.ErrorValidation)
	}
	return normalized, nil
}
