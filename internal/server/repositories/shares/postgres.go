package shares

import (
	"context"

	"github.com/memoryengine/backend/internal/common"
	"github.com/memoryengine/backend/internal/dbx"
	"github.com/memoryengine/backend/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, share *models.PageShare) (*models.PageShare, error) {
	query :=
		`INSERT INTO page_shares (id, page_id, owner_id, shared_with_user_id, permission_level, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (page_id, shared_with_user_id)
		 DO UPDATE SET permission_level = excluded.permission_level
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		share.ID, share.PageID, share.OwnerID, share.SharedWithUserID, share.PermissionLevel, share.CreatedAt).
		Scan(&share.ID, &share.CreatedAt)
	if err != nil {
		return nil, dbx.MapError(err)
	}

	return share, nil
}

func (r *PostgresRepository) Get(ctx context.Context, pageID, sharedWithUserID string) (*models.PageShare, error) {
	query :=
		`SELECT id, page_id, owner_id, shared_with_user_id, permission_level, created_at
		 FROM page_shares
		 WHERE page_id = $1 AND shared_with_user_id = $2
		 `

	s := &models.PageShare{}
	err := r.db.QueryRowContext(ctx, query, pageID, sharedWithUserID).
		Scan(&s.ID, &s.PageID, &s.OwnerID, &s.SharedWithUserID, &s.PermissionLevel, &s.CreatedAt)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return s, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, pageID, sharedWithUserID string) error {
	query := `DELETE FROM page_shares WHERE page_id = $1 AND shared_with_user_id = $2`

	res, err := r.db.ExecContext(ctx, query, pageID, sharedWithUserID)
	if err != nil {
		return dbx.MapError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return dbx.MapError(err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) ListForPage(ctx context.Context, pageID string) ([]*models.PageShareView, error) {
	query :=
		`SELECT s.id, s.page_id, s.owner_id, s.shared_with_user_id, s.permission_level, s.created_at, u.email
		 FROM page_shares s
		 JOIN users u ON u.id = s.shared_with_user_id
		 WHERE s.page_id = $1
		 ORDER BY u.email ASC
		 `

	rows, err := r.db.QueryContext(ctx, query, pageID)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	defer rows.Close()

	var result []*models.PageShareView
	for rows.Next() {
		v := &models.PageShareView{}
		err := rows.Scan(&v.ID, &v.PageID, &v.OwnerID, &v.SharedWithUserID, &v.PermissionLevel, &v.CreatedAt, &v.SharedWithEmail)
		if err != nil {
			return nil, dbx.MapError(err)
		}
		result = append(result, v)
	}
	return result, dbx.MapError(rows.Err())
}

func (r *PostgresRepository) ListSharedWith(ctx context.Context, userID string) ([]models.SharedPage, error) {
	query :=
		`SELECT p.id, p.user_id, p.parent_id, p.title, p.content, p.created_at, p.updated_at,
		        s.permission_level, u.email
		 FROM page_shares s
		 JOIN pages p ON p.id = s.page_id
		 JOIN users u ON u.id = p.user_id
		 WHERE s.shared_with_user_id = $1 AND p.user_id != $2
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, userID)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	defer rows.Close()

	var result []models.SharedPage
	for rows.Next() {
		var sp models.SharedPage
		err := rows.Scan(&sp.Page.ID, &sp.Page.UserID, &sp.Page.ParentID, &sp.Page.Title, &sp.Page.Content,
			&sp.Page.CreatedAt, &sp.Page.UpdatedAt, &sp.Permission, &sp.OwnerEmail)
		if err != nil {
			return nil, dbx.MapError(err)
		}
		result = append(result, sp)
	}
	return result, dbx.MapError(rows.Err())
}
