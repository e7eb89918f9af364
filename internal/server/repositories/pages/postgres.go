package pages

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

const pageColumns = `id, user_id, parent_id, title, content, created_at, updated_at`

func scanPage(row interface{ Scan(...any) error }) (*models.Page, error) {
	p := &models.Page{}
	err := row.Scan(&p.ID, &p.UserID, &p.ParentID, &p.Title, &p.Content, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, page *models.Page) (*models.Page, error) {
	query :=
		`INSERT INTO pages (id, user_id, parent_id, title, content, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `

	_, err := r.db.ExecContext(ctx, query,
		page.ID, page.UserID, page.ParentID, page.Title, page.Content, page.CreatedAt, page.UpdatedAt)
	if err != nil {
		return nil, dbx.MapError(err)
	}

	return page, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Page, error) {
	query := `SELECT ` + pageColumns + ` FROM pages WHERE id = $1`
	return scanPage(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetOwned(ctx context.Context, id, ownerID string) (*models.Page, error) {
	query := `SELECT ` + pageColumns + ` FROM pages WHERE id = $1 AND user_id = $2`
	return scanPage(r.db.QueryRowContext(ctx, query, id, ownerID))
}

func (r *PostgresRepository) Update(ctx context.Context, page *models.Page) error {
	query :=
		`UPDATE pages
		 SET parent_id = $1, title = $2, content = $3, updated_at = $4
		 WHERE id = $5
		 `

	res, err := r.db.ExecContext(ctx, query,
		page.ParentID, page.Title, page.Content, page.UpdatedAt, page.ID)
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

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pages WHERE id = $1`, id)
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

func (r *PostgresRepository) ListChildren(ctx context.Context, pageID string) ([]*models.Page, error) {
	query := `SELECT ` + pageColumns + ` FROM pages WHERE parent_id = $1 ORDER BY LOWER(title) ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, pageID)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	defer rows.Close()

	var result []*models.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, dbx.MapError(rows.Err())
}

func (r *PostgresRepository) ListOwned(ctx context.Context, userID string) ([]models.Page, error) {
	query := `SELECT ` + pageColumns + ` FROM pages WHERE user_id = $1`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	defer rows.Close()

	var result []models.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, dbx.MapError(rows.Err())
}
