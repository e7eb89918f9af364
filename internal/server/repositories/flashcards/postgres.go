package flashcards

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

const cardColumns = `id, page_id, user_id, question, answer, last_reviewed_at, next_review_at, review_count, mastery_score, created_at, updated_at`

func scanCard(row interface{ Scan(...any) error }) (*models.Flashcard, error) {
	c := &models.Flashcard{}
	err := row.Scan(&c.ID, &c.PageID, &c.UserID, &c.Question, &c.Answer,
		&c.LastReviewedAt, &c.NextReviewAt, &c.ReviewCount, &c.MasteryScore, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, card *models.Flashcard) (*models.Flashcard, error) {
	query :=
		`INSERT INTO flashcards (id, page_id, user_id, question, answer, last_reviewed_at, next_review_at, review_count, mastery_score, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 `

	_, err := r.db.ExecContext(ctx, query,
		card.ID, card.PageID, card.UserID, card.Question, card.Answer,
		card.LastReviewedAt, card.NextReviewAt, card.ReviewCount, card.MasteryScore, card.CreatedAt, card.UpdatedAt)
	if err != nil {
		return nil, dbx.MapError(err)
	}

	return card, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Flashcard, error) {
	query := `SELECT ` + cardColumns + ` FROM flashcards WHERE id = $1`
	return scanCard(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) Update(ctx context.Context, card *models.Flashcard) error {
	query :=
		`UPDATE flashcards
		 SET question = $1, answer = $2, last_reviewed_at = $3, next_review_at = $4,
		     review_count = $5, mastery_score = $6, updated_at = $7
		 WHERE id = $8
		 `

	res, err := r.db.ExecContext(ctx, query,
		card.Question, card.Answer, card.LastReviewedAt, card.NextReviewAt,
		card.ReviewCount, card.MasteryScore, card.UpdatedAt, card.ID)
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM flashcards WHERE id = $1`, id)
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

func (r *PostgresRepository) ListForPage(ctx context.Context, pageID string) ([]*models.Flashcard, error) {
	query := `SELECT ` + cardColumns + ` FROM flashcards WHERE page_id = $1 ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, pageID)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	defer rows.Close()

	var result []*models.Flashcard
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, dbx.MapError(rows.Err())
}
