package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/memoryengine/backend/internal/dbx"
	"github.com/memoryengine/backend/internal/server/migrations"
	"github.com/memoryengine/backend/internal/server/repositories/flashcards"
	"github.com/memoryengine/backend/internal/server/repositories/pages"
	"github.com/memoryengine/backend/internal/server/repositories/shares"
	"github.com/memoryengine/backend/internal/server/repositories/users"
)

type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Pages(db dbx.DBTX) pages.Repository {
	return pages.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Shares(db dbx.DBTX) shares.Repository {
	return shares.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Flashcards(db dbx.DBTX) flashcards.Repository {
	return flashcards.NewPostgresRepository(db)
}

// OpenPostgres opens the DSN through the pgx stdlib driver and applies the
// embedded goose migrations before handing the pool back.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.UpContext(ctx, db, "."); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return db, nil
}
