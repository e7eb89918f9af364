package services

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/memoryengine/backend/internal/server/config"
	"github.com/memoryengine/backend/internal/server/models"
	"github.com/memoryengine/backend/internal/server/repositories/repomanager"
)

// Schema mirror of the goose migrations, minus the Postgres-only triggers.
// The application-level checks exercised here do not rely on them.
const testSchema = `
CREATE TABLE users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL,
    name TEXT,
    username TEXT,
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'user',
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    CHECK (role IN ('admin', 'user'))
);
CREATE UNIQUE INDEX ix_users_email ON users (email);
CREATE UNIQUE INDEX ix_users_username_lower ON users (LOWER(username)) WHERE username IS NOT NULL;

CREATE TABLE pages (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    parent_id TEXT REFERENCES pages (id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    content TEXT,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    CHECK (id != parent_id)
);

CREATE TABLE page_shares (
    id TEXT PRIMARY KEY,
    page_id TEXT NOT NULL REFERENCES pages (id) ON DELETE CASCADE,
    owner_id TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    shared_with_user_id TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    permission_level TEXT NOT NULL DEFAULT 'view_only',
    created_at TIMESTAMP NOT NULL,
    UNIQUE (page_id, shared_with_user_id),
    CHECK (owner_id != shared_with_user_id)
);

CREATE TABLE flashcards (
    id TEXT PRIMARY KEY,
    page_id TEXT NOT NULL REFERENCES pages (id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    question TEXT NOT NULL,
    answer TEXT NOT NULL,
    last_reviewed_at TIMESTAMP,
    next_review_at TIMESTAMP NOT NULL,
    review_count INTEGER NOT NULL DEFAULT 0,
    mastery_score INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    CHECK (review_count >= 0),
    CHECK (mastery_score >= 0 AND mastery_score <= 100)
);
`

type testEnv struct {
	db      *sql.DB
	rm      repomanager.RepositoryManager
	users   *UserService
	pages   *PageService
	sharing *SharingService
	cards   *FlashcardService
	access  *AccessEvaluator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := "file:" + name + "?mode=memory&cache=shared&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	cfg := &config.Config{
		SecretKey:                    "test-secret",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}

	rm := repomanager.NewPostgresRepositoryManager()
	access := NewAccessEvaluator(rm)

	return &testEnv{
		db:      db,
		rm:      rm,
		users:   NewUserService(db, rm, cfg),
		pages:   NewPageService(db, rm, access),
		sharing: NewSharingService(db, rm),
		cards:   NewFlashcardService(db, rm, access),
		access:  access,
	}
}

func (e *testEnv) register(t *testing.T, email string) *models.User {
	t.Helper()
	user, _, err := e.users.Register(context.Background(), email, "password123", "", "")
	require.NoError(t, err)
	return user
}

func (e *testEnv) createPage(t *testing.T, ownerID, title string, parentID *string) *models.Page {
	t.Helper()
	page, err := e.pages.Create(context.Background(), ownerID, title, nil, parentID)
	require.NoError(t, err)
	return page
}

func strptr(s string) *string { return &s }

func intptr(n int) *int { return &n }
