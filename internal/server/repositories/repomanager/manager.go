// Package repomanager builds repositories bound to either a plain
// connection or a transaction, so services can run a whole operation
// inside one dbx.WithTx call.
package repomanager

import (
	"github.com/memoryengine/backend/internal/dbx"
	"github.com/memoryengine/backend/internal/server/repositories/flashcards"
	"github.com/memoryengine/backend/internal/server/repositories/pages"
	"github.com/memoryengine/backend/internal/server/repositories/shares"
	"github.com/memoryengine/backend/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Pages(db dbx.DBTX) pages.Repository
	Shares(db dbx.DBTX) shares.Repository
	Flashcards(db dbx.DBTX) flashcards.Repository
}
