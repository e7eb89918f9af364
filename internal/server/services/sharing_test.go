package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/memoryengine/backend/internal/common"
	"github.com/memoryengine/backend/internal/server/models"
)

func TestSharingService_Share(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.register(t, "owner@example.com")
	target := env.register(t, "target@example.com")
	page := env.createPage(t, owner.ID, "Notes", nil)

	share, err := env.sharing.Share(ctx, page.ID, owner.ID, target.ID, models.PermissionViewOnly)
	require.NoError(t, err)
	require.Equal(t, page.ID, share.PageID)
	require.Equal(t, owner.ID, share.OwnerID)
	require.Equal(t, target.ID, share.SharedWithUserID)
	require.Equal(t, models.PermissionViewOnly, share.PermissionLevel)
}

func TestSharingService_ShareTwiceUpdatesLevel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.register(t, "owner@example.com")
	target := env.register(t, "target@example.com")
	page := env.createPage(t, owner.ID, "Notes", nil)

	first, err := env.sharing.Share(ctx, page.ID, owner.ID, target.ID, models.PermissionViewOnly)
	require.NoError(t, err)

	second, err := env.sharing.Share(ctx, page.ID, owner.ID, target.ID, models.PermissionEdit)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, models.PermissionEdit, second.PermissionLevel)

	// Still a single grant row.
	shares, err := env.sharing.ListForPage(ctx, page.ID, owner.ID)
	require.NoError(t, err)
	require.Len(t, shares, 1)
	require.Equal(t, models.PermissionEdit, shares[0].PermissionLevel)
}

func TestSharingService_ShareSelf(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.register(t, "owner@example.com")
	page := env.createPage(t, owner.ID, "Notes", nil)

	_, err := env.sharing.Share(ctx, page.ID, owner.ID, owner.ID, models.PermissionEdit)
	require.ErrorIs(t, err, common.ErrorValidation)
}

func TestSharingService_ShareTargetNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.register(t, "owner@example.com")
	page := env.createPage(t, owner.ID, "Notes", nil)

	_, err := env.sharing.Share(ctx, page.ID, owner.ID, "no-such-user", models.PermissionEdit)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSharingService_NonOwnerForbidden(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.register(t, "owner@example.com")
	editor := env.register(t, "editor@example.com")
	third := env.register(t, "third@example.com")
	page := env.createPage(t, owner.ID, "Notes", nil)

	_, err := env.sharing.Share(ctx, page.ID, owner.ID, editor.ID, models.PermissionEdit)
	require.NoError(t, err)

	// An edit grant does not confer share management.
	_, err = env.sharing.Share(ctx, page.ID, editor.ID, third.ID, models.PermissionViewOnly)
	require.ErrorIs(t, err, common.ErrorForbidden)

	err = env.sharing.Revoke(ctx, page.ID, editor.ID, editor.ID)
	require.ErrorIs(t, err, common.ErrorForbidden)

	_, err = env.sharing.ListForPage(ctx, page.ID, editor.ID)
	require.ErrorIs(t, err, common.ErrorForbidden)

	// A nonexistent page is forbidden too, not not-found.
	_, err = env.sharing.Share(ctx, "no-such-page", editor.ID, third.ID, models.PermissionViewOnly)
	require.ErrorIs(t, err, common.ErrorForbidden)
}

func TestSharingService_Revoke(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.register(t, "owner@example.com")
	target := env.register(t, "target@example.com")
	page := env.createPage(t, owner.ID, "Notes", nil)

	_, err := env.sharing.Share(ctx, page.ID, owner.ID, target.ID, models.PermissionEdit)
	require.NoError(t, err)

	err = env.sharing.Revoke(ctx, page.ID, owner.ID, target.ID)
	require.NoError(t, err)

	// Access is gone immediately.
	_, err = env.pages.Get(ctx, target.ID, page.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)

	// Revoking again reports the missing grant.
	err = env.sharing.Revoke(ctx, page.ID, owner.ID, target.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSharingService_ListForPage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.register(t, "owner@example.com")
	zoe := env.register(t, "zoe@example.com")
	amy := env.register(t, "amy@example.com")
	page := env.createPage(t, owner.ID, "Notes", nil)

	_, err := env.sharing.Share(ctx, page.ID, owner.ID, zoe.ID, models.PermissionViewOnly)
	require.NoError(t, err)
	_, err = env.sharing.Share(ctx, page.ID, owner.ID, amy.ID, models.PermissionEdit)
	require.NoError(t, err)

	shares, err := env.sharing.ListForPage(ctx, page.ID, owner.ID)
	require.NoError(t, err)
	require.Len(t, shares, 2)
	require.Equal(t, "amy@example.com", shares[0].SharedWithEmail)
	require.Equal(t, "zoe@example.com", shares[1].SharedWithEmail)
}
