package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/memoryengine/backend/internal/common"
	"github.com/memoryengine/backend/internal/server/models"
)

func TestAccessEvaluator_Owner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.register(t, "owner@example.com")
	page := env.createPage(t, owner.ID, "Notes", nil)

	level, err := env.access.Evaluate(ctx, env.db, page.ID, owner.ID)
	require.NoError(t, err)
	require.Equal(t, models.AccessOwner, level)
}

func TestAccessEvaluator_SharedLevels(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.register(t, "owner@example.com")
	viewer := env.register(t, "viewer@example.com")
	editor := env.register(t, "editor@example.com")
	page := env.createPage(t, owner.ID, "Notes", nil)

	_, err := env.sharing.Share(ctx, page.ID, owner.ID, viewer.ID, models.PermissionViewOnly)
	require.NoError(t, err)
	_, err = env.sharing.Share(ctx, page.ID, owner.ID, editor.ID, models.PermissionEdit)
	require.NoError(t, err)

	level, err := env.access.Evaluate(ctx, env.db, page.ID, viewer.ID)
	require.NoError(t, err)
	require.Equal(t, models.AccessViewOnly, level)

	level, err = env.access.Evaluate(ctx, env.db, page.ID, editor.ID)
	require.NoError(t, err)
	require.Equal(t, models.AccessEdit, level)
}

func TestAccessEvaluator_StrangerLooksLikeMissingPage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.register(t, "owner@example.com")
	stranger := env.register(t, "stranger@example.com")
	page := env.createPage(t, owner.ID, "Notes", nil)

	_, err := env.access.Evaluate(ctx, env.db, page.ID, stranger.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)

	_, err = env.access.Evaluate(ctx, env.db, "no-such-page", stranger.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestAccessEvaluator_Require(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.register(t, "owner@example.com")
	viewer := env.register(t, "viewer@example.com")
	editor := env.register(t, "editor@example.com")
	page := env.createPage(t, owner.ID, "Notes", nil)

	_, err := env.sharing.Share(ctx, page.ID, owner.ID, viewer.ID, models.PermissionViewOnly)
	require.NoError(t, err)
	_, err = env.sharing.Share(ctx, page.ID, owner.ID, editor.ID, models.PermissionEdit)
	require.NoError(t, err)

	tests := []struct {
		name    string
		userID  string
		minimum models.AccessLevel
		wantErr error
	}{
		{"owner meets owner", owner.ID, models.AccessOwner, nil},
		{"editor meets edit", editor.ID, models.AccessEdit, nil},
		{"editor meets view", editor.ID, models.AccessViewOnly, nil},
		{"editor below owner", editor.ID, models.AccessOwner, common.ErrorForbidden},
		{"viewer meets view", viewer.ID, models.AccessViewOnly, nil},
		{"viewer below edit", viewer.ID, models.AccessEdit, common.ErrorForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.access.Require(ctx, env.db, page.ID, tt.userID, tt.minimum)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestAccessEvaluator_RequireMissingPage(t *testing.T) {
	env := newTestEnv(t)

	user := env.register(t, "user@example.com")

	_, err := env.access.Require(context.Background(), env.db, "no-such-page", user.ID, models.AccessViewOnly)
	require.ErrorIs(t, err, common.ErrorNotFound)
}
