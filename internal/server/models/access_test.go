package models

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/memoryengine/backend/internal/common"
)

func TestAccessLevel_Meets(t *testing.T) {
	cases := []struct {
		level, minimum AccessLevel
		want           bool
	}{
		{AccessViewOnly, AccessViewOnly, true},
		{AccessViewOnly, AccessEdit, false},
		{AccessViewOnly, AccessOwner, false},
		{AccessEdit, AccessViewOnly, true},
		{AccessEdit, AccessEdit, true},
		{AccessEdit, AccessOwner, false},
		{AccessOwner, AccessViewOnly, true},
		{AccessOwner, AccessEdit, true},
		{AccessOwner, AccessOwner, true},
	}
	for _, c := range cases {
		require.Equal(t, c.want, c.level.Meets(c.minimum), "%s meets %s", c.level, c.minimum)
	}
}

func TestParsePermissionLevel(t *testing.T) {
	p, err := ParsePermissionLevel("edit")
	require.NoError(t, err)
	require.Equal(t, PermissionEdit, p)

	p, err = ParsePermissionLevel("view_only")
	require.NoError(t, err)
	require.Equal(t, PermissionViewOnly, p)

	_, err = ParsePermissionLevel("owner")
	require.ErrorIs(t, err, common.ErrorValidation)

	_, err = ParsePermissionLevel("")
	require.ErrorIs(t, err, common.ErrorValidation)
}

func TestPermissionLevel_Access(t *testing.T) {
	require.Equal(t, AccessEdit, PermissionEdit.Access())
	require.Equal(t, AccessViewOnly, PermissionViewOnly.Access())
}
