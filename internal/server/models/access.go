package models

import (
	"fmt"

	"github.com/memoryengine/backend/internal/common"
)

// PermissionLevel is the grant level stored on a share row.
type PermissionLevel string

const (
	PermissionViewOnly PermissionLevel = "view_only"
	PermissionEdit     PermissionLevel = "edit"
)

// ParsePermissionLevel validates a wire/storage value.
func ParsePermissionLevel(s string) (PermissionLevel, error) {
	switch PermissionLevel(s) {
	case PermissionViewOnly, PermissionEdit:
		return PermissionLevel(s), nil
	default:
		return "", fmt.Errorf("%w: unknown permission level %q", common.ErrorValidation, s)
	}
}

// Access returns the effective access level a grant confers.
func (p PermissionLevel) Access() AccessLevel {
	if p == PermissionEdit {
		return AccessEdit
	}
	return AccessViewOnly
}

// AccessLevel is the effective permission a user has on a page, as an
// ordered enumeration so that "meets minimum" is an integer comparison
// rather than string matching.
type AccessLevel int

const (
	AccessViewOnly AccessLevel = iota + 1
	AccessEdit
	AccessOwner
)

// Meets reports whether the level satisfies the required minimum under the
// ordering view_only < edit < owner.
func (a AccessLevel) Meets(minimum AccessLevel) bool {
	return a >= minimum
}

// Permission maps a non-owner access level back to its share grant value.
// Returns empty for AccessOwner, which has no grant row.
func (a AccessLevel) Permission() PermissionLevel {
	switch a {
	case AccessViewOnly:
		return PermissionViewOnly
	case AccessEdit:
		return PermissionEdit
	default:
		return ""
	}
}

func (a AccessLevel) String() string {
	switch a {
	case AccessViewOnly:
		return "view_only"
	case AccessEdit:
		return "edit"
	case AccessOwner:
		return "owner"
	default:
		return fmt.Sprintf("access(%d)", int(a))
	}
}
