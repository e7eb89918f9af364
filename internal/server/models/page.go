package models

import "time"

// MaxTitleLength bounds page titles, matching the varchar(500) column.
const MaxTitleLength = 500

// Page is a node in a user's page tree. ParentID is nil for root pages;
// the id <> parent_id invariant and the no-cycle invariant are enforced by
// the store (check constraint plus hierarchy trigger).
type Page struct {
	ID        string
	UserID    string
	ParentID  *string
	Title     string
	Content   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SharedPage is a page joined with the grant that makes it visible to a
// non-owner, plus the owner's email for display.
type SharedPage struct {
	Page       Page
	Permission PermissionLevel
	OwnerEmail string
}
