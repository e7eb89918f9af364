package models

import "time"

// PageShare grants SharedWithUserID access to one page. OwnerID is
// denormalized from the page's owner at share time. At most one grant may
// exist per (page, shared-with user); re-sharing updates the level in place.
type PageShare struct {
	ID               string
	PageID           string
	OwnerID          string
	SharedWithUserID string
	PermissionLevel  PermissionLevel
	CreatedAt        time.Time
}

// PageShareView is a grant joined with the target user's email, as returned
// when the owner lists a page's shares.
type PageShareView struct {
	PageShare
	SharedWithEmail string
}
