// Package models defines the database row types and the permission
// enumerations shared by repositories and services.
package models

import "time"

// UserRole distinguishes administrators from regular users.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// Valid reports whether the role is one of the known values.
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is a registered account. Email is stored lower-cased; Username and
// Name are optional and empty when absent.
type User struct {
	ID           string
	Email        string
	Name         string
	Username     string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
