package domain

import "time"

// Role identifies a user's access tier.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleViewer  Role = "viewer"
)

// Roles is the fixed, ordered list of known roles.
var Roles = []Role{RoleAdmin, RoleManager, RoleViewer}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleViewer:
		return true
	}
	return false
}

// UserStatus represents the lifecycle state of an account.
type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
	StatusPending  UserStatus = "pending"
)

// Valid reports whether s is one of the known statuses.
func (s UserStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending:
		return true
	}
	return false
}

// DateJoinedLayout matches the ISO-8601 form produced by JavaScript's toISOString.
const DateJoinedLayout = "2006-01-02T15:04:05.000Z"

// FormatDateJoined renders t in DateJoinedLayout (UTC).
func FormatDateJoined(t time.Time) string {
	return t.UTC().Format(DateJoinedLayout)
}

// User models a console account. PasswordHash never leaves the data store:
// it is not serialized and Public() drops it.
type User struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         Role       `json:"role"`
	Status       UserStatus `json:"status"`
	DateJoined   string     `json:"dateJoined"`
	PasswordHash string     `json:"-"`
}

// Public returns a copy of u without credentials.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}
