package domain

// AuthenticatedUserData is the persisted session snapshot. It is written on
// successful login and removed on logout or session expiry.
type AuthenticatedUserData struct {
	User            User         `json:"user"`
	Permissions     []Permission `json:"permissions"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

// Can reports whether the snapshot grants any of the given permissions.
func (d *AuthenticatedUserData) Can(perms ...Permission) bool {
	if d == nil || !d.IsAuthenticated {
		return false
	}
	return HasAny(d.Permissions, perms)
}
