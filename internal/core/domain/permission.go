package domain

// Permission is a named capability gating console routes.
type Permission string

const (
	PermViewDashboard   Permission = "view_dashboard"
	PermViewUsers       Permission = "view_users"
	PermAddUsers        Permission = "add_users"
	PermViewUser        Permission = "view_user"
	PermChangePassword  Permission = "change_password"
	PermEditUsers       Permission = "edit_users"
	PermDeleteUsers     Permission = "delete_users"
	PermGivePermissions Permission = "give_permissions"
)

// RolePermissions maps each role to its ordered permission set.
// admin ⊋ manager ⊋ viewer.
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermViewDashboard,
		PermViewUsers,
		PermAddUsers,
		PermViewUser,
		PermChangePassword,
		PermEditUsers,
		PermDeleteUsers,
		PermGivePermissions,
	},
	RoleManager: {
		PermViewDashboard,
		PermViewUsers,
		PermViewUser,
	},
	RoleViewer: {
		PermViewDashboard,
	},
}

// PermissionsFor returns a copy of the permission set for role.
// Unknown roles get no permissions.
func PermissionsFor(role Role) []Permission {
	perms := RolePermissions[role]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// HasAny reports whether granted contains at least one of required.
// An empty required list is always satisfied.
func HasAny(granted, required []Permission) bool {
	if len(required) == 0 {
		return true
	}
	set := make(map[Permission]struct{}, len(granted))
	for _, p := range granted {
		set[p] = struct{}{}
	}
	for _, p := range required {
		if _, ok := set[p]; ok {
			return true
		}
	}
	return false
}
