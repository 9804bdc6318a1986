package api

import (
	"net/http"

	"github.com/99minutos/admin-console/internal/core/domain"
)

// Routes is the console's route table. Permissions are alternatives: holding
// any one of them grants access.
var Routes = []domain.Route{
	{Method: http.MethodGet, Path: "/", Name: "dashboard", Permissions: []domain.Permission{domain.PermViewDashboard}, Layout: domain.LayoutAuthenticated},
	{Method: http.MethodGet, Path: "/users", Name: "users", Permissions: []domain.Permission{domain.PermViewUsers}, Layout: domain.LayoutAuthenticated},
	{Method: http.MethodGet, Path: "/users/create", Name: "create-user", Permissions: []domain.Permission{domain.PermViewUsers, domain.PermAddUsers}, Layout: domain.LayoutAuthenticated},
	{Method: http.MethodPost, Path: "/users", Name: "store-user", Permissions: []domain.Permission{domain.PermAddUsers}, Layout: domain.LayoutAuthenticated},
	{Method: http.MethodGet, Path: "/users/:id", Name: "user", Permissions: []domain.Permission{domain.PermViewUser, domain.PermEditUsers}, Layout: domain.LayoutAuthenticated},
	{Method: http.MethodPut, Path: "/users/:id", Name: "update-user", Permissions: []domain.Permission{domain.PermEditUsers}, Layout: domain.LayoutAuthenticated},
	{Method: http.MethodDelete, Path: "/users/:id", Name: "delete-user", Permissions: []domain.Permission{domain.PermDeleteUsers}, Layout: domain.LayoutAuthenticated},
	{Method: http.MethodGet, Path: "/roles", Name: "roles", Permissions: []domain.Permission{domain.PermAddUsers, domain.PermEditUsers}, Layout: domain.LayoutAuthenticated},
	{Method: http.MethodGet, Path: domain.PathLogin, Name: "login", Layout: domain.LayoutDefault},
	{Method: http.MethodPost, Path: domain.PathLogin, Name: "authenticate", Layout: domain.LayoutDefault},
	{Method: http.MethodPost, Path: "/logout", Name: "logout", Layout: domain.LayoutDefault},
	{Method: http.MethodGet, Path: domain.PathUnauthorized, Name: "unauthorized", Layout: domain.LayoutDefault},
}

// NotFoundRoute catches every path the table does not match. It needs no
// permission but still goes through the guard, so anonymous callers land on
// the login page.
var NotFoundRoute = domain.Route{Path: "/*", Name: "not-found", Layout: domain.LayoutDefault}
