package ports

import (
	"context"

	"github.com/99minutos/admin-console/internal/core/domain"
)

// GetUsersParams carries the list query. Zero values take the defaults
// page=1, limit=20, sortBy=name, sortOrder=asc.
type GetUsersParams struct {
	Page      int
	Limit     int
	Filter    string // query-string style, e.g. "name=john&role=admin"
	SortBy    string
	SortOrder string // "asc" or "desc"
}

// LoginResult is the successful outcome of a credential check.
type LoginResult struct {
	User        domain.User
	Permissions []domain.Permission
}

// UsersPage is one page of users plus the post-filter total.
type UsersPage struct {
	Users []domain.User
	Total int
}

// CreateUserInput holds the caller-settable fields of a new user.
type CreateUserInput struct {
	Name     string
	Email    string
	Role     domain.Role
	Password string
}

// UpdateUserInput holds the fields updateUser may change. Nil fields are left untouched.
type UpdateUserInput struct {
	Name   *string
	Email  *string
	Role   *domain.Role
	Status *domain.UserStatus
}

// Authenticator checks credentials.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

// UserAPI is the simulated remote user service. Every failure is a *domain.APIError.
type UserAPI interface {
	Authenticator
	GetUsers(ctx context.Context, params GetUsersParams) (*UsersPage, error)
	GetUser(ctx context.Context, id int) (*domain.User, error)
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id int, input UpdateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id int) error
	GetRoles(ctx context.Context) ([]domain.Role, error)
}
