package handler

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
)

const (
	msgUserCreated = "User Created Successfully"
	msgUserUpdated = "User Updated Successfully"
	msgUserDeleted = "User Deleted Successfully"
)

type UserHandler struct {
	api ports.UserAPI
}

func NewUserHandler(api ports.UserAPI) *UserHandler {
	return &UserHandler{api: api}
}

// listUsersQuery accepts either a raw filter string or the individual
// filter fields of the users table.
type listUsersQuery struct {
	Page      int    `query:"page"      validate:"omitempty,min=1,max=100000"`
	Limit     int    `query:"limit"     validate:"omitempty,min=1,max=100"`
	Filter    string `query:"filter"`
	Name      string `query:"name"`
	Email     string `query:"email"`
	Role      string `query:"role"      validate:"omitempty,oneof=admin manager viewer"`
	Status    string `query:"status"    validate:"omitempty,oneof=active inactive pending"`
	SortBy    string `query:"sortBy"    validate:"omitempty,oneof=id name email role status dateJoined"`
	SortOrder string `query:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

func (q listUsersQuery) params() ports.GetUsersParams {
	filter := q.Filter
	if filter == "" {
		values := url.Values{}
		for key, v := range map[string]string{"name": q.Name, "email": q.Email, "role": q.Role, "status": q.Status} {
			if v != "" {
				values.Set(key, v)
			}
		}
		filter = values.Encode()
	}
	return ports.GetUsersParams{
		Page:      q.Page,
		Limit:     q.Limit,
		Filter:    filter,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
	}
}

type createUserRequest struct {
	Name     string `json:"name"     validate:"required,max=120"`
	Email    string `json:"email"    validate:"required,email"`
	Role     string `json:"role"     validate:"required,oneof=admin manager viewer"`
	Password string `json:"password" validate:"omitempty,min=6"`
}

type updateUserRequest struct {
	Name   *string `json:"name"   validate:"omitempty,min=1,max=120"`
	Email  *string `json:"email"  validate:"omitempty,email"`
	Role   *string `json:"role"   validate:"omitempty,oneof=admin manager viewer"`
	Status *string `json:"status" validate:"omitempty,oneof=active inactive pending"`
}

func (r updateUserRequest) input() ports.UpdateUserInput {
	in := ports.UpdateUserInput{Name: r.Name, Email: r.Email}
	if r.Role != nil {
		role := domain.Role(*r.Role)
		in.Role = &role
	}
	if r.Status != nil {
		status := domain.UserStatus(*r.Status)
		in.Status = &status
	}
	return in
}

type usersEnvelope struct {
	envelope
	Users []domain.User `json:"users"`
	Total *int          `json:"total"`
}

type userEnvelope struct {
	envelope
	User *domain.User `json:"user"`
}

type newUserEnvelope struct {
	envelope
	NewUser *domain.User `json:"newUser"`
}

type rolesEnvelope struct {
	envelope
	Roles []domain.Role `json:"roles"`
}

// List returns one page of users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Page size (default 20)"
// @Param        filter     query     string  false  "Query-string filter, e.g. name=john&role=admin"
// @Param        name       query     string  false  "Name contains"
// @Param        email      query     string  false  "Email contains"
// @Param        role       query     string  false  "Role"
// @Param        status     query     string  false  "Status"
// @Param        sortBy     query     string  false  "Sort field (default name)"
// @Param        sortOrder  query     string  false  "asc or desc"
// @Success      200        {object}  usersEnvelope
// @Failure      400        {object}  usersEnvelope
// @Failure      503        {object}  usersEnvelope
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	var q listUsersQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	res, err := h.api.GetUsers(c.Request().Context(), q.params())
	if err != nil {
		return respondFailure(c, err, &usersEnvelope{})
	}
	return render(c, http.StatusOK, usersEnvelope{
		envelope: envelope{IsSuccess: true},
		Users:    res.Users,
		Total:    &res.Total,
	})
}

// CreatePage renders the user form with the roles a new user may get.
//
// @Summary      New user form
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  rolesEnvelope
// @Router       /users/create [get]
func (h *UserHandler) CreatePage(c echo.Context) error {
	return h.roles(c, true)
}

// Roles lists the assignable roles.
//
// @Summary      List roles
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  rolesEnvelope
// @Router       /roles [get]
func (h *UserHandler) Roles(c echo.Context) error {
	return h.roles(c, false)
}

func (h *UserHandler) roles(c echo.Context, asPage bool) error {
	roles, err := h.api.GetRoles(c.Request().Context())
	if err != nil {
		return respondFailure(c, err, &rolesEnvelope{})
	}
	body := rolesEnvelope{envelope: envelope{IsSuccess: true}, Roles: roles}
	if asPage {
		return render(c, http.StatusOK, body)
	}
	return c.JSON(http.StatusOK, body)
}

// Create adds a user. New users always start as pending.
//
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "New user"
// @Success      201   {object}  newUserEnvelope
// @Failure      400   {object}  envelope
// @Failure      503   {object}  newUserEnvelope
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.api.CreateUser(c.Request().Context(), ports.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Role:     domain.Role(req.Role),
		Password: req.Password,
	})
	if err != nil {
		return respondFailure(c, err, &newUserEnvelope{})
	}
	return c.JSON(http.StatusCreated, newUserEnvelope{
		envelope: envelope{IsSuccess: true, Message: msgUserCreated},
		NewUser:  user,
	})
}

// Get renders one user.
//
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  userEnvelope
// @Failure      404  {object}  userEnvelope
// @Failure      503  {object}  userEnvelope
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	user, err := h.api.GetUser(c.Request().Context(), id)
	if err != nil {
		return respondFailure(c, err, &userEnvelope{})
	}
	return render(c, http.StatusOK, userEnvelope{envelope: envelope{IsSuccess: true}, User: user})
}

// Update changes the given fields of a user.
//
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  userEnvelope
// @Failure      400   {object}  envelope
// @Failure      404   {object}  userEnvelope
// @Failure      503   {object}  userEnvelope
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.api.UpdateUser(c.Request().Context(), id, req.input())
	if err != nil {
		return respondFailure(c, err, &userEnvelope{})
	}
	return c.JSON(http.StatusOK, userEnvelope{
		envelope: envelope{IsSuccess: true, Message: msgUserUpdated},
		User:     user,
	})
}

// Delete removes a user.
//
// @Summary      Delete user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  envelope
// @Failure      404  {object}  envelope
// @Failure      503  {object}  envelope
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.api.DeleteUser(c.Request().Context(), id); err != nil {
		return respondFailure(c, err, &envelope{})
	}
	return c.JSON(http.StatusOK, envelope{IsSuccess: true, Message: msgUserDeleted})
}
