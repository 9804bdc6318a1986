package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
)

type stubUserAPI struct {
	mu sync.Mutex

	getUsersFn   func(ctx context.Context, params ports.GetUsersParams) (*ports.UsersPage, error)
	getUserFn    func(ctx context.Context, id int) (*domain.User, error)
	createUserFn func(ctx context.Context, input ports.CreateUserInput) (*domain.User, error)
	updateUserFn func(ctx context.Context, id int, input ports.UpdateUserInput) (*domain.User, error)
	deleteUserFn func(ctx context.Context, id int) error
}

func (s *stubUserAPI) Login(context.Context, string, string) (*ports.LoginResult, error) {
	return nil, domain.NewAPIError(domain.ErrUserNotFound, "User Not Found")
}

func (s *stubUserAPI) GetUsers(ctx context.Context, params ports.GetUsersParams) (*ports.UsersPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getUsersFn(ctx, params)
}

func (s *stubUserAPI) GetUser(ctx context.Context, id int) (*domain.User, error) {
	return s.getUserFn(ctx, id)
}

func (s *stubUserAPI) CreateUser(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	return s.createUserFn(ctx, input)
}

func (s *stubUserAPI) UpdateUser(ctx context.Context, id int, input ports.UpdateUserInput) (*domain.User, error) {
	return s.updateUserFn(ctx, id, input)
}

func (s *stubUserAPI) DeleteUser(ctx context.Context, id int) error {
	return s.deleteUserFn(ctx, id)
}

func (s *stubUserAPI) GetRoles(context.Context) ([]domain.Role, error) {
	return domain.Roles, nil
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestUserHandler_List_BuildsFilterFromFields(t *testing.T) {
	e := newEcho()
	api := &stubUserAPI{
		getUsersFn: func(_ context.Context, p ports.GetUsersParams) (*ports.UsersPage, error) {
			if p.Page != 2 || p.Limit != 5 || p.SortBy != "email" || p.SortOrder != "desc" {
				t.Fatalf("unexpected params: %+v", p)
			}
			if p.Filter != "name=john&role=admin" {
				t.Fatalf("unexpected filter %q", p.Filter)
			}
			return &ports.UsersPage{Users: []domain.User{{ID: 1, Name: "John"}}, Total: 6}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/users?page=2&limit=5&name=john&role=admin&sortBy=email&sortOrder=desc", nil)
	rec := httptest.NewRecorder()
	if err := NewUserHandler(api).List(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	resp := decode(t, rec)
	if rec.Code != http.StatusOK || resp["isSuccess"] != true || resp["total"] != float64(6) {
		t.Fatalf("unexpected response %d %+v", rec.Code, resp)
	}
}

func TestUserHandler_List_RejectsBadQuery(t *testing.T) {
	e := newEcho()
	api := &stubUserAPI{getUsersFn: func(context.Context, ports.GetUsersParams) (*ports.UsersPage, error) {
		t.Fatalf("should not be called")
		return nil, nil
	}}

	for _, q := range []string{"role=owner", "sortOrder=sideways", "page=-1", "page=4611686018427387905", "limit=1000"} {
		req := httptest.NewRequest(http.MethodGet, "/users?"+q, nil)
		err := NewUserHandler(api).List(e.NewContext(req, httptest.NewRecorder()))
		if he, ok := err.(*echo.HTTPError); !ok || he.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %v", q, err)
		}
	}
}

func TestUserHandler_List_SimulatedFailure(t *testing.T) {
	e := newEcho()
	api := &stubUserAPI{getUsersFn: func(context.Context, ports.GetUsersParams) (*ports.UsersPage, error) {
		return nil, domain.NewAPIError(domain.ErrSimulatedFailure, "Users is not fetched, something went wrong")
	}}

	rec := httptest.NewRecorder()
	if err := NewUserHandler(api).List(e.NewContext(httptest.NewRequest(http.MethodGet, "/users", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	resp := decode(t, rec)
	if rec.Code != http.StatusServiceUnavailable || resp["isSuccess"] != false || resp["users"] != nil || resp["total"] != nil {
		t.Fatalf("unexpected response %d %+v", rec.Code, resp)
	}
}

func TestUserHandler_Create(t *testing.T) {
	e := newEcho()
	api := &stubUserAPI{createUserFn: func(_ context.Context, in ports.CreateUserInput) (*domain.User, error) {
		if in.Name != "New User" || in.Role != domain.RoleViewer || in.Password != "hunter22" {
			t.Fatalf("unexpected input: %+v", in)
		}
		return &domain.User{ID: 13, Name: in.Name, Email: in.Email, Role: in.Role, Status: domain.StatusPending}, nil
	}}

	c, rec := postJSON(e, "/users", `{"name":"New User","email":"new@example.com","role":"viewer","password":"hunter22"}`)
	if err := NewUserHandler(api).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	resp := decode(t, rec)
	if rec.Code != http.StatusCreated || resp["message"] != "User Created Successfully" {
		t.Fatalf("unexpected response %d %+v", rec.Code, resp)
	}
	newUser := resp["newUser"].(map[string]any)
	if newUser["id"] != float64(13) || newUser["status"] != "pending" {
		t.Fatalf("unexpected newUser: %+v", newUser)
	}
}

func TestUserHandler_Create_InvalidRole(t *testing.T) {
	e := newEcho()
	c, _ := postJSON(e, "/users", `{"name":"New User","email":"new@example.com","role":"owner"}`)
	err := NewUserHandler(&stubUserAPI{}).Create(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest || !strings.Contains(he.Message.(string), "role must be one of") {
		t.Fatalf("expected role validation error, got %v", err)
	}
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	e := newEcho()
	api := &stubUserAPI{getUserFn: func(_ context.Context, id int) (*domain.User, error) {
		if id != 42 {
			t.Fatalf("unexpected id %d", id)
		}
		return nil, domain.NewAPIError(domain.ErrUserNotFound, "User Not Found")
	}}

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/users/42", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("42")
	if err := NewUserHandler(api).Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	resp := decode(t, rec)
	if rec.Code != http.StatusNotFound || resp["message"] != "User Not Found" || resp["user"] != nil {
		t.Fatalf("unexpected response %d %+v", rec.Code, resp)
	}
}

func TestUserHandler_Get_BadID(t *testing.T) {
	e := newEcho()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/users/abc", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("abc")
	if he, ok := NewUserHandler(&stubUserAPI{}).Get(c).(*echo.HTTPError); !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric id")
	}
}

func TestUserHandler_Update_PartialFields(t *testing.T) {
	e := newEcho()
	api := &stubUserAPI{updateUserFn: func(_ context.Context, id int, in ports.UpdateUserInput) (*domain.User, error) {
		if id != 3 || in.Name != nil || in.Email != nil || in.Role != nil {
			t.Fatalf("unexpected update: %d %+v", id, in)
		}
		if in.Status == nil || *in.Status != domain.StatusInactive {
			t.Fatalf("expected status change, got %+v", in.Status)
		}
		return &domain.User{ID: 3, Status: domain.StatusInactive}, nil
	}}

	req := httptest.NewRequest(http.MethodPut, "/users/3", strings.NewReader(`{"status":"inactive"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("3")
	if err := NewUserHandler(api).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if resp := decode(t, rec); rec.Code != http.StatusOK || resp["message"] != "User Updated Successfully" {
		t.Fatalf("unexpected response %d %+v", rec.Code, resp)
	}
}

func TestUserHandler_Delete(t *testing.T) {
	e := newEcho()
	deleted := 0
	api := &stubUserAPI{deleteUserFn: func(_ context.Context, id int) error {
		deleted = id
		return nil
	}}

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/users/5", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("5")
	if err := NewUserHandler(api).Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if resp := decode(t, rec); deleted != 5 || resp["message"] != "User Deleted Successfully" {
		t.Fatalf("unexpected response %+v (deleted %d)", resp, deleted)
	}
}

func TestDashboardHandler_Counts(t *testing.T) {
	e := newEcho()
	totals := map[string]int{"": 12, "status=inactive": 3, "status=pending": 2}
	api := &stubUserAPI{getUsersFn: func(_ context.Context, p ports.GetUsersParams) (*ports.UsersPage, error) {
		total, ok := totals[p.Filter]
		if !ok {
			t.Fatalf("unexpected filter %q", p.Filter)
		}
		return &ports.UsersPage{Total: total}, nil
	}}

	rec := httptest.NewRecorder()
	if err := NewDashboardHandler(api).Dashboard(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp dashboardEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	want := userCounts{Total: 12, Active: 7, Inactive: 3, Pending: 2}
	if resp.Counts == nil || *resp.Counts != want {
		t.Fatalf("expected %+v, got %+v", want, resp.Counts)
	}
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealthHandler_Readiness(t *testing.T) {
	e := newEcho()

	ok := NewHealthHandler(map[string]Pinger{"memory": stubPinger{}})
	rec := httptest.NewRecorder()
	_ = ok.Readiness(e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	down := NewHealthHandler(map[string]Pinger{"redis": stubPinger{err: context.DeadlineExceeded}})
	rec = httptest.NewRecorder()
	_ = down.Readiness(e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	resp := decode(t, rec)
	if resp["status"] != "degraded" {
		t.Fatalf("unexpected readiness body: %+v", resp)
	}
}
