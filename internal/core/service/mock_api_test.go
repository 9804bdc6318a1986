package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
	"github.com/99minutos/admin-console/internal/infrastructure/db/memory"
	"github.com/99minutos/admin-console/internal/pkg/clock"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var nopLog = zerolog.Nop()

var testEpoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(h)
}

func fixtureUsers(t *testing.T) []domain.User {
	t.Helper()
	return []domain.User{
		{ID: 1, Name: "John Carter", Email: "john@example.com", Role: domain.RoleAdmin, Status: domain.StatusActive, DateJoined: "2023-01-01T00:00:00.000Z", PasswordHash: hashed(t, "secret1")},
		{ID: 2, Name: "Alice Johnson", Email: "alice@example.com", Role: domain.RoleManager, Status: domain.StatusPending, DateJoined: "2023-02-01T00:00:00.000Z", PasswordHash: hashed(t, "secret2")},
		{ID: 3, Name: "Bob Stone", Email: "bob@example.com", Role: domain.RoleViewer, Status: domain.StatusInactive, DateJoined: "2023-03-01T00:00:00.000Z", PasswordHash: hashed(t, "secret3")},
	}
}

func newTestAPI(t *testing.T, users []domain.User) (*MockAPI, *memory.UserStore) {
	t.Helper()
	repo := memory.NewUserStore(users)
	api := NewMockAPI(repo, MockAPIOptions{
		NoLatency:  true,
		BcryptCost: bcrypt.MinCost,
		Clock:      clock.NewManual(testEpoch),
	}, nopLog)
	return api, repo
}

func expectKind(t *testing.T, err, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *domain.APIError, got %T", err)
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestMockAPI_Login_ActiveAndPendingSucceed(t *testing.T) {
	api, _ := newTestAPI(t, fixtureUsers(t))

	res, err := api.Login(context.Background(), "john@example.com", "secret1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.User.ID != 1 || res.User.PasswordHash != "" {
		t.Fatalf("unexpected user: %+v", res.User)
	}
	if len(res.Permissions) != len(domain.RolePermissions[domain.RoleAdmin]) {
		t.Fatalf("expected admin permissions, got %v", res.Permissions)
	}

	res, err = api.Login(context.Background(), "alice@example.com", "secret2")
	if err != nil {
		t.Fatalf("pending user login failed: %v", err)
	}
	if res.User.Status != domain.StatusPending {
		t.Fatalf("unexpected status: %s", res.User.Status)
	}
}

func TestMockAPI_Login_NotFound(t *testing.T) {
	api, _ := newTestAPI(t, fixtureUsers(t))

	_, err := api.Login(context.Background(), "john@example.com", "wrong")
	expectKind(t, err, domain.ErrUserNotFound)
	if err.Error() != "User Not Found" {
		t.Fatalf("unexpected message: %q", err.Error())
	}

	_, err = api.Login(context.Background(), "ghost@example.com", "secret1")
	expectKind(t, err, domain.ErrUserNotFound)
}

func TestMockAPI_Login_InactiveRegardlessOfPassword(t *testing.T) {
	api, _ := newTestAPI(t, fixtureUsers(t))

	_, err := api.Login(context.Background(), "bob@example.com", "secret3")
	expectKind(t, err, domain.ErrInactiveAccount)

	_, err = api.Login(context.Background(), "bob@example.com", "nope")
	expectKind(t, err, domain.ErrInactiveAccount)
}

// ---------------------------------------------------------------------------
// Fault injection
// ---------------------------------------------------------------------------

func TestMockAPI_FailNext_FailsExactlyNOperations(t *testing.T) {
	api, _ := newTestAPI(t, fixtureUsers(t))
	api.FailNext(2)

	_, err := api.GetUser(context.Background(), 1)
	expectKind(t, err, domain.ErrSimulatedFailure)
	if err.Error() != "User is not fetched, something went wrong" {
		t.Fatalf("unexpected message: %q", err.Error())
	}

	_, err = api.Login(context.Background(), "john@example.com", "secret1")
	expectKind(t, err, domain.ErrSimulatedFailure)

	if api.ScheduledFailures() != 0 {
		t.Fatalf("expected schedule to be consumed, got %d", api.ScheduledFailures())
	}
	if _, err := api.GetUser(context.Background(), 1); err != nil {
		t.Fatalf("expected recovery after scheduled failures, got %v", err)
	}
}

func TestMockAPI_FailNext_DoesNotAffectGetRoles(t *testing.T) {
	api, _ := newTestAPI(t, fixtureUsers(t))
	api.FailNext(1)

	roles, err := api.GetRoles(context.Background())
	if err != nil {
		t.Fatalf("GetRoles returned error: %v", err)
	}
	if len(roles) != 3 || roles[0] != domain.RoleAdmin || roles[2] != domain.RoleViewer {
		t.Fatalf("unexpected roles: %v", roles)
	}
	if api.ScheduledFailures() != 1 {
		t.Fatalf("GetRoles consumed a scheduled failure")
	}
}

func TestMockAPI_ConfiguredFailNext(t *testing.T) {
	repo := memory.NewUserStore(fixtureUsers(t))
	api := NewMockAPI(repo, MockAPIOptions{NoLatency: true, FailNext: 1}, nopLog)

	if err := api.DeleteUser(context.Background(), 1); !errors.Is(err, domain.ErrSimulatedFailure) {
		t.Fatalf("expected simulated failure, got %v", err)
	}
	if _, err := repo.FindByID(context.Background(), 1); err != nil {
		t.Fatalf("failed operation must not mutate the store: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Latency
// ---------------------------------------------------------------------------

func TestMockAPI_LatencyHonoursContext(t *testing.T) {
	repo := memory.NewUserStore(fixtureUsers(t))
	api := NewMockAPI(repo, MockAPIOptions{LatencyMin: time.Hour, LatencyMax: 2 * time.Hour}, nopLog)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := api.GetUsers(ctx, ports.GetUsersParams{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestMockAPI_LatencyWithinRange(t *testing.T) {
	repo := memory.NewUserStore(nil)
	api := NewMockAPI(repo, MockAPIOptions{}, nopLog)

	for i := 0; i < 200; i++ {
		d := api.latency()
		if d < 300*time.Millisecond || d >= 800*time.Millisecond {
			t.Fatalf("latency %v outside [300ms, 800ms)", d)
		}
	}
}

// ---------------------------------------------------------------------------
// GetUsers
// ---------------------------------------------------------------------------

func TestMockAPI_GetUsers_FilterCaseInsensitiveSubstring(t *testing.T) {
	api, _ := newTestAPI(t, fixtureUsers(t))

	page, err := api.GetUsers(context.Background(), ports.GetUsersParams{Filter: "name=JOHN"})
	if err != nil {
		t.Fatalf("GetUsers returned error: %v", err)
	}
	if page.Total != 2 || len(page.Users) != 2 {
		t.Fatalf("expected John Carter and Alice Johnson, got %+v", page)
	}
	for _, u := range page.Users {
		if u.PasswordHash != "" {
			t.Fatalf("password leaked for user %d", u.ID)
		}
	}
}

func TestMockAPI_GetUsers_FilterAllKeysMustMatch(t *testing.T) {
	api, _ := newTestAPI(t, fixtureUsers(t))

	page, err := api.GetUsers(context.Background(), ports.GetUsersParams{Filter: "name=john&role=manager"})
	if err != nil {
		t.Fatalf("GetUsers returned error: %v", err)
	}
	if page.Total != 1 || page.Users[0].ID != 2 {
		t.Fatalf("expected only Alice, got %+v", page.Users)
	}

	page, _ = api.GetUsers(context.Background(), ports.GetUsersParams{Filter: "id=3"})
	if page.Total != 1 || page.Users[0].ID != 3 {
		t.Fatalf("expected exact id match, got %+v", page.Users)
	}

	page, _ = api.GetUsers(context.Background(), ports.GetUsersParams{Filter: "password=secret"})
	if page.Total != 0 {
		t.Fatalf("password must not be filterable, got %d", page.Total)
	}

	page, _ = api.GetUsers(context.Background(), ports.GetUsersParams{Filter: "nickname=x"})
	if page.Total != 0 {
		t.Fatalf("unknown key must not match, got %d", page.Total)
	}
}

func TestMockAPI_GetUsers_SortAndPaginate(t *testing.T) {
	api, _ := newTestAPI(t, fixtureUsers(t))

	page, err := api.GetUsers(context.Background(), ports.GetUsersParams{Page: 2, Limit: 1})
	if err != nil {
		t.Fatalf("GetUsers returned error: %v", err)
	}
	// sorted by name asc: Alice, Bob, John
	if page.Total != 3 || len(page.Users) != 1 || page.Users[0].Name != "Bob Stone" {
		t.Fatalf("unexpected page: %+v", page)
	}

	page, _ = api.GetUsers(context.Background(), ports.GetUsersParams{SortBy: "id", SortOrder: "desc"})
	if page.Users[0].ID != 3 || page.Users[2].ID != 1 {
		t.Fatalf("unexpected desc order: %+v", page.Users)
	}

	page, _ = api.GetUsers(context.Background(), ports.GetUsersParams{Page: 5, Limit: 10})
	if page.Total != 3 || len(page.Users) != 0 {
		t.Fatalf("expected empty page past the end, got %+v", page)
	}
}

func TestMockAPI_GetUsers_HugePageOrLimit(t *testing.T) {
	api, _ := newTestAPI(t, fixtureUsers(t))

	page, err := api.GetUsers(context.Background(), ports.GetUsersParams{Page: 1<<62 + 1, Limit: 2})
	if err != nil {
		t.Fatalf("GetUsers returned error: %v", err)
	}
	if page.Total != 3 || len(page.Users) != 0 {
		t.Fatalf("expected empty page with full total, got %+v", page)
	}

	page, err = api.GetUsers(context.Background(), ports.GetUsersParams{Page: 1, Limit: math.MaxInt})
	if err != nil {
		t.Fatalf("GetUsers returned error: %v", err)
	}
	if page.Total != 3 || len(page.Users) != 3 {
		t.Fatalf("expected every user on one page, got %+v", page)
	}

	page, _ = api.GetUsers(context.Background(), ports.GetUsersParams{Page: 2, Limit: math.MaxInt})
	if len(page.Users) != 0 {
		t.Fatalf("expected empty second page, got %+v", page.Users)
	}
}

func TestMockAPI_GetUsers_InvalidFilter(t *testing.T) {
	api, _ := newTestAPI(t, fixtureUsers(t))

	_, err := api.GetUsers(context.Background(), ports.GetUsersParams{Filter: "name=%zz"})
	expectKind(t, err, domain.ErrInvalidArgument)
}

// ---------------------------------------------------------------------------
// CRUD
// ---------------------------------------------------------------------------

func TestMockAPI_CreateUser_AssignsIDAndPendingStatus(t *testing.T) {
	api, repo := newTestAPI(t, fixtureUsers(t)[:2])

	created, err := api.CreateUser(context.Background(), ports.CreateUserInput{
		Name:     "New Person",
		Email:    "new@example.com",
		Role:     domain.RoleViewer,
		Password: "pass1234",
	})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if created.ID != 3 {
		t.Fatalf("expected id 3, got %d", created.ID)
	}
	if created.Status != domain.StatusPending {
		t.Fatalf("expected pending status, got %s", created.Status)
	}
	if created.DateJoined != "2024-03-01T12:00:00.000Z" {
		t.Fatalf("unexpected dateJoined %q", created.DateJoined)
	}
	if created.PasswordHash != "" {
		t.Fatalf("password leaked in create result")
	}

	stored, _ := repo.FindByID(context.Background(), 3)
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pass1234")) != nil {
		t.Fatalf("stored password hash does not match")
	}

	if _, err := api.Login(context.Background(), "new@example.com", "pass1234"); err != nil {
		t.Fatalf("pending user should be able to log in: %v", err)
	}
}

func TestMockAPI_UpdateUser_ShallowMerge(t *testing.T) {
	api, _ := newTestAPI(t, fixtureUsers(t))

	name := "Johnny"
	status := domain.StatusInactive
	updated, err := api.UpdateUser(context.Background(), 1, ports.UpdateUserInput{Name: &name, Status: &status})
	if err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}
	if updated.Name != "Johnny" || updated.Status != domain.StatusInactive {
		t.Fatalf("fields not merged: %+v", updated)
	}
	if updated.Email != "john@example.com" || updated.Role != domain.RoleAdmin {
		t.Fatalf("untouched fields changed: %+v", updated)
	}

	_, err = api.UpdateUser(context.Background(), 99, ports.UpdateUserInput{Name: &name})
	expectKind(t, err, domain.ErrUserNotFound)
}

func TestMockAPI_DeleteThenGet(t *testing.T) {
	api, _ := newTestAPI(t, fixtureUsers(t)[:2])

	created, err := api.CreateUser(context.Background(), ports.CreateUserInput{Name: "Third", Email: "third@example.com", Role: domain.RoleViewer})
	if err != nil || created.ID != 3 || created.Status != domain.StatusPending {
		t.Fatalf("unexpected create result: %+v (%v)", created, err)
	}

	if err := api.DeleteUser(context.Background(), 1); err != nil {
		t.Fatalf("DeleteUser returned error: %v", err)
	}
	_, err = api.GetUser(context.Background(), 1)
	expectKind(t, err, domain.ErrUserNotFound)

	err = api.DeleteUser(context.Background(), 1)
	expectKind(t, err, domain.ErrUserNotFound)
}
