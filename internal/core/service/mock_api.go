package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
	"github.com/99minutos/admin-console/internal/pkg/clock"
	"github.com/99minutos/admin-console/internal/pkg/metrics"
)

const (
	defaultLatencyMin = 300 * time.Millisecond
	defaultLatencyMax = 800 * time.Millisecond

	defaultPage      = 1
	defaultPageLimit = 20
	defaultSortBy    = "name"
	sortDesc         = "desc"
)

const (
	msgUserNotFound = "User Not Found"
	msgInactiveUser = "User is not active"
	msgInvalidQuery = "Invalid filter"
)

// MockAPIOptions tunes the simulated service.
type MockAPIOptions struct {
	// LatencyMin and LatencyMax bound the uniform artificial delay [min, max).
	// Both zero selects the default 300–800ms range; use NoLatency to disable it.
	LatencyMin time.Duration
	LatencyMax time.Duration
	NoLatency  bool
	// FailNext schedules the first n operations to fail with a simulated error.
	FailNext   int
	BcryptCost int
	Clock      clock.Clock
	Rand       *rand.Rand
}

// MockAPI simulates the remote user service on top of the Mock Data Store.
type MockAPI struct {
	repo       ports.UserRepository
	latencyMin time.Duration
	latencyMax time.Duration
	bcryptCost int
	clock      clock.Clock
	log        zerolog.Logger

	mu       sync.Mutex
	rng      *rand.Rand
	failNext int
}

func NewMockAPI(repo ports.UserRepository, opts MockAPIOptions, log zerolog.Logger) *MockAPI {
	a := &MockAPI{
		repo:       repo,
		latencyMin: opts.LatencyMin,
		latencyMax: opts.LatencyMax,
		bcryptCost: opts.BcryptCost,
		clock:      opts.Clock,
		log:        log,
		rng:        opts.Rand,
	}
	if opts.NoLatency {
		a.latencyMin, a.latencyMax = 0, 0
	} else if a.latencyMin == 0 && a.latencyMax == 0 {
		a.latencyMin, a.latencyMax = defaultLatencyMin, defaultLatencyMax
	}
	if a.latencyMax < a.latencyMin {
		a.latencyMax = a.latencyMin
	}
	if a.bcryptCost == 0 {
		a.bcryptCost = bcrypt.DefaultCost
	}
	if a.clock == nil {
		a.clock = clock.Real()
	}
	if a.rng == nil {
		a.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed))
	}
	a.FailNext(opts.FailNext)
	return a
}

// FailNext schedules the next n operations (getRoles excluded) to fail with a
// simulated service error. It replaces any previous schedule; n <= 0 clears it.
func (a *MockAPI) FailNext(n int) {
	if n < 0 {
		n = 0
	}
	a.mu.Lock()
	a.failNext = n
	a.mu.Unlock()
	metrics.MockAPIScheduledFaults.Set(float64(n))
}

// ScheduledFailures returns how many upcoming operations will fail.
func (a *MockAPI) ScheduledFailures() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.failNext
}

func (a *MockAPI) Login(ctx context.Context, email, password string) (res *ports.LoginResult, err error) {
	defer a.observe("login", &err)
	if err := a.begin(ctx, "login", "Something went wrong"); err != nil {
		return nil, err
	}

	candidates, err := a.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, domain.AsAPIError(err)
	}

	var match *domain.User
	inactive := false
	for i := range candidates {
		u := candidates[i]
		if u.Status == domain.StatusInactive {
			inactive = true
		}
		if u.PasswordHash != "" && bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil {
			match = &u
			break
		}
	}

	switch {
	case match != nil && match.Status == domain.StatusInactive:
		return nil, domain.NewAPIError(domain.ErrInactiveAccount, msgInactiveUser)
	case match == nil && inactive:
		// an inactive account is reported as such whatever password was given
		return nil, domain.NewAPIError(domain.ErrInactiveAccount, msgInactiveUser)
	case match == nil:
		return nil, domain.NewAPIError(domain.ErrUserNotFound, msgUserNotFound)
	}

	a.log.Debug().Int("user_id", match.ID).Str("role", string(match.Role)).Msg("credentials accepted")

	return &ports.LoginResult{
		User:        match.Public(),
		Permissions: domain.PermissionsFor(match.Role),
	}, nil
}

func (a *MockAPI) GetUsers(ctx context.Context, params ports.GetUsersParams) (page *ports.UsersPage, err error) {
	defer a.observe("get_users", &err)
	if err := a.begin(ctx, "get_users", "Users is not fetched, something went wrong"); err != nil {
		return nil, err
	}

	all, err := a.repo.List(ctx)
	if err != nil {
		return nil, domain.AsAPIError(err)
	}

	users := all
	if params.Filter != "" {
		query, perr := url.ParseQuery(params.Filter)
		if perr != nil {
			return nil, domain.NewAPIError(domain.ErrInvalidArgument, msgInvalidQuery)
		}
		users = filterUsers(all, query)
	}

	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = defaultSortBy
	}
	sortUsers(users, sortBy, params.SortOrder == sortDesc)

	pageNum, limit := params.Page, params.Limit
	if pageNum < 1 {
		pageNum = defaultPage
	}
	if limit < 1 {
		limit = defaultPageLimit
	}

	// compare in page units so huge page numbers cannot overflow the offset
	start := len(users)
	if len(users) > 0 && pageNum-1 <= (len(users)-1)/limit {
		start = (pageNum - 1) * limit
	}
	end := start + min(limit, len(users)-start)

	out := make([]domain.User, 0, end-start)
	for _, u := range users[start:end] {
		out = append(out, u.Public())
	}
	return &ports.UsersPage{Users: out, Total: len(users)}, nil
}

func (a *MockAPI) GetUser(ctx context.Context, id int) (user *domain.User, err error) {
	defer a.observe("get_user", &err)
	if err := a.begin(ctx, "get_user", "User is not fetched, something went wrong"); err != nil {
		return nil, err
	}

	u, err := a.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	pub := u.Public()
	return &pub, nil
}

func (a *MockAPI) CreateUser(ctx context.Context, input ports.CreateUserInput) (user *domain.User, err error) {
	defer a.observe("create_user", &err)
	if err := a.begin(ctx, "create_user", "User is not created, something went wrong"); err != nil {
		return nil, err
	}

	record := domain.User{
		Name:       input.Name,
		Email:      input.Email,
		Role:       input.Role,
		Status:     domain.StatusPending,
		DateJoined: domain.FormatDateJoined(a.clock.Now()),
	}
	if input.Password != "" {
		hash, herr := bcrypt.GenerateFromPassword([]byte(input.Password), a.bcryptCost)
		if herr != nil {
			return nil, domain.AsAPIError(herr)
		}
		record.PasswordHash = string(hash)
	}

	created, err := a.repo.Create(ctx, record)
	if err != nil {
		return nil, domain.AsAPIError(err)
	}

	a.log.Info().Int("user_id", created.ID).Str("role", string(created.Role)).Msg("user created")
	pub := created.Public()
	return &pub, nil
}

func (a *MockAPI) UpdateUser(ctx context.Context, id int, input ports.UpdateUserInput) (user *domain.User, err error) {
	defer a.observe("update_user", &err)
	if err := a.begin(ctx, "update_user", "User is not updated, something went wrong"); err != nil {
		return nil, err
	}

	updated, err := a.repo.Update(ctx, id, func(u *domain.User) {
		if input.Name != nil {
			u.Name = *input.Name
		}
		if input.Email != nil {
			u.Email = *input.Email
		}
		if input.Role != nil {
			u.Role = *input.Role
		}
		if input.Status != nil {
			u.Status = *input.Status
		}
	})
	if err != nil {
		return nil, notFoundOr(err)
	}

	a.log.Info().Int("user_id", id).Msg("user updated")
	pub := updated.Public()
	return &pub, nil
}

func (a *MockAPI) DeleteUser(ctx context.Context, id int) (err error) {
	defer a.observe("delete_user", &err)
	if err := a.begin(ctx, "delete_user", "User is not deleted, something went wrong"); err != nil {
		return err
	}

	if err := a.repo.Delete(ctx, id); err != nil {
		return notFoundOr(err)
	}

	a.log.Info().Int("user_id", id).Msg("user deleted")
	return nil
}

// GetRoles pays the latency cost but has no declared failure path; the only
// possible error is context cancellation during the delay.
func (a *MockAPI) GetRoles(ctx context.Context) (roles []domain.Role, err error) {
	defer a.observe("get_roles", &err)
	if err := a.wait(ctx, "get_roles"); err != nil {
		return nil, err
	}
	out := make([]domain.Role, len(domain.Roles))
	copy(out, domain.Roles)
	return out, nil
}

// begin waits out the artificial latency, then consumes a scheduled fault if any.
func (a *MockAPI) begin(ctx context.Context, op, simulatedMsg string) error {
	if err := a.wait(ctx, op); err != nil {
		return err
	}
	if a.consumeFault() {
		a.log.Warn().Str("operation", op).Msg("simulated failure")
		return domain.NewAPIError(domain.ErrSimulatedFailure, simulatedMsg)
	}
	return nil
}

func (a *MockAPI) wait(ctx context.Context, op string) error {
	d := a.latency()
	metrics.MockAPILatency.WithLabelValues(op).Observe(d.Seconds())
	if d <= 0 {
		return ctxErr(ctx)
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctxErr(ctx)
	case <-t.C:
		return nil
	}
}

func (a *MockAPI) latency() time.Duration {
	span := a.latencyMax - a.latencyMin
	if span <= 0 {
		return a.latencyMin
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.latencyMin + time.Duration(a.rng.Int64N(int64(span)))
}

func (a *MockAPI) consumeFault() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.failNext == 0 {
		return false
	}
	a.failNext--
	metrics.MockAPIScheduledFaults.Set(float64(a.failNext))
	return true
}

func (a *MockAPI) observe(op string, errp *error) {
	metrics.MockAPIRequestsTotal.WithLabelValues(op, resultLabel(*errp)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrUserNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInactiveAccount):
		return "inactive"
	case errors.Is(err, domain.ErrSimulatedFailure):
		return "simulated"
	case errors.Is(err, domain.ErrInvalidArgument):
		return "invalid"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

func ctxErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return &domain.APIError{Kind: err, Message: "Request aborted: " + err.Error()}
	}
	return nil
}

func notFoundOr(err error) error {
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.NewAPIError(domain.ErrUserNotFound, msgUserNotFound)
	}
	return domain.AsAPIError(err)
}

// filterUsers keeps users matching every key/value pair of query. String
// fields match case-insensitively by substring, id matches exactly, and
// unknown keys (including password) never match.
func filterUsers(users []domain.User, query url.Values) []domain.User {
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		if matchesAll(u, query) {
			out = append(out, u)
		}
	}
	return out
}

func matchesAll(u domain.User, query url.Values) bool {
	for key, values := range query {
		for _, v := range values {
			if !matchField(u, key, v) {
				return false
			}
		}
	}
	return true
}

func matchField(u domain.User, key, value string) bool {
	if key == "id" {
		id, err := strconv.Atoi(value)
		return err == nil && id == u.ID
	}
	s, ok := stringField(u, key)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(value))
}

func stringField(u domain.User, key string) (string, bool) {
	switch key {
	case "name":
		return u.Name, true
	case "email":
		return u.Email, true
	case "role":
		return string(u.Role), true
	case "status":
		return string(u.Status), true
	case "dateJoined":
		return u.DateJoined, true
	}
	return "", false
}

// sortUsers orders users by field. The sort is not stable and unknown fields
// leave the order unspecified.
func sortUsers(users []domain.User, field string, desc bool) {
	less := func(a, b domain.User) bool {
		if field == "id" {
			return a.ID < b.ID
		}
		x, ok := stringField(a, field)
		if !ok {
			return false
		}
		y, _ := stringField(b, field)
		return x < y
	}
	sort.Slice(users, func(i, j int) bool {
		if desc {
			return less(users[j], users[i])
		}
		return less(users[i], users[j])
	})
}
