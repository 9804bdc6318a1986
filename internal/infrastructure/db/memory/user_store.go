package memory

import (
	"context"
	"sync"

	"github.com/99minutos/admin-console/internal/core/domain"
)

// UserStore is the in-memory Mock Data Store. Records keep insertion order.
type UserStore struct {
	mu    sync.RWMutex
	users []domain.User
}

// NewUserStore returns a store holding copies of the given records.
func NewUserStore(users []domain.User) *UserStore {
	s := &UserStore{users: make([]domain.User, len(users))}
	copy(s.users, users)
	return s
}

func (s *UserStore) List(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, len(s.users))
	copy(out, s.users)
	return out, nil
}

func (s *UserStore) FindByID(_ context.Context, id int) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, domain.ErrUserNotFound
	}
	u := s.users[i]
	return &u, nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.User
	for _, u := range s.users {
		if u.Email == email {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *UserStore) Create(_ context.Context, user domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = s.maxID() + 1
	s.users = append(s.users, user)
	return &user, nil
}

func (s *UserStore) Update(_ context.Context, id int, mutate func(*domain.User)) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, domain.ErrUserNotFound
	}
	updated := s.users[i]
	mutate(&updated)
	// identity and credentials are not writable through Update
	updated.ID = s.users[i].ID
	updated.DateJoined = s.users[i].DateJoined
	updated.PasswordHash = s.users[i].PasswordHash
	s.users[i] = updated
	return &updated, nil
}

func (s *UserStore) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return domain.ErrUserNotFound
	}
	s.users = append(s.users[:i], s.users[i+1:]...)
	return nil
}

func (s *UserStore) indexOf(id int) int {
	for i, u := range s.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func (s *UserStore) maxID() int {
	highest := 0
	for _, u := range s.users {
		if u.ID > highest {
			highest = u.ID
		}
	}
	return highest
}
