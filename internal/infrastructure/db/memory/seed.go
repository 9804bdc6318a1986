package memory

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/admin-console/internal/core/domain"
)

type seedUser struct {
	name       string
	email      string
	role       domain.Role
	status     domain.UserStatus
	dateJoined string
	password   string
}

var seedUsers = []seedUser{
	{"Emily Johnson", "emily.johnson@example.com", domain.RoleAdmin, domain.StatusActive, "2023-01-15T09:30:00.000Z", "123456"},
	{"Michael Smith", "michael.smith@example.com", domain.RoleManager, domain.StatusActive, "2023-02-20T14:10:00.000Z", "123456"},
	{"Sophia Williams", "sophia.williams@example.com", domain.RoleViewer, domain.StatusActive, "2023-03-05T11:45:00.000Z", "123456"},
	{"James Brown", "james.brown@example.com", domain.RoleManager, domain.StatusInactive, "2023-03-28T08:00:00.000Z", "123456"},
	{"Olivia Jones", "olivia.jones@example.com", domain.RoleViewer, domain.StatusPending, "2023-04-12T16:20:00.000Z", "123456"},
	{"William Garcia", "william.garcia@example.com", domain.RoleViewer, domain.StatusActive, "2023-05-01T10:05:00.000Z", "123456"},
	{"Ava Miller", "ava.miller@example.com", domain.RoleAdmin, domain.StatusInactive, "2023-05-19T13:40:00.000Z", "123456"},
	{"Benjamin Davis", "benjamin.davis@example.com", domain.RoleManager, domain.StatusPending, "2023-06-07T09:15:00.000Z", "123456"},
	{"Isabella Rodriguez", "isabella.rodriguez@example.com", domain.RoleViewer, domain.StatusActive, "2023-06-30T15:55:00.000Z", "123456"},
	{"Lucas Martinez", "lucas.martinez@example.com", domain.RoleViewer, domain.StatusActive, "2023-07-22T12:00:00.000Z", "123456"},
	{"Mia Hernandez", "mia.hernandez@example.com", domain.RoleManager, domain.StatusActive, "2023-08-14T17:25:00.000Z", "123456"},
	{"John Lopez", "john.lopez@example.com", domain.RoleViewer, domain.StatusInactive, "2023-09-03T07:50:00.000Z", "123456"},
}

// SeedUsers returns the demo user set with passwords hashed at the given bcrypt cost.
func SeedUsers(cost int) ([]domain.User, error) {
	out := make([]domain.User, 0, len(seedUsers))
	for i, s := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.password), cost)
		if err != nil {
			return nil, fmt.Errorf("seed user %s: %w", s.email, err)
		}
		out = append(out, domain.User{
			ID:           i + 1,
			Name:         s.name,
			Email:        s.email,
			Role:         s.role,
			Status:       s.status,
			DateJoined:   s.dateJoined,
			PasswordHash: string(hash),
		})
	}
	return out, nil
}
