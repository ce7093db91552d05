package memory

import (
	"context"
	"sync"

	"github.com/migeprof/stakeholder-mapping/internal/core/domain"
)

// SeedUsers are the accounts the directory starts with.
func SeedUsers() []*domain.User {
	return []*domain.User{
		{ID: "1", Username: "admin", Email: "admin@migeprof.gov.rw", Role: domain.RoleAdmin, Status: domain.StatusActive},
		{ID: "2", Username: "stakeholder1", Email: "stakeholder@ngo.org", Role: domain.RoleStakeholder, Status: domain.StatusActive},
		{ID: "3", Username: "focal1", Email: "focal@migeprof.gov.rw", Role: domain.RoleSubClusterFocalPerson, Status: domain.StatusActive},
	}
}

// UserDirectory keeps users in memory in insertion order.
type UserDirectory struct {
	mu    sync.RWMutex
	users []*domain.User
}

// NewUserDirectory returns a directory holding copies of users.
func NewUserDirectory(users []*domain.User) *UserDirectory {
	d := &UserDirectory{users: make([]*domain.User, 0, len(users))}
	for _, u := range users {
		d.users = append(d.users, u.Clone())
	}
	return d
}

func (d *UserDirectory) FindByIdentifier(_ context.Context, identifier string) (*domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, u := range d.users {
		if u.Email == identifier {
			return u.Clone(), nil
		}
	}
	for _, u := range d.users {
		if u.Username == identifier {
			return u.Clone(), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (d *UserDirectory) FindByID(_ context.Context, id string) (*domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if u := d.byID(id); u != nil {
		return u.Clone(), nil
	}
	return nil, domain.ErrUserNotFound
}

func (d *UserDirectory) List(_ context.Context) ([]*domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]*domain.User, 0, len(d.users))
	for _, u := range d.users {
		out = append(out, u.Clone())
	}
	return out, nil
}

func (d *UserDirectory) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, u := range d.users {
		if u.ID == user.ID || u.Email == user.Email || u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	d.users = append(d.users, user.Clone())
	return user.Clone(), nil
}

func (d *UserDirectory) ToggleStatus(_ context.Context, id string) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	u := d.byID(id)
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	u.Status = u.Status.Toggled()
	return u.Clone(), nil
}

// byID expects d.mu to be held.
func (d *UserDirectory) byID(id string) *domain.User {
	for _, u := range d.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}
