package memory

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"user-roster/internal/domain/user"
)

// UserRepo is an ordered, process-local user repository. IDs start at 1.
type UserRepo struct {
	mu    sync.RWMutex
	users []user.User
	log   *zap.Logger
}

// NewUserRepo creates an empty UserRepo.
func NewUserRepo(log *zap.Logger) *UserRepo {
	return &UserRepo{log: log}
}

// Create appends u and returns its position-based ID.
func (r *UserRepo) Create(_ context.Context, u *user.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users = append(r.users, clone(*u))
	id := int64(len(r.users))

	r.log.Debug("user stored in memory", zap.Int64("id", id), zap.String("name", u.Name))
	return id, nil
}

// List returns users whose name contains query, ignoring case.
func (r *UserRepo) List(_ context.Context, query string) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	out := make([]user.User, 0, len(r.users))
	for _, u := range r.users {
		if q == "" || strings.Contains(strings.ToLower(u.Name), q) {
			out = append(out, clone(u))
		}
	}
	return out, nil
}

// GetByName returns the earliest user named name, or nil.
func (r *UserRepo) GetByName(_ context.Context, name string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Name == name {
			c := clone(u)
			return &c, nil
		}
	}
	return nil, nil
}

// clone copies the email so callers cannot mutate stored users.
func clone(u user.User) user.User {
	if u.Email != nil {
		e := *u.Email
		u.Email = &e
	}
	return u
}
