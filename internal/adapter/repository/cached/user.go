package cached

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	domain "user-roster/internal/domain/user"
	"user-roster/internal/usecase/user"
)

const keyPrefix = "user:name:"

// UserRepository implements user.Repository with a Redis read-through
// cache for GetByName. A name always resolves to its lowest-ID user, so a
// later Create never changes a cached answer; entries expire after ttl.
type UserRepository struct {
	dbRepo user.Repository
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
	group  singleflight.Group
}

// NewUserRepository wraps dbRepo with a cache in client.
func NewUserRepository(dbRepo user.Repository, client *redis.Client, ttl time.Duration, log *zap.Logger) *UserRepository {
	return &UserRepository{
		dbRepo: dbRepo,
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// Create delegates to the DB repository.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (int64, error) {
	return r.dbRepo.Create(ctx, u)
}

// List delegates to the DB repository.
func (r *UserRepository) List(ctx context.Context, query string) ([]domain.User, error) {
	return r.dbRepo.List(ctx, query)
}

// GetByName serves from cache when possible. Concurrent misses for the same
// name share one database query. Misses are not cached.
func (r *UserRepository) GetByName(ctx context.Context, name string) (*domain.User, error) {
	if u, err := r.get(ctx, name); err != nil {
		r.log.Warn("cache get error, falling back to database", zap.String("name", name), zap.Error(err))
	} else if u != nil {
		r.log.Debug("user retrieved from cache", zap.String("name", name))
		return u, nil
	}

	result, err, _ := r.group.Do(name, func() (any, error) {
		u, err := r.dbRepo.GetByName(ctx, name)
		if err != nil || u == nil {
			return u, err
		}

		if err := r.set(ctx, u); err != nil {
			r.log.Warn("failed to cache user", zap.String("name", name), zap.Error(err))
		}
		return u, nil
	})
	if err != nil {
		return nil, err
	}

	u, _ := result.(*domain.User)
	if u == nil {
		return nil, nil
	}
	// singleflight hands the same pointer to every waiter
	return clone(u), nil
}

func clone(u *domain.User) *domain.User {
	cp := *u
	if u.Email != nil {
		e := *u.Email
		cp.Email = &e
	}
	return &cp
}

func (r *UserRepository) get(ctx context.Context, name string) (*domain.User, error) {
	data, err := r.client.Get(ctx, keyPrefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var u domain.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("decode cached user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) set(ctx context.Context, u *domain.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+u.Name, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
