package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-roster/cmd/roster/infrastructure"
	"user-roster/internal/adapter/db/gormdb"
	"user-roster/internal/adapter/db/memory"
	ginhandler "user-roster/internal/adapter/gin/handler"
	grpcadapter "user-roster/internal/adapter/grpc"
	"user-roster/internal/adapter/kv"
	"user-roster/internal/adapter/ratelimit"
	"user-roster/internal/adapter/repository/cached"
	"user-roster/internal/config"
	"user-roster/internal/usecase/user"
	redisclient "user-roster/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB            // nil for the memory driver
	RedisClient *redisclient.Client // nil unless REDIS_ENABLED
	UserUC      user.Usecase
	Store       kv.Store
	RateLimiter *ratelimit.Limiter // nil disables rate limiting
	UserHandler *ginhandler.UserHandler
	KVHandler   *ginhandler.KVHandler
	Roster      *grpcadapter.RosterServer
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{Config: cfg, Logger: l}

	var repo user.Repository
	switch cfg.DB.Driver {
	case config.DriverMemory:
		repo = memory.NewUserRepo(l)
	default:
		db, err := infrastructure.NewDatabase(cfg, l)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		c.DB = db
		repo = gormdb.NewUserRepo(db, l)
	}

	if cfg.Redis.Enabled {
		rdb, err := infrastructure.NewRedisClient(ctx, cfg, l)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		c.RedisClient = rdb
		c.Store = kv.NewRedisStore(rdb.Client, l)
		c.RateLimiter = ratelimit.New(rdb.Client, ratelimit.Config{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			WindowSeconds:     cfg.RateLimit.WindowSeconds,
			Enabled:           cfg.RateLimit.Enabled,
		}, l)
	} else {
		c.Store = kv.NewMapStore()
	}

	if c.DB != nil && c.RedisClient != nil {
		repo = cached.NewUserRepository(repo, c.RedisClient.Client,
			time.Duration(cfg.Redis.CacheTTLSeconds)*time.Second, l)
	}

	c.UserUC = user.New(repo, l)
	c.UserHandler = ginhandler.NewUserHandler(c.UserUC, l)
	c.KVHandler = ginhandler.NewKVHandler(c.Store, l)
	c.Roster = grpcadapter.NewRosterServer(c.UserUC, c.Store)

	return c, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	return errors.Join(errs...)
}
