package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"syscall"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"user-roster/cmd/roster/di"
	"user-roster/cmd/roster/server"
	"user-roster/internal/adapter/db/memory"
	"user-roster/internal/adapter/seed"
	"user-roster/internal/config"
	"user-roster/internal/usecase/demo"
	"user-roster/internal/usecase/user"
	"user-roster/pkg/logger"
)

// App represents the application
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Container *di.Container
}

// RunOptions override the DEMO_* settings for one run. Empty fields keep
// the configured value.
type RunOptions struct {
	InputFile string
	SeedFile  string
	LookupKey string
}

// New loads configuration from configPath and builds the application.
func New(ctx context.Context, configPath string) (*App, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := initLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return NewWithLogger(ctx, cfg, l)
}

// NewWithLogger builds the application from an already loaded config.
func NewWithLogger(ctx context.Context, cfg *config.Config, l *zap.Logger) (*App, error) {
	container, err := di.NewContainer(ctx, cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	return &App{
		Config:    cfg,
		Logger:    l,
		Container: container,
	}, nil
}

// RunDemo seeds the roster, prints the names, opens the input file and
// prints the lookup result to out. The roster lives for this call only, so
// repeated or failed runs never see each other's users whatever DB_DRIVER
// says; the configured database backs serve.
func (a *App) RunDemo(ctx context.Context, fs afero.Fs, out io.Writer, opts RunOptions) error {
	opts = a.withDefaults(opts)

	s, err := seed.Load(fs, opts.SeedFile)
	if err != nil {
		return err
	}

	roster := user.New(memory.NewUserRepo(a.Logger), a.Logger)
	runner := demo.NewRunner(roster, a.Container.Store, fs, out, a.Logger)
	return runner.Run(ctx, demo.Options{
		InputFile: opts.InputFile,
		LookupKey: opts.LookupKey,
		Seed:      s,
	})
}

// Serve seeds from seedFile when set, then serves REST and gRPC until ctx
// is canceled.
func (a *App) Serve(ctx context.Context, fs afero.Fs, seedFile string) error {
	if seedFile != "" {
		s, err := seed.Load(fs, seedFile)
		if err != nil {
			return err
		}
		if err := demo.Seed(ctx, a.Container.UserUC, a.Container.Store, s); err != nil {
			return err
		}
	}

	a.Logger.Info("starting application",
		zap.String("service", a.Config.Logger.ServiceName),
		zap.String("version", a.Config.Logger.ServiceVersion),
		zap.String("environment", a.Config.App.Environment),
		zap.String("db_driver", a.Config.DB.Driver),
		zap.Bool("redis", a.Config.Redis.Enabled),
	)

	return server.New(a.Config, a.Logger, a.Container).Run(ctx)
}

// Close releases the container's resources and flushes the logger.
func (a *App) Close() error {
	var errs []error

	if err := a.Container.Close(); err != nil {
		errs = append(errs, fmt.Errorf("container close: %w", err))
	}

	// stderr and stdout cannot be synced on most terminals
	if err := a.Logger.Sync(); err != nil && !errors.Is(err, syscall.EINVAL) && !errors.Is(err, syscall.ENOTTY) {
		errs = append(errs, fmt.Errorf("logger sync: %w", err))
	}

	return errors.Join(errs...)
}

func (a *App) withDefaults(opts RunOptions) RunOptions {
	if opts.InputFile == "" {
		opts.InputFile = a.Config.Demo.InputFile
	}
	if opts.SeedFile == "" {
		opts.SeedFile = a.Config.Demo.SeedFile
	}
	if opts.LookupKey == "" {
		opts.LookupKey = a.Config.Demo.LookupKey
	}
	return opts
}

// initLogger initializes the application logger
func initLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.NewWithConfig(logger.Config{
		Level:          cfg.Logger.Level,
		Format:         cfg.Logger.Format,
		OutputPath:     cfg.Logger.OutputPath,
		EnableSampling: cfg.Logger.EnableSampling,
		ServiceName:    cfg.Logger.ServiceName,
		ServiceVersion: cfg.Logger.ServiceVersion,
		Environment:    cfg.App.Environment,
		MaxSizeMB:      cfg.Logger.MaxSizeMB,
		MaxBackups:     cfg.Logger.MaxBackups,
		MaxAgeDays:     cfg.Logger.MaxAgeDays,
	})
}
