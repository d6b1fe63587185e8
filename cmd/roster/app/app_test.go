package app

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"user-roster/internal/config"
	"user-roster/internal/usecase/user"
	apperrors "user-roster/pkg/errors"
)

func newTestApp(t *testing.T, mutate func(*config.Config)) *App {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)
	if mutate != nil {
		mutate(cfg)
	}

	a, err := NewWithLogger(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Container.Close() })
	return a
}

func TestRunDemo_Defaults(t *testing.T) {
	a := newTestApp(t, nil)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "test.txt", []byte("x"), 0o644))

	var out bytes.Buffer
	err := a.RunDemo(context.Background(), fs, &out, RunOptions{})

	require.NoError(t, err)
	assert.Equal(t, "John\nJane\nFound: value1\n", out.String())
}

func TestRunDemo_MissingInputFile(t *testing.T) {
	a := newTestApp(t, nil)

	var out bytes.Buffer
	err := a.RunDemo(context.Background(), afero.NewMemMapFs(), &out, RunOptions{})

	var iErr *apperrors.InternalError
	require.ErrorAs(t, err, &iErr)
	assert.Equal(t, "John\nJane\n", out.String())
}

func TestRunDemo_Overrides(t *testing.T) {
	a := newTestApp(t, nil)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "other.txt", nil, 0o644))
	require.NoError(t, afero.WriteFile(fs, "seed.yaml", []byte(`
users:
  - name: Ada
    age: 36
    email: ada@example.com
entries:
  color: blue
`), 0o644))

	var out bytes.Buffer
	err := a.RunDemo(context.Background(), fs, &out, RunOptions{
		InputFile: "other.txt",
		SeedFile:  "seed.yaml",
		LookupKey: "color",
	})

	require.NoError(t, err)
	assert.Equal(t, "Ada\nFound: blue\n", out.String())
}

func TestRunDemo_ConfiguredKey(t *testing.T) {
	a := newTestApp(t, func(c *config.Config) { c.Demo.LookupKey = "key3" })
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "test.txt", nil, 0o644))

	var out bytes.Buffer
	require.NoError(t, a.RunDemo(context.Background(), fs, &out, RunOptions{}))
	assert.Equal(t, "John\nJane\nNot found\n", out.String())
}

func TestRunDemo_SQLite(t *testing.T) {
	a := newTestApp(t, func(c *config.Config) {
		c.DB.Driver = config.DriverSQLite
		c.DB.Path = ":memory:"
	})
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "test.txt", nil, 0o644))

	var out bytes.Buffer
	require.NoError(t, a.RunDemo(context.Background(), fs, &out, RunOptions{}))
	assert.Equal(t, "John\nJane\nFound: value1\n", out.String())
}

func TestRunDemo_RepeatedRunsOnSQLiteFile(t *testing.T) {
	a := newTestApp(t, func(c *config.Config) {
		c.DB.Driver = config.DriverSQLite
		c.DB.Path = filepath.Join(t.TempDir(), "roster.db")
	})
	ctx := context.Background()

	// a failed run must not leave users behind either
	var failed bytes.Buffer
	require.Error(t, a.RunDemo(ctx, afero.NewMemMapFs(), &failed, RunOptions{}))
	assert.Equal(t, "John\nJane\n", failed.String())

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "test.txt", nil, 0o644))
	for i := 0; i < 2; i++ {
		var out bytes.Buffer
		require.NoError(t, a.RunDemo(ctx, fs, &out, RunOptions{}))
		assert.Equal(t, "John\nJane\nFound: value1\n", out.String(), "run %d", i+1)
	}

	names, err := a.Container.UserUC.ListNames(ctx, user.ListNamesRequest{})
	require.NoError(t, err)
	assert.Empty(t, names.Names, "the configured database is left untouched")
}

func TestNewWithLogger_InvalidConfig(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)
	cfg.DB.Driver = "mongo"

	_, err = NewWithLogger(context.Background(), cfg, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "config validation failed")
}
