// Package demo runs the roster walkthrough: seed users, print their names,
// open the input file, then look a key up in the key/value store.
package demo

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"user-roster/internal/adapter/kv"
	"user-roster/internal/adapter/seed"
	domain "user-roster/internal/domain/user"
	"user-roster/internal/usecase/user"
	apperrors "user-roster/pkg/errors"
)

// Options selects the inputs of one run.
type Options struct {
	InputFile string // opened for reading before the lookup
	LookupKey string
	Seed      seed.File
}

// Runner wires the walkthrough to its collaborators.
type Runner struct {
	users user.Usecase
	store kv.Store
	fs    afero.Fs
	out   io.Writer
	log   *zap.Logger
}

// NewRunner creates a Runner printing to out.
func NewRunner(users user.Usecase, store kv.Store, fs afero.Fs, out io.Writer, log *zap.Logger) *Runner {
	return &Runner{users: users, store: store, fs: fs, out: out, log: log}
}

// Run executes the walkthrough. If the input file cannot be opened, Run
// returns an InternalError after the names are printed and before the
// lookup line.
func (r *Runner) Run(ctx context.Context, opts Options) error {
	if err := seedUsers(ctx, r.users, opts.Seed.Users); err != nil {
		return err
	}

	names, err := r.users.ListNames(ctx, user.ListNamesRequest{})
	if err != nil {
		return fmt.Errorf("listing names: %w", err)
	}
	for _, name := range names.Names {
		if _, err := fmt.Fprintln(r.out, name); err != nil {
			return err
		}
	}

	f, err := r.fs.Open(opts.InputFile)
	if err != nil {
		r.log.Error("failed to open input file", zap.String("path", opts.InputFile), zap.Error(err))
		return apperrors.NewInternalError(fmt.Sprintf("failed to open %s", opts.InputFile), err)
	}
	defer f.Close()
	r.log.Debug("input file opened", zap.String("path", opts.InputFile))

	if err := kv.SetAll(ctx, r.store, opts.Seed.Entries); err != nil {
		return fmt.Errorf("filling store: %w", err)
	}

	value, found, err := r.store.Get(ctx, opts.LookupKey)
	if err != nil {
		return fmt.Errorf("looking up %q: %w", opts.LookupKey, err)
	}
	_, err = fmt.Fprintln(r.out, kv.FormatLookup(value, found))
	return err
}

// Seed creates the users of f and stores its entries.
func Seed(ctx context.Context, users user.Usecase, store kv.Store, f seed.File) error {
	if err := seedUsers(ctx, users, f.Users); err != nil {
		return err
	}
	if err := kv.SetAll(ctx, store, f.Entries); err != nil {
		return fmt.Errorf("filling store: %w", err)
	}
	return nil
}

func seedUsers(ctx context.Context, users user.Usecase, list []domain.User) error {
	for _, u := range list {
		if _, err := users.CreateUser(ctx, user.CreateUserRequest{Name: u.Name, Age: u.Age, Email: u.Email}); err != nil {
			return fmt.Errorf("seeding %q: %w", u.Name, err)
		}
	}
	return nil
}
