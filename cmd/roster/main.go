package main

import (
	"context"
	"os"

	"github.com/alecthomas/kong"
	"github.com/spf13/afero"

	"user-roster/cmd/roster/app"
	"user-roster/cmd/roster/server"
)

var version = "dev"

// Globals are flags shared by every command.
type Globals struct {
	Config  string           `help:"Directory containing app.env." default:"." env:"CONFIG_PATH" placeholder:"DIR"`
	Version kong.VersionFlag `help:"Print version and exit."`
}

// RunCmd runs the roster walkthrough and prints its output to stdout.
type RunCmd struct {
	Input string `help:"File to open before the lookup (DEMO_INPUT_FILE)." placeholder:"FILE"`
	Seed  string `help:"YAML file with users and entries (DEMO_SEED_FILE)." placeholder:"FILE"`
	Key   string `help:"Key to look up (DEMO_LOOKUP_KEY)." placeholder:"KEY"`
}

func (c *RunCmd) Run(ctx context.Context, g *Globals) error {
	a, err := app.New(ctx, g.Config)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.RunDemo(ctx, afero.NewOsFs(), os.Stdout, app.RunOptions{
		InputFile: c.Input,
		SeedFile:  c.Seed,
		LookupKey: c.Key,
	})
}

// ServeCmd exposes the roster over REST and gRPC.
type ServeCmd struct {
	Seed string `help:"YAML file with users and entries to load at startup." placeholder:"FILE"`
}

func (c *ServeCmd) Run(ctx context.Context, g *Globals) error {
	a, err := app.New(ctx, g.Config)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Serve(ctx, afero.NewOsFs(), c.Seed)
}

type cli struct {
	Globals

	Run   RunCmd   `cmd:"" default:"withargs" help:"Print the roster names and look a key up (default)."`
	Serve ServeCmd `cmd:"" help:"Serve the roster over REST and gRPC."`
}

func main() {
	ctx, stop := server.WithSignal(context.Background())
	defer stop()

	var c cli
	kctx := kong.Parse(&c,
		kong.Name("roster"),
		kong.Description("A small user roster with a key/value lookup."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	err := kctx.Run(&c.Globals)
	stop()
	kctx.FatalIfErrorf(err)
}
