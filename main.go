package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"adventune/makesite/builder"
	"adventune/makesite/markdown"
)

// SiteFlags locate the site and tune the build. Shared by all commands.
type SiteFlags struct {
	SiteDir  string `name:"site-dir" short:"C" help:"Site root directory" default:"." env:"MAKESITE_SITE_DIR" type:"existingdir"`
	Output   string `short:"o" help:"Output directory, relative to the site root" default:"_site" env:"MAKESITE_OUTPUT"`
	Params   string `help:"Parameters file (JSON, or YAML by extension)" default:"params.json" env:"MAKESITE_PARAMS"`
	Markdown string `help:"Markdown engine" enum:"goldmark,gomarkdown" default:"goldmark" env:"MAKESITE_MARKDOWN"`
	Workers  int    `help:"Files read in parallel (0 = one per CPU)" default:"0" env:"MAKESITE_WORKERS"`
}

func (f SiteFlags) config() (builder.Config, error) {
	md, err := markdown.New(f.Markdown)
	if err != nil {
		return builder.Config{}, err
	}
	cfg := builder.DefaultConfig(f.SiteDir)
	cfg.OutputDir = f.Output
	cfg.ParamsFile = f.Params
	cfg.Markdown = md
	cfg.Workers = f.Workers
	cfg.Logger = log.Logger
	return cfg, nil
}

type BuildCmd struct {
	SiteFlags
}

func (c *BuildCmd) Run(ctx context.Context) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	return builder.New(cfg).Build(ctx)
}

type WatchCmd struct {
	SiteFlags
	Interval time.Duration `help:"Polling interval" default:"100ms" env:"MAKESITE_INTERVAL"`
}

func (c *WatchCmd) Run(ctx context.Context) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	log.Info().Msg("Watching for changes, press Ctrl+C to stop")
	return builder.New(cfg).Watch(ctx, c.Interval)
}

var cli struct {
	Debug  bool `help:"Sets log level to debug" env:"MAKESITE_DEBUG"`
	Pretty bool `help:"Human readable console logs"`

	Build BuildCmd `cmd:"" default:"withargs" help:"Build the site once"`
	Watch WatchCmd `cmd:"" help:"Build the site and rebuild on every change"`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("makesite"),
		kong.Description("Make a static website and blog from markdown and HTML content."),
		kong.UsageOnError(),
	)

	// Logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cli.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cli.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Debug().Msg("Debug logging has been enabled")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kctx.BindTo(ctx, (*context.Context)(nil))
	if err := kctx.Run(); err != nil {
		stop()
		log.Fatal().Err(err).Str("command", kctx.Command()).Msg("Failed")
	}
}
