package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"tasklist/internal/config"
	"tasklist/internal/logging"
	"tasklist/internal/storage"
	"tasklist/internal/task"
	"tasklist/internal/ui"
)

var version = "dev"

type flags struct {
	ConfigPath string
	LogLevel   string
	LogFile    string
}

// app is populated by the Before hook and shared with every command.
type app struct {
	cfg   config.Config
	store *storage.Store
	tasks *task.Controller
}

func main() {
	var (
		f         flags
		a         app
		logCloser func()
	)

	root := &cli.Command{
		Name:    "todo",
		Usage:   "Keep a prioritized task list in your terminal",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TASKLIST_CONFIG"),
				Value:       config.ResolveConfigPath(),
				Destination: &f.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Sources:     cli.EnvVars("TASKLIST_LOG_LEVEL"),
				Value:       "info",
				Destination: &f.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to tasklist.log next to the database)",
				Sources:     cli.EnvVars("TASKLIST_LOG_FILE"),
				Destination: &f.LogFile,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			cfg, err := config.LoadOrCreate(f.ConfigPath)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}

			logFile := f.LogFile
			if logFile == "" {
				logFile = filepath.Join(filepath.Dir(cfg.DBPath), "tasklist.log")
			}
			logger, closer, err := logging.New(f.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			store, err := storage.Open(cfg.DBPath)
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			a = app{cfg: cfg, store: store}
			ctrl := task.NewController(store, cfg.StorageKey)
			if err := ctrl.Initialize(ctx); err != nil {
				return ctx, err
			}
			a.tasks = ctrl
			log.Debug().Str("db", cfg.DBPath).Str("config", f.ConfigPath).Msg("started")
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if a.store != nil {
				if err := a.store.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() > 0 {
				return fmt.Errorf("unknown command %q. Run 'todo --help' for usage", c.Args().First())
			}
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return fmt.Errorf("stdout is not a terminal. Use 'todo export' to write the list as HTML")
			}
			return ui.Run(ctx, a.tasks, a.cfg)
		},
		Commands: []*cli.Command{
			newExportCmd(&a),
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
}
