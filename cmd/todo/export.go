package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"tasklist/internal/task"
	"tasklist/internal/view"
)

func newExportCmd(a *app) *cli.Command {
	var (
		out    string
		filter string
	)

	return &cli.Command{
		Name:      "export",
		Usage:     "Render the task list as an HTML page",
		UsageText: "todo export [--out <file>] [--filter all|active|completed]",
		Description: `Writes the current task list, stats and placeholder row as a
standalone HTML document. Task text is escaped.

Examples:
  todo export > tasks.html
  todo export --out active.html --filter active`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output file (stdout when empty)",
				Destination: &out,
			},
			&cli.StringFlag{
				Name:        "filter",
				Aliases:     []string{"f"},
				Usage:       "which tasks to include (all, active, completed)",
				Value:       "all",
				Destination: &filter,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			f, ok := task.LookupFilter(filter)
			if !ok {
				return fmt.Errorf("unknown filter %q", filter)
			}

			page := view.Build(a.tasks.Tasks(), f, 0, false, view.LabelsFor(a.cfg.Locale))
			if out == "" {
				if err := view.RenderHTML(os.Stdout, page); err != nil {
					return err
				}
			} else {
				file, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				if err := writeExport(file, page); err != nil {
					return fmt.Errorf("write %s: %w", out, err)
				}
			}
			log.Info().Str("out", out).Str("filter", string(f)).Int("tasks", page.Stats.Total).Msg("exported")
			return nil
		},
	}
}

// writeExport renders page into w and closes it, returning the close error.
func writeExport(w io.WriteCloser, page view.Page) error {
	if err := view.RenderHTML(w, page); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
