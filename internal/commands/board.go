package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/output"
	"taskdeck/internal/service"
)

func init() {
	Register(&BoardCmd{})
}

// BoardCmd implements the board command: one section per status, each
// loaded with its own by-status query.
type BoardCmd struct{}

func (c *BoardCmd) Name() string       { return "board" }
func (c *BoardCmd) Aliases() []string  { return nil }
func (c *BoardCmd) Synopsis() string   { return "Show tasks grouped by status" }
func (c *BoardCmd) Usage() string      { return "taskdeck board" }
func (c *BoardCmd) NeedsService() bool { return true }

func (c *BoardCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *BoardCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	columns := make([][]service.Task, len(service.Statuses))
	g, gctx := errgroup.WithContext(ctx)
	for i, status := range service.Statuses {
		i, status := i, status
		g.Go(func() error {
			tasks, err := svc.TasksByStatus(gctx, status)
			if err != nil {
				return err
			}
			columns[i] = tasks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return reportError(errOut, err)
	}

	for i, status := range service.Statuses {
		if i > 0 {
			fmt.Fprintln(out)
		}
		output.FormatSectionHeader(out, fmt.Sprintf("%s (%d)", status.Label(), len(columns[i])))
		if len(columns[i]) == 0 && !cfg.Quiet {
			fmt.Fprintln(out, "    (none)")
		}
		for _, task := range columns[i] {
			output.FormatTaskIndented(out, task)
		}
	}
	return exitcode.Success
}
