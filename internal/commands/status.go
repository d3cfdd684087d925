package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/output"
	"taskdeck/internal/service"
)

func init() {
	Register(&StatusCmd{})
}

// StatusCmd implements the status command: tasks in one status, as the
// backend filters them.
type StatusCmd struct{}

func (c *StatusCmd) Name() string       { return "status" }
func (c *StatusCmd) Aliases() []string  { return nil }
func (c *StatusCmd) Synopsis() string   { return "List tasks with a status" }
func (c *StatusCmd) Usage() string      { return "taskdeck status <status>" }
func (c *StatusCmd) NeedsService() bool { return true }

func (c *StatusCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StatusCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	raw := strings.TrimSpace(strings.Join(args, " "))
	if raw == "" {
		fmt.Fprintln(errOut, "error: status required")
		return exitcode.UserError
	}
	status, err := service.ParseStatus(raw)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	tasks, err := svc.TasksByStatus(ctx, status)
	if err != nil {
		return reportError(errOut, err)
	}

	if len(tasks) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "No tasks found")
		}
		return exitcode.Success
	}
	for _, task := range tasks {
		output.FormatTask(out, task)
	}
	return exitcode.Success
}
