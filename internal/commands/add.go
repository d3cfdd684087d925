package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	form taskForm
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskdeck add [--title <title>] [--description <text>] [--status <status>] [--priority <priority>] [--due <date>] [title...]"
}
func (c *AddCmd) NeedsService() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	c.form.reset()
	c.form.register(fs)
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	// Positional words form the title unless --title is given
	if len(args) > 0 {
		if c.form.title.set {
			fmt.Fprintln(errOut, "error: cannot use both --title and a positional title")
			return exitcode.UserError
		}
		c.form.title.Set(strings.Join(args, " "))
	}

	in := service.TaskInput{Status: service.StatusPending}
	parseErrs := c.form.apply(&in)
	if err := validate(in, parseErrs, true); err != nil {
		return reportError(errOut, err)
	}

	task, err := svc.CreateTask(ctx, in)
	if err != nil {
		return reportError(errOut, err)
	}

	if cfg.Quiet {
		fmt.Fprintln(out, task.ID)
	} else {
		fmt.Fprintf(out, "created task %s\n", task.ID)
	}
	return exitcode.Success
}
