package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command. Fields not given on the command line
// keep their current values.
type EditCmd struct {
	form taskForm
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"update"} }
func (c *EditCmd) Synopsis() string  { return "Edit a task" }
func (c *EditCmd) Usage() string {
	return "taskdeck edit [--title <title>] [--description <text>] [--status <status>] [--priority <priority>] [--due <date>] <id>"
}
func (c *EditCmd) NeedsService() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.form.reset()
	c.form.register(fs)
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		return reportArgError(errOut, err)
	}

	current, err := svc.GetTask(ctx, id)
	if err != nil {
		return reportTaskError(errOut, id, err)
	}

	in := current.Input()
	parseErrs := c.form.apply(&in)
	if err := validate(in, parseErrs, c.form.due.set); err != nil {
		return reportError(errOut, err)
	}

	if _, err := svc.UpdateTask(ctx, id, in); err != nil {
		return reportTaskError(errOut, id, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
