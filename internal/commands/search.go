package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/output"
	"taskdeck/internal/service"
	"taskdeck/internal/taskquery"
)

func init() {
	Register(&SearchCmd{})
}

// SearchCmd implements the search command (server-side keyword search).
type SearchCmd struct{}

func (c *SearchCmd) Name() string       { return "search" }
func (c *SearchCmd) Aliases() []string  { return []string{"find"} }
func (c *SearchCmd) Synopsis() string   { return "Search tasks by keyword" }
func (c *SearchCmd) Usage() string      { return "taskdeck search <keyword...>" }
func (c *SearchCmd) NeedsService() bool { return true }

func (c *SearchCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *SearchCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	keyword := strings.TrimSpace(strings.Join(args, " "))
	if keyword == "" {
		fmt.Fprintln(errOut, "error: keyword required")
		return exitcode.UserError
	}
	if utf8.RuneCountInString(keyword) < taskquery.MinSearchLength {
		fmt.Fprintf(errOut, "error: keyword must be at least %d characters\n", taskquery.MinSearchLength)
		return exitcode.UserError
	}

	tasks, err := svc.SearchTasks(ctx, keyword)
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
