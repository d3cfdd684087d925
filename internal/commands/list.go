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
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `taskdeck` (no args) and `taskdeck list [--status S] [--search T]`.
type ListCmd struct {
	status string
	search string
}

// SetFilters sets the status and search filters (for testing).
func (c *ListCmd) SetFilters(status, search string) {
	c.status = status
	c.search = search
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "taskdeck list [--status <status>] [--search <text>]"
}
func (c *ListCmd) NeedsService() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.status, "status", "", "")
	fs.StringVar(&c.status, "s", "", "")
	fs.StringVar(&c.search, "search", "", "")
	fs.StringVar(&c.search, "q", "", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	// "all" and empty both mean no status filter
	var status service.Status
	if s := strings.TrimSpace(c.status); s != "" && !strings.EqualFold(s, "all") {
		parsed, err := service.ParseStatus(s)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		status = parsed
	}

	tasks, err := svc.ListTasks(ctx)
	if err != nil {
		return reportError(errOut, err)
	}

	filtered := FilterTasks(tasks, status, c.search)
	if len(filtered) == 0 {
		if !cfg.Quiet {
			output.FormatEmptyState(out, len(tasks) > 0)
		}
		return exitcode.Success
	}

	now := Now()
	if !cfg.Quiet {
		output.FormatStats(out, filtered)
		fmt.Fprintln(out)
	}
	for i, task := range filtered {
		if i > 0 {
			fmt.Fprintln(out)
		}
		output.FormatTaskCard(out, task, now)
	}
	return exitcode.Success
}

// FilterTasks keeps tasks with the given status (any when empty) whose title
// or description contains search, ignoring case.
func FilterTasks(tasks []service.Task, status service.Status, search string) []service.Task {
	search = strings.ToLower(strings.TrimSpace(search))
	var result []service.Task
	for _, t := range tasks {
		if status != "" && t.Status != status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Title), search) &&
			!strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		result = append(result, t)
	}
	return result
}
