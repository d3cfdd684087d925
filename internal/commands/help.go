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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "taskdeck help" }
func (c *HelpCmd) NeedsService() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands:")
	for _, cmd := range DefaultRegistry.All() {
		name := cmd.Name()
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			name += ", " + strings.Join(aliases, ", ")
		}
		fmt.Fprintf(out, "  %-16s %s\n", name, cmd.Synopsis())
	}
	return exitcode.Success
}

const helpText = `Usage:
  taskdeck                                          List all tasks
  taskdeck list [common flags] [--status <status>] [--search <text>]
  taskdeck show [common flags] <id>
  taskdeck add [common flags] [task flags] [title...]
  taskdeck create [common flags] [task flags] [title...]
  taskdeck edit [common flags] [task flags] <id>
  taskdeck done [common flags] <id>
  taskdeck rm [common flags] [--yes] <id>
  taskdeck delete [common flags] [--yes] <id>
  taskdeck status [common flags] <status>
  taskdeck search [common flags] <keyword...>
  taskdeck board [common flags]
  taskdeck cache [common flags] [clear]
  taskdeck config [common flags]
  taskdeck login [common flags] [--token <token>]
  taskdeck logout [common flags]
  taskdeck help
  taskdeck version

Task flags:
  --title, -t <title>           Task title (required, at most 200 characters)
  --description, -d <text>      Description (at most 1000 characters)
  --status, -s <status>         PENDING, IN_PROGRESS, COMPLETED or CANCELLED
  --priority, -p <priority>     LOW, MEDIUM or HIGH
  --due <date>                  Due date, e.g. 2025-01-31 or 2025-01-31T17:00:00

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
  --no-cache       Bypass the query cache

Configuration (config.yaml in the config directory, or TASKDECK_* variables):
  base_url      API root (default http://localhost:8080/api)
  timeout       Per-request timeout (default 5s)
  stale_time    How long the task list is served from cache (default 5m)
  retry         Retries for failed reads (default 1)
  cache_dir     Query cache directory
  cache_ttl     How long unused cache entries are kept (default 24h)
  oauth_scope   Scope requested by login (default tasks)
`
