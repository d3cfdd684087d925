package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/output"
	"taskdeck/internal/querycache"
	"taskdeck/internal/service"
)

func init() {
	Register(&CacheCmd{})
}

// cached is implemented by services backed by the query cache.
type cached interface {
	Cache() *querycache.Client
}

// CacheCmd implements the cache command.
type CacheCmd struct{}

func (c *CacheCmd) Name() string       { return "cache" }
func (c *CacheCmd) Aliases() []string  { return nil }
func (c *CacheCmd) Synopsis() string   { return "Inspect or clear the query cache" }
func (c *CacheCmd) Usage() string      { return "taskdeck cache [clear]" }
func (c *CacheCmd) NeedsService() bool { return true }

func (c *CacheCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *CacheCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	cs, ok := svc.(cached)
	if !ok {
		fmt.Fprintln(errOut, "error: query cache is not available")
		return exitcode.UserError
	}
	cache := cs.Cache()

	switch {
	case len(args) == 0:
		return c.list(cfg, cache, out, errOut)
	case len(args) == 1 && args[0] == "clear":
		n, err := cache.Clear()
		if err != nil {
			fmt.Fprintf(errOut, "error: failed to clear cache: %v\n", err)
			return exitcode.BackendError
		}
		if !cfg.Quiet {
			fmt.Fprintf(out, "removed %d entries\n", n)
		}
		return exitcode.Success
	default:
		fmt.Fprintf(errOut, "error: unknown cache action: %s\n", args[0])
		return exitcode.UserError
	}
}

func (c *CacheCmd) list(cfg *config.Config, cache *querycache.Client, out, errOut io.Writer) int {
	entries, err := cache.Entries()
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to read cache: %v\n", err)
		return exitcode.BackendError
	}
	if len(entries) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "cache is empty")
		}
		return exitcode.Success
	}

	now := Now()
	for _, e := range entries {
		fmt.Fprintf(out, "%-12s %-40s %s\n", e.State, e.Key, output.FormatRelativeTime(e.UpdatedAt, now))
	}
	return exitcode.Success
}
