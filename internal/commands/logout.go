package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/querycache"
	"taskdeck/internal/service"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd implements the logout command. Besides the token it drops the
// cached query results, which belong to the logged-out account.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string       { return "logout" }
func (c *LogoutCmd) Aliases() []string  { return nil }
func (c *LogoutCmd) Synopsis() string   { return "Remove stored credentials and cached tasks" }
func (c *LogoutCmd) Usage() string      { return "taskdeck logout [common flags]" }
func (c *LogoutCmd) NeedsService() bool { return false }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if err := clearCache(cfg); err != nil {
		fmt.Fprintf(errOut, "error: failed to clear cache: %v\n", err)
		return exitcode.BackendError
	}

	if !cfg.HasToken() {
		if !cfg.Quiet {
			fmt.Fprintln(out, "not logged in")
		}
		return exitcode.Success
	}

	if err := cfg.RemoveToken(); err != nil {
		fmt.Fprintf(errOut, "error: failed to remove token: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// clearCache empties the on-disk query cache of the configured backend if
// there is one.
func clearCache(cfg *config.Config) error {
	dir := cfg.CacheScopeDir()
	if dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	cache := querycache.NewClient(querycache.OpenStore(dir, cfg.CacheTTL, nil))
	defer cache.Close()
	_, err := cache.Clear()
	return err
}
