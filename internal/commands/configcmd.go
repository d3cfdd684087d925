package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
)

func init() {
	Register(&ConfigCmd{})
}

// ConfigCmd prints the effective settings after config.yaml and environment
// overrides are applied.
type ConfigCmd struct{}

func (c *ConfigCmd) Name() string       { return "config" }
func (c *ConfigCmd) Aliases() []string  { return nil }
func (c *ConfigCmd) Synopsis() string   { return "Print the effective configuration" }
func (c *ConfigCmd) Usage() string      { return "taskdeck config [common flags]" }
func (c *ConfigCmd) NeedsService() bool { return false }

func (c *ConfigCmd) RegisterFlags(fs *flag.FlagSet) {}

// configView is Settings with durations rendered the way config.yaml takes them.
type configView struct {
	ConfigDir  string `yaml:"config_dir"`
	BaseURL    string `yaml:"base_url"`
	Timeout    string `yaml:"timeout"`
	StaleTime  string `yaml:"stale_time"`
	Retry      int    `yaml:"retry"`
	CacheDir   string `yaml:"cache_dir"`
	CacheTTL   string `yaml:"cache_ttl"`
	OAuthScope string `yaml:"oauth_scope"`
	LoggedIn   bool   `yaml:"logged_in"`
}

func (c *ConfigCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	view := configView{
		ConfigDir:  cfg.Dir,
		BaseURL:    cfg.BaseURL,
		Timeout:    cfg.Timeout.String(),
		StaleTime:  cfg.StaleTime.String(),
		Retry:      cfg.Retry,
		CacheDir:   cfg.CacheDir,
		CacheTTL:   cfg.CacheTTL.String(),
		OAuthScope: cfg.OAuthScope,
		LoggedIn:   cfg.HasToken(),
	}

	data, err := yaml.Marshal(view)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	out.Write(data)
	return exitcode.Success
}
