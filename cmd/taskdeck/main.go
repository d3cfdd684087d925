// Package main is the entry point for the taskdeck CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-kratos/kratos/v2/log"

	"taskdeck/internal/backend/restapi"
	"taskdeck/internal/cli"
	"taskdeck/internal/commands"
	"taskdeck/internal/config"
	"taskdeck/internal/querycache"
	"taskdeck/internal/service"
	"taskdeck/internal/taskquery"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, newService)
	dispatcher.SetInput(os.Stdin)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// newService builds the REST client wrapped in the query cache. With
// --no-cache every read goes to the backend, but mutations still invalidate
// the stored queries.
func newService(ctx context.Context, cfg *config.Config, logger log.Logger) (service.Service, error) {
	backend, err := restapi.New(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	store := querycache.OpenStore(cfg.CacheScopeDir(), cfg.CacheTTL, logger)
	cache := querycache.NewClient(store, querycache.WithLogger(logger))
	return taskquery.New(backend, cache, taskquery.Options{
		ListStaleTime: cfg.StaleTime,
		Retry:         cfg.Retry,
		BypassReads:   cfg.NoCache,
	}), nil
}
