// Package main is the entry point for the todos CLI.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"todos/internal/backend/googletasks"
	"todos/internal/cli"
	"todos/internal/commands"
	"todos/internal/config"
	"todos/internal/storage"
	"todos/internal/tasklist"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, openStore)

	// Run and exit with code
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	os.Exit(code)
}

// openStore loads the task list from the configured backend.
func openStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (*tasklist.Store, error) {
	adapter, err := openAdapter(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return tasklist.New(ctx, adapter, tasklist.WithLogger(logger)), nil
}

func openAdapter(ctx context.Context, cfg *config.Config, logger *log.Logger) (tasklist.Adapter, error) {
	switch cfg.Backend {
	case config.BackendGoogleTasks:
		if !cfg.HasOAuthClient() {
			return nil, errors.New("googletasks backend needs " + config.OAuthClientFile + " (run: todos login)")
		}
		if !cfg.HasToken() {
			return nil, errors.New("not logged in (run: todos login)")
		}
		return googletasks.New(ctx, cfg, storage.StorageKey, googletasks.WithLogger(logger))
	default:
		backend := storage.NewFileBackend(cfg.DataDir)
		return storage.NewSlot(backend, storage.WithLogger(logger)), nil
	}
}
