// Package main is the entry point for the taskhub CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"taskhub/internal/backend/taskapi"
	"taskhub/internal/cli"
	"taskhub/internal/commands"
	"taskhub/internal/config"
	"taskhub/internal/service"
	"taskhub/internal/session"
)

func main() {
	// Create context that cancels on interrupt; in-flight requests are
	// bound to it and die with it.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	factory := func(ctx context.Context, cfg *config.Config, sess *session.Store) (service.Service, error) {
		return taskapi.New(cfg, sess)
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)
	os.Exit(dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}
