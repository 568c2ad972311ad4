// Package main runs the in-memory development backend.
package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"

	"taskhub/internal/devserver"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	srv := devserver.New(logger)
	logger.Info("taskhubd listening", "addr", *addr)
	if err := http.ListenAndServe(*addr, srv.Handler()); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
