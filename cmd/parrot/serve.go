package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/CTAG07/parrot/pkg/markov"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(configPath *string) *cli.Command {
	var addr string

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the corpus and generation HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address, overriding server_addr from the config",
				Destination: &addr,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			config, err := LoadConfig(*configPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if cmd.IsSet("addr") {
				config.Server.ServerAddr = addr
			}
			return runServer(ctx, config)
		},
	}
}

// runServer serves the API until ctx is cancelled, then shuts down gracefully.
func runServer(ctx context.Context, config *Config) error {
	logger := newLogger(os.Stdout, config.Server.LogLevel)
	logger.Info("Starting parrot", "version", Version, "commit", Commit, "build_date", BuildDate)

	db, store, err := openStore(config.Server.DatabasePath, logger.With("component", "corpus"))
	if err != nil {
		return err
	}
	defer func() {
		store.Close()
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}()

	tok := markov.NewDefaultTokenizer()
	models := NewModelCache(store, tok, time.Duration(config.Server.ModelCacheTTLSec)*time.Second, logger.With("component", "models"))
	defer models.Close()

	mux := http.NewServeMux()
	NewParrotAPI(config, store, models, tok, logger.With("component", "api")).RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:              config.Server.ServerAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", config.Server.ServerAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			logger.Error("Server failed", "error", err)
			return err
		}
	case <-ctx.Done():
		logger.Info("Signal received, initiating shutdown.")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
		return err
	}
	logger.Info("Server stopped.")
	return nil
}
