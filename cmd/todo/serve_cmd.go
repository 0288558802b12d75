package main

import (
	"context"
	"os"
	"time"

	"github.com/fentz26/todo/internal/audit"
	"github.com/fentz26/todo/internal/config"
	"github.com/fentz26/todo/internal/logging"
	"github.com/fentz26/todo/internal/server"
	"github.com/fentz26/todo/internal/store"
	"github.com/spf13/cobra"
)

// shutdownTimeout bounds graceful shutdown of the dev backend.
const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local todo service backed by SQLite",
	Long: `Starts a development todo service that speaks the same HTTP API the
client uses. Point the client at it with --backend or BACKEND_URL.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("listen", config.DefaultListenAddr, "listen address for the API server")
	serveCmd.Flags().String("db", "", "path to SQLite database (default $XDG_CONFIG_HOME/todo/todo.db)")
	_ = v.BindPFlag(config.KeyListenAddr, serveCmd.Flags().Lookup("listen"))
	_ = v.BindPFlag(config.KeyDBPath, serveCmd.Flags().Lookup("db"))
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := logging.New(os.Stderr, cfg.LogLevel)

	s, err := store.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer s.Close()
	logger.Info("opened database", "path", cfg.DBPath)

	service := server.NewService(s, audit.NewRecorder(s, logger))
	srv := server.NewServer(service, cfg.ListenAddr,
		server.WithLogger(logger),
		server.WithVersion(version),
	)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	select {
	case <-cmd.Context().Done():
		logger.Info("shutting down")
	case err := <-serverErr:
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		return err
	}
	logger.Info("stopped")
	return nil
}
