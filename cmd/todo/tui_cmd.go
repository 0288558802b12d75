package main

import (
	"fmt"

	"github.com/fentz26/todo/internal/api"
	"github.com/fentz26/todo/internal/logging"
	"github.com/fentz26/todo/internal/models"
	"github.com/fentz26/todo/internal/tui"
	"github.com/spf13/cobra"
)

var tuiFilter string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive TUI",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiFilter, "filter", "all", "initial filter: all, complete, incomplete")
}

func runTUI(cmd *cobra.Command, args []string) error {
	filter, err := models.ParseFilter(tuiFilter)
	if err != nil {
		return err
	}

	// The alternate screen owns the terminal, so logs only go to a file.
	logger, closeLog, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	client := api.NewClient(cfg.BackendURL, api.WithLogger(logger))
	logger.Info("starting tui", "backend", client.BaseURL(), "filter", filter)

	app := tui.New(cmd.Context(), tui.Options{
		Store:      client,
		BackendURL: cfg.BackendURL,
		Filter:     filter,
		Logger:     logger,
	})
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
