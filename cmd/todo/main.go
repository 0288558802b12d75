package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fentz26/todo/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	cfgFile string
	cfg     *config.Config
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "todo",
	Short: "todo - a terminal task list",
	Long: `todo manages a task list kept by a remote todo service.

Run without a subcommand to open the interactive list.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
	RunE: runTUI,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/todo/config.yaml)")
	pf.String("backend", config.DefaultBackendURL, "todo service address (env BACKEND_URL)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-file", "", "write logs to this file (the TUI discards logs otherwise)")

	_ = v.BindPFlag(config.KeyBackendURL, pf.Lookup("backend"))
	_ = v.BindPFlag(config.KeyLogLevel, pf.Lookup("log-level"))
	_ = v.BindPFlag(config.KeyLogFile, pf.Lookup("log-file"))

	rootCmd.Flags().StringVar(&tuiFilter, "filter", "all", "initial filter: all, complete, incomplete")

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(rmCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
