// siteseer is a crowd-sourced landmark photo collection and classification
// tool: it uploads collected photos, classifies images against a fixed set
// of landmark classes, and keeps leaderboards for collectors and sites.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/siteseer/siteseer/internal/common"
	"github.com/siteseer/siteseer/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "siteseer",
		Short: "Landmark photo collection and classification",
		Long: `siteseer collects labeled landmark photographs, classifies images against
a fixed set of landmark classes, and keeps leaderboards for collectors and
sites.`,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/siteseer/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (console, json)")

	rootCmd.AddCommand(classifyCmd())
	rootCmd.AddCommand(collectCmd())
	rootCmd.AddCommand(leaderboardCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(sweepCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(versionCmd())
}

func initConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		loaded.Logging.Level = level
	}
	if format, _ := cmd.Flags().GetString("log-format"); format != "" {
		loaded.Logging.Format = format
	}

	if err := common.SetupLogger(parseLevel(loaded.Logging.Level), loaded.Logging.Format); err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	cfg = loaded
	return nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var userErr *common.UserError
		if errors.As(err, &userErr) {
			fmt.Fprintln(os.Stderr, userErr.UserMessage)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
