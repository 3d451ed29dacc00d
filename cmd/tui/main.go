package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"leetstats/internal/api"
	"leetstats/internal/tui"
	"leetstats/pkg/config"
	"leetstats/pkg/logger"
)

// runFunc starts the interface for cfg, searching username first when set
type runFunc func(ctx context.Context, cfg *config.Config, username string) error

func newRootCmd(run runFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "leetstats-tui [username]",
		Short:         "Interactive LeetCode statistics widget",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := config.LoadInto(viper.New(), path)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error loading config: %v\nUsing default configuration...\n", err)
				cfg = config.Default()
			}

			var username string
			if len(args) > 0 {
				username = args[0]
			}
			return run(cmd.Context(), cfg, username)
		},
	}
	cmd.PersistentFlags().String("config", "", "config file (default: search ./leetstats.yaml, $XDG_CONFIG_HOME/leetstats/config.yaml, ~/.leetstats.yaml)")
	return cmd
}

func runTUI(ctx context.Context, cfg *config.Config, username string) error {
	// Keep log lines off the alternate screen
	if out := cfg.Logging.Output; out == "" || out == "stdout" || out == "stderr" {
		cfg.Logging.Output = config.DefaultTUILogPath()
		_ = os.MkdirAll(filepath.Dir(cfg.Logging.Output), 0755)
	}
	if err := logger.Init(cfg.Logging); err != nil {
		_ = logger.Init(logger.Config{Output: "discard"})
	}
	defer logger.Sync()

	client := api.NewClient(cfg.API.BaseURL, cfg.APIShape(), cfg.APITimeout())
	app := tui.New(ctx, cfg, client)
	if username != "" {
		app.WithUsername(username)
	}

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	logger.Info("TUI started")
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := newRootCmd(runTUI).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}
