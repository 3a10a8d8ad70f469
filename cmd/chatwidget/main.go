package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jask/chatwidget/internal/client"
	"github.com/jask/chatwidget/internal/config"
	"github.com/jask/chatwidget/internal/logging"
	"github.com/jask/chatwidget/internal/tui"
)

type rootFlags struct {
	configPath string
	endpoint   string
	logLevel   string
	open       bool
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: .env: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags rootFlags
	root := &cobra.Command{
		Use:          "chatwidget",
		Short:        "Terminal chat widget for the resume assistant",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.configPath != "" {
				os.Setenv("CHATWIDGET_CONFIG", flags.configPath)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), flags)
		},
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/chatwidget/config.toml)")
	root.PersistentFlags().StringVar(&flags.endpoint, "endpoint", "", "backend base url, overrides endpoint.base_url")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level, overrides log.level")
	root.Flags().BoolVar(&flags.open, "open", false, "open the chat panel on start")

	root.AddCommand(newSendCmd(&flags), newConfigCmd())
	return root
}

func loadConfig(flags rootFlags) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("config: %w", err)
	}
	if flags.endpoint != "" {
		cfg.Endpoint.BaseURL = strings.TrimSpace(flags.endpoint)
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.open {
		cfg.Chat.OpenOnStart = true
	}
	return cfg, nil
}

func runTUI(ctx context.Context, flags rootFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	log, closer, err := logging.Open(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer closer.Close()

	c, err := client.New(cfg.Endpoint, nil, log)
	if err != nil {
		return err
	}
	app, err := tui.New(ctx, cfg, tui.Services{Chat: c, Analyze: c}, log)
	if err != nil {
		return err
	}

	log.Info().Str("endpoint", cfg.Endpoint.BaseURL).Str("ordering", cfg.Chat.Ordering).Msg("start")
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
