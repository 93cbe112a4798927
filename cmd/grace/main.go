package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sandeepkv93/grace/internal/assistant"
	"github.com/sandeepkv93/grace/internal/config"
	"github.com/sandeepkv93/grace/internal/logging"
	"github.com/sandeepkv93/grace/internal/scheduler"
	"github.com/sandeepkv93/grace/internal/session"
	"github.com/sandeepkv93/grace/internal/storage"
	"github.com/sandeepkv93/grace/internal/update"
)

var version = "dev"

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "grace",
	Short:         "GRaCe, a task assistant panel for the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPanel(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.GetDefaultConfigPath(), "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "grace failed: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(logging.Options{
		File:    cfg.Log.File,
		Level:   cfg.Log.Level,
		Verbose: verbose,
	})
}

func runPanel(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	repo, err := storage.OpenSQLite(cfg.History.DSN)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer repo.Close()

	engine := scheduler.NewEngine(cfg.Scheduler.Buffer)
	engine.Start()
	defer engine.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	state := session.New(session.Options{
		History: repo,
		Metrics: cfg.InitialMetrics(),
	})

	var notifier update.DesktopNotifier = update.NoopDesktopNotifier{}
	if cfg.Notifications.Desktop {
		notifier = update.ExecDesktopNotifier{}
	}

	model := update.NewModel(update.Options{
		Context:   ctx,
		State:     state,
		Responder: assistant.NewMockResponder(cfg.ResponseDelay()),
		Scheduler: engine,
		Notifier:  notifier,
		Logger:    logger,
		Config:    runtimeConfig(cfg),
	})

	logger.Info("panel starting", zap.String("version", version), zap.String("history", cfg.History.DSN))
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	logger.Info("panel closed")
	return nil
}

func runtimeConfig(cfg *config.Config) update.RuntimeConfig {
	rc := update.DefaultRuntimeConfig()
	rc.ResponseDelay = cfg.ResponseDelay()
	rc.ConfirmationDelay = cfg.ConfirmationDelay()
	rc.CelebrationDelay = cfg.CelebrationDelay()
	rc.DesktopNotifications = cfg.Notifications.Desktop
	rc.ReminderNotifications = cfg.Notifications.Reminders
	rc.AchievementNotifications = cfg.Notifications.Achievements
	rc.Animations = cfg.UI.Animations
	rc.Compact = cfg.UI.Compact
	rc.Expanded = cfg.UI.Expanded
	rc.ExportDir = cfg.Export.Dir
	rc.Version = version
	return rc
}
