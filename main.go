package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quizbr/quizbot/bot"
	"github.com/quizbr/quizbot/config"
	"github.com/quizbr/quizbot/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "quizbot",
		Short: "Telegram bot that dispatches scheduled quiz polls and keeps score",
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", envDefault("CONFIG_PATH", "config.yaml"), "path to YAML config")

	cmd.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Start the bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configPath)
		},
	})
	return cmd
}

func run(ctx context.Context, configPath string) error {
	// Local development keeps secrets in .env; absence is fine.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer st.Close()

	b, err := bot.New(cfg, st, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize bot: %w", err)
	}
	logger.Info("bot initialized",
		zap.String("storage", cfg.Storage.Driver), zap.Int64("group_chat", cfg.GroupChatID))

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := b.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	logger.Info("shutting down")
	return nil
}

func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Storage.Driver {
	case "sqlite":
		return store.NewSQLite(cfg.Storage.Path)
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Storage.Redis.Addr,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
		return store.NewRedis(client), nil
	case "memory":
		return store.NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
