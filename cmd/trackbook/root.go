package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/BearBump/trackbook/config"
	"github.com/BearBump/trackbook/internal/platform"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// cli: общее состояние команд: флаги, конфиг и собранное приложение.
type cli struct {
	f factories

	configPath string
	envFile    string
	logLevel   string
	backend    string
	yes        bool

	cfg *config.Config
	app *app

	confirm func() platform.Confirmer
}

func rootCmd(f factories) *cobra.Command {
	return newCLI(f).command()
}

func newCLI(f factories) *cli {
	return &cli{
		f:       f,
		confirm: platform.StdinPrompt,
	}
}

func (c *cli) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "trackbook",
		Short:         "Package tracking list and phone contact list",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Config file path (YAML), defaults to $configPath")
	cmd.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "Dotenv file loaded before reading the environment")
	cmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&c.backend, "storage", "", "Storage backend override (memory, file, redis, postgres)")

	cmd.AddCommand(c.serveCmd(), c.shipmentsCmd(), c.contactsCmd())
	return cmd
}

func (c *cli) setup(cmd *cobra.Command) error {
	if c.envFile != "" {
		if err := godotenv.Load(c.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", c.envFile, err)
		}
	}

	setupLogging(cmd.ErrOrStderr(), c.logLevel)

	path := c.configPath
	if path == "" {
		path = os.Getenv("configPath")
	}
	cfg := &config.Config{}
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return fmt.Errorf("ошибка парсинга конфига, %w", err)
		}
		cfg = loaded
	}
	if c.backend != "" {
		cfg.Storage.Backend = c.backend
	}
	if v := os.Getenv("TRACKBOOK_STORAGE_FILE"); v != "" && cfg.Storage.FilePath == "" {
		cfg.Storage.FilePath = v
	}
	c.cfg = cfg

	a, err := bootstrap(cmd.Context(), cfg, c.f)
	if err != nil {
		return err
	}
	c.app = a
	return nil
}

func setupLogging(w io.Writer, level string) {
	lvl := slog.LevelWarn
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
}

// run закрывает приложение после команды, в том числе при ошибке.
func (c *cli) run(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer func() {
			if c.app != nil {
				c.app.Close()
			}
		}()
		return fn(cmd, args)
	}
}

// confirmer: --yes отвечает "да" без вопроса, иначе спрашиваем в терминале.
func (c *cli) confirmer() platform.Confirmer {
	if c.yes {
		return platform.Always(true)
	}
	return c.confirm()
}

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web UI, JSON API and gRPC health server",
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			err := runServe(ctx, serveOpts{
				grpcAddr: c.cfg.Trackbook.GRPCAddr,
				httpAddr: c.cfg.Trackbook.HTTPAddr,
				loc:      loadLocation(c.cfg.Trackbook.Timezone),
			}, c.app)
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		}),
	}
}
