package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/shohag/countboard/internal/api"
	"github.com/shohag/countboard/internal/client"
	"github.com/shohag/countboard/internal/config"
	"github.com/shohag/countboard/internal/page"
	"github.com/shohag/countboard/internal/storage"
	"github.com/shohag/countboard/internal/web"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	apiURL     string
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "countboard",
		Short: "Countboard: a shared counter and message board",
	}

	flags := &globalFlags{}
	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flags.apiURL, "api-url", "", "API base URL (overrides client.base_url)")

	rootCmd.AddCommand(serveCmd(flags))
	rootCmd.AddCommand(migrateCmd(flags))
	rootCmd.AddCommand(healthCmd(flags))
	rootCmd.AddCommand(counterCmd(flags))
	rootCmd.AddCommand(messagesCmd(flags))
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func serveCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server and the browser page",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			log := setupLogger(cfg.Logging)

			store, err := setupStorage(cfg.Storage, log)
			if err != nil {
				return fmt.Errorf("failed to setup storage: %w", err)
			}
			defer store.Close()

			if err := store.Migrate(context.Background()); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			log.Info().Msg("database migrations completed")

			server := api.NewServer(cfg.Server, store, log)

			if cfg.Web.Enabled {
				backend, err := setupBackend(cfg, flags.apiURL, store, log)
				if err != nil {
					return err
				}
				pg := page.New(backend, log.With().Str("component", "page").Logger())
				server.MountPage(cfg.Web.Path, web.NewHandler(pg, cfg.Web.Path, log).Register)
				log.Info().Str("path", cfg.Web.Path).Str("mode", cfg.Web.Mode).Msg("browser page enabled")
			}

			go func() {
				if err := server.Start(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("server error")
				}
			}()

			log.Info().
				Str("version", version).
				Int("port", cfg.Server.Port).
				Str("storage", cfg.Storage.Driver).
				Msg("Countboard is running")

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			log.Info().Msg("shutting down...")

			if err := server.Shutdown(10 * time.Second); err != nil {
				log.Error().Err(err).Msg("server shutdown error")
			}

			log.Info().Msg("Countboard stopped")
			return nil
		},
	}
}

func migrateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			log := setupLogger(cfg.Logging)

			store, err := setupStorage(cfg.Storage, log)
			if err != nil {
				return fmt.Errorf("failed to setup storage: %w", err)
			}
			defer store.Close()

			if err := store.Migrate(context.Background()); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			log.Info().Msg("migrations completed successfully")
			return nil
		},
	}
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "countboard.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteDefault(path); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}

	cmd.AddCommand(initCmd)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Countboard v%s\n", version)
		},
	}
}

func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func setupStorage(cfg config.StorageConfig, log zerolog.Logger) (storage.Storage, error) {
	switch cfg.Driver {
	case "sqlite":
		log.Info().Str("path", cfg.SQLite.Path).Msg("using SQLite storage")
		return storage.NewSQLite(cfg.SQLite.Path)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

func setupBackend(cfg *config.Config, apiURL string, store storage.Storage, log zerolog.Logger) (page.Backend, error) {
	switch cfg.Web.Mode {
	case config.WebModeLocal:
		return page.NewStoreBackend(store), nil
	case config.WebModeRemote:
		return newClient(cfg, apiURL, log), nil
	default:
		return nil, fmt.Errorf("unsupported web mode: %s", cfg.Web.Mode)
	}
}

func newClient(cfg *config.Config, apiURL string, log zerolog.Logger) *client.Client {
	baseURL := cfg.Client.BaseURL
	if apiURL != "" {
		baseURL = apiURL
	}
	return client.New(baseURL,
		client.WithTimeout(cfg.Client.Timeout),
		client.WithLogger(log.With().Str("component", "client").Logger()),
	)
}
