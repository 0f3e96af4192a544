package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quillhq/quill/internal/server"
	"github.com/quillhq/quill/internal/service"
	"github.com/quillhq/quill/internal/store"
)

const banner = `
  ____        _ _ _
 / __ \ _   _(_) | |
| |  | | | | | | | |
| |__| | |_| | | | |
 \___\_\\__,_|_|_|_|
`

func newServeCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the HTTP server that exposes the blog and project APIs.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8000, "HTTP listen port")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "HTTP listen host")

	viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", cmd.Flags().Lookup("host"))

	return cmd
}

func runServe() error {
	fmt.Print(banner)
	fmt.Println()

	// Missing credentials or signing secret abort here, before anything
	// listens. They are never per-request errors.
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Logging.Level)

	st, err := store.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("init content store: %w", err)
	}
	logger.Info("content store initialized", "dsn", cfg.Database.DSN)

	if cfg.Database.Seed {
		if err := st.Seed(context.Background()); err != nil {
			st.Close()
			return fmt.Errorf("seed content store: %w", err)
		}
	}

	authSvc := service.NewAuthService(
		cfg.Auth.AdminUsername, cfg.Auth.AdminPassword, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	challenge := service.NewTurnstileVerifier(cfg.Auth.TurnstileSecret)
	if challenge.Enabled() {
		logger.Info("login challenge verification enabled")
	}

	srv := server.New(cfg, st, authSvc, challenge, logger)

	fmt.Printf("→ Listening on http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("→ Health:  http://%s:%d/healthz\n", cfg.Server.Host, cfg.Server.Port)
	if cfg.Docs.Path != "" {
		fmt.Printf("→ OpenAPI: http://%s:%d%s\n", cfg.Server.Host, cfg.Server.Port, cfg.Docs.Path)
	}
	fmt.Println()

	return srv.ListenAndServe()
}

func newLogger(level string) *slog.Logger {
	logLevel := slog.LevelInfo
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
