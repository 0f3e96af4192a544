package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const configTemplate = `# Quill configuration. Every key can also be set through the environment
# with the QUILL_ prefix, e.g. QUILL_SERVER_PORT=9000.
server:
  host: 0.0.0.0
  port: 8000
  # Comma-separated list of allowed browser origins.
  cors_origins: "http://localhost:5173,http://localhost,http://127.0.0.1"
  shutdown_timeout: 10s

database:
  # SQLite file path, or a postgres:// / mysql:// URL.
  dsn: quill.db
  # Insert starter content on boot when the store is empty.
  seed: true

auth:
  admin_username: admin
  # Plaintext or a bcrypt hash from "quill admin hash-password".
  admin_password: ""
  jwt_secret: ""
  token_ttl: 24h
  # Leave empty to disable the Turnstile login challenge.
  turnstile_secret: ""

docs:
  # Path where the OpenAPI document is served. Empty disables it.
  path: ""

logging:
  level: info
`

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter quill.yaml in the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "quill.yaml"
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				}
			}
			if err := os.WriteFile(path, []byte(configTemplate), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigLenient()
			if err != nil {
				return err
			}

			// Secrets are redacted; show only whether they are set.
			redacted := *cfg
			redacted.Auth.AdminPassword = redactSecret(cfg.Auth.AdminPassword)
			redacted.Auth.JWTSecret = redactSecret(cfg.Auth.JWTSecret)
			redacted.Auth.TurnstileSecret = redactSecret(cfg.Auth.TurnstileSecret)

			out, err := yaml.Marshal(redacted)
			if err != nil {
				return err
			}
			fmt.Print(string(out))
			return nil
		},
	}
}

func redactSecret(s string) string {
	if s == "" {
		return ""
	}
	return "<set>"
}
