package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/quillhq/quill/internal/service"
)

func newTokenCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token locally",
		Long: `Verify the admin password interactively and print a bearer token,
useful for scripting against a running server without going through the
login endpoint.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToken(username)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Admin username (default: configured admin)")

	return cmd
}

func runToken(username string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if username == "" {
		username = cfg.Auth.AdminUsername
	}

	fmt.Fprintf(os.Stderr, "Password for %s: ", username)
	pwBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	authSvc := service.NewAuthService(
		cfg.Auth.AdminUsername, cfg.Auth.AdminPassword, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if !authSvc.VerifyCredentials(username, string(pwBytes)) {
		return service.ErrInvalidCredentials
	}

	token, err := authSvc.IssueToken(username)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "Token valid for %s\n", cfg.Auth.TokenTTL)
	return nil
}
