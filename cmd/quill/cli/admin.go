package cli

import (
	"crypto/subtle"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin credential helpers",
	}

	cmd.AddCommand(newAdminHashPasswordCmd())

	return cmd
}

func newAdminHashPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Generate a bcrypt hash for the admin password",
		Long: `Prompt for a password and print its bcrypt hash. Set the hash as
QUILL_AUTH_ADMIN_PASSWORD so the plaintext never appears in the environment
or config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHashPassword()
		},
	}
	return cmd
}

func runHashPassword() error {
	fmt.Fprint(os.Stderr, "Password: ")
	pwBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	if len(pwBytes) == 0 {
		return fmt.Errorf("password must not be empty")
	}

	fmt.Fprint(os.Stderr, "Confirm:  ")
	confirmBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("read confirmation: %w", err)
	}
	if subtle.ConstantTimeCompare(pwBytes, confirmBytes) != 1 {
		return fmt.Errorf("passwords do not match")
	}

	hash, err := bcrypt.GenerateFromPassword(pwBytes, bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	fmt.Println(string(hash))
	return nil
}
