package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quillhq/quill/internal/store"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Content store maintenance",
	}

	cmd.AddCommand(newDBSeedCmd())
	cmd.AddCommand(newDBResetCmd())
	cmd.AddCommand(newDBPingCmd())

	return cmd
}

func newDBSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert starter content if the store is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Seed(context.Background()); err != nil {
				return err
			}
			fmt.Println("seed complete")
			return nil
		},
	}
}

func newDBResetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all content and re-insert starter data",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete all content without --yes")
			}
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			ctx := context.Background()
			if err := st.Reset(ctx); err != nil {
				return err
			}
			if err := st.Seed(ctx); err != nil {
				return err
			}
			fmt.Println("reset complete")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion of all content")

	return cmd
}

func newDBPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the content store is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := st.Ping(ctx); err != nil {
				return fmt.Errorf("store unreachable: %w", err)
			}
			fmt.Println("ok")
			return nil
		},
	}
}

// openStore opens the content store from the effective configuration. Unlike
// serve, db subcommands don't require the auth settings to be present.
func openStore() (*store.Store, error) {
	cfg, err := loadConfigLenient()
	if err != nil {
		return nil, err
	}
	return store.Open(cfg.Database.DSN)
}
