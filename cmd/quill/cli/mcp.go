package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/quillhq/quill/internal/mcp"
	"github.com/quillhq/quill/internal/store"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve site content over the Model Context Protocol",
		Long: `Expose published posts and projects to MCP clients over stdio.
Logs go to stderr so stdout stays clean for the protocol stream.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP()
		},
	}
	return cmd
}

func runMCP() error {
	cfg, err := loadConfigLenient()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	st, err := store.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("init content store: %w", err)
	}
	defer st.Close()

	srv := mcp.NewContentServer(st, logger)
	return srv.ServeStdio()
}
