package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillhq/quill/internal/openapi"
)

func newOpenAPICmd() *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI document for the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc := openapi.Generate(baseURL)
			out, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal document: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "Server URL to embed in the document")

	return cmd
}
