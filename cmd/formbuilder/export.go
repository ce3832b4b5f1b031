package main

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/openapi"
)

func newExportCommand(a *app) *cobra.Command {
	var (
		layout string
		opts   openapi.ExportOptions
		copyIt bool
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the OpenAPI contract of a layout's submission",
		Example: `  formbuilder export --layout product.yaml
  formbuilder export --layout product.yaml --copy`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			_, generated, err := a.generatedLayout(ctx, layout)
			if err != nil {
				return err
			}
			body, err := openapi.ExportJSON(ctx, generated, opts)
			if err != nil {
				return err
			}

			if copyIt {
				if err := clipboard.WriteAll(string(body)); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "✓ OpenAPI contract copied to clipboard")
			}
			if output != "" {
				return os.WriteFile(output, body, 0o644)
			}
			if !copyIt {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(body))
			}
			return err
		},
	}
	cmd.Flags().StringVar(&layout, "layout", "", "layout YAML to replay")
	cmd.Flags().StringVar(&opts.Title, "title", "", "document title")
	cmd.Flags().StringVar(&opts.Version, "version", "", "document version")
	cmd.Flags().StringVar(&opts.Path, "path", "", "submission path")
	cmd.Flags().StringVar(&opts.OperationID, "operation", "", "submission operation id")
	cmd.Flags().BoolVar(&copyIt, "copy", false, "copy the contract to the clipboard instead of printing it")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	return cmd
}
