package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/render"
	htmlrenderer "github.com/goliatone/go-formbuilder/pkg/renderers/html"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
)

func newRenderCommand(a *app) *cobra.Command {
	var (
		layout   string
		surface  string
		renderer string
		output   string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a layout as HTML (or a text outline)",
		Example: `  formbuilder render --layout product.yaml
  formbuilder render --layout product.yaml --surface fill --output form.html
  formbuilder render --layout product.yaml --renderer tui`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			parsed, err := render.ParseSurface(surface)
			if err != nil {
				return err
			}

			html, err := htmlrenderer.New(htmlrenderer.WithTheme(a.cfg.Theme, a.cfg.ThemeVariant))
			if err != nil {
				return err
			}
			outline, err := tui.New()
			if err != nil {
				return err
			}
			registry, err := render.NewRegistry(html, outline)
			if err != nil {
				return err
			}

			s, generated, err := a.generatedLayout(ctx, layout)
			if err != nil {
				return err
			}
			t := generated
			if parsed == render.SurfacePreview {
				if err := s.Edit(ctx); err != nil {
					return err
				}
				t = s.Tree()
			}

			body, _, err := registry.Render(ctx, renderer, t, render.RenderOptions{Surface: parsed})
			if err != nil {
				return err
			}
			if output != "" {
				if err := os.WriteFile(output, body, 0o644); err != nil {
					return err
				}
				a.logger.WithField("output", output).Info("form written")
				return nil
			}
			_, err = cmd.OutOrStdout().Write(append(body, '\n'))
			return err
		},
	}
	cmd.Flags().StringVar(&layout, "layout", "", "layout YAML to replay")
	cmd.Flags().StringVar(&surface, "surface", "preview", "preview or fill")
	cmd.Flags().StringVar(&renderer, "renderer", "html", "renderer to use (html, tui)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}
