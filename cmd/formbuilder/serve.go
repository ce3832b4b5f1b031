package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/internal/server"
	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/render"
	htmlrenderer "github.com/goliatone/go-formbuilder/pkg/renderers/html"
	"github.com/goliatone/go-formbuilder/pkg/submission"
	"github.com/goliatone/go-formbuilder/pkg/taxonomy"
)

func newServeCommand(a *app) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the form builder HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port != "" {
				a.cfg.Port = port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := taxonomy.OpenLocalStore(ctx, a.cfg.LocalStorePath)
			if err != nil {
				return err
			}
			defer store.Close()

			client := taxonomy.NewClient(
				taxonomy.WithBaseURL(a.cfg.TaxonomyBaseURL),
				taxonomy.WithTimeout(a.cfg.TaxonomyTimeout),
				taxonomy.WithLogger(a.logger),
			)
			refresher := taxonomy.NewRefresher(client,
				taxonomy.WithFallback(store),
				taxonomy.WithRefresherLogger(a.logger),
			)

			html, err := htmlrenderer.New(htmlrenderer.WithTheme(a.cfg.Theme, a.cfg.ThemeVariant))
			if err != nil {
				return err
			}
			renderers, err := render.NewRegistry(html)
			if err != nil {
				return err
			}

			srv, err := server.New(
				server.WithLogger(a.logger),
				server.WithFactory(a.factory()),
				server.WithRenderers(renderers),
				server.WithSubmitter(submission.NewSubmitter(submission.WithLogger(a.logger))),
				server.WithTaxonomy(refresher),
				server.WithSessionOptions(builder.WithGenerateDelay(a.cfg.GenerateDelay)),
			)
			if err != nil {
				return err
			}
			a.logger.WithField("taxonomy", client.BaseURL()).Info("taxonomy client ready")
			return srv.Run(ctx, a.cfg.Addr())
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "port to listen on (overrides FORMBUILDER_PORT)")
	return cmd
}
