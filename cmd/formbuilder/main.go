// Command formbuilder drives builder sessions from the terminal: it lists
// the component palette, replays YAML layouts into a session, renders and
// exports the resulting form, fills it interactively and serves the HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/internal/config"
	"github.com/goliatone/go-formbuilder/pkg/factory"
	"github.com/goliatone/go-formbuilder/pkg/palette"
)

var version = "dev"

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	cfg     config.Config
	logger  *logrus.Logger
	palette *palette.Palette

	envFile     string
	paletteFile string
}

func (a *app) setup(*cobra.Command, []string) error {
	var files []string
	if a.envFile != "" {
		files = append(files, a.envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = cfg.NewLogger()
	a.logger.SetOutput(os.Stderr)

	a.palette = palette.Default()
	if a.paletteFile != "" {
		data, err := os.ReadFile(a.paletteFile)
		if err != nil {
			return fmt.Errorf("read palette: %w", err)
		}
		p, err := palette.Parse(data, a.paletteFile)
		if err != nil {
			return err
		}
		a.palette = p
	}
	return nil
}

func (a *app) factory() *factory.Factory {
	return factory.New(factory.WithPalette(a.palette))
}

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:               "formbuilder",
		Short:             "Compose product forms from a component palette",
		Long:              `formbuilder composes product-catalog forms from a palette of components, renders them as HTML, exports their OpenAPI contract and fills them in the terminal.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVar(&a.envFile, "env", "", "dotenv file to load (default .env)")
	root.PersistentFlags().StringVar(&a.paletteFile, "palette", "", "palette YAML to use instead of the bundled one")

	root.AddCommand(
		newPaletteCommand(a),
		newRenderCommand(a),
		newExportCommand(a),
		newFillCommand(a),
		newServeCommand(a),
		newLintCommand(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print the formbuilder version",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "formbuilder %s\n", version)
			},
		},
	)
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
