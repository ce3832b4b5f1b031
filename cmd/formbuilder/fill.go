package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/formdata"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
	"github.com/goliatone/go-formbuilder/pkg/submission"
)

func newFillCommand(a *app) *cobra.Command {
	var (
		layout   string
		attempts int
		pretty   bool
	)
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill a layout's form in the terminal and submit it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			_, generated, err := a.generatedLayout(ctx, layout)
			if err != nil {
				return err
			}

			format := tui.OutputFormatJSON
			if pretty {
				format = tui.OutputFormatPrettyText
			}
			store := formdata.NewStore()
			renderer, err := tui.New(
				tui.WithPromptDriver(tui.NewSurveyDriver(os.Stderr)),
				tui.WithOutputFormat(format),
				tui.WithStore(store),
			)
			if err != nil {
				return err
			}
			submitter := submission.NewSubmitter(
				submission.WithLogger(a.logger),
				submission.WithSink(submission.NewLogSink(a.logger)),
			)
			return fillLoop(ctx, renderer, submitter, generated, store, attempts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&layout, "layout", "", "layout YAML to replay")
	cmd.Flags().IntVar(&attempts, "attempts", 3, "prompt again this many times while validation fails")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "print the answers as text instead of JSON")
	return cmd
}

// fillLoop prompts for the form until it submits cleanly, feeding the last
// violations back to the renderer on every retry.
func fillLoop(ctx context.Context, r render.Renderer, sub *submission.Submitter, tree model.Tree, store *formdata.Store, attempts int, out io.Writer) error {
	if attempts < 1 {
		attempts = 1
	}
	var errs map[string][]string
	for attempt := 1; ; attempt++ {
		body, err := r.Render(ctx, tree, render.RenderOptions{
			Surface: render.SurfaceFill,
			Values:  store.Snapshot(),
			Errors:  errs,
		})
		if err != nil {
			return err
		}

		_, err = sub.Submit(ctx, tree, store)
		var validation *submission.ValidationError
		switch {
		case err == nil:
			_, err = fmt.Fprintln(out, string(body))
			return err
		case errors.As(err, &validation) && attempt < attempts:
			errs = validation.FieldErrors()
		default:
			return err
		}
	}
}
