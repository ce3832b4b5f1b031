// Package formbuilder is the top-level entry point: it re-exports the types
// most callers need and wires a session, an HTML renderer and a submitter
// with their defaults.
package formbuilder

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/formdata"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	htmlrenderer "github.com/goliatone/go-formbuilder/pkg/renderers/html"
	"github.com/goliatone/go-formbuilder/pkg/submission"
)

// Session is the builder state machine. Alias of builder.Session.
type Session = builder.Session

// Tree is an ordered list of top-level components.
type Tree = model.Tree

// RenderOptions describes per-request values and errors for renderers.
type RenderOptions = render.RenderOptions

// NewSession starts an editing session with the bundled palette.
func NewSession(options ...builder.Option) *Session {
	return builder.New(options...)
}

// RenderHTML draws tree on the requested surface with the default theme.
func RenderHTML(ctx context.Context, tree Tree, opts RenderOptions, options ...htmlrenderer.Option) ([]byte, error) {
	r, err := htmlrenderer.New(options...)
	if err != nil {
		return nil, err
	}
	return r.Render(ctx, tree, opts)
}

// Submit validates values against a generated tree and hands them to the log
// sink. Violations come back as *submission.ValidationError.
func Submit(ctx context.Context, tree Tree, store *formdata.Store, options ...submission.Option) (submission.Payload, error) {
	return submission.NewSubmitter(options...).Submit(ctx, tree, store)
}

// EmbeddedTemplates exposes the built-in HTML templates so callers can reuse
// or override them without importing the renderer package.
func EmbeddedTemplates() fs.FS {
	return htmlrenderer.TemplatesFS()
}

// AssetsFS exposes the stylesheet that rendered forms link to.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(formbuilder.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return htmlrenderer.AssetsFS()
}
