package render

import (
	"context"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Renderer converts a component tree into a byte representation for one of
// the builder surfaces.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, tree model.Tree, options RenderOptions) ([]byte, error)
}
