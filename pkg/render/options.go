package render

import (
	"fmt"
	"strings"
)

// Surface selects which view of the tree a renderer produces.
type Surface string

const (
	// SurfacePreview is the builder canvas: every component drawn as a
	// selectable block with its label and type.
	SurfacePreview Surface = "preview"
	// SurfaceFill is the generated form a user fills in.
	SurfaceFill Surface = "fill"
)

// ParseSurface accepts "preview" or "fill". Empty input yields the preview
// surface.
func ParseSurface(raw string) (Surface, error) {
	switch Surface(strings.ToLower(strings.TrimSpace(raw))) {
	case "", SurfacePreview:
		return SurfacePreview, nil
	case SurfaceFill:
		return SurfaceFill, nil
	default:
		return "", fmt.Errorf("render: unknown surface %q", raw)
	}
}

// RenderOptions describe per-request data that renderers can use to customise
// their output without mutating the tree.
type RenderOptions struct {
	Surface Surface
	// Values pre-populates fill controls keyed by component name, using the
	// same keys as formdata.Store (including _count and _numbers entries).
	Values map[string]any
	// Errors surfaces validation feedback keyed by component name.
	Errors map[string][]string
	// Selected marks the selected component on the preview surface.
	Selected string
}

// ResolvedSurface returns the requested surface, defaulting to preview.
func (o RenderOptions) ResolvedSurface() Surface {
	if o.Surface == "" {
		return SurfacePreview
	}
	return o.Surface
}
