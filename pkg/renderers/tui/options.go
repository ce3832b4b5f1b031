package tui

import (
	"github.com/goliatone/go-formbuilder/pkg/formdata"
)

// OutputFormat controls how collected values are serialized by Render.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures message prefixes the renderer applies when printing.
type Theme struct {
	SectionPrefix string
	InfoPrefix    string
	ErrorPrefix   string
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithStore makes Render fill store instead of a fresh one.
func WithStore(store *formdata.Store) Option {
	return func(r *Renderer) {
		r.store = store
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithStatFunc replaces os.Stat for image-picker paths.
func WithStatFunc(fn StatFunc) Option {
	return func(r *Renderer) {
		if fn != nil {
			r.stat = fn
		}
	}
}
