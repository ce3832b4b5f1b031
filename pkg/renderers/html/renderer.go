package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	rendertemplate "github.com/goliatone/go-formbuilder/pkg/render/template"
	"github.com/goliatone/go-formbuilder/pkg/render/template/gotemplate"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	selector         theme.ThemeSelector
	themeName        string
	themeVariant     string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithThemeSelector resolves name/variant through selector instead of the
// built-in manifest.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(cfg *config) {
		cfg.selector = selector
	}
}

// WithTheme picks the theme and variant to render with.
func WithTheme(name, variant string) Option {
	return func(cfg *config) {
		if name != "" {
			cfg.themeName = name
		}
		if variant != "" {
			cfg.themeVariant = variant
		}
	}
}

// Renderer draws the preview canvas and the fill form as HTML fragments.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	theme     *theme.RendererConfig
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:   TemplatesFS(),
		themeName:    DefaultThemeName,
		themeVariant: DefaultThemeVariant,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(cfg.templateFS))
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	selection := &theme.Selection{
		Theme:    cfg.themeName,
		Variant:  cfg.themeVariant,
		Manifest: DefaultManifest(),
	}
	if cfg.selector != nil {
		selected, err := cfg.selector.Select(cfg.themeName, cfg.themeVariant)
		if err != nil {
			return nil, fmt.Errorf("html renderer: select theme %q: %w", cfg.themeName, err)
		}
		selection = selected
	}

	return &Renderer{
		templates: renderer,
		theme:     ThemeConfig(selection),
	}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Theme returns the resolved theme configuration.
func (r *Renderer) Theme() *theme.RendererConfig {
	return r.theme
}

// Render draws tree on the requested surface. A component kind without a
// template fails the whole render.
func (r *Renderer) Render(ctx context.Context, tree model.Tree, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}
	surface := opts.ResolvedSurface()
	if surface != render.SurfacePreview && surface != render.SurfaceFill {
		return nil, fmt.Errorf("html renderer: unsupported surface %q", surface)
	}

	mapping := render.MapErrorPayload(tree, opts.Errors)

	components := make([]string, 0, len(tree))
	for _, c := range tree {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := r.renderComponent(c, surface, opts, mapping.Fields)
		if err != nil {
			return nil, err
		}
		components = append(components, out)
	}

	page := map[string]any{
		"surface":    string(surface),
		"components": components,
		"empty":      len(tree) == 0,
		"formErrors": mapping.Form,
		"theme":      r.themeContext(),
	}
	result, err := r.templates.RenderTemplate("form", page)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) renderComponent(c model.Component, surface render.Surface, opts render.RenderOptions, errs map[string][]string) (string, error) {
	var (
		name string
		err  error
	)
	if surface == render.SurfaceFill {
		name, err = fillTemplate(c)
	} else {
		name, err = previewTemplate(c)
	}
	if err != nil {
		return "", err
	}

	children := make([]string, 0, len(c.Children))
	for _, child := range c.Children {
		out, err := r.renderComponent(child, surface, opts, errs)
		if err != nil {
			return "", err
		}
		children = append(children, out)
	}

	out, err := r.templates.RenderTemplate(name, map[string]any{
		"component": componentView(c, opts, errs),
		"children":  children,
	})
	if err != nil {
		return "", fmt.Errorf("html renderer: render %s %q: %w", c.Type, c.ID, err)
	}
	return out, nil
}

func (r *Renderer) themeContext() map[string]any {
	if r.theme == nil {
		return map[string]any{}
	}
	stylesheet := ""
	if r.theme.AssetURL != nil {
		stylesheet = r.theme.AssetURL("stylesheet")
	}
	return map[string]any{
		"name":       r.theme.Theme,
		"variant":    r.theme.Variant,
		"cssVars":    cssVarsStyle(r.theme.CSSVars),
		"stylesheet": stylesheet,
	}
}
