package html

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

const (
	DefaultThemeName    = "formbuilder"
	DefaultThemeVariant = "light"
)

// DefaultManifest is the built-in theme. The "dark" variant only overrides
// the tokens that change.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":   "#2563eb",
			"surface": "#ffffff",
			"text":    "#1f2937",
			"muted":   "#6b7280",
			"border":  "#e5e7eb",
			"danger":  "#ef4444",
			"radius":  "0.5rem",
		},
		Assets: theme.Assets{
			Prefix: "/assets",
			Files: map[string]string{
				"stylesheet": StylesheetName,
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"surface": "#111827",
					"text":    "#f9fafb",
					"border":  "#374151",
				},
			},
		},
	}
}

// ThemeConfig flattens a selection into the values renderers consume:
// manifest tokens overlaid with the selected variant, CSS custom properties
// and an asset resolver.
func ThemeConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest

	tokens := make(map[string]string, len(manifest.Tokens))
	for key, value := range manifest.Tokens {
		tokens[key] = value
	}
	files := make(map[string]string, len(manifest.Assets.Files))
	for key, value := range manifest.Assets.Files {
		files[key] = value
	}
	prefix := manifest.Assets.Prefix

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		for key, value := range variant.Tokens {
			tokens[key] = value
		}
		for key, value := range variant.Assets.Files {
			files[key] = value
		}
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--fb-"+key] = value
	}

	name := selection.Theme
	if name == "" {
		name = manifest.Name
	}
	return &theme.RendererConfig{
		Theme:   name,
		Variant: selection.Variant,
		Tokens:  tokens,
		CSSVars: cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok {
				return ""
			}
			if prefix == "" {
				return file
			}
			return strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(file, "/")
		},
	}
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString("  ")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
