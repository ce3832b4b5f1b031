package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/palette"
)

const extensionNamespace = "x-formbuilder"

type violation struct {
	file     string
	location string
	message  string
}

func (v violation) String() string {
	return fmt.Sprintf("%s: %s -> %s", v.file, v.location, v.message)
}

func newLintCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lint <file>...",
		Short: "Check palette YAML files and exported OpenAPI contracts",
		Long: `lint validates palette documents (.yaml, .yml) against the palette schema
and checks exported contracts (.json) for unknown x-formbuilder extensions.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var violations []violation
			for _, path := range args {
				linted, err := lintFile(cmd, path)
				if err != nil {
					return fmt.Errorf("lint %s: %w", path, err)
				}
				violations = append(violations, linted...)
			}
			if len(violations) == 0 {
				a.logger.WithField("files", len(args)).Info("lint passed")
				return nil
			}
			sortViolations(violations)
			for _, v := range violations {
				fmt.Fprintln(cmd.ErrOrStderr(), v.String())
			}
			return fmt.Errorf("lint: %d violation(s)", len(violations))
		},
	}
}

func lintFile(cmd *cobra.Command, path string) ([]violation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if _, err := palette.Parse(raw, path); err != nil {
			return []violation{{file: path, location: "palette", message: err.Error()}}, nil
		}
		return nil, nil
	default:
		doc, err := openapi.Load(cmd.Context(), raw)
		if err != nil {
			return nil, err
		}
		return lintDocument(path, doc), nil
	}
}

func lintDocument(file string, doc *openapi3.T) []violation {
	var result []violation
	if doc.Paths != nil {
		for _, route := range doc.Paths.InMatchingOrder() {
			item := doc.Paths.Value(route)
			for method, op := range item.Operations() {
				base := []string{route, strings.ToLower(method)}
				result = append(result, lintExtensions(file, base, op.Extensions)...)
				if op.RequestBody == nil || op.RequestBody.Value == nil {
					continue
				}
				for mediaType, content := range op.RequestBody.Value.Content {
					result = append(result, lintSchema(file, appendPath(base, "requestBody", mediaType), content.Schema)...)
				}
			}
		}
	}
	if doc.Components != nil {
		for name, ref := range doc.Components.Schemas {
			result = append(result, lintSchema(file, []string{"components", "schemas", name}, ref)...)
		}
	}
	return result
}

func lintSchema(file string, path []string, ref *openapi3.SchemaRef) []violation {
	if ref == nil || ref.Value == nil || ref.Ref != "" {
		return nil
	}
	s := ref.Value
	result := lintExtensions(file, path, s.Extensions)

	keys := make([]string, 0, len(s.Properties))
	for key := range s.Properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		result = append(result, lintSchema(file, appendPath(path, "properties."+key), s.Properties[key])...)
	}
	if s.Items != nil {
		result = append(result, lintSchema(file, appendPath(path, "items"), s.Items)...)
	}
	return result
}

func lintExtensions(file string, path []string, extensions map[string]any) []violation {
	keys := make([]string, 0, len(extensions))
	for key := range extensions {
		if strings.HasPrefix(key, extensionNamespace) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var result []violation
	for _, key := range keys {
		if message := validateExtension(key, extensions[key]); message != "" {
			result = append(result, violation{file: file, location: formatLocation(path), message: message})
		}
	}
	return result
}

func validateExtension(key string, value any) string {
	switch key {
	case openapi.ExtComponent:
		raw, ok := value.(string)
		if !ok {
			return fmt.Sprintf("%s must be a string, found %T", key, value)
		}
		if !model.ComponentType(raw).Valid() {
			return fmt.Sprintf("%s: unknown component type %q", key, raw)
		}
	case openapi.ExtGenerate, openapi.ExtDescription:
		if _, ok := value.(bool); !ok {
			return fmt.Sprintf("%s must be a boolean, found %T", key, value)
		}
	default:
		return fmt.Sprintf("unsupported extension %q", key)
	}
	return ""
}

func sortViolations(violations []violation) {
	sort.Slice(violations, func(i, j int) bool {
		if violations[i].file != violations[j].file {
			return violations[i].file < violations[j].file
		}
		if violations[i].location != violations[j].location {
			return violations[i].location < violations[j].location
		}
		return violations[i].message < violations[j].message
	})
}

func appendPath(path []string, segments ...string) []string {
	next := make([]string, len(path), len(path)+len(segments))
	copy(next, path)
	return append(next, segments...)
}

func formatLocation(path []string) string {
	if len(path) == 0 {
		return "root"
	}
	return strings.Join(path, ".")
}
