package render

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/formdata"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// ErrorMapping splits an error payload into field-level messages keyed by
// component name and form-level messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors concatenates and normalises form-level messages, trimming
// whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// FromViolations groups validation violations by component name.
func FromViolations(violations []formdata.Violation) ErrorMapping {
	mapping := ErrorMapping{}
	for _, v := range violations {
		if v.Field == "" {
			mapping.Form = append(mapping.Form, v.Message)
			continue
		}
		if mapping.Fields == nil {
			mapping.Fields = make(map[string][]string)
		}
		mapping.Fields[v.Field] = append(mapping.Fields[v.Field], v.Message)
	}
	for name, messages := range mapping.Fields {
		mapping.Fields[name] = normalizeMessages(messages)
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// MapErrorPayload resolves server error paths ("/body/weight",
// "data.contents[2]", "category.select_type") onto component names in tree.
// Paths that match no component become form-level messages so nothing is
// lost.
func MapErrorPayload(tree model.Tree, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{
		Fields: make(map[string][]string),
	}
	if len(payload) == 0 {
		mapping.Fields = nil
		return mapping
	}

	names := componentNames(tree)
	for rawPath, messages := range payload {
		normalized := normalizeMessages(messages)
		if len(normalized) == 0 {
			continue
		}
		name, ok := resolveName(rawPath, names)
		if !ok {
			mapping.Form = append(mapping.Form, normalized...)
			continue
		}
		mapping.Fields[name] = append(mapping.Fields[name], normalized...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

// resolveName picks the deepest segment of the path that names a component.
func resolveName(raw string, names map[string]struct{}) (string, bool) {
	if isFormLevelKey(raw) {
		return "", false
	}
	segments := parsePathSegments(raw)
	for i := len(segments) - 1; i >= 0; i-- {
		if _, ok := names[segments[i]]; ok {
			return segments[i], true
		}
	}
	return "", false
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.TrimLeft(clean, "#$./")
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func componentNames(tree model.Tree) map[string]struct{} {
	names := make(map[string]struct{})
	tree.Walk(func(c model.Component, _ *model.Component) bool {
		if name := strings.TrimSpace(c.Name); name != "" {
			names[name] = struct{}{}
		}
		return true
	})
	return names
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
