package formdata

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Rule names the check a violation failed.
type Rule string

const (
	RuleRequired  Rule = "required"
	RuleNumber    Rule = "number"
	RuleMin       Rule = "min"
	RuleMax       Rule = "max"
	RuleMinLength Rule = "minLength"
	RuleMaxLength Rule = "maxLength"
)

// Violation is one failed pre-submit check.
type Violation struct {
	ComponentID string `json:"componentId"`
	Field       string `json:"field"`
	Label       string `json:"label"`
	Rule        Rule   `json:"rule"`
	Message     string `json:"message"`
}

// Validate checks values against the required components of tree. Sections
// are always walked: their own flag does not matter, each required child is
// checked on its own. Every violation is
// collected; checking never stops at the first one.
func Validate(tree model.Tree, values map[string]any) []Violation {
	var out []Violation
	for _, c := range tree {
		out = append(out, validateComponent(c, values)...)
	}
	return out
}

func validateComponent(c model.Component, values map[string]any) []Violation {
	if c.IsSection() {
		var out []Violation
		for _, child := range c.Children {
			out = append(out, validateComponent(child, values)...)
		}
		return out
	}
	if !c.Required {
		return nil
	}

	value, present := values[c.Name]
	if !present || IsMissing(value) {
		return []Violation{violation(c, RuleRequired, c.Label+" is required")}
	}

	switch c.Type {
	case model.TypeNumberInput:
		if model.IsRepeatable(c) {
			return nil
		}
		return checkNumber(c, value)
	case model.TypeTextInput:
		return checkLength(c, value)
	}
	return nil
}

func checkNumber(c model.Component, value any) []Violation {
	num, ok := toFloat(value)
	if !ok {
		return []Violation{violation(c, RuleNumber, c.Label+" must be a number")}
	}
	if c.Validations == nil {
		return nil
	}
	if c.Validations.Min != nil && num < *c.Validations.Min {
		return []Violation{violation(c, RuleMin, fmt.Sprintf("%s must be at least %s", c.Label, formatFloat(*c.Validations.Min)))}
	}
	if c.Validations.Max != nil && num > *c.Validations.Max {
		return []Violation{violation(c, RuleMax, fmt.Sprintf("%s must be at most %s", c.Label, formatFloat(*c.Validations.Max)))}
	}
	return nil
}

func checkLength(c model.Component, value any) []Violation {
	text, ok := value.(string)
	if !ok || c.Validations == nil {
		return nil
	}
	length := utf8.RuneCountInString(text)
	if lo := c.Validations.MinLength; lo != nil && *lo > 0 && length < *lo {
		return []Violation{violation(c, RuleMinLength, fmt.Sprintf("%s must be at least %d characters", c.Label, *lo))}
	}
	if hi := c.Validations.MaxLength; hi != nil && *hi > 0 && length > *hi {
		return []Violation{violation(c, RuleMaxLength, fmt.Sprintf("%s must be at most %d characters", c.Label, *hi))}
	}
	return nil
}

// IsMissing reports whether value counts as not filled in: nil, the empty
// string, an empty list or a file reference without a name.
func IsMissing(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case FileRef:
		return v.Name == ""
	case *FileRef:
		return v == nil || v.Name == ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, !math.IsNaN(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func violation(c model.Component, rule Rule, message string) Violation {
	return Violation{
		ComponentID: c.ID,
		Field:       c.Name,
		Label:       c.Label,
		Rule:        rule,
		Message:     message,
	}
}
