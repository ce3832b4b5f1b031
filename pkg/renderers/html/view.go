package html

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/formdata"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

// ErrUnknownComponent is returned for a component kind the renderer has no
// template for.
var ErrUnknownComponent = errors.New("html renderer: unknown component type")

// previewTemplate picks the canvas template for c.
func previewTemplate(c model.Component) (string, error) {
	switch c.Type {
	case model.TypeSection:
		return "preview_section", nil
	case model.TypeButton:
		return "preview_button", nil
	case model.TypeTextInput,
		model.TypeNumberInput,
		model.TypeDropdown,
		model.TypeRadioGroup,
		model.TypeCheckboxGroup,
		model.TypeImagePicker,
		model.TypeAlphanumericInput:
		return "preview_field", nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownComponent, c.Type)
	}
}

// fillTemplate picks the generated-form template for c.
func fillTemplate(c model.Component) (string, error) {
	switch c.Type {
	case model.TypeTextInput:
		return "fill_text", nil
	case model.TypeNumberInput:
		if model.IsRepeatable(c) {
			return "fill_rows", nil
		}
		return "fill_number", nil
	case model.TypeDropdown:
		return "fill_select", nil
	case model.TypeRadioGroup:
		return "fill_radio", nil
	case model.TypeCheckboxGroup:
		return "fill_checkbox", nil
	case model.TypeImagePicker:
		return "fill_image", nil
	case model.TypeSection:
		return "fill_section", nil
	case model.TypeButton:
		return "fill_button", nil
	case model.TypeAlphanumericInput:
		return "fill_alphanumeric", nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownComponent, c.Type)
	}
}

// summary is the one-line hint shown under a field on the canvas.
func summary(c model.Component) string {
	switch c.Type {
	case model.TypeDropdown, model.TypeRadioGroup, model.TypeCheckboxGroup:
		return fmt.Sprintf("%d options", len(c.Options))
	case model.TypeNumberInput:
		if model.IsRepeatable(c) {
			return "Repeatable content rows"
		}
		return boundsSummary(c.Validations, false)
	case model.TypeTextInput:
		return boundsSummary(c.Validations, true)
	case model.TypeAlphanumericInput:
		hint := boundsSummary(c.Validations, true)
		if c.HasGenerateButton {
			hint = strings.TrimSpace(hint + " Generate")
		}
		return hint
	case model.TypeImagePicker:
		return "PNG, JPG, GIF up to 10MB"
	default:
		return ""
	}
}

func boundsSummary(v *model.Validations, length bool) string {
	if v == nil {
		return ""
	}
	lo, hi := v.Min, v.Max
	if length {
		lo, hi = intToFloat(v.MinLength), intToFloat(v.MaxLength)
	}
	switch {
	case lo != nil && hi != nil:
		return formatNumber(*lo) + "–" + formatNumber(*hi)
	case lo != nil:
		return "≥ " + formatNumber(*lo)
	case hi != nil:
		return "≤ " + formatNumber(*hi)
	default:
		return ""
	}
}

func intToFloat(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// componentView is the template context of one component. Keys follow the
// json names of model.Component where they overlap.
func componentView(c model.Component, opts render.RenderOptions, errs map[string][]string) map[string]any {
	view := map[string]any{
		"id":                c.ID,
		"type":              string(c.Type),
		"label":             c.Label,
		"name":              c.Name,
		"placeholder":       c.Placeholder,
		"required":          c.Required,
		"locked":            model.IsLockedSection(c),
		"selected":          opts.Selected != "" && opts.Selected == c.ID,
		"summary":           summary(c),
		"buttonType":        c.ButtonType,
		"variant":           c.Variant,
		"hasGenerateButton": c.HasGenerateButton,
		"controlId":         "fb-" + c.ID,
		"errors":            errs[c.Name],
	}

	if isInlineSVG(c.Icon) {
		view["iconSvg"] = SanitizeIcon(c.Icon)
	} else {
		view["icon"] = c.Icon
	}

	if v := c.Validations; v != nil {
		if v.Min != nil {
			view["min"] = formatNumber(*v.Min)
		}
		if v.Max != nil {
			view["max"] = formatNumber(*v.Max)
		}
		if v.MinLength != nil {
			view["minLength"] = *v.MinLength
		}
		if v.MaxLength != nil {
			view["maxLength"] = *v.MaxLength
		}
	}

	value := opts.Values[c.Name]
	view["value"] = scalarString(value)

	options := make([]map[string]any, 0, len(c.Options))
	checked := selectedValues(value)
	for _, option := range c.Options {
		_, isChecked := checked[option.Value]
		options = append(options, map[string]any{
			"id":       option.ID,
			"label":    option.Label,
			"value":    option.Value,
			"imageUrl": option.ImageURL,
			"checked":  isChecked,
		})
	}
	view["options"] = options

	if model.IsRepeatable(c) {
		view["count"] = scalarString(opts.Values[c.Name+formdata.CountSuffix])
		view["rows"] = rowViews(opts.Values[c.Name], opts.Values[c.Name+formdata.NumbersSuffix])
	}
	if ref, ok := value.(formdata.FileRef); ok {
		view["fileName"] = ref.Name
	}
	return view
}

func rowViews(contents, numbers any) []map[string]any {
	texts := toStrings(contents)
	nums := toAnySlice(numbers)
	rows := make([]map[string]any, 0, len(texts))
	for i, text := range texts {
		number := ""
		if i < len(nums) {
			number = scalarString(nums[i])
		}
		rows = append(rows, map[string]any{
			"index":    strconv.Itoa(i),
			"position": strconv.Itoa(i + 1),
			"content":  text,
			"number":   number,
		})
	}
	return rows
}

func scalarString(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return formatNumber(value)
	case formdata.FileRef:
		return value.Name
	default:
		return fmt.Sprint(value)
	}
}

func selectedValues(v any) map[string]struct{} {
	out := make(map[string]struct{})
	switch value := v.(type) {
	case string:
		if value != "" {
			out[value] = struct{}{}
		}
	case []string, []any:
		for _, s := range toStrings(value) {
			out[s] = struct{}{}
		}
	}
	return out
}

func toStrings(v any) []string {
	switch value := v.(type) {
	case []string:
		return value
	case []any:
		out := make([]string, 0, len(value))
		for _, item := range value {
			out = append(out, scalarString(item))
		}
		return out
	default:
		return nil
	}
}

func toAnySlice(v any) []any {
	switch value := v.(type) {
	case []any:
		return value
	case []string:
		out := make([]any, len(value))
		for i, s := range value {
			out[i] = s
		}
		return out
	default:
		return nil
	}
}
