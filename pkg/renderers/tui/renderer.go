package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/formdata"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/submission"
)

// StatFunc reports file information for an image-picker path.
type StatFunc func(path string) (os.FileInfo, error)

// Renderer fills a generated form from the terminal. On the preview surface
// it prints an outline of the tree instead of prompting.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	store        *formdata.Store
	theme        Theme
	stat         StatFunc
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		stat:         os.Stat,
		theme: Theme{
			SectionPrefix: "==",
			InfoPrefix:    "›",
			ErrorPrefix:   "✗",
		},
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatPrettyText {
		return "text/plain"
	}
	return "application/json"
}

// Render prompts for every component on the fill surface and returns the
// collected values. The preview surface returns an outline without
// prompting.
func (r *Renderer) Render(ctx context.Context, tree model.Tree, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if opts.ResolvedSurface() == render.SurfacePreview {
		return []byte(Outline(tree)), nil
	}

	store := r.store
	if store == nil {
		store = formdata.NewStore()
	}
	for name, value := range opts.Values {
		store.Set(name, value)
	}

	mapping := render.MapErrorPayload(tree, opts.Errors)
	for _, message := range mapping.Form {
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+" "+message); err != nil {
			return nil, err
		}
	}

	if err := r.fill(ctx, tree, store, mapping.Fields); err != nil {
		return nil, err
	}
	return r.serialize(store.Snapshot())
}

// Fill prompts for every component of tree and writes answers into store.
// Existing values are offered as defaults.
func (r *Renderer) Fill(ctx context.Context, tree model.Tree, store *formdata.Store) error {
	if store == nil {
		return errors.New("tui: store is required")
	}
	return r.fill(ctx, tree, store, nil)
}

func (r *Renderer) fill(ctx context.Context, tree model.Tree, store *formdata.Store, errs map[string][]string) error {
	if r.driver == nil {
		return errors.New("tui: prompt driver is nil")
	}
	for _, c := range tree {
		if err := r.prompt(ctx, c, store, errs); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) prompt(ctx context.Context, c model.Component, store *formdata.Store, errs map[string][]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, message := range errs[c.Name] {
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+" "+message); err != nil {
			return err
		}
	}

	switch c.Type {
	case model.TypeSection:
		if err := r.driver.Info(ctx, strings.TrimSpace(r.theme.SectionPrefix+" "+c.Label)); err != nil {
			return err
		}
		for _, child := range c.Children {
			if err := r.prompt(ctx, child, store, errs); err != nil {
				return err
			}
		}
		return nil
	case model.TypeTextInput:
		return r.promptText(ctx, c, store, "letters and spaces only")
	case model.TypeAlphanumericInput:
		return r.promptAlphanumeric(ctx, c, store)
	case model.TypeNumberInput:
		if model.IsRepeatable(c) {
			return r.promptRows(ctx, c, store)
		}
		return r.promptNumber(ctx, c, store)
	case model.TypeDropdown, model.TypeRadioGroup:
		return r.promptChoice(ctx, c, store)
	case model.TypeCheckboxGroup:
		return r.promptChoices(ctx, c, store)
	case model.TypeImagePicker:
		return r.promptImage(ctx, c, store)
	case model.TypeButton:
		return r.promptButton(ctx, c)
	default:
		return fmt.Errorf("tui: unknown component type %q", c.Type)
	}
}

func (r *Renderer) promptText(ctx context.Context, c model.Component, store *formdata.Store, allowed string) error {
	current, _ := store.Get(c.Name)
	answer, err := r.driver.Input(ctx, InputConfig{
		Message: displayLabel(c),
		Default: stringValue(current),
		Help:    c.Placeholder,
		Validator: func(raw string) error {
			if !formdata.AcceptInput(c, raw) {
				return fmt.Errorf("%s: %s", c.Label, allowed)
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	store.Set(c.Name, answer)
	return nil
}

func (r *Renderer) promptAlphanumeric(ctx context.Context, c model.Component, store *formdata.Store) error {
	if c.HasGenerateButton {
		generate, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Generate %s?", c.Label),
			Default: true,
		})
		if err != nil {
			return err
		}
		if generate {
			code := formdata.GenerateCode(c.Label)
			store.Set(c.Name, code)
			return r.driver.Info(ctx, r.theme.InfoPrefix+" "+c.Label+": "+code)
		}
	}
	return r.promptText(ctx, c, store, "letters, digits and dashes only")
}

func (r *Renderer) promptNumber(ctx context.Context, c model.Component, store *formdata.Store) error {
	current, _ := store.Get(c.Name)
	answer, err := r.driver.Input(ctx, InputConfig{
		Message: displayLabel(c),
		Default: stringValue(current),
		Help:    c.Placeholder,
		Validator: func(raw string) error {
			if !formdata.AcceptInput(c, strings.TrimSpace(raw)) {
				return fmt.Errorf("%s: whole numbers only", c.Label)
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		store.Set(c.Name, "")
		return nil
	}
	n, err := strconv.Atoi(answer)
	if err != nil {
		return fmt.Errorf("tui: %s: %w", c.Label, formdata.ErrInvalidNumber)
	}
	store.Set(c.Name, n)
	return nil
}

func (r *Renderer) promptRows(ctx context.Context, c model.Component, store *formdata.Store) error {
	countRaw, err := r.driver.Input(ctx, InputConfig{
		Message: displayLabel(c) + " (count)",
		Default: strconv.Itoa(store.RowCount(c.Name)),
		Validator: func(raw string) error {
			if _, err := strconv.Atoi(strings.TrimSpace(raw)); err != nil {
				return fmt.Errorf("%s: enter a row count", c.Label)
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	count, err := strconv.Atoi(strings.TrimSpace(countRaw))
	if err != nil {
		return fmt.Errorf("tui: %s: %w", c.Label, formdata.ErrInvalidNumber)
	}
	store.ResizeRows(c.Name, count)

	contents, numbers := store.Rows(c.Name)
	for i := range contents {
		content, err := r.driver.Input(ctx, InputConfig{
			Message: fmt.Sprintf("Enter content %d", i+1),
			Default: contents[i],
		})
		if err != nil {
			return err
		}
		if err := store.SetRowContent(c.Name, i, content); err != nil {
			return err
		}

		number, err := r.driver.Input(ctx, InputConfig{
			Message: fmt.Sprintf("Number %d", i+1),
			Default: stringValue(numbers[i]),
			Validator: func(raw string) error {
				if !formdata.AcceptInput(c, strings.TrimSpace(raw)) {
					return errors.New("whole numbers only")
				}
				return nil
			},
		})
		if err != nil {
			return err
		}
		if err := store.SetRowNumber(c.Name, i, number); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) promptChoice(ctx context.Context, c model.Component, store *formdata.Store) error {
	if len(c.Options) == 0 {
		return r.driver.Info(ctx, fmt.Sprintf("%s %s: %v", r.theme.ErrorPrefix, c.Label, ErrNoOptions))
	}
	current, _ := store.Get(c.Name)
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      displayLabel(c),
		Options:      optionLabels(c.Options),
		DefaultIndex: optionIndex(c.Options, stringValue(current)),
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(c.Options) {
		return nil
	}
	store.Set(c.Name, c.Options[idx].Value)
	return nil
}

func (r *Renderer) promptChoices(ctx context.Context, c model.Component, store *formdata.Store) error {
	if len(c.Options) == 0 {
		return r.driver.Info(ctx, fmt.Sprintf("%s %s: %v", r.theme.ErrorPrefix, c.Label, ErrNoOptions))
	}
	current, _ := store.Get(c.Name)
	var defaults []int
	for _, value := range stringList(current) {
		if idx := optionIndex(c.Options, value); idx >= 0 {
			defaults = append(defaults, idx)
		}
	}
	indices, err := r.driver.MultiSelect(ctx, SelectConfig{
		Message:  displayLabel(c),
		Options:  optionLabels(c.Options),
		Defaults: defaults,
	})
	if err != nil {
		return err
	}
	values := make([]string, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(c.Options) {
			values = append(values, c.Options[idx].Value)
		}
	}
	store.Set(c.Name, values)
	return nil
}

func (r *Renderer) promptImage(ctx context.Context, c model.Component, store *formdata.Store) error {
	answer, err := r.driver.Input(ctx, InputConfig{
		Message: displayLabel(c) + " (path)",
		Help:    "PNG, JPG, GIF up to 10MB",
		Validator: func(raw string) error {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				return nil
			}
			_, err := r.stat(raw)
			return err
		},
	})
	if err != nil {
		return err
	}
	path := strings.TrimSpace(answer)
	if path == "" {
		return nil
	}
	info, err := r.stat(path)
	if err != nil {
		return fmt.Errorf("tui: %s: %w", c.Label, err)
	}
	store.Set(c.Name, formdata.FileRef{
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
	})
	return r.driver.Info(ctx, r.theme.InfoPrefix+" File selected: "+filepath.Base(path))
}

func (r *Renderer) promptButton(ctx context.Context, c model.Component) error {
	message, ok := submission.ActionMessage(c)
	if !ok {
		return nil
	}
	press, err := r.driver.Confirm(ctx, ConfirmConfig{Message: c.Label + "?"})
	if err != nil || !press {
		return err
	}
	return r.driver.Info(ctx, r.theme.InfoPrefix+" "+message)
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	if r.outputFormat == OutputFormatPrettyText {
		return []byte(prettyPrint(values)), nil
	}
	return json.MarshalIndent(values, "", "  ")
}

// Outline renders the tree as indented text, one component per line.
func Outline(tree model.Tree) string {
	var b strings.Builder
	tree.Walk(func(c model.Component, parent *model.Component) bool {
		if parent != nil {
			b.WriteString("  ")
		}
		b.WriteString("- ")
		b.WriteString(c.Label)
		b.WriteString(" [")
		b.WriteString(string(c.Type))
		b.WriteString("]")
		if c.Required {
			b.WriteString(" *")
		}
		if model.IsLockedSection(c) {
			b.WriteString(" (locked)")
		}
		b.WriteString("\n")
		return true
	})
	return b.String()
}

func displayLabel(c model.Component) string {
	label := c.Label
	if label == "" {
		label = c.Name
	}
	if c.Required {
		label += " *"
	}
	return label
}

func optionLabels(options []model.Option) []string {
	out := make([]string, len(options))
	for i, option := range options {
		out[i] = option.Label
	}
	return out
}

func optionIndex(options []model.Option, value string) int {
	for i, option := range options {
		if option.Value == value {
			return i
		}
	}
	return -1
}

func stringValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	default:
		return fmt.Sprint(value)
	}
}

func stringList(v any) []string {
	switch value := v.(type) {
	case []string:
		return value
	case []any:
		out := make([]string, 0, len(value))
		for _, item := range value {
			out = append(out, stringValue(item))
		}
		return out
	default:
		return nil
	}
}

func prettyPrint(values map[string]any) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s: %v\n", key, values[key])
	}
	return b.String()
}
