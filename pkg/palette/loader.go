package palette

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"
)

const (
	defaultFile = "palette.yaml"
	schemaFile  = "palette.cue"
)

//go:embed data/*
var embedded embed.FS

var (
	ErrEmptyPalette = errors.New("palette: document is empty")

	defaultOnce    sync.Once
	defaultPalette *Palette
	defaultErr     error
)

// EmbeddedFS returns the bundled palette assets.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(err)
	}
	return sub
}

// Default returns the bundled palette. It is parsed and validated once; the
// returned value must be treated as read-only.
func Default() *Palette {
	defaultOnce.Do(func() {
		defaultPalette, defaultErr = LoadFS(EmbeddedFS(), defaultFile)
	})
	if defaultErr != nil {
		panic(fmt.Errorf("palette: embedded palette is invalid: %w", defaultErr))
	}
	return defaultPalette
}

// LoadFS reads a palette document from fsys and validates it.
func LoadFS(fsys fs.FS, path string) (*Palette, error) {
	if fsys == nil {
		return nil, fmt.Errorf("palette: nil filesystem for %s", path)
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("palette: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse validates a YAML palette document against the bundled CUE schema and
// decodes it.
func Parse(data []byte, source string) (*Palette, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyPalette, source)
	}
	if err := validateDocument(data, source); err != nil {
		return nil, err
	}

	var p Palette
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("palette: parse %s: %w", source, err)
	}
	return &p, nil
}

func validateDocument(data []byte, source string) error {
	schemaSrc, err := fs.ReadFile(EmbeddedFS(), schemaFile)
	if err != nil {
		return fmt.Errorf("palette: read schema: %w", err)
	}

	ctx := cuecontext.New()
	schema := ctx.CompileBytes(schemaSrc, cue.Filename(schemaFile))
	if schema.Err() != nil {
		return fmt.Errorf("palette: compile schema: %w", schema.Err())
	}

	file, err := cueyaml.Extract(source, data)
	if err != nil {
		return fmt.Errorf("palette: parse %s: %w", source, err)
	}
	doc := ctx.BuildFile(file)
	if doc.Err() != nil {
		return fmt.Errorf("palette: build %s: %w", source, doc.Err())
	}

	def := schema.LookupPath(cue.ParsePath("#Palette"))
	if err := def.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("palette: %s does not match schema: %w", source, err)
	}
	return nil
}
