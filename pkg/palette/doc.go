// Package palette holds the component library offered to the builder and the
// label-keyed defaults (option tables, bounds, button styles, section presets)
// the factory applies. The bundled palette is YAML checked against a CUE
// schema; callers may load their own with LoadFS or Parse.
package palette
