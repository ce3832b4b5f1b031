// Package factory creates components with the type-specific defaults taken
// from a palette: option tables for dropdowns, bounds for numeric and text
// inputs, button styles and the preset children of known sections.
package factory
