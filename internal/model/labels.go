package model

import (
	"regexp"
	"strings"
)

// Labels that carry behaviour. Renaming a component away from one of these
// silently drops the behaviour attached to it.
const (
	LabelCategorySection    = "Category"
	LabelProductDescription = "Product Description"
	LabelContents           = "Contents"
	LabelSelectCategory     = "Select Category"
	LabelSKU                = "SKU"
)

var (
	whitespacePattern = regexp.MustCompile(`\s+`)
	selectPrefix      = "select_"
)

// DeriveName converts a display label into the machine key used by the
// form-data store: lower-cased, whitespace runs replaced by underscores and a
// leading "select_" stripped.
func DeriveName(label string) string {
	name := whitespacePattern.ReplaceAllString(strings.ToLower(label), "_")
	return strings.TrimPrefix(name, selectPrefix)
}

// DefaultLabel is the label given to components created without one.
func DefaultLabel(t ComponentType) string {
	return "New " + string(t)
}

// IsLockedSection reports whether c is the taxonomy section that rejects
// structural changes.
func IsLockedSection(c Component) bool {
	return c.Type == TypeSection && (c.IsLocked || c.Label == LabelCategorySection)
}

// IsProductDescription reports whether c is the section projected on submit.
func IsProductDescription(c Component) bool {
	return c.Type == TypeSection && c.Label == LabelProductDescription
}

// IsRepeatable reports whether c collects repeatable content rows instead of
// a single value.
func IsRepeatable(c Component) bool {
	return c.Type == TypeNumberInput && c.Label == LabelContents
}
