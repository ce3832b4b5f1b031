// Package model exposes the component model shared by the builder, the tree
// engine and every renderer. A form is a Tree of Components; sections hold one
// level of non-section children. Implementations live in internal/model and
// are re-exported here so callers depend on a single import path.
package model
