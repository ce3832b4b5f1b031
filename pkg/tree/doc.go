// Package tree implements the copy-on-write operations over a form's
// two-level component tree. Every operation returns a new Tree and never
// mutates its input, so callers can swap whole trees atomically.
package tree
