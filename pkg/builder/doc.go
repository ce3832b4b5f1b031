// Package builder holds the builder Session: the live component tree, the
// current selection, the editing/generating/generated state machine and the
// drop policy (no nested sections, nothing in or out of the locked Category
// section). Sessions publish every outcome to a Notifier.
package builder
