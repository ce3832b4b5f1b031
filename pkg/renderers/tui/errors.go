package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoOptions is reported when a choice component has nothing to pick.
	ErrNoOptions = errors.New("tui: component has no options")
)
