package builder

import "errors"

var (
	ErrLockedSection     = errors.New("builder: locked section")
	ErrDropRejected      = errors.New("builder: drop rejected")
	ErrEmptyForm         = errors.New("builder: please add components to your form first")
	ErrNotEditing        = errors.New("builder: session is not in editing mode")
	ErrNotGenerated      = errors.New("builder: no generated form to edit")
	ErrComponentNotFound = errors.New("builder: component not found")
)

const (
	msgLockedSectionRemove = "Category section cannot be removed"
	msgLockedChildRemove   = "Category components cannot be removed"
	msgLockedDrop          = "Category section does not accept new components"
	msgLockedMove          = "Category components cannot be moved"
)
