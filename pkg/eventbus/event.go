package eventbus

import "time"

// Level mirrors the severity of a user-facing notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

// Kind names what happened.
type Kind string

const (
	KindComponentInserted Kind = "component.inserted"
	KindComponentUpdated  Kind = "component.updated"
	KindComponentRemoved  Kind = "component.removed"
	KindComponentMoved    Kind = "component.moved"
	KindSelectionChanged  Kind = "selection.changed"
	KindFormGenerating    Kind = "form.generating"
	KindFormGenerated     Kind = "form.generated"
	KindFormEditing       Kind = "form.editing"
	KindFormSubmitted     Kind = "form.submitted"
	KindTaxonomyRefreshed Kind = "taxonomy.refreshed"
	KindTaxonomyCreated   Kind = "taxonomy.created"
	KindOperationFailed   Kind = "operation.failed"
)

// Event is a notification emitted by a builder session or one of its
// collaborators.
type Event struct {
	Kind        Kind      `json:"kind"`
	Level       Level     `json:"level"`
	Message     string    `json:"message"`
	SessionID   string    `json:"sessionId,omitempty"`
	ComponentID string    `json:"componentId,omitempty"`
	Time        time.Time `json:"time"`
}
