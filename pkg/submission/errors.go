package submission

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/formdata"
)

var ErrNoGeneratedForm = errors.New("submission: no generated form")

// ValidationError blocks a submission and lists every violation found.
type ValidationError struct {
	Violations []formdata.Violation
}

func (e *ValidationError) Error() string {
	messages := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		messages[i] = v.Message
	}
	return fmt.Sprintf("submission: %d validation error(s): %s", len(e.Violations), strings.Join(messages, "; "))
}

// FieldErrors groups violation messages by field name.
func (e *ValidationError) FieldErrors() map[string][]string {
	out := make(map[string][]string, len(e.Violations))
	for _, v := range e.Violations {
		out[v.Field] = append(out[v.Field], v.Message)
	}
	return out
}
