package formdata

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

var (
	lettersPattern      = regexp.MustCompile(`^[A-Za-z\s]*$`)
	digitsPattern       = regexp.MustCompile(`^\d*$`)
	alphanumericPattern = regexp.MustCompile(`^[a-zA-Z0-9-]*$`)
)

// AcceptInput reports whether raw is an acceptable keystroke-level value for
// c. Text inputs take letters and spaces, number inputs digits, alphanumeric
// inputs letters, digits and dashes. Other kinds accept anything.
func AcceptInput(c model.Component, raw string) bool {
	switch c.Type {
	case model.TypeTextInput:
		return lettersPattern.MatchString(raw)
	case model.TypeNumberInput:
		return digitsPattern.MatchString(raw)
	case model.TypeAlphanumericInput:
		return alphanumericPattern.MatchString(raw)
	default:
		return true
	}
}

// GenerateCode returns a value for an alphanumeric field's generate button:
// the upper-cased label, a dash and nine random characters.
func GenerateCode(label string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return strings.ToUpper(label + "-" + suffix)
}
