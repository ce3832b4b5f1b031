package submission

import "github.com/goliatone/go-formbuilder/pkg/model"

var actionMessages = map[string]string{
	"Save Product":          "Product saved successfully!",
	"Save and Next":         "Saved and moving to next!",
	"Generate SKU":          "SKU generated!",
	"Print MRP Label":       "Printing MRP label...",
	"Print Catalogue Label": "Printing catalogue label...",
	"QR Code":               "QR Code generated!",
}

// ActionMessage returns the acknowledgement shown when button c is pressed
// on a generated form. Unknown buttons have none.
func ActionMessage(c model.Component) (string, bool) {
	if c.Type != model.TypeButton {
		return "", false
	}
	msg, ok := actionMessages[c.Label]
	return msg, ok
}
