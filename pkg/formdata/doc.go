// Package formdata holds the values entered into a generated form and the
// pre-submit checks run against them.
package formdata
