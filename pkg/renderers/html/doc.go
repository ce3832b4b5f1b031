// Package html renders a component tree as HTML for the builder preview
// canvas and for the generated fill form. Templates are pongo2 files executed
// through the gotemplate engine; theme tokens come from go-theme manifests.
package html
