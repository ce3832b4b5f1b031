// Package submission turns a completed generated form into a payload: the
// Product Description projection plus the raw form data, delivered to a Sink
// once every pre-submit check passes.
package submission
