// Package openapi exports a generated form as an OpenAPI 3 document that
// describes its submission contract. Documents are built and validated with
// kin-openapi.
package openapi
