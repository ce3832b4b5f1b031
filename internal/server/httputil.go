package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/formdata"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/submission"
	"github.com/goliatone/go-formbuilder/pkg/taxonomy"
	"github.com/goliatone/go-formbuilder/pkg/tree"
)

const maxBodyBytes = 1 << 20

var errRejectedInput = errors.New("server: value not accepted by field")

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error  string              `json:"error"`
	Code   string              `json:"code"`
	Fields map[string][]string `json:"fields,omitempty"`
	Form   []string            `json:"form,omitempty"`
}

// badRequest marks decode and argument errors.
type badRequest struct{ err error }

func (b badRequest) Error() string { return b.err.Error() }
func (b badRequest) Unwrap() error { return b.err }

func invalid(err error) error { return badRequest{err: err} }

func writeJSON(w http.ResponseWriter, logger logrus.FieldLogger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WithError(err).Warn("writeJSON encode error")
	}
}

func writeError(w http.ResponseWriter, logger logrus.FieldLogger, err error) {
	status, code := statusFor(err)
	body := errorResponse{Error: err.Error(), Code: code}

	var vErr *submission.ValidationError
	if errors.As(err, &vErr) {
		mapping := render.FromViolations(vErr.Violations)
		body.Fields = mapping.Fields
		body.Form = mapping.Form
	}
	if status >= http.StatusInternalServerError {
		logger.WithError(err).Error("request failed")
		if status == http.StatusInternalServerError {
			body.Error = "internal server error"
		}
	}
	writeJSON(w, logger, status, body)
}

// statusFor maps domain errors onto HTTP statuses: structural conflicts are
// 409, validation failures 422, unknown ids 404 and malformed input 400.
func statusFor(err error) (int, string) {
	var (
		bad       badRequest
		vErr      *submission.ValidationError
		statusErr *taxonomy.StatusError
	)
	switch {
	case errors.As(err, &bad):
		return http.StatusBadRequest, "BAD_REQUEST"
	case errors.As(err, &vErr),
		errors.Is(err, formdata.ErrInvalidNumber),
		errors.Is(err, errRejectedInput):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR"
	case errors.Is(err, errSessionNotFound),
		errors.Is(err, builder.ErrComponentNotFound),
		errors.Is(err, formdata.ErrRowOutOfRange):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, tree.ErrParentNotFound),
		errors.Is(err, tree.ErrNestedSection),
		errors.Is(err, model.ErrDuplicateID),
		errors.Is(err, builder.ErrLockedSection),
		errors.Is(err, builder.ErrDropRejected),
		errors.Is(err, builder.ErrEmptyForm),
		errors.Is(err, builder.ErrNotEditing),
		errors.Is(err, builder.ErrNotGenerated),
		errors.Is(err, submission.ErrNoGeneratedForm):
		return http.StatusConflict, "CONFLICT"
	case errors.Is(err, taxonomy.ErrUnknownLevel),
		errors.Is(err, taxonomy.ErrMissingName),
		errors.Is(err, taxonomy.ErrMissingParent),
		errors.Is(err, render.ErrRendererNotFound):
		return http.StatusBadRequest, "BAD_REQUEST"
	case errors.As(err, &statusErr):
		return http.StatusBadGateway, "UPSTREAM_ERROR"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// decodeJSON decodes the request body into v. An empty body leaves v as is.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return invalid(err)
	}
	return nil
}
