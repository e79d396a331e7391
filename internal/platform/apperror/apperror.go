package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a domain error for HTTP surfacing.
type Kind int

const (
	KindNotFound Kind = iota
	KindConflict
	KindValidation
)

// Error is a domain error with enough detail to render an HTTP response.
type Error struct {
	Kind   Kind
	Entity string
	Msg    string
	// Fields holds per-field validation messages for KindValidation.
	Fields map[string]string
}

func (e *Error) Error() string {
	if e.Kind == KindValidation && len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for f, m := range e.Fields {
			parts = append(parts, f+": "+m)
		}
		return "validation failed: " + strings.Join(parts, "; ")
	}
	if e.Entity != "" && e.Msg == "" {
		return e.Entity + " not found"
	}
	return e.Msg
}

// NotFound reports that the named entity could not be resolved.
func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity}
}

// Conflict reports that the operation lost to the current state of the world.
func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

// Validation reports per-field input problems. Rejected before any mutation.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Fields: fields}
}

// ValidationField is a one-field convenience for Validation.
func ValidationField(field, msg string) *Error {
	return Validation(map[string]string{field: msg})
}

// As extracts an *Error from an error chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsConflict reports whether err is a Conflict error.
func IsConflict(err error) bool {
	e, ok := As(err)
	return ok && e.Kind == KindConflict
}

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool {
	e, ok := As(err)
	return ok && e.Kind == KindNotFound
}

// HTTPStatus maps an error to its HTTP status code.
func HTTPStatus(err error) int {
	e, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Body renders the JSON error body for an error.
func Body(err error) map[string]interface{} {
	body := map[string]interface{}{"error": err.Error()}
	if e, ok := As(err); ok {
		if e.Kind == KindNotFound && e.Entity != "" {
			body["entity"] = e.Entity
		}
		if e.Kind == KindValidation && len(e.Fields) > 0 {
			body["fields"] = e.Fields
		}
	}
	return body
}
