// pkg/faults/faults.go
package faults

import (
	"errors"
	"fmt"
	"net/http"
)

// Type is the stable discriminant callers branch on. Values are part of the
// wire contract (errorType field) and must not be renamed.
type Type string

const (
	InvalidShape       Type = "invalid_shape"
	NotLinked          Type = "not_linked"
	SchemaNotExposed   Type = "schema_not_exposed"
	PermissionDenied   Type = "permission_denied"
	TableNotFound      Type = "table_not_found"
	NetworkError       Type = "network_error"
	ConfigurationError Type = "configuration_error"
	UnknownIntent      Type = "unknown_intent"
	Unknown            Type = "unknown"
)

// Fault is a classified failure with an HTTP status hint and optional
// operator guidance. Message is safe to show to callers; store-level detail
// for Unknown faults is kept out of Message by the classifiers.
type Fault struct {
	Type            Type
	Message         string
	Troubleshooting string
	Status          int
}

func (f *Fault) Error() string { return fmt.Sprintf("%s: %s", f.Type, f.Message) }

// HTTPStatus returns the status hint, defaulting to 500 for unset faults.
func (f *Fault) HTTPStatus() int {
	if f.Status == 0 {
		return http.StatusInternalServerError
	}
	return f.Status
}

func New(t Type, status int, format string, args ...any) *Fault {
	return &Fault{Type: t, Status: status, Message: fmt.Sprintf(format, args...)}
}

func Invalid(format string, args ...any) *Fault {
	return New(InvalidShape, http.StatusBadRequest, format, args...)
}

// As unwraps err into a *Fault, or wraps it as an Unknown fault with a
// generic message so vendor error text never reaches callers.
func As(err error) *Fault {
	var f *Fault
	if errors.As(err, &f) {
		return f
	}
	return &Fault{Type: Unknown, Status: http.StatusInternalServerError, Message: "unexpected internal error"}
}

// Is reports whether err is a fault of the given type.
func Is(err error, t Type) bool {
	var f *Fault
	return errors.As(err, &f) && f.Type == t
}
