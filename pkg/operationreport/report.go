// Package operationreport collects errors produced while building,
// composing, or planning against a schema, separating externally-facing
// errors, which are safe to hand back to an API caller, from internal
// errors, which indicate a bug in this module and should never be
// swallowed.
package operationreport

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ExternalError is a caller-facing error: a malformed schema, an
// operation referencing an unknown field, a composition conflict.
type ExternalError struct {
	Message   string
	Path      string
	ErrorCode string
}

func (e ExternalError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s (at %s)", e.Message, e.Path)
	}
	return e.Message
}

// InternalError indicates an invariant violation inside this module: a
// referencer/type desync, a missing schema definition, anything that
// should be a bug, never a normal outcome.
type InternalError struct {
	cause error
}

func (e InternalError) Error() string {
	return fmt.Sprintf("internal error: %s", e.cause.Error())
}

func (e InternalError) Unwrap() error {
	return e.cause
}

// Report accumulates errors across a single schema build, composition
// run, or planning pass so that recoverable errors (composition
// conflicts in particular) can be collected in full rather than failing
// on the first one found.
type Report struct {
	ExternalErrors []ExternalError
	InternalErrors []InternalError
}

func (r *Report) AddExternalError(err ExternalError) {
	r.ExternalErrors = append(r.ExternalErrors, err)
}

// AddInternalError wraps err with a stack trace (via
// github.com/pkg/errors.WithStack, which adds one even if err already
// carries a stack), then records it. Internal errors are
// bugs; HasErrors still reports true so callers stop, but the two kinds
// are kept in separate slices so logging/monitoring can alert
// differently on them.
func (r *Report) AddInternalError(err error) {
	r.InternalErrors = append(r.InternalErrors, InternalError{cause: errors.WithStack(err)})
}

func (r *Report) HasErrors() bool {
	return len(r.ExternalErrors) > 0 || len(r.InternalErrors) > 0
}

// Error implements error so a *Report can be returned/compared directly
// wherever an error is expected.
func (r *Report) Error() string {
	var b strings.Builder
	for _, e := range r.ExternalErrors {
		b.WriteString(e.Error())
		b.WriteByte('\n')
	}
	for _, e := range r.InternalErrors {
		b.WriteString(e.Error())
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *Report) Reset() {
	r.ExternalErrors = r.ExternalErrors[:0]
	r.InternalErrors = r.InternalErrors[:0]
}

func ErrNotImplemented(construct string) ExternalError {
	return ExternalError{
		Message:   fmt.Sprintf("%s is not implemented", construct),
		ErrorCode: "NOT_IMPLEMENTED",
	}
}

func ErrFieldAlreadyExists(parent, field string) ExternalError {
	return ExternalError{
		Message:   fmt.Sprintf("field %q already exists on %q", field, parent),
		Path:      parent + "." + field,
		ErrorCode: "FIELD_ALREADY_EXISTS",
	}
}

func ErrCrossSchemaReference(element string) ExternalError {
	return ExternalError{
		Message:   fmt.Sprintf("%s references a type that belongs to a different schema", element),
		ErrorCode: "CROSS_SCHEMA_REFERENCE",
	}
}

func ErrDetachedElement(element string) ExternalError {
	return ExternalError{
		Message:   fmt.Sprintf("%s is detached and cannot be mutated", element),
		ErrorCode: "DETACHED_ELEMENT",
	}
}

func ErrCannotQueryField(fieldName, typeName string) ExternalError {
	return ExternalError{
		Message:   fmt.Sprintf("Cannot query field %q on type %q", fieldName, typeName),
		Path:      typeName + "." + fieldName,
		ErrorCode: "CANNOT_QUERY_FIELD",
	}
}
