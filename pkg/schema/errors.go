package schema

import "github.com/nexusgraph/federation-core/pkg/operationreport"

// These helpers build the fail-fast construction errors: adding a field
// that already exists, setting a cross-schema type reference, mutating
// a detached element. They return operationreport.ExternalError so
// callers can inspect ErrorCode without string-matching messages.

func errFieldExists(parent, field string) error {
	return operationreport.ErrFieldAlreadyExists(parent, field)
}

func errCrossSchema(element string) error {
	return operationreport.ErrCrossSchemaReference(element)
}

func errDetached(element string) error {
	return operationreport.ErrDetachedElement(element)
}

// assertionViolation builds the message for internal invariant
// violations. These are bugs, not recoverable conditions, so its
// callers (the removeTypeReference methods of ScalarType, ObjectType
// and InputObjectType) panic rather than return an error a caller
// might silently ignore.
func assertionViolation(msg string) string {
	return "internal assertion violation: " + msg
}
