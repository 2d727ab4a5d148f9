package composition

import "github.com/google/uuid"

// Hint is a non-fatal, informational observation Compose emits
// alongside (or instead of) an Error, following movio-bramble's
// hint-emission pattern.
type Hint struct {
	ID      string
	Code    string
	Message string
}

const (
	HintShareableWithoutDirective  = "SHAREABLE_WITHOUT_DIRECTIVE"
	HintOverriddenFieldMaybeUnused = "OVERRIDDEN_FIELD_MAY_BE_UNUSED"
)

func newHint(code, message string) Hint {
	return Hint{ID: uuid.NewString(), Code: code, Message: message}
}
