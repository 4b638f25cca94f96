package narration

import (
	"errors"

	"github.com/eleven-am/scene-narrator/internal/dto"
)

type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindCollaborator ErrorKind = "collaborator"
)

var ErrGeneratorPanic = errors.New("generator panicked")

// Error is a failure descriptor. Its message is the underlying error's.
type Error struct {
	Kind    ErrorKind
	Err     error
	Details []dto.ValidationError
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewValidationError(err error, details ...dto.ValidationError) *Error {
	return &Error{Kind: KindValidation, Err: err, Details: details}
}

func NewCollaboratorError(err error) *Error {
	return &Error{Kind: KindCollaborator, Err: err}
}

// KindOf returns the kind of a narration error anywhere in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var nerr *Error
	if errors.As(err, &nerr) {
		return nerr.Kind, true
	}
	return "", false
}
