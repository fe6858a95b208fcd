// Package errs holds the error taxonomy shared by the coordinators and the
// HTTP layer, so a failure can be mapped to a status without string matching.
package errs

import "errors"

// Kind classifies a failure.
type Kind int

const (
	KindInternal Kind = iota
	KindAuthentication
	KindValidation
	KindStateConflict
	KindNotFound
)

// Sentinels, one per kind. errors.Is(err, ErrValidation) matches any
// *Error of that kind.
var (
	ErrAuthentication = errors.New("authentication failed")
	ErrValidation     = errors.New("validation failed")
	ErrStateConflict  = errors.New("state conflict")
	ErrNotFound       = errors.New("not found")
)

// Error is a classified failure with a human-readable message that is
// surfaced to the caller verbatim.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// Is lets errors.Is match against the kind sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrAuthentication:
		return e.Kind == KindAuthentication
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrStateConflict:
		return e.Kind == KindStateConflict
	case ErrNotFound:
		return e.Kind == KindNotFound
	}
	return false
}

func Auth(msg string) error       { return &Error{Kind: KindAuthentication, Msg: msg} }
func Validation(msg string) error { return &Error{Kind: KindValidation, Msg: msg} }
func Conflict(msg string) error   { return &Error{Kind: KindStateConflict, Msg: msg} }
func NotFound(msg string) error   { return &Error{Kind: KindNotFound, Msg: msg} }

// KindOf reports the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
