package httperr

import (
	"errors"
	"net/http"
)

// Kind classifies a business error so transport layers can map it without
// knowing every code.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindIdentity   Kind = "identity"
	KindTransition Kind = "transition"
)

type BusinessError struct {
	Kind Kind
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

// ErrBusiness builds a validation-kind error, the caller's fault and not retried.
func ErrBusiness(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func ErrNotFound(code string) error {
	return BusinessError{Kind: KindNotFound, Code: code}
}

func ErrConflict(code string) error {
	return BusinessError{Kind: KindConflict, Code: code}
}

func ErrIdentity(code string) error {
	return BusinessError{Kind: KindIdentity, Code: code}
}

func ErrTransition(code string) error {
	return BusinessError{Kind: KindTransition, Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// KindOf returns the kind of a business error, or "" for anything else.
func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}

// StatusFor maps an error to the HTTP status the handlers answer with.
func StatusFor(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindTransition:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
