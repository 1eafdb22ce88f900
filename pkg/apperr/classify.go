package apperr

import (
	"errors"
	"net/http"
)

// Kind tags a classified error. Kinds are matched specific-to-general so an
// application error is never mis-reported as an opaque 500 and a validation
// error never loses its per-field detail.
type Kind int

const (
	KindValidation Kind = iota
	KindUnauthenticated
	KindApplication
	KindUnclassified
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindApplication:
		return "application"
	default:
		return "unclassified"
	}
}

// Classified is the normalized representation of one failure. It is transient
// and exists only for the duration of a single error-handling pass.
type Classified struct {
	Kind    Kind
	Status  int
	Message string
	Code    string
	Details []FieldDetail
	Err     error
}

// Classify maps any error onto the fixed taxonomy. Matching order is
// significant: validation, unauthenticated, application, then everything else.
func Classify(err error) Classified {
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return Classified{
			Kind:    KindValidation,
			Status:  http.StatusBadRequest,
			Message: "Validation failed",
			Details: valErr.Details,
			Err:     err,
		}
	}

	if errors.Is(err, ErrUnauthenticated) {
		return Classified{
			Kind:    KindUnauthenticated,
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
			Err:     err,
		}
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return Classified{
			Kind:    KindApplication,
			Status:  appErr.Status,
			Message: appErr.Message,
			Code:    appErr.Code,
			Err:     err,
		}
	}

	return Classified{
		Kind:    KindUnclassified,
		Status:  http.StatusInternalServerError,
		Message: "Internal server error",
		Err:     err,
	}
}
