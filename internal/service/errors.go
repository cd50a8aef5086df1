package service

import "errors"

// Kind groups domain errors so callers can tell business rejections from
// infrastructure failures. KindInternal is the only retryable kind.
type Kind string

const (
	KindValidation Kind = "validation"
	KindBusiness   Kind = "business"
	KindNotFound   Kind = "not_found"
	KindSecurity   Kind = "security"
	KindForbidden  Kind = "forbidden"
	KindAuth       Kind = "auth"
	KindInternal   Kind = "internal"
)

type Error struct {
	kind Kind
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Kind() Kind { return e.kind }

func newError(kind Kind, msg string) *Error { return &Error{kind: kind, msg: msg} }

var (
	ErrInsufficientStock       = newError(KindBusiness, "insufficient stock")
	ErrEmptyCart               = newError(KindBusiness, "cart is empty")
	ErrInvalidStatusTransition = newError(KindBusiness, "invalid status transition")

	ErrInvalidQuantity = newError(KindValidation, "invalid quantity")
	ErrInvalidSize     = newError(KindValidation, "invalid size")
	ErrInvalidStatus   = newError(KindValidation, "invalid status")
	ErrValidation      = newError(KindValidation, "validation failed")

	ErrBranchNotFound   = newError(KindNotFound, "branch not found")
	ErrOrderNotFound    = newError(KindNotFound, "order not found")
	ErrStockNotFound    = newError(KindNotFound, "stock not found")
	ErrCartLineNotFound = newError(KindNotFound, "cart item not found")
	ErrCourierNotFound  = newError(KindNotFound, "courier not found")

	ErrSignatureMismatch = newError(KindSecurity, "payment signature mismatch")
	ErrAmountMismatch    = newError(KindSecurity, "payment amount does not match order total")

	ErrCannotDeletePaidOrder = newError(KindForbidden, "cannot delete a paid order")
	ErrUnauthorized          = newError(KindForbidden, "not allowed")
	ErrUnauthenticated       = newError(KindAuth, "unauthenticated")
)

// KindOf reports the kind of the first domain error in err's chain.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.kind
	}
	return KindInternal
}
