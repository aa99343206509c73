package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies failures surfaced by the services.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidArgument
	KindInvalidState
	KindUnavailable
)

// Messages shared between services and handlers.
const (
	ErrMsgUserNotFound       = "user not found"
	ErrMsgProductNotFound    = "product not found"
	ErrMsgCartItemNotFound   = "cart item not found"
	ErrMsgOrderNotFound      = "order not found"
	ErrMsgQuantityPositive   = "quantity must be at least 1"
	ErrMsgQuantityTooLarge   = "quantity must be at most 10000"
	ErrMsgAmountOutOfRange   = "amount out of range"
	ErrMsgItemsRequired      = "order must contain at least one item"
	ErrMsgOnlyPendingCancel  = "only pending orders can be cancelled"
	ErrMsgOrderCancelled     = "order is cancelled"
	ErrMsgUnknownOrderStatus = "unknown order status"
	ErrMsgInvalidOTP         = "invalid or expired OTP"
	ErrMsgEmailTaken         = "email already registered"
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindInvalidArgument:
		return "INVALID_ARGUMENT"
	case KindInvalidState:
		return "INVALID_STATE"
	case KindUnavailable:
		return "UNAVAILABLE"
	default:
		return "UNKNOWN"
	}
}

// Error is a classified failure. Err optionally holds the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidArgument(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

// Unavailable wraps a transient store or transport failure with the operation
// and table (or collaborator) it happened in.
func Unavailable(err error, operation, target string) *Error {
	return &Error{
		Kind:    KindUnavailable,
		Message: fmt.Sprintf("%s %s failed", operation, target),
		Err:     err,
	}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the caller-facing message of a classified error.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
