package errs

import (
	"errors"
)

// Kinds of failure reported by lending operations. Match them with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrDuplicateIsbn     = errors.New("duplicate isbn")
	ErrNotFound          = errors.New("not found")
	ErrUnavailable       = errors.New("not available")
	ErrLimitExceeded     = errors.New("borrowing limit exceeded")
	ErrNotBorrowed       = errors.New("not borrowed")
	ErrNoFeeDue          = errors.New("no fee due")
	ErrPaymentDeclined   = errors.New("payment declined")
	ErrPaymentProcessing = errors.New("payment processing error")
	ErrRefundFailed      = errors.New("refund failed")
	ErrStorage           = errors.New("storage error")
)

// Error is a failure of a given kind with a message meant for the patron or librarian.
type Error struct {
	Kind  error
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func New(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind error, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

func Validation(msg string) *Error {
	return New(ErrValidation, msg)
}

func NotFound(msg string) *Error {
	return New(ErrNotFound, msg)
}

// Storage reports a failed repository call made while doing op.
func Storage(op string, cause error) *Error {
	return Wrap(ErrStorage, "Database error occurred while "+op+".", cause)
}

type ErrorResponse struct {
	Message string `json:"message"`
}
