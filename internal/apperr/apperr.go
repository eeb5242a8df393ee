// Package apperr defines the error taxonomy shared by the trading core.
// Every expected, caller-recoverable failure is an *Error carrying a Kind;
// anything else (connectivity, SQL errors) propagates unmodified.
package apperr

import (
	"errors"
	"net/http"
)

type Kind uint8

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidInput
	KindInvalidOrderPrice
	KindInsufficientHolding
	KindOrderCannotCancel
	KindAccessDenied
	KindConflict
)

type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

var (
	ErrUserNotFound    = New(KindNotFound, "user not found")
	ErrStockNotFound   = New(KindNotFound, "stock not found")
	ErrOrderNotFound   = New(KindNotFound, "order not found")
	ErrHoldingNotFound = New(KindNotFound, "holding not found")

	ErrInvalidOrderPrice   = New(KindInvalidOrderPrice, "order price must be positive")
	ErrInsufficientHolding = New(KindInsufficientHolding, "sell quantity exceeds held quantity")
	ErrOrderCannotCancel   = New(KindOrderCannotCancel, "only pending orders can be cancelled")
	ErrAccessDenied        = New(KindAccessDenied, "access denied")
	ErrVersionConflict     = New(KindConflict, "concurrent update, retry")
)

// KindOf reports the Kind of err, or KindUnknown for errors outside the
// taxonomy (store failures and the like).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error to the status code the HTTP layer should answer
// with. Unknown kinds map to 500; the handler decorates those generically.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidInput, KindInvalidOrderPrice, KindInsufficientHolding, KindOrderCannotCancel:
		return http.StatusBadRequest
	case KindAccessDenied:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
