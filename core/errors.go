package core

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrConnectionUnavailable        = errors.New("wallet not available")
	ErrConnectionRejected           = errors.New("connection rejected")
	ErrConnectionTimeout            = errors.New("connection timed out")
	ErrTransactionRejected          = errors.New("transaction rejected")
	ErrTransactionFormatUnsupported = errors.New("transaction format unsupported")
	ErrTransactionFailed            = errors.New("transaction failed")
	ErrTransactionError             = errors.New("transaction error")
	ErrNetwork                      = errors.New("network error")
	ErrValidation                   = errors.New("validation error")

	ErrUnknownBackend       = errors.New("unknown backend")
	ErrActivationInProgress = errors.New("activation already in progress")
	ErrNotConnected         = errors.New("wallet not connected")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionCorrupt       = errors.New("stored session is corrupt")
	ErrStoreOperationFailed = errors.New("store operation failed")
	ErrInvalidToken         = errors.New("invalid token")
)

var kinds = []error{
	ErrConnectionUnavailable,
	ErrConnectionRejected,
	ErrConnectionTimeout,
	ErrTransactionRejected,
	ErrTransactionFormatUnsupported,
	ErrTransactionFailed,
	ErrTransactionError,
	ErrNetwork,
	ErrValidation,
}

// Error is a classified failure. Kind is one of the sentinel errors above,
// Log carries the chain-reported diagnostic when there is one.
type Error struct {
	Kind    error
	Message string
	Log     string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Log != "" {
		msg += ": " + e.Log
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewError creates a classified error without an underlying cause.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError classifies err under kind. An err that is already classified is
// returned unchanged.
func WrapError(kind error, message string, err error) error {
	var ce *Error
	if errors.As(err, &ce) {
		return err
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the sentinel an error is classified under, or nil.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// IsUserRejection reports whether err is a connection or transaction
// rejection by the user.
func IsUserRejection(err error) bool {
	return errors.Is(err, ErrConnectionRejected) || errors.Is(err, ErrTransactionRejected)
}

// Notice returns "info" for user rejections and "error" for everything else.
func Notice(err error) string {
	if IsUserRejection(err) {
		return "info"
	}
	return "error"
}

// Retryable reports whether repeating the same action may succeed without
// the user changing anything on their side.
func Retryable(err error) bool {
	switch KindOf(err) {
	case ErrConnectionRejected, ErrTransactionRejected, ErrConnectionTimeout, ErrNetwork, ErrTransactionError:
		return true
	}
	return false
}

var rejectionMarkers = []string{"user rejected", "rejected", "user denied", "cancelled", "canceled"}

// LooksLikeRejection matches wallet error text that signals the user declined.
func LooksLikeRejection(text string) bool {
	lower := strings.ToLower(text)
	for _, m := range rejectionMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// IsContextError reports whether err stems from context cancellation or deadline.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
