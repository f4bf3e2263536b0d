package application

import (
	"errors"
	"fmt"
)

// Kind classifies service failures; the HTTP layer maps each kind to a status.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// AppError carries a user-facing message plus the underlying cause, if any.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func newErr(kind Kind, msg string, cause error) *AppError {
	return &AppError{Kind: kind, Message: msg, Err: cause}
}

func Conflict(msg string) *AppError     { return newErr(KindConflict, msg, nil) }
func Unauthorized(msg string) *AppError { return newErr(KindUnauthorized, msg, nil) }
func BadRequest(msg string) *AppError   { return newErr(KindBadRequest, msg, nil) }
func NotFound(msg string) *AppError     { return newErr(KindNotFound, msg, nil) }
func Forbidden(msg string) *AppError    { return newErr(KindForbidden, msg, nil) }
func Internal(msg string, err error) *AppError {
	return newErr(KindInternal, msg, err)
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

const (
	MsgEmailExists          = "Email already exists"
	MsgInvalidCredentials   = "Invalid credentials"
	MsgCurrentPasswordWrong = "Current password is incorrect"
	MsgSamePassword         = "New password must be different from current password"
	MsgInvalidRefreshToken  = "Invalid refresh token"
	MsgPasswordChanged      = "Password changed successfully"
	MsgCannotDeleteSelf     = "You cannot delete your own account"
	MsgPasswordTooLong      = "Password must be at most 72 bytes long"
	MsgInternal             = "Internal server error"
)

func userNotFound(id int64) *AppError {
	return NotFound(fmt.Sprintf("User with ID %d not found", id))
}
