package service

import "errors"

// Kind classifies a service failure for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindNotFound
)

// Error is a client-facing failure carrying a kind and a plain message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is matches on kind and message so sentinels survive wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Message == e.Message
}

// KindOf returns the kind of err, or KindInternal for anything that is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func badRequest(msg string) *Error { return &Error{Kind: KindBadRequest, Message: msg} }

var (
	ErrEmailTaken         = &Error{Kind: KindBadRequest, Message: "Email already registered."}
	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, Message: "Invalid credentials."}
	ErrUserNotFound       = &Error{Kind: KindNotFound, Message: "User not found."}
	ErrInvalidAadhaar     = &Error{Kind: KindBadRequest, Message: "Invalid Aadhaar number format."}
	ErrAlreadyVerified    = &Error{Kind: KindBadRequest, Message: "Aadhaar already verified."}
	ErrPasswordTooLong    = &Error{Kind: KindBadRequest, Message: "Password must be at most 72 bytes."}
	ErrOTPNotFound        = &Error{Kind: KindNotFound, Message: "User or OTP not found."}
	ErrInvalidOTP         = &Error{Kind: KindBadRequest, Message: "Invalid or expired OTP."}
	ErrNoValidFields      = &Error{Kind: KindBadRequest, Message: "No valid fields provided for update."}
)
