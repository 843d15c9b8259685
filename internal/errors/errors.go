package errors

import (
	"errors"
	"net/http"
)

// Kind classifies a domain error and decides its HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindAuth
	KindForbidden
	KindNotFound
	KindUnsupportedMedia
	KindPayloadTooLarge
	KindPersistence
)

// Error is a domain error with a stable, user-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on kind so callers can test errors.Is(err, errors.ErrConflict).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

// Sentinels usable with errors.Is to test an error's kind.
var (
	ErrValidation       = &Error{Kind: KindValidation}
	ErrConflict         = &Error{Kind: KindConflict}
	ErrAuth             = &Error{Kind: KindAuth}
	ErrForbidden        = &Error{Kind: KindForbidden}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrUnsupportedMedia = &Error{Kind: KindUnsupportedMedia}
	ErrPayloadTooLarge  = &Error{Kind: KindPayloadTooLarge}
	ErrPersistence      = &Error{Kind: KindPersistence}
)

// Messages shared between layers.
const (
	MsgServerError        = "Server error"
	MsgInvalidCredentials = "Invalid credentials"
	MsgNoToken            = "No token provided"
	MsgInvalidToken       = "Invalid token"
	MsgAccessDenied       = "Access denied"
)

func Validation(msg string) error       { return &Error{Kind: KindValidation, Message: msg} }
func Conflict(msg string) error         { return &Error{Kind: KindConflict, Message: msg} }
func Auth(msg string) error             { return &Error{Kind: KindAuth, Message: msg} }
func Forbidden(msg string) error        { return &Error{Kind: KindForbidden, Message: msg} }
func NotFound(msg string) error         { return &Error{Kind: KindNotFound, Message: msg} }
func UnsupportedMedia(msg string) error { return &Error{Kind: KindUnsupportedMedia, Message: msg} }
func PayloadTooLarge(msg string) error  { return &Error{Kind: KindPayloadTooLarge, Message: msg} }

// Persistence wraps a storage failure. The cause is kept for logging only.
func Persistence(err error) error {
	return &Error{Kind: KindPersistence, Message: MsgServerError, Err: err}
}

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// HTTPStatus maps an error to its status code. Unknown errors are 500.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindUnsupportedMedia:
		return http.StatusUnsupportedMediaType
	case KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// ToResponse renders err for the client. Persistence errors expose their cause in
// the error field; other unknown errors only say "Server error".
func ToResponse(err error) ErrorResponse {
	var e *Error
	if !errors.As(err, &e) {
		return ErrorResponse{Message: MsgServerError}
	}
	resp := ErrorResponse{Message: e.Message}
	if e.Kind == KindPersistence && e.Err != nil {
		resp.Error = e.Err.Error()
	}
	return resp
}
