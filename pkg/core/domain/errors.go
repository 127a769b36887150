package domain

import "errors"

// Sentinel errors for control flow across layers. Match with errors.Is;
// the HTTP layer maps them to status codes in one place.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("code already exists")
	ErrExpired           = errors.New("link expired")
	ErrQuotaExceeded     = errors.New("click quota exceeded")
	ErrPasswordRequired  = errors.New("password required")
	ErrPasswordIncorrect = errors.New("password incorrect")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidURL        = errors.New("invalid url")
	ErrInvalidCode       = errors.New("invalid code")
	ErrReservedCode      = errors.New("reserved code")
	ErrEmailTaken        = errors.New("email already registered")
	ErrInvalidInput      = errors.New("invalid input")
	ErrStoreUnavailable  = errors.New("store unavailable")
)

// IsNotFound reports whether err is a not-found condition.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict reports whether err indicates a uniqueness conflict.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }
