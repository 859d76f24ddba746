package errs

import (
	"errors"
	"net/http"
)

var (
	Unauthorized = &ApiErr{StatusCode: http.StatusUnauthorized, err: ErrUnauthorized}
)

// Authentication & Authorization Errors
var (
	ErrMissingToken       = errors.New("missing session token")
	ErrInvalidToken       = errors.New("invalid session token")
	ErrTokenExpired       = errors.New("session expired")
	ErrSessionRevoked     = errors.New("session revoked")
	ErrInvalidCredentials = errors.New("Invalid username or password")
)

func NewMissingTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrMissingToken,
		Field:      "session",
	}
}

func NewInvalidTokenError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrInvalidToken,
		Cause:      cause,
		Field:      "session",
	}
}

func NewTokenExpiredError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrTokenExpired,
		Details:    "Session has expired, please log in again",
		Field:      "session",
	}
}

func NewSessionRevokedError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrSessionRevoked,
		Field:      "session",
	}
}

func NewInvalidCredentialsError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrInvalidCredentials,
	}
}

func IsMissingTokenError(err error) bool {
	return errors.Is(err, ErrMissingToken)
}

func IsInvalidTokenError(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}

func IsTokenExpiredError(err error) bool {
	return errors.Is(err, ErrTokenExpired)
}

func IsInvalidCredentialsError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}
