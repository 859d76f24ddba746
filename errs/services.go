package errs

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Third-Party Service Errors
var (
	ErrRateLimitExceeded  = errors.New("rate limit exceeded")
	ErrNotificationFailed = errors.New("notification failed")
)

// Configuration & Environment Errors
var (
	ErrConfigMissing       = errors.New("configuration missing")
	ErrConfigInvalid       = errors.New("configuration invalid")
	ErrEnvironmentVariable = errors.New("environment variable error")
)

// Upload & Storage Errors
var (
	ErrStorageWrite = errors.New("storage write failed")
)

func NewRateLimitError(scope string, retryAfter time.Duration) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusTooManyRequests,
		err:        ErrRateLimitExceeded,
		Details:    fmt.Sprintf("Too many requests to %s, retry in %s", scope, retryAfter),
		Field:      "rate_limit",
	}
}

func NewNotificationError(channel string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrNotificationFailed,
		Details:    fmt.Sprintf("Failed to notify via %s", channel),
		Cause:      cause,
		Field:      channel,
	}
}

func NewConfigError(configName string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigMissing,
		Details:    fmt.Sprintf("Configuration error for %s", configName),
		Cause:      cause,
	}
}

func NewInvalidConfigError(varName, value string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigInvalid,
		Details:    fmt.Sprintf("Unsupported value %q for %s", value, varName),
		Field:      varName,
	}
}

func NewEnvironmentVariableError(varName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrEnvironmentVariable,
		Details:    fmt.Sprintf("Environment variable %s is not set or invalid", varName),
		Field:      varName,
	}
}

// NewStorageError wraps a failed upload write for the given object key.
func NewStorageError(key string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrStorageWrite,
		Details:    fmt.Sprintf("Could not store %s", key),
		Cause:      cause,
		Field:      "upload",
	}
}

func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorageWrite)
}
