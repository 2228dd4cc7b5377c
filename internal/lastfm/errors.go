package lastfm

import (
	"errors"
	"fmt"
	"net"
)

// Error codes the API reports in the body of a response.
const (
	ErrCodeInvalidParams   = 6
	ErrCodeOperationFailed = 8
	ErrCodeInvalidAPIKey   = 10
	ErrCodeServiceOffline  = 11
	ErrCodeTempUnavailable = 16
	ErrCodeKeySuspended    = 26
	ErrCodeRateLimited     = 29
)

// Error is an application-level failure reported in the body of an
// otherwise well-formed HTTP response.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("lastfm: error %d: %s", e.Code, e.Message)
}

// IsTransient reports whether err is worth retrying: an in-band API
// error, a request timeout, or a network failure. Malformed response
// bodies are not transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
