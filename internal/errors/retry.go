package errors

import (
	"context"
	"errors"
	"net"
	"net/http"
)

// Retryable reports whether err is a transient transport failure. Only
// idempotent requests may be retried on it.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var withStatus interface{ HTTPStatusCode() int }
	if errors.As(err, &withStatus) {
		switch status := withStatus.HTTPStatusCode(); {
		case status == http.StatusRequestTimeout, status == http.StatusTooManyRequests:
			return true
		case status == http.StatusNotImplemented:
			return false
		default:
			return status >= http.StatusInternalServerError
		}
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
