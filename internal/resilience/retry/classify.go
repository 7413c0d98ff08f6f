package retry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"
)

// StatusError carries an HTTP status code so the classifier can decide
// retriability from the code instead of string matching.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http status %d", e.Code)
	}
	return fmt.Sprintf("http status %d: %s", e.Code, e.Message)
}

// RetriableStatus reports whether an HTTP status code is worth retrying:
// 408 (request timeout), 429 (rate limited) and all 5xx. Other 4xx are
// permanent client errors.
func RetriableStatus(code int) bool {
	return code == 408 || code == 429 || code >= 500
}

// Retriable is the default retry predicate. Transient network failures and
// retriable HTTP statuses qualify; cancellation and everything else do not.
func Retriable(err error) bool {
	if err == nil || Canceled(err) {
		return false
	}

	var se *StatusError
	if errors.As(err, &se) {
		return RetriableStatus(se.Code)
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	// Fallback for errors that crossed a fmt.Errorf boundary without %w.
	s := strings.ToLower(err.Error())
	for _, marker := range []string{
		"timeout", "timed out",
		"connection reset", "connection refused",
		"no such host", "network is unreachable",
		"broken pipe", "fetch failed",
		"408", "429",
		"500", "502", "503", "504",
	} {
		if strings.Contains(s, marker) {
			return true
		}
	}

	return false
}

// Canceled reports whether err is a cancellation signal rather than an
// operation failure. Cancellation always short-circuits and is never retried.
// A deadline-exceeded error on its own is not cancellation: an http.Client
// timeout satisfies errors.Is(err, context.DeadlineExceeded), and a timeout
// surfaced by the operation while the caller's context is still live is a
// transient failure. Do separately checks the caller's context, which is
// where a real caller deadline shows up.
func Canceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
