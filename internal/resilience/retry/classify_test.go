package retry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"testing"
)

func TestRetriable(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect bool
	}{
		{"nil", nil, false},
		{"cancelled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, true},
		{"client timeout", fmt.Errorf("Get %q: %w (Client.Timeout exceeded while awaiting headers)",
			"http://localhost:11434/api/generate", context.DeadlineExceeded), true},
		{"status 500", &StatusError{Code: 500}, true},
		{"status 503", &StatusError{Code: 503}, true},
		{"status 429", &StatusError{Code: 429}, true},
		{"status 408", &StatusError{Code: 408}, true},
		{"status 404", &StatusError{Code: 404}, false},
		{"status 400", &StatusError{Code: 400}, false},
		{"status 401", &StatusError{Code: 401}, false},
		{"wrapped status", fmt.Errorf("generate: %w", &StatusError{Code: 502}), true},
		{"conn refused", syscall.ECONNREFUSED, true},
		{"conn reset", syscall.ECONNRESET, true},
		{"broken pipe", syscall.EPIPE, true},
		{"unexpected eof", io.ErrUnexpectedEOF, true},
		{"dns", &net.DNSError{Err: "no such host", Name: "api.example.com"}, true},
		{"timeout string", errors.New("request timed out"), true},
		{"reset string", errors.New("connection reset by peer"), true},
		{"fetch failed string", errors.New("fetch failed"), true},
		{"plain error", errors.New("invalid model name"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Retriable(tt.err); got != tt.expect {
				t.Errorf("Retriable(%v) = %v, want %v", tt.err, got, tt.expect)
			}
		})
	}
}

func TestRetriableTimeoutInterface(t *testing.T) {
	err := &net.OpError{Op: "dial", Err: &timeoutErr{}}
	if !Retriable(err) {
		t.Error("net.Error timeout should be retriable")
	}
}

type timeoutErr struct{}

func (*timeoutErr) Error() string   { return "i/o timeout" }
func (*timeoutErr) Timeout() bool   { return true }
func (*timeoutErr) Temporary() bool { return true }

func TestCanceled(t *testing.T) {
	if !Canceled(context.Canceled) {
		t.Error("context.Canceled should classify as cancellation")
	}
	if !Canceled(fmt.Errorf("generate: %w", context.Canceled)) {
		t.Error("wrapped context.Canceled should classify as cancellation")
	}
	if Canceled(context.DeadlineExceeded) {
		t.Error("a bare deadline error is a timeout, not cancellation")
	}
}

func TestStatusErrorMessage(t *testing.T) {
	e := &StatusError{Code: 429, Message: "rate limited"}
	if e.Error() != "http status 429: rate limited" {
		t.Errorf("Error() = %q", e.Error())
	}
	bare := &StatusError{Code: 500}
	if bare.Error() != "http status 500" {
		t.Errorf("Error() = %q", bare.Error())
	}
}
