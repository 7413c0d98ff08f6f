package retry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

var errTransient = &StatusError{Code: 503, Message: "upstream unavailable"}

func quickPolicy(maxRetries int) Policy {
	return Policy{
		MaxRetries:    maxRetries,
		InitialDelay:  1 * time.Millisecond,
		MaxDelay:      10 * time.Millisecond,
		BackoffFactor: 2.0,
	}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	v, err := Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		return "ok", nil
	}, quickPolicy(3))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "ok" || calls != 1 {
		t.Errorf("got %q after %d calls, want \"ok\" after 1", v, calls)
	}
}

func TestDoAttemptBudget(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), func(ctx context.Context) (int, error) {
		calls++
		return 0, errTransient
	}, quickPolicy(2))

	if calls != 3 {
		t.Errorf("operation called %d times, want 3", calls)
	}
	if !errors.Is(err, errTransient) {
		t.Errorf("final error = %v, want original %v", err, errTransient)
	}
}

func TestDoSingleAttemptWithZeroRetries(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), func(ctx context.Context) (int, error) {
		calls++
		return 0, errTransient
	}, quickPolicy(0))

	if calls != 1 {
		t.Errorf("operation called %d times, want 1", calls)
	}
	if err == nil {
		t.Error("expected error")
	}
}

func TestDoNonRetriableShortCircuit(t *testing.T) {
	notFound := &StatusError{Code: 404, Message: "not found"}
	calls := 0
	_, err := Do(context.Background(), func(ctx context.Context) (int, error) {
		calls++
		return 0, notFound
	}, quickPolicy(5))

	if calls != 1 {
		t.Errorf("operation called %d times, want 1", calls)
	}
	if !errors.Is(err, notFound) {
		t.Errorf("error = %v, want %v", err, notFound)
	}
}

func TestDoPreCancelledNeverInvokes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := Do(ctx, func(ctx context.Context) (int, error) {
		calls++
		return 0, nil
	}, quickPolicy(3))

	if calls != 0 {
		t.Errorf("operation called %d times, want 0", calls)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestDoCancelMidWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	p := Policy{
		MaxRetries:    3,
		InitialDelay:  5 * time.Second, // long enough that cancel wins
		MaxDelay:      10 * time.Second,
		BackoffFactor: 2.0,
	}

	calls := 0
	done := make(chan error, 1)
	go func() {
		_, err := Do(ctx, func(ctx context.Context) (int, error) {
			calls++
			return 0, errTransient
		}, p)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond) // let the first attempt fail and enter the wait
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("Do did not abort the backoff wait on cancellation")
	}
	if calls != 1 {
		t.Errorf("operation called %d times, want 1", calls)
	}
}

func TestDoRetriesClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	// The client timeout error satisfies errors.Is(err, context.DeadlineExceeded)
	// but the caller's context is live, so it must classify as transient.
	client := &http.Client{Timeout: 20 * time.Millisecond}

	calls := 0
	_, err := Do(context.Background(), func(ctx context.Context) (int, error) {
		calls++
		resp, err := client.Get(srv.URL)
		if err != nil {
			return 0, err
		}
		resp.Body.Close()
		return resp.StatusCode, nil
	}, quickPolicy(2))

	if calls != 3 {
		t.Errorf("operation called %d times, want 3", calls)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("final error = %v, want the client timeout", err)
	}
}

func TestDoCancellationErrorNotRetried(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), func(ctx context.Context) (int, error) {
		calls++
		return 0, context.Canceled
	}, quickPolicy(5))

	if calls != 1 {
		t.Errorf("operation called %d times, want 1", calls)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestDoEventuallySucceeds(t *testing.T) {
	p := Policy{
		MaxRetries:    2,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      1 * time.Second,
		BackoffFactor: 2.0,
	}

	var delays []time.Duration
	p.OnRetry = func(attempt int, delay time.Duration, err error) {
		delays = append(delays, delay)
	}

	calls := 0
	start := time.Now()
	v, err := Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errTransient
		}
		return "third time lucky", nil
	}, p)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "third time lucky" {
		t.Errorf("value = %q", v)
	}
	if len(delays) != 2 || delays[0] != 100*time.Millisecond || delays[1] != 200*time.Millisecond {
		t.Errorf("OnRetry delays = %v, want [100ms 200ms]", delays)
	}
	if elapsed < 300*time.Millisecond {
		t.Errorf("elapsed %v, want >= 300ms of backoff", elapsed)
	}
}

func TestDoCustomPredicate(t *testing.T) {
	errSpecial := errors.New("special")
	p := quickPolicy(3)
	p.RetryIf = func(err error) bool { return errors.Is(err, errSpecial) }

	calls := 0
	_, _ = Do(context.Background(), func(ctx context.Context) (int, error) {
		calls++
		return 0, errSpecial
	}, p)
	if calls != 4 {
		t.Errorf("special error called %d times, want 4", calls)
	}

	calls = 0
	_, _ = Do(context.Background(), func(ctx context.Context) (int, error) {
		calls++
		return 0, errTransient
	}, p)
	if calls != 1 {
		t.Errorf("unmatched error called %d times, want 1", calls)
	}
}

func TestSleepAbortable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := Sleep(ctx, 5*time.Second)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Sleep error = %v, want context.Canceled", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Sleep did not abort promptly")
	}
}
