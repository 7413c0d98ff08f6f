package connectivity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestProbeReachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	m := NewMonitor(Config{ProbeURL: srv.URL, Timeout: time.Second}, nil)
	if !m.Probe(context.Background()) {
		t.Error("Probe against a live server returned offline")
	}
}

func TestProbeErrorStatusStillOnline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	m := NewMonitor(Config{ProbeURL: srv.URL, Timeout: time.Second}, nil)
	if !m.Probe(context.Background()) {
		t.Error("a 500 from the probe endpoint still proves network reachability")
	}
}

func TestProbeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	m := NewMonitor(Config{ProbeURL: url, Timeout: 500 * time.Millisecond}, nil)
	if m.Probe(context.Background()) {
		t.Error("Probe against a closed server returned online")
	}
}

func TestTransitionsNotifySubscribers(t *testing.T) {
	healthy := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy {
			panic(http.ErrAbortHandler) // drop the connection
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	m := NewMonitor(Config{
		ProbeURL: srv.URL,
		Interval: 10 * time.Millisecond,
		Timeout:  time.Second,
	}, nil)

	transitions := make(chan bool, 10)
	m.Subscribe(func(online bool) { transitions <- online })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Start(ctx)

	// Initially online, no transition expected.
	time.Sleep(50 * time.Millisecond)
	select {
	case v := <-transitions:
		t.Fatalf("unexpected transition to %v", v)
	default:
	}

	healthy = false
	select {
	case v := <-transitions:
		if v {
			t.Fatal("expected transition to offline")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("offline transition never observed")
	}
	if m.Online() {
		t.Error("Online() = true after offline transition")
	}

	healthy = true
	select {
	case v := <-transitions:
		if !v {
			t.Fatal("expected transition to online")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("online transition never observed")
	}
}
