package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/snappy"
	"github.com/prometheus/prometheus/prompb"
)

func TestGrafanaPusher_Push(t *testing.T) {
	var got prompb.WriteRequest
	var headers http.Header
	var user, pass string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		user, pass, _ = r.BasicAuth()

		compressed, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("Failed to read body: %v", err)
		}
		raw, err := snappy.Decode(nil, compressed)
		if err != nil {
			t.Errorf("Body is not snappy encoded: %v", err)
		}
		if err := got.Unmarshal(raw); err != nil {
			t.Errorf("Body is not a WriteRequest: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	vnstat := NewVnstatService("", &fakeRunner{output: map[string]string{"--json": threeInterfaces}}, 0)
	pusher := NewGrafanaPusher(server.URL, "12345", "api-token", time.Minute, vnstat)
	pusher.hostname = "test-host"
	pusher.now = func() time.Time { return time.UnixMilli(1700000000000) }

	if err := pusher.Push(context.Background()); err != nil {
		t.Fatalf("Push failed: %v", err)
	}

	if user != "12345" || pass != "api-token" {
		t.Errorf("Unexpected basic auth %q/%q", user, pass)
	}
	for name, want := range map[string]string{
		"Content-Type":                      "application/x-protobuf",
		"Content-Encoding":                  "snappy",
		"X-Prometheus-Remote-Write-Version": "0.1.0",
	} {
		if headers.Get(name) != want {
			t.Errorf("Header %s: expected %q, got %q", name, want, headers.Get(name))
		}
	}

	// eth0: total, month, today; wlan0: month, today (rx+tx each)
	if len(got.Timeseries) != 10 {
		t.Fatalf("Expected 10 timeseries, got %d", len(got.Timeseries))
	}
	for _, label := range got.Timeseries[0].Labels {
		if label.Name == "hostname" && label.Value != "test-host" {
			t.Errorf("Unexpected hostname label %q", label.Value)
		}
	}
}

func TestGrafanaPusher_PushFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusUnauthorized)
	}))
	defer server.Close()

	vnstat := NewVnstatService("", &fakeRunner{output: map[string]string{"--json": threeInterfaces}}, 0)
	pusher := NewGrafanaPusher(server.URL, "u", "t", time.Minute, vnstat)

	err := pusher.Push(context.Background())
	if err == nil {
		t.Fatal("Expected push error")
	}
	if !strings.Contains(err.Error(), "401") || !strings.Contains(err.Error(), "bad token") {
		t.Errorf("Expected status and body in error, got %v", err)
	}
}

func TestGrafanaPusher_StartStopsOnCancel(t *testing.T) {
	pushes := make(chan struct{}, 16)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pushes <- struct{}{}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	vnstat := NewVnstatService("", &fakeRunner{output: map[string]string{"--json": threeInterfaces}}, 0)
	pusher := NewGrafanaPusher(server.URL, "u", "t", time.Hour, vnstat)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		pusher.Start(ctx, "")
		close(done)
	}()

	select {
	case <-pushes:
	case <-time.After(5 * time.Second):
		t.Fatal("Expected an initial push")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
