package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const threeInterfaces = `{
  "vnstatversion": "2.10",
  "interfaces": [
    {"name": "eth0", "traffic": {
      "total": {"rx": 5e11, "tx": 5e11},
      "day": [{"id": 1, "date": {"year": 2024, "month": 5, "day": 1}, "rx": 100, "tx": 200},
              {"id": 2, "date": {"year": 2024, "month": 5, "day": 2}, "rx": 1e9, "tx": 2e9}],
      "month": [{"id": 1, "rx": 6e10, "tx": 4e10}]
    }},
    {"name": "wlan0", "traffic": {"day": [{"rx": 1, "tx": 2}], "month": [{"rx": 3, "tx": 4}]}},
    {"name": "ppp0", "traffic": {}}
  ]
}`

func newJSONServer(t *testing.T, status int, body string, gotQuery *string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/json" {
			t.Errorf("Expected request to /json, got %s", r.URL.Path)
		}
		if gotQuery != nil {
			*gotQuery = r.URL.RawQuery
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetch_SelectsInterface(t *testing.T) {
	server := newJSONServer(t, http.StatusOK, threeInterfaces, nil)

	tests := []struct {
		configured string
		want       string
	}{
		{"", "eth0"},
		{"wlan0", "wlan0"},
		{"ppp0", "ppp0"},
		{"tun9", "eth0"},
	}

	for _, tt := range tests {
		report, err := NewFetcher(server.URL, "", tt.configured, nil).Fetch(context.Background())
		if err != nil {
			t.Fatalf("Fetch(%q) failed: %v", tt.configured, err)
		}
		if report.Name != tt.want {
			t.Errorf("Fetch(%q) selected %q, want %q", tt.configured, report.Name, tt.want)
		}
	}
}

func TestFetch_TokenQuery(t *testing.T) {
	var query string
	server := newJSONServer(t, http.StatusOK, threeInterfaces, &query)

	if _, err := NewFetcher(server.URL+"/", "s3cr&t", "", nil).Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if query != "token=s3cr%26t" {
		t.Errorf("Expected escaped token query, got %q", query)
	}

	if _, err := NewFetcher(server.URL, "", "", nil).Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if query != "" {
		t.Errorf("Expected no query without a token, got %q", query)
	}
}

func TestFetcherURL(t *testing.T) {
	f := NewFetcher("http://10.0.0.2:8080/", "abc", "", nil)
	if got := f.URL(); got != "http://10.0.0.2:8080/json?token=abc" {
		t.Errorf("Unexpected URL %q", got)
	}
}

func TestFetch_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   error
	}{
		{"not json", http.StatusOK, "<html>oops</html>", ErrParse},
		{"truncated json", http.StatusOK, `{"interfaces": [`, ErrParse},
		{"missing interfaces", http.StatusOK, `{"vnstatversion": "2.10"}`, ErrInvalidResponse},
		{"empty interfaces", http.StatusOK, `{"interfaces": []}`, ErrInvalidResponse},
		{"null body", http.StatusOK, `null`, ErrInvalidResponse},
		{"wrong shape", http.StatusOK, `{"interfaces": [{"name": "eth0", "traffic": {"day": "x"}}]}`, ErrInvalidResponse},
		{"unauthorized", http.StatusUnauthorized, "Unauthorized: Invalid or missing token\n", ErrNetwork},
		{"server error", http.StatusInternalServerError, `{"error": "boom"}`, ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newJSONServer(t, tt.status, tt.body, nil)
			report, err := NewFetcher(server.URL, "", "", nil).Fetch(context.Background())
			if err == nil {
				t.Fatalf("Expected error, got report %+v", report)
			}
			if !errors.Is(err, tt.kind) {
				t.Errorf("Expected %v, got %v", tt.kind, err)
			}
			var fetchErr *FetchError
			if !errors.As(err, &fetchErr) {
				t.Errorf("Expected *FetchError, got %T", err)
			}
		})
	}
}

func TestFetch_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewFetcher(url, "", "", nil).Fetch(context.Background())
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("Expected ErrNetwork for a closed server, got %v", err)
	}
}

func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := &http.Client{Timeout: 50 * time.Millisecond}
	start := time.Now()
	_, err := NewFetcher(server.URL, "", "", client).Fetch(context.Background())
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("Expected ErrNetwork on timeout, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Errorf("Timeout took too long: %v", time.Since(start))
	}
}

func TestFetchErrorMessage(t *testing.T) {
	err := &FetchError{Kind: ErrInvalidResponse}
	if err.Error() != "invalid response" {
		t.Errorf("Unexpected message %q", err.Error())
	}

	_, parseErr := ParseResponse([]byte("nope"))
	if !strings.HasPrefix(parseErr.Error(), "parse error") {
		t.Errorf("Unexpected parse error message %q", parseErr.Error())
	}
}
