package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vnwidget/internal/models"
)

// DefaultFetchTimeout bounds a single widget fetch
const DefaultFetchTimeout = 10 * time.Second

// maxBodySize caps the payload read from the statistics server
const maxBodySize = 16 << 20

var (
	ErrNetwork         = errors.New("network error")
	ErrParse           = errors.New("parse error")
	ErrInvalidResponse = errors.New("invalid response")
)

// FetchError carries the failure kind (one of the Err* sentinels) and its cause
type FetchError struct {
	Kind error
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func fetchErr(kind error, format string, args ...any) *FetchError {
	return &FetchError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Fetcher downloads the vnstat payload and picks one interface
type Fetcher struct {
	baseURL       string
	token         string
	interfaceName string
	client        *http.Client
}

// NewFetcher creates a Fetcher. A nil client gets a DefaultFetchTimeout client.
func NewFetcher(baseURL, token, interfaceName string, client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	return &Fetcher{
		baseURL:       strings.TrimRight(baseURL, "/"),
		token:         token,
		interfaceName: interfaceName,
		client:        client,
	}
}

// URL returns the endpoint the fetcher requests
func (f *Fetcher) URL() string {
	u := f.baseURL + "/json"
	if f.token != "" {
		u += "?token=" + url.QueryEscape(f.token)
	}
	return u
}

// Fetch performs one GET and returns the selected interface report.
// There is no retry: the first failure is returned to the caller.
func (f *Fetcher) Fetch(ctx context.Context) (*models.InterfaceReport, error) {
	resp, err := f.FetchResponse(ctx)
	if err != nil {
		return nil, err
	}
	return SelectInterface(resp, f.interfaceName)
}

// FetchResponse performs the GET and decodes the whole payload
func (f *Fetcher) FetchResponse(ctx context.Context) (*models.ServerResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL(), nil)
	if err != nil {
		return nil, fetchErr(ErrNetwork, "failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fetchErr(ErrNetwork, "request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fetchErr(ErrNetwork, "failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fetchErr(ErrNetwork, "server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return ParseResponse(body)
}

// ParseResponse decodes a /json body and checks it has an interfaces list
func ParseResponse(body []byte) (*models.ServerResponse, error) {
	if !json.Valid(body) {
		return nil, &FetchError{Kind: ErrParse, Err: errors.New("body is not valid JSON")}
	}

	var parsed models.ServerResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fetchErr(ErrInvalidResponse, "unexpected payload shape: %w", err)
	}
	if parsed.Interfaces == nil {
		return nil, &FetchError{Kind: ErrInvalidResponse, Err: errors.New("missing interfaces field")}
	}

	return &parsed, nil
}

// SelectInterface returns the first report named name, falling back to the
// first report when name is empty or not found.
func SelectInterface(resp *models.ServerResponse, name string) (*models.InterfaceReport, error) {
	if resp == nil || resp.Interfaces == nil {
		return nil, &FetchError{Kind: ErrInvalidResponse, Err: errors.New("missing interfaces field")}
	}

	interfaces := *resp.Interfaces
	if len(interfaces) == 0 {
		return nil, &FetchError{Kind: ErrInvalidResponse, Err: errors.New("network interface data not found")}
	}

	if name != "" {
		for i := range interfaces {
			if interfaces[i].Name == name {
				return &interfaces[i], nil
			}
		}
	}

	return &interfaces[0], nil
}
