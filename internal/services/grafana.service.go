package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/golang/snappy"
)

// GrafanaPusher periodically pushes traffic series to a Prometheus remote
// write endpoint (Grafana Cloud).
type GrafanaPusher struct {
	url       string
	user      string
	token     string
	interval  time.Duration
	client    *http.Client
	vnstat    *VnstatService
	hostname  string
	firstPush bool
	now       func() time.Time
}

// NewGrafanaPusher creates a pusher. The hostname label falls back to "unknown".
func NewGrafanaPusher(url, user, token string, interval time.Duration, vnstat *VnstatService) *GrafanaPusher {
	hostname, err := os.Hostname()
	if err != nil {
		log.Printf("[GRAFANA] Failed to get hostname, using 'unknown': %v", err)
		hostname = "unknown"
	}

	return &GrafanaPusher{
		url:       url,
		user:      user,
		token:     token,
		interval:  interval,
		client:    &http.Client{Timeout: 10 * time.Second},
		vnstat:    vnstat,
		hostname:  hostname,
		firstPush: true,
		now:       time.Now,
	}
}

// Start waits for the local server to answer healthURL, pushes once and then
// every interval until ctx is cancelled.
func (p *GrafanaPusher) Start(ctx context.Context, healthURL string) {
	if healthURL != "" {
		p.waitForServer(ctx, healthURL)
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.pushAndLog(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Println("[GRAFANA] Push loop stopped")
			return
		case <-ticker.C:
			p.pushAndLog(ctx)
		}
	}
}

func (p *GrafanaPusher) waitForServer(ctx context.Context, healthURL string) {
	const maxRetries = 5
	for i := 0; i < maxRetries; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
		if err == nil {
			resp, err := p.client.Do(req)
			if err == nil {
				resp.Body.Close()
				return
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
		}
	}
	log.Printf("[GRAFANA] HTTP server not ready after %d retries, will retry on next interval", maxRetries)
}

func (p *GrafanaPusher) pushAndLog(ctx context.Context) {
	if err := p.Push(ctx); err != nil {
		log.Printf("[GRAFANA] %v", err)
		return
	}
	// Only the first success is logged to keep the log quiet.
	if p.firstPush {
		log.Println("[GRAFANA] Metrics pushed successfully (subsequent successful pushes will be silent)")
		p.firstPush = false
	}
}

// Push sends one snappy-compressed remote write request
func (p *GrafanaPusher) Push(ctx context.Context) error {
	resp, err := p.vnstat.GetResponse(ctx)
	if err != nil {
		return fmt.Errorf("failed to get traffic data: %w", err)
	}

	writeRequest := ConvertToWriteRequest(BuildSeries(resp), p.hostname, p.now().UnixMilli())
	protoData, err := writeRequest.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal protobuf: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(snappy.Encode(nil, protoData)))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(p.user, p.token)
	req.Header.Set("Content-Type", "application/x-protobuf")
	req.Header.Set("Content-Encoding", "snappy")
	req.Header.Set("X-Prometheus-Remote-Write-Version", "0.1.0")

	pushResp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	defer pushResp.Body.Close()

	if pushResp.StatusCode != http.StatusOK && pushResp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(io.LimitReader(pushResp.Body, 4096))
		return fmt.Errorf("push failed (status: %d, response: %s)", pushResp.StatusCode, string(body))
	}
	return nil
}
