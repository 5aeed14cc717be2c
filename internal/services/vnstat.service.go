package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"vnwidget/internal/models"
)

// CommandRunner executes vnstat and returns its stdout
type CommandRunner interface {
	Run(ctx context.Context, args ...string) ([]byte, error)
}

// ExecRunner runs the vnstat binary found in PATH
type ExecRunner struct {
	Binary string
}

var errNotInstalled = errors.New("vnstat is not installed or not in PATH")

func (r ExecRunner) Run(ctx context.Context, args ...string) ([]byte, error) {
	binary := r.Binary
	if binary == "" {
		binary = "vnstat"
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return nil, fmt.Errorf("%w: %v", errNotInstalled, err)
		}
		return nil, fmt.Errorf("vnstat execution failed: %s, error: %w", strings.TrimSpace(stderr.String()), err)
	}

	return stdout.Bytes(), nil
}

// VnstatService wraps vnstat invocations behind a short-lived output cache
type VnstatService struct {
	interfaceName string
	runner        CommandRunner
	cache         *OutputCache
	timeout       time.Duration
}

// NewVnstatService creates a service for one interface (empty = all interfaces)
func NewVnstatService(interfaceName string, runner CommandRunner, cacheTTL time.Duration) *VnstatService {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &VnstatService{
		interfaceName: interfaceName,
		runner:        runner,
		cache:         NewOutputCache(cacheTTL),
		timeout:       15 * time.Second,
	}
}

// InterfaceName returns the interface the service is restricted to
func (s *VnstatService) InterfaceName() string {
	return s.interfaceName
}

func (s *VnstatService) execute(ctx context.Context, args ...string) ([]byte, error) {
	if s.interfaceName != "" {
		args = append(args, "-i", s.interfaceName)
	}

	key := strings.Join(args, " ")
	if data, ok := s.cache.Get(key); ok {
		return data, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	data, err := s.runner.Run(ctx, args...)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, data)
	return data, nil
}

// GetJSON returns `vnstat --json` output after checking it is valid JSON
func (s *VnstatService) GetJSON(ctx context.Context) ([]byte, error) {
	data, err := s.execute(ctx, "--json")
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		s.cache.Clear()
		return nil, fmt.Errorf("vnstat returned invalid JSON data")
	}
	return data, nil
}

// GetMonthly returns the monthly text view (vnstat -m)
func (s *VnstatService) GetMonthly(ctx context.Context) ([]byte, error) {
	return s.execute(ctx, "-m")
}

func (s *VnstatService) GetSummary(ctx context.Context) ([]byte, error) {
	return s.execute(ctx)
}

func (s *VnstatService) GetDaily(ctx context.Context) ([]byte, error) {
	return s.execute(ctx, "-d")
}

func (s *VnstatService) GetHourly(ctx context.Context) ([]byte, error) {
	return s.execute(ctx, "-h")
}

func (s *VnstatService) GetWeekly(ctx context.Context) ([]byte, error) {
	return s.execute(ctx, "-w")
}

func (s *VnstatService) GetYearly(ctx context.Context) ([]byte, error) {
	return s.execute(ctx, "-y")
}

func (s *VnstatService) GetTop(ctx context.Context) ([]byte, error) {
	return s.execute(ctx, "-t")
}

func (s *VnstatService) GetOneline(ctx context.Context) ([]byte, error) {
	return s.execute(ctx, "--oneline")
}

// GetResponse returns the JSON view decoded into the widget payload model
func (s *VnstatService) GetResponse(ctx context.Context) (*models.ServerResponse, error) {
	data, err := s.GetJSON(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := ParseResponse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse vnstat JSON: %w", err)
	}
	return resp, nil
}

// GetSnapshots aggregates today/month/total for every interface vnstat reports
func (s *VnstatService) GetSnapshots(ctx context.Context) ([]models.InterfaceSnapshot, error) {
	resp, err := s.GetResponse(ctx)
	if err != nil {
		return nil, err
	}
	return AggregateAll(resp), nil
}

// CheckInstalled verifies the vnstat binary can be executed
func (s *VnstatService) CheckInstalled(ctx context.Context) error {
	if _, err := s.runner.Run(ctx, "--version"); err != nil {
		return fmt.Errorf("failed to run vnstat --version: %w", err)
	}
	return nil
}

// ClearCache drops all cached vnstat output
func (s *VnstatService) ClearCache() {
	s.cache.Clear()
}
