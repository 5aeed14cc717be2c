package services

import (
	"context"
	"errors"
	"math"
	"net/http"
	"testing"
	"time"

	"vnwidget/internal/config"
	"vnwidget/internal/models"
)

type recordingRenderer struct {
	view        *models.WidgetView
	err         error
	nextRefresh time.Time
}

func (r *recordingRenderer) RenderView(view *models.WidgetView) error {
	r.view = view
	return nil
}

func (r *recordingRenderer) RenderError(err error, nextRefresh time.Time) error {
	r.err = err
	r.nextRefresh = nextRefresh
	return nil
}

func testWidgetConfig(serverURL string) config.WidgetConfig {
	cfg := config.DefaultWidgetConfig()
	cfg.ServerURL = serverURL
	return cfg
}

func TestWidgetRender_View(t *testing.T) {
	server := newJSONServer(t, http.StatusOK, threeInterfaces, nil)

	widget, err := NewWidget(testWidgetConfig(server.URL), nil)
	if err != nil {
		t.Fatalf("NewWidget failed: %v", err)
	}
	fixed := time.Date(2024, 5, 2, 14, 5, 0, 0, time.UTC)
	widget.now = func() time.Time { return fixed }

	r := &recordingRenderer{}
	if err := widget.Render(context.Background(), r); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if r.err != nil {
		t.Fatalf("Expected a view, got error %v", r.err)
	}

	view := r.view
	if view.Title != "Traffic Monitor" || view.Interface != "eth0" {
		t.Errorf("Unexpected title/interface: %q %q", view.Title, view.Interface)
	}
	if view.TodayText != "2.79 GB" {
		t.Errorf("Expected today 2.79 GB, got %q", view.TodayText)
	}
	if view.MonthText != "93.1 GB" {
		t.Errorf("Expected month 93.1 GB, got %q", view.MonthText)
	}
	if view.TotalText != "931 GB" {
		t.Errorf("Expected total 931 GB, got %q", view.TotalText)
	}
	if math.Abs(view.UsagePercent-9.31) > 0.01 {
		t.Errorf("Expected ~9.31%%, got %v", view.UsagePercent)
	}
	if view.UsageText != "9.3%" {
		t.Errorf("Expected usage text 9.3%%, got %q", view.UsageText)
	}
	if view.QuotaText != "93.1GB / 1000GB" {
		t.Errorf("Unexpected quota text %q", view.QuotaText)
	}
	if view.Progress != (models.ProgressFill{FullBoxes: 0, HalfFilled: false}) {
		t.Errorf("Unexpected progress %+v", view.Progress)
	}
	if !view.FetchedAt.Equal(fixed) || !view.NextRefresh.Equal(fixed.Add(300*time.Second)) {
		t.Errorf("Unexpected timestamps: %v / %v", view.FetchedAt, view.NextRefresh)
	}
}

func TestWidgetRender_Error(t *testing.T) {
	server := newJSONServer(t, http.StatusOK, `{"interfaces": []}`, nil)

	widget, err := NewWidget(testWidgetConfig(server.URL), nil)
	if err != nil {
		t.Fatalf("NewWidget failed: %v", err)
	}

	r := &recordingRenderer{}
	if err := widget.Render(context.Background(), r); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if r.view != nil {
		t.Errorf("Expected no view on error, got %+v", r.view)
	}
	if !errors.Is(r.err, ErrInvalidResponse) {
		t.Errorf("Expected ErrInvalidResponse, got %v", r.err)
	}
	if r.nextRefresh.IsZero() {
		t.Error("Expected next refresh time to be set")
	}
}

func TestNewWidget_InvalidConfig(t *testing.T) {
	cfg := testWidgetConfig("http://localhost:8080")
	cfg.BoxCount = 0
	if _, err := NewWidget(cfg, nil); err == nil {
		t.Error("Expected error for box_count 0")
	}
}

func TestBuildView_FullQuota(t *testing.T) {
	cfg := testWidgetConfig("http://localhost:8080")
	cfg.MonthlyLimitGB = 50
	cfg.IsSquare = false

	report := &models.InterfaceReport{
		Name: "eth0",
		Traffic: models.InterfaceTraffic{
			Month: []models.TrafficSample{{RX: 60 * GB, TX: 0}},
		},
	}

	view := BuildView(cfg, report, time.Now())
	if view.UsagePercent != 100 || view.UsageText != "100.0%" {
		t.Errorf("Expected capped usage, got %v / %q", view.UsagePercent, view.UsageText)
	}
	if view.Progress.FullBoxes != 10 || view.Progress.HalfFilled {
		t.Errorf("Expected full bar, got %+v", view.Progress)
	}
	if view.QuotaText != "60.0GB / 50GB" {
		t.Errorf("Unexpected quota text %q", view.QuotaText)
	}
	if view.TodayText != "0 B" || view.Square {
		t.Errorf("Unexpected view %+v", view)
	}
}
