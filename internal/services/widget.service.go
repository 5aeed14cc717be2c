package services

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"vnwidget/internal/config"
	"vnwidget/internal/models"
)

// Renderer draws a widget refresh. Layout, colors and icons live behind it.
type Renderer interface {
	RenderView(view *models.WidgetView) error
	RenderError(err error, nextRefresh time.Time) error
}

// Widget runs the fetch -> aggregate -> format pipeline for one refresh
type Widget struct {
	cfg     config.WidgetConfig
	fetcher *Fetcher
	now     func() time.Time
}

// NewWidget creates a widget pipeline. client may be nil.
func NewWidget(cfg config.WidgetConfig, client *http.Client) (*Widget, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid widget config: %w", err)
	}
	return &Widget{
		cfg:     cfg,
		fetcher: NewFetcher(cfg.ServerURL, cfg.Token, cfg.InterfaceName, client),
		now:     time.Now,
	}, nil
}

// Refresh fetches fresh data and builds the view. On error no view is returned.
func (w *Widget) Refresh(ctx context.Context) (*models.WidgetView, error) {
	report, err := w.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return BuildView(w.cfg, report, w.now()), nil
}

// Render performs one refresh and hands the result to r
func (w *Widget) Render(ctx context.Context, r Renderer) error {
	view, err := w.Refresh(ctx)
	if err != nil {
		return r.RenderError(err, w.now().Add(w.cfg.RefreshEvery()))
	}
	return r.RenderView(view)
}

// BuildView aggregates a report and formats every value the renderer shows
func BuildView(cfg config.WidgetConfig, report *models.InterfaceReport, fetchedAt time.Time) *models.WidgetView {
	snapshot := Aggregate(report)
	monthBytes := float64(snapshot.Month.Total())
	percent := ComputeUsagePercent(monthBytes, cfg.MonthlyLimitGB)

	view := &models.WidgetView{
		Title:        cfg.WidgetTitle,
		FetchedAt:    fetchedAt,
		NextRefresh:  fetchedAt.Add(cfg.RefreshEvery()),
		Snapshot:     snapshot,
		TodayText:    FormatByteSize(float64(snapshot.Today.Total())),
		MonthText:    FormatByteSize(monthBytes),
		TotalText:    FormatByteSize(float64(snapshot.Total.Total())),
		UsagePercent: percent,
		UsageText:    strconv.FormatFloat(percent, 'f', 1, 64) + "%",
		QuotaText:    fmt.Sprintf("%.1fGB / %sGB", monthBytes/GB, strconv.FormatFloat(cfg.MonthlyLimitGB, 'f', -1, 64)),
		Progress:     ComputeProgressFill(percent, cfg.BoxCount),
		BoxCount:     cfg.BoxCount,
		Square:       cfg.IsSquare,
	}
	if report != nil {
		view.Interface = report.Name
	}
	return view
}
