package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vnwidget/internal/config"
	"vnwidget/internal/render"
	"vnwidget/internal/services"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file (optional)")
	once := flag.Bool("once", false, "Render a single refresh and exit")
	noColor := flag.Bool("no-color", false, "Disable colored output")

	serverURL := flag.String("server", "", "Statistics server base URL")
	token := flag.String("token", "", "Access token for the statistics server")
	interfaceName := flag.String("interface", "", "Interface to display (default: first reported)")
	title := flag.String("title", "", "Widget title")
	limitGB := flag.Float64("limit-gb", 0, "Monthly traffic limit in GB")
	boxCount := flag.Int("boxes", 0, "Number of progress bar cells")
	square := flag.Bool("square", true, "Square progress cells (false = rectangles)")
	refresh := flag.Int("refresh", 0, "Refresh interval in seconds")

	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			LogError("%v", err)
			os.Exit(1)
		}
		cfg = *loaded
	}
	widgetCfg := &cfg.Widget
	widgetCfg.ApplyEnv()

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "server":
			widgetCfg.ServerURL = *serverURL
		case "token":
			widgetCfg.Token = *token
		case "interface":
			widgetCfg.InterfaceName = *interfaceName
		case "title":
			widgetCfg.WidgetTitle = *title
		case "limit-gb":
			widgetCfg.MonthlyLimitGB = *limitGB
		case "boxes":
			widgetCfg.BoxCount = *boxCount
		case "square":
			widgetCfg.IsSquare = *square
		case "refresh":
			widgetCfg.RefreshInterval = *refresh
		}
	})

	widget, err := services.NewWidget(*widgetCfg, nil)
	if err != nil {
		LogError("%v", err)
		os.Exit(1)
	}
	renderer := render.NewTerminalRenderer(os.Stdout, !*noColor)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *once {
		if err := widget.Render(ctx, renderer); err != nil {
			LogError("render failed: %v", err)
			os.Exit(1)
		}
		return
	}

	LogInfo("refreshing %s every %v", widgetCfg.ServerURL, widgetCfg.RefreshEvery())
	ticker := time.NewTicker(widgetCfg.RefreshEvery())
	defer ticker.Stop()

	for {
		if err := widget.Render(ctx, renderer); err != nil {
			LogWarn("render failed: %v", err)
		}

		select {
		case <-ctx.Done():
			LogInfo("stopped")
			return
		case <-ticker.C:
		}
	}
}
