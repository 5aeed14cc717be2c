package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vnwidget/internal/config"
	"vnwidget/internal/controllers"
	"vnwidget/internal/middleware"
	"vnwidget/internal/routes"
	"vnwidget/internal/services"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file (optional)")
	port := flag.String("port", "", "Listening port")
	token := flag.String("token", "", "Authentication token (leave empty to disable)")
	interfaceName := flag.String("interface", "", "Network interface name (leave empty to query all)")
	jwtSecret := flag.String("jwt-secret", "", "Secret for signing and accepting JWT tokens")
	generateToken := flag.String("generate-token", "", "Print a JWT for the named client and exit")

	grafanaURL := flag.String("grafana-url", "", "Grafana Cloud Prometheus remote write URL")
	grafanaUser := flag.String("grafana-user", "", "Grafana Cloud instance ID")
	grafanaToken := flag.String("grafana-token", "", "Grafana Cloud API token")
	grafanaInterval := flag.String("grafana-interval", "", "Interval for pushing metrics to Grafana Cloud")
	natsURL := flag.String("nats-url", "", "NATS server URL for publishing traffic frames")

	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		cfg = *loaded
	}

	// Flags given on the command line win over the file.
	srv := &cfg.Server
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			srv.Port = *port
		case "token":
			srv.Token = *token
		case "interface":
			srv.Interface = *interfaceName
		case "jwt-secret":
			srv.JWTSecret = *jwtSecret
		case "grafana-url":
			srv.Grafana.URL = *grafanaURL
		case "grafana-user":
			srv.Grafana.User = *grafanaUser
		case "grafana-token":
			srv.Grafana.Token = *grafanaToken
		case "grafana-interval":
			srv.Grafana.Interval = *grafanaInterval
		case "nats-url":
			srv.NATSURL = *natsURL
		}
	})

	auth := services.NewAuthService(srv.Token, srv.JWTSecret, 0)

	if *generateToken != "" {
		if !middleware.NewInputValidator().ValidateClientName(*generateToken) {
			log.Fatalf("Invalid client name %q", *generateToken)
		}
		signed, err := auth.GenerateToken(*generateToken)
		if err != nil {
			log.Fatalf("Failed to generate token: %v", err)
		}
		fmt.Println(signed)
		return
	}

	cacheTTL, err := config.ParseDuration(srv.CacheTTL, time.Second)
	if err != nil {
		log.Fatalf("Invalid cache_ttl: %v", err)
	}
	wsInterval, err := config.ParseDuration(srv.WSInterval, 5*time.Second)
	if err != nil {
		log.Fatalf("Invalid ws_interval: %v", err)
	}

	vnstat := services.NewVnstatService(srv.Interface, services.ExecRunner{}, cacheTTL)
	if err := vnstat.CheckInstalled(context.Background()); err != nil {
		log.Fatalf("Failed to start: %v\nPlease ensure vnstat is installed", err)
	}

	if srv.Interface != "" {
		if ok, err := services.HostHasInterface(srv.Interface); err != nil {
			log.Printf("[VNSTAT] Could not list host interfaces: %v", err)
		} else if !ok {
			log.Printf("[VNSTAT] Warning: interface %q not found on this host", srv.Interface)
		}
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var publisher services.FramePublisher
	if srv.NATSURL != "" {
		natsPublisher, err := services.NewNATSPublisher(srv.NATSURL, srv.NATSSubject)
		if err != nil {
			log.Printf("[NATS] Failed to connect, publishing disabled: %v", err)
		} else {
			defer natsPublisher.Close()
			publisher = natsPublisher
		}
	}

	hub := services.NewWebSocketHub(vnstat, wsInterval, publisher)
	go hub.Run(ctx)

	var rateLimiter *middleware.RateLimiter
	if srv.RateLimit > 0 {
		rateLimiter = middleware.NewRateLimiter(srv.RateLimit, srv.RateBurst)
	}
	securityLogger := middleware.NewSecurityLogger()

	r := routes.NewRouter(rateLimiter)
	routes.RegisterVnstatRoutes(r, controllers.NewVnstatController(vnstat), vnstat, middleware.TokenAuthMiddleware(auth, securityLogger))
	routes.RegisterWebSocketRoutes(r, controllers.NewWebSocketController(hub, auth, securityLogger))

	addr := fmt.Sprintf(":%s", srv.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	log.Printf("vnwidget-server started successfully")
	log.Printf("Listening on: http://0.0.0.0%s", addr)
	if auth.Enabled() {
		log.Printf("Token authentication: enabled")
		if srv.Token != "" {
			log.Printf("Example: http://localhost%s/json?token=%s", addr, srv.Token)
		}
	} else {
		log.Printf("Token authentication: disabled (recommended to enable in production)")
		log.Printf("Example: http://localhost%s/json", addr)
	}
	if vnstat.InterfaceName() != "" {
		log.Printf("Interface: %s", vnstat.InterfaceName())
	} else {
		log.Printf("Interface: all")
	}
	log.Printf("Health check: http://localhost%s/health", addr)
	log.Printf("Available endpoints: /json, /metrics, /summary, /daily, /hourly, /weekly, /monthly(/), /yearly, /top, /oneline, /interfaces, /ws")

	if srv.GrafanaEnabled() {
		interval, err := config.ParseDuration(srv.Grafana.Interval, 30*time.Second)
		if err != nil {
			log.Fatalf("Invalid grafana interval: %v", err)
		}
		pusher := services.NewGrafanaPusher(srv.Grafana.URL, srv.Grafana.User, srv.Grafana.Token, interval, vnstat)
		go pusher.Start(ctx, fmt.Sprintf("http://localhost%s/health", addr))
		log.Printf("Grafana Cloud push: enabled (interval: %v)", interval)
	} else if srv.GrafanaPartial() {
		log.Printf("Warning: Grafana Cloud push partially configured, disabled. All of -grafana-url, -grafana-user, and -grafana-token must be set.")
	}

	log.Printf("Press Ctrl+C to stop")

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Server shutting down...")

	hub.Broadcast(services.WebSocketMessage{Type: "shutdown", Timestamp: time.Now()})
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Server exited.")
}
