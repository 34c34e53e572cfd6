// Package main, gallery server'ının giriş noktası.
//
// Wire-up sırası:
//  1. Config
//  2. Database (gömülü migration'lar)
//  3. Prometheus registry + server metrikleri
//  4. Repository / Hub / Service / Handler katmanları
//  5. Route'lar, CORS, istek logu
//  6. HTTP server + graceful shutdown
//
// Global değişken yok; her şey burada oluşturulup birbirine bağlanır.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/akinalp/gallery/config"
	"github.com/akinalp/gallery/database"
	"github.com/akinalp/gallery/handlers"
	"github.com/akinalp/gallery/middleware"
	"github.com/akinalp/gallery/pkg/metrics"
	"github.com/akinalp/gallery/ws"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("[main] gallery server starting...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] failed to load config: %v", err)
	}
	log.Printf("[main] config loaded (port=%d)", cfg.Server.Port)

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("[main] failed to initialize database: %v", err)
	}
	defer db.Close()

	app := newApp(cfg, db, prometheus.NewRegistry())
	defer app.Close()

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      app.Handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[main] server listening on %s", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	<-done
	log.Println("[main] shutting down...")

	// Önce WebSocket'ler kapanır; Shutdown hijack edilmiş bağlantıları beklemez.
	app.Hub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[main] graceful shutdown failed: %v", err)
	}
	log.Println("[main] server stopped")
}

// App, kurulmuş server katmanları. Testler aynı kurulumu httptest ile kullanır.
type App struct {
	Handler http.Handler
	Hub     *ws.Hub

	closers []func()
}

// Close, arka plan goroutine'lerini (cache temizliği, rate limiter'lar) durdurur.
// Hub ayrıca Shutdown edilmelidir.
func (a *App) Close() {
	for _, c := range a.closers {
		c()
	}
}

// newApp, tüm katmanları kurar ve Hub'ı başlatır. registry, /metrics'in
// sunduğu ve server metriklerinin kaydedildiği Prometheus registry'sidir.
func newApp(cfg *config.Config, db *database.DB, registry *prometheus.Registry) *App {
	var (
		serverMetrics  *metrics.ServerMetrics
		recorder       handlers.MutationRecorder
		metricsHandler http.Handler
	)
	if cfg.Metrics.Enabled {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		serverMetrics = metrics.NewServerMetrics(
			metrics.WithNamespace(cfg.Metrics.Namespace),
			metrics.WithRegistry(registry),
		)
		recorder = serverMetrics
		metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}

	repos := initRepositories(db.Conn)

	hub := ws.NewHub()
	registerHubCallbacks(hub, serverMetrics)
	go hub.Run()

	svcs, limiters, closeServices := initServices(db.Conn, repos, hub, cfg)
	h := initHandlers(db.Conn, svcs, limiters, hub, recorder, cfg)

	mux := http.NewServeMux()
	initRoutes(mux, h, limiters, svcs.Auth, repos.User, metricsHandler)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "Retry-After"},
		AllowCredentials: true,
	})

	return &App{
		Handler: middleware.RequestLog(corsHandler.Handler(mux)),
		Hub:     hub,
		closers: []func(){closeServices, limiters.Stop},
	}
}
