package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/jwebster45206/adventure-engine/internal/broadcast"
	"github.com/jwebster45206/adventure-engine/internal/config"
	"github.com/jwebster45206/adventure-engine/internal/content"
	"github.com/jwebster45206/adventure-engine/internal/handlers"
	"github.com/jwebster45206/adventure-engine/internal/logger"
	"github.com/jwebster45206/adventure-engine/internal/middleware"
	"github.com/jwebster45206/adventure-engine/internal/observe"
	"github.com/jwebster45206/adventure-engine/internal/storage"
	"github.com/jwebster45206/adventure-engine/pkg/dialogue"
	"github.com/jwebster45206/adventure-engine/pkg/game"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Adventure Engine API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"data_dir", cfg.DataDir)

	gameContent, err := content.Load(filepath.Join(cfg.DataDir, "content.yaml"))
	if err != nil {
		log.Error("Failed to load game content", "error", err)
		os.Exit(1)
	}

	store := storage.NewRedisStorage(cfg.RedisURL, cfg.SessionTTL, log)
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()
	if err := store.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	shutdownMetrics, err := observe.InitProvider()
	if err != nil {
		log.Error("Failed to initialize metrics", "error", err)
		os.Exit(1)
	}
	metrics, err := observe.NewMetrics(otel.GetMeterProvider())
	if err != nil {
		log.Error("Failed to create metrics", "error", err)
		os.Exit(1)
	}

	manager, err := game.NewManager(game.Options{
		Content:      gameContent,
		Dialogues:    dialogue.NewFileLoader(filepath.Join(cfg.DataDir, "dialogues")),
		Store:        store,
		Logger:       log,
		AutoPresent:  cfg.AutoPresent,
		Observer:     metrics.Observer(),
		IdleTimeout:  cfg.SessionIdle,
		LiveSessions: metrics.LiveSessions(),
	})
	if err != nil {
		log.Error("Failed to create session manager", "error", err)
		os.Exit(1)
	}

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	if cfg.SessionIdle > 0 {
		go manager.Run(sweepCtx, time.Minute)
	}

	broadcaster := broadcast.NewBroadcaster(store.Client(), log)
	mux := handlers.NewMux(handlers.Routes{
		Sessions: handlers.NewSessionHandler(manager, broadcaster, metrics, log),
		Events:   handlers.NewEventsHandler(broadcaster, log),
		Health:   handlers.NewHealthHandler(store, log),
		Metrics:  cfg.MetricsEnabled,
	})

	handler := middleware.Logger(log)(observe.Middleware(metrics)(mux))
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: the event stream stays open.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	stopSweep()
	manager.Close()
	if err := shutdownMetrics(shutdownCtx); err != nil {
		log.Error("Error flushing metrics", "error", err)
	}
	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Server exited")
}
