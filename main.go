package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/nijaru/yt-summary/config"
	"github.com/nijaru/yt-summary/handlers"
	"github.com/nijaru/yt-summary/logger"
	"github.com/nijaru/yt-summary/middleware"
	"github.com/nijaru/yt-summary/services/metadata"
	"github.com/nijaru/yt-summary/services/summary"
	"github.com/nijaru/yt-summary/services/transcript"
	"github.com/nijaru/yt-summary/services/video"
	"github.com/nijaru/yt-summary/validation"
	"golang.org/x/time/rate"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logs, err := logger.NewLogger(cfg.LogDir, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logs.Close()
	appLog := logs.App

	ctx := context.Background()

	// Transcript provider, throttled so a burst of requests cannot hammer YouTube
	youtubeProvider := transcript.NewYouTubeProvider(
		&http.Client{Timeout: cfg.YouTube.HTTPTimeout},
		rate.NewLimiter(rate.Limit(cfg.YouTube.RequestsPerSec), cfg.YouTube.Burst),
		appLog,
	)

	// Generation model
	gemini, err := summary.NewGeminiModel(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize Gemini model")
	}
	defer gemini.Close()

	titles, err := metadata.NewService(ctx, cfg.YouTube.APIKey, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize metadata service")
	}

	videoService := video.NewService(
		validation.NewValidator(),
		transcript.NewFetcher(youtubeProvider, appLog),
		summary.NewGenerator(gemini, appLog),
		titles,
		appLog,
	)

	handler, err := handlers.NewHandler(videoService, appLog, cfg.Version)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize handlers")
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		IdleTimeout:           cfg.IdleTimeout,
		ErrorHandler:          handler.ErrorHandler(),
		DisableStartupMessage: !cfg.Debug,
		StrictRouting:         true,
		CaseSensitive:         true,
		AppName:               "yt-summary " + cfg.Version,
	})

	middleware.Setup(app, cfg, logs.Request)
	handler.Register(app)

	// Graceful shutdown setup
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-shutdownChan
		appLog.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := app.ShutdownWithContext(ctx); err != nil {
			appLog.WithError(err).Error("Server shutdown error")
		}
	}()

	serverAddr := ":" + cfg.ServerPort
	appLog.WithField("addr", serverAddr).Info("Server starting")

	if err := app.Listen(serverAddr); err != nil && err != http.ErrServerClosed {
		appLog.WithError(err).Fatal("Server error")
	}
}
