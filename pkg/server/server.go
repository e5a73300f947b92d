// Package server exposes the media hosting service over HTTP: category
// uploads, static blob downloads and registry lookups.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/jayanta8509/storage-audio/pkg/blob"
	"github.com/jayanta8509/storage-audio/pkg/config"
	"github.com/jayanta8509/storage-audio/pkg/log"
	"github.com/jayanta8509/storage-audio/pkg/media"
	"github.com/jayanta8509/storage-audio/pkg/registry"
)

const shutdownTimeout = 10

// MediaServer serves uploads and downloads for the temporary media host.
type MediaServer struct {
	cfg      *config.Config
	blobs    *blob.Store
	registry registry.Registry
	echo     *echo.Echo
}

// NewMediaServer wires the HTTP layer over the given blob store and registry.
func NewMediaServer(cfg *config.Config, blobs *blob.Store, reg registry.Registry) *MediaServer {
	return &MediaServer{
		cfg:      cfg,
		blobs:    blobs,
		registry: reg,
		echo:     echo.New(),
	}
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully.
func (m *MediaServer) Start(addr string) error {
	m.setupRoutes()

	// Start server in a goroutine
	go func() {
		log.Info().
			Str("addr", addr).
			Str("storage_dir", m.cfg.StorageDir).
			Msg("Starting media server")

		if err := m.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server startup failed")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	return m.Shutdown()
}

// Shutdown stops the HTTP listener, letting in-flight requests finish.
func (m *MediaServer) Shutdown() error {
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout*time.Second)
	defer cancel()

	if err := m.echo.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
		return err
	}

	log.Info().Msg("Server gracefully stopped")
	return nil
}

func (m *MediaServer) setupRoutes() {
	// Echo configuration
	m.echo.HideBanner = true
	m.echo.HidePort = true

	// Setup middleware with custom logger
	m.echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} ${status} ${method} ${uri} (${latency_human})\n",
	}))
	m.echo.Use(middleware.Recover())

	// Setup routes
	m.echo.POST("/upload-audio", m.uploadAudio)
	m.echo.POST("/upload-image", m.uploadImage)
	m.echo.GET("/files/:token/info", m.getFileInfo)
	m.echo.GET("/health", m.healthCheck)

	// Blobs are served straight from the category directories; a reaped file
	// turns into a plain 404 here.
	m.echo.Static("/"+media.Audio.PublicPrefix(), m.blobs.Dir(media.Audio))
	m.echo.Static("/"+media.Image.PublicPrefix(), m.blobs.Dir(media.Image))
}
