package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaravmahajanofficial/teagram/internal/config"
	"github.com/aaravmahajanofficial/teagram/internal/devserver"
	"github.com/gin-gonic/gin"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := devserver.New(cfg.DevServer, logger)

	// a session the CLI can start with: login <refresh-token>
	slog.Info("🔑 Demo session ready", slog.String("refresh_token", srv.Tokens().Bootstrap("demo-user")))

	server := http.Server{
		Addr:              cfg.DevServer.Addr,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("🚀 Dev server is starting...", slog.String("address", cfg.DevServer.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.String("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}
}
