package cli

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/themizzi/sitesearch/internal/config"
	"github.com/themizzi/sitesearch/internal/handlers"
	"go.uber.org/zap"
)

// ServerDependencies holds all dependencies needed for the report server
type ServerDependencies struct {
	ServerConfig  config.ServerConfig
	ReportDir     string
	ReportHandler http.Handler
	Logger        *zap.Logger
}

// RunServe starts the screenshot report server
func RunServe(deps ServerDependencies) error {
	listener, server, err := StartServer(deps)
	if err != nil {
		return err
	}
	defer listener.Close()

	return WaitForShutdown(server, nil, deps.logger())
}

func (deps ServerDependencies) logger() *zap.Logger {
	if deps.Logger == nil {
		return zap.NewNop()
	}
	return deps.Logger
}

// StartServer creates and starts the HTTP server, returning the listener and server
func StartServer(deps ServerDependencies) (net.Listener, *http.Server, error) {
	logger := deps.logger()

	// Set up routes
	mux := http.NewServeMux()
	mux.Handle("/", deps.ReportHandler)
	mux.Handle(handlers.ScreenshotPrefix, http.StripPrefix(handlers.ScreenshotPrefix, http.FileServer(http.Dir(deps.ReportDir))))

	// Create listener
	addr := fmt.Sprintf(":%s", deps.ServerConfig.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create listener: %w", err)
	}

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server listening", zap.String("addr", listener.Addr().String()), zap.String("report_dir", deps.ReportDir))
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", zap.Error(err))
		}
	}()

	return listener, server, nil
}

// WaitForShutdown waits for a shutdown signal and gracefully shuts down the server.
// If shutdown channel is nil, a new channel is created and registered with signal.Notify.
func WaitForShutdown(server *http.Server, shutdown chan os.Signal, logger *zap.Logger) error {
	return WaitForShutdownWithTimeout(server, shutdown, 30*time.Second, logger)
}

// WaitForShutdownWithTimeout allows specifying a custom shutdown timeout (primarily for testing)
func WaitForShutdownWithTimeout(server *http.Server, shutdown chan os.Signal, shutdownTimeout time.Duration, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if shutdown == nil {
		shutdown = make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
		defer signal.Stop(shutdown)
	}

	sig := <-shutdown
	logger.Info("Received signal, shutting down server", zap.String("signal", sig.String()))

	// Give outstanding requests time to complete
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("Graceful shutdown failed, closing", zap.Error(err))
		// http.Server.Close does not surface listener close errors, so this
		// branch only fires on unexpected server state.
		if err := server.Close(); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	logger.Info("Server stopped")
	return nil
}
