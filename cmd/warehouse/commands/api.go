package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/warehouse/internal/api"
	"github.com/wonny/warehouse/internal/api/handlers"
	"github.com/wonny/warehouse/internal/realtime"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Start the REST API server.

Endpoints:
  GET  /health                  - Health check
  POST /api/auth/login          - Exchange credentials for a token
  GET  /api/dashboard           - Role dashboard
  POST /api/robots/data         - Robot telemetry (X-Robot-Key)
  GET  /api/stock               - Stock summary
  POST /api/stock/reconcile     - Rebuild the stock projection
  POST /api/forecast/generate   - Run a forecast
  POST /api/forecast/report     - Write a narrative forecast
  GET  /api/ws/robots           - Live robot feed

Example:
  go run ./cmd/warehouse api
  go run ./cmd/warehouse api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Warehouse API Server ===")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}
	log := a.log

	if a.cfg.Auth.JWTSecret == "" {
		log.Warn("JWT_SECRET is empty; tokens are signed with an empty key (development only)")
	}

	// Live feed
	hub := realtime.NewHub(log)
	defer hub.Close()
	a.telemetry.WithPublisher(hub)

	router := api.NewRouter(api.Handlers{
		Health:    handlers.NewHealthHandler(a.db),
		Auth:      handlers.NewAuthHandler(a.auth, log),
		Dashboard: handlers.NewDashboardHandler(a.dashboard, log),
		Telemetry: handlers.NewTelemetryHandler(a.telemetry, a.cfg.Telemetry.RobotAPIKey, log),
		Stock:     handlers.NewStockHandler(a.reconciler, log),
		Forecast:  handlers.NewForecastHandler(a.orchestrator, a.narrator, a.predictionRepo, a.reportRepo, log),
		Warehouse: handlers.NewWarehouseHandler(a.warehouse, log),
		LiveFeed:  hub,
	}, a.auth.Tokens(), log)

	server := api.New(a.cfg, log, router)

	// Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
