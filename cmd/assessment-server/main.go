package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/acutepeds/assessment/internal/config"
	"github.com/acutepeds/assessment/internal/domain/flow"
	"github.com/acutepeds/assessment/internal/domain/session"
	"github.com/acutepeds/assessment/internal/platform/alerting"
	"github.com/acutepeds/assessment/internal/platform/middleware"
	"github.com/acutepeds/assessment/internal/platform/telemetry"
	"github.com/acutepeds/assessment/internal/platform/websocket"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "assessment-server",
		Short: "Pediatric emergency assessment engine",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(validateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the assessment API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the question graph for integrity errors",
		RunE: func(cmd *cobra.Command, args []string) error {
			g := flow.DefaultGraph()
			if err := g.Validate(); err != nil {
				return fmt.Errorf("question graph is invalid: %w", err)
			}
			fmt.Printf("Question graph OK: %d questions across %d phases.\n", g.Len(), len(g.Phases()))
			return nil
		},
	}
}

// serverDeps are the long-lived components the server owns and must shut
// down in order.
type serverDeps struct {
	telemetry *telemetry.Provider
	alerts    *alerting.Dispatcher
	hub       *websocket.Hub
}

// buildServer wires the echo instance. Split from runServer so tests can
// exercise the route table without binding a port.
func buildServer(cfg *config.Config, logger zerolog.Logger) (*echo.Echo, *serverDeps, error) {
	graph := flow.DefaultGraph()
	if err := graph.Validate(); err != nil {
		return nil, nil, fmt.Errorf("question graph is invalid: %w", err)
	}

	tp := telemetry.NewProvider(telemetry.Config{
		ServiceName:    "assessment-server",
		ServiceVersion: version,
		Environment:    cfg.Env,
	})

	hub := websocket.NewHub()

	alerts := alerting.NewDispatcher(logger, 0)
	alerts.AddSink(alerting.SinkFunc(func(ctx context.Context, a alerting.Alert) error {
		logger.Warn().
			Str("kind", string(a.Kind)).
			Str("session_id", a.SessionID).
			Str("action_id", a.ActionID).
			Msg("clinical alert")
		return nil
	}))
	alerts.AddSink(hubAlertSink(hub))

	repo := session.NewMemoryRepository(cfg.SessionCap)
	svc := session.NewService(repo, graph, logger, session.Options{
		DefaultVariant:               cfg.FlowVariant,
		RetainCancelledInterventions: cfg.RetainCancelled,
		DefaultScenarioWeightKG:      cfg.DefaultScenarioWeightKG,
	})
	svc.SetPublisher(hub)
	svc.SetAlerts(alerts)
	svc.SetMetrics(tp)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(tp.TracingMiddleware())
	e.Use(tp.MetricsMiddleware())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	e.GET("/metrics", tp.PrometheusHandler())

	apiV1 := e.Group("/api/v1")
	session.NewHandler(svc).RegisterRoutes(apiV1)

	// Client pacing and variant hints.
	apiV1.GET("/config", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"flow_variant":               cfg.FlowVariant,
			"advance_delay_ms":           cfg.AdvanceDelayMS,
			"default_scenario_weight_kg": cfg.DefaultScenarioWeightKG,
		})
	})

	wsHandler := websocket.NewHandler(hub)
	wsHandler.RegisterRoutes(e.Group(""))

	return e, &serverDeps{telemetry: tp, alerts: alerts, hub: hub}, nil
}

// hubAlertSink fans alerts out to the session's websocket subscribers so
// connected clients can play the tone or start the on-screen timer.
func hubAlertSink(hub *websocket.Hub) alerting.Sink {
	return alerting.SinkFunc(func(ctx context.Context, a alerting.Alert) error {
		data, err := json.Marshal(a)
		if err != nil {
			return err
		}
		evType := websocket.EventEmergencyActivated
		if a.Kind == alerting.KindCompressionTimer {
			evType = websocket.EventCompressionTimer
		}
		return hub.Publish(ctx, websocket.Event{
			Type:      evType,
			Topic:     a.SessionID,
			SessionID: a.SessionID,
			Timestamp: a.CreatedAt,
			Data:      data,
		})
	})
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	e, deps, err := buildServer(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build server")
	}

	go func() {
		addr := ":" + cfg.Port
		logger.Info().
			Str("addr", addr).
			Str("env", cfg.Env).
			Str("flow_variant", cfg.FlowVariant).
			Msg("starting server")
		var startErr error
		if cfg.TLSEnabled {
			startErr = e.StartTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			startErr = e.Start(addr)
		}
		if startErr != nil && startErr != http.ErrServerClosed {
			logger.Fatal().Err(startErr).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	deps.alerts.Close()
	_ = deps.telemetry.Shutdown(ctx)
	logger.Info().Msg("server stopped")
	return nil
}
