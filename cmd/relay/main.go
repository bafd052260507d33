package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/aaronjt12/bw-sms-backend/internal/config"
	"github.com/aaronjt12/bw-sms-backend/internal/handler/health"
	promhandler "github.com/aaronjt12/bw-sms-backend/internal/handler/prometheus"
	"github.com/aaronjt12/bw-sms-backend/internal/handler/relay"
	"github.com/aaronjt12/bw-sms-backend/internal/middleware"
	"github.com/aaronjt12/bw-sms-backend/internal/repository/store"
	"github.com/aaronjt12/bw-sms-backend/internal/router"
	"github.com/aaronjt12/bw-sms-backend/internal/service/notification"
	"github.com/aaronjt12/bw-sms-backend/internal/sms"
	"github.com/aaronjt12/bw-sms-backend/pkg/logger"
	"github.com/aaronjt12/bw-sms-backend/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	l := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Console: cfg.Environment == config.EnvDevelopment,
		Service: "relay",
	})
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Messaging provider
	sender, err := sms.NewSNSSender(ctx, sms.SNSConfig{
		Region:          cfg.SMS.Region,
		AccessKeyID:     cfg.SMS.AccessKeyID,
		SecretAccessKey: cfg.SMS.SecretAccessKey,
		SenderID:        cfg.SMS.SenderID,
		Endpoint:        cfg.SMS.Endpoint,
	})
	if err != nil {
		l.Fatal().Err(err).Msg("failed to initialize SMS provider")
	}

	// Document store
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	st, err := store.Open(connectCtx, cfg.Store, l)
	cancel()
	if err != nil {
		l.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("failed to connect to document store")
	}
	defer st.Close()

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New("relay", reg)

	svc := notification.NewService(sender, st, notification.Config{SenderNumber: cfg.SMS.SenderNumber}, m, l)

	r := router.NewRelayRouter(router.RelayHandlers{
		Relay:   relay.NewHandler(svc, st, l),
		Health:  health.NewHandler(st, cfg.Environment),
		Metrics: promhandler.New(reg),
	}, m, router.RelayConfig{
		CORS: middleware.DefaultCORSConfig(cfg.CORS.AllowedOrigins),
		RateLimit: middleware.RateLimiterConfig{
			RPS:   cfg.RateLimit.RequestsPerSecond,
			Burst: cfg.RateLimit.Burst,
		},
		MaxBodyBytes:     cfg.Server.MaxBodyBytes,
		ShowErrorDetails: !cfg.IsProduction(),
	}, l)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		l.Info().
			Int("port", cfg.Server.Port).
			Str("environment", cfg.Environment).
			Strs("cors_origins", cfg.CORS.AllowedOrigins).
			Msg("relay listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error().Err(err).Msg("server failed")
			stop()
		}
	}()

	<-ctx.Done()
	l.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	l.Info().Msg("server exited properly")
}
