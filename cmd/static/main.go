package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/aaronjt12/bw-sms-backend/internal/config"
	statichandler "github.com/aaronjt12/bw-sms-backend/internal/handler/static"
	"github.com/aaronjt12/bw-sms-backend/internal/router"
	site "github.com/aaronjt12/bw-sms-backend/internal/static"
	"github.com/aaronjt12/bw-sms-backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadStatic()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	l := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Console: cfg.Environment == config.EnvDevelopment,
		Service: "static",
	})
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if info, err := os.Stat(cfg.Root); err != nil || !info.IsDir() {
		l.Warn().Str("root", cfg.Root).Msg("static root is missing; only fixed routes will work")
	}

	injector := site.NewInjector(cfg.PublicKeys, os.LookupEnv)
	h := statichandler.NewHandler(site.NewSite(cfg.Root, injector, cfg.RenderCacheTTL), injector, statichandler.Config{
		Environment: cfg.Environment,
		Port:        cfg.Port,
		MapsKeyName: cfg.MapsKeyName,
	}, l)

	r := router.NewStaticRouter(h, router.StaticConfig{
		Debug:            cfg.DebugEnabled(),
		ShowErrorDetails: !cfg.IsProduction(),
	}, l)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		l.Info().
			Int("port", cfg.Port).
			Str("root", cfg.Root).
			Strs("public_keys", cfg.PublicKeys).
			Msg("static host listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error().Err(err).Msg("server failed")
			stop()
		}
	}()

	<-ctx.Done()
	l.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	l.Info().Msg("server exited properly")
}
