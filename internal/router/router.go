package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/aaronjt12/bw-sms-backend/internal/handler/health"
	promhandler "github.com/aaronjt12/bw-sms-backend/internal/handler/prometheus"
	"github.com/aaronjt12/bw-sms-backend/internal/handler/relay"
	statichandler "github.com/aaronjt12/bw-sms-backend/internal/handler/static"
	"github.com/aaronjt12/bw-sms-backend/internal/middleware"
	"github.com/aaronjt12/bw-sms-backend/pkg/metrics"
)

type Router struct {
	engine *gin.Engine
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// core is shared by both services: request id, access log, error log and
// panic recovery, in that order so a recovered panic is still logged
func newRouter(logger zerolog.Logger, showErrorDetails bool) *Router {
	engine := gin.New()
	engine.HandleMethodNotAllowed = false

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.ErrorLogger(logger),
		middleware.Recovery(logger, showErrorDetails),
	)

	return &Router{engine: engine}
}

type RelayConfig struct {
	CORS             middleware.CORSConfig
	RateLimit        middleware.RateLimiterConfig
	MaxBodyBytes     int64
	ShowErrorDetails bool
}

type RelayHandlers struct {
	Relay   *relay.Handler
	Health  *health.Handler
	Metrics *promhandler.Handler
}

func NewRelayRouter(handlers RelayHandlers, m *metrics.Metrics, config RelayConfig, logger zerolog.Logger) *Router {
	r := newRouter(logger, config.ShowErrorDetails)

	if m != nil {
		r.engine.Use(middleware.Metrics(m))
	}
	r.engine.Use(
		middleware.SecurityHeaders(middleware.APISecurityConfig()),
		middleware.CORS(config.CORS),
		middleware.SizeLimit(config.MaxBodyBytes),
	)

	handlers.Health.RegisterRoutes(r.engine)
	if handlers.Metrics != nil {
		handlers.Metrics.RegisterRoutes(r.engine)
	}

	limiter := middleware.NewRateLimiter(config.RateLimit)
	handlers.Relay.RegisterRoutes(r.engine, limiter.RateLimit())
	r.engine.NoRoute(handlers.Relay.NotFound)

	return r
}

type StaticConfig struct {
	Debug            bool
	ShowErrorDetails bool
}

func NewStaticRouter(h *statichandler.Handler, config StaticConfig, logger zerolog.Logger) *Router {
	r := newRouter(logger, config.ShowErrorDetails)

	r.engine.Use(
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig()),
		middleware.Cache(middleware.DefaultCacheConfig()),
	)
	r.engine.SetHTMLTemplate(statichandler.Templates())

	h.RegisterRoutes(r.engine, config.Debug)
	r.engine.NoRoute(h.Serve)

	if config.Debug {
		logger.Warn().Msg("diagnostics endpoint /debug is enabled")
	}
	return r
}
