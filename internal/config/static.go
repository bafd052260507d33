package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	apperrors "github.com/aaronjt12/bw-sms-backend/pkg/errors"
)

// StaticConfig configures the static host. It is read from the environment
// only, like the values it injects into served pages.
type StaticConfig struct {
	Environment     string        `envconfig:"ENVIRONMENT" default:"development" validate:"oneof=development production test"`
	Port            int           `envconfig:"PORT" default:"3000" validate:"min=1,max=65535"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	Root            string        `envconfig:"STATIC_ROOT" default:"./build" validate:"required"`
	PublicKeys      []string      `envconfig:"PUBLIC_CONFIG_KEYS" default:"REACT_APP_API_URL,REACT_APP_GOOGLE_MAPS_API_KEY,REACT_APP_ENVIRONMENT" validate:"dive,required"`
	MapsKeyName     string        `envconfig:"MAPS_KEY_NAME" default:"REACT_APP_GOOGLE_MAPS_API_KEY"`
	RenderCacheTTL  time.Duration `envconfig:"RENDER_CACHE_TTL" default:"1m" validate:"gte=0"`
	DebugEndpoint   bool          `envconfig:"DEBUG_ENDPOINT" default:"false"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s" validate:"gt=0"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s" validate:"gt=0"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s" validate:"gt=0"`
}

func (c *StaticConfig) IsProduction() bool {
	return c.Environment == EnvProduction
}

// DebugEnabled gates the diagnostics route. Production never gets it.
func (c *StaticConfig) DebugEnabled() bool {
	return c.DebugEndpoint && !c.IsProduction()
}

func LoadStatic() (*StaticConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, apperrors.NewConfiguration("failed to read .env file", err)
	}

	var cfg StaticConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, apperrors.NewConfiguration("failed to parse environment", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
