package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "github.com/aaronjt12/bw-sms-backend/pkg/errors"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"

	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverNone     = "none"
)

// Config is the relay configuration
type Config struct {
	Environment string          `mapstructure:"environment" validate:"oneof=development production test"`
	LogLevel    string          `mapstructure:"log_level"`
	Server      ServerConfig    `mapstructure:"server"`
	CORS        CORSConfig      `mapstructure:"cors"`
	SMS         SMSConfig       `mapstructure:"sms"`
	Store       StoreConfig     `mapstructure:"store"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes" validate:"min=1"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" validate:"dive,required,ne=*"`
}

type SMSConfig struct {
	Region          string `mapstructure:"region" validate:"required"`
	AccessKeyID     string `mapstructure:"access_key_id" validate:"required_with=SecretAccessKey"`
	SecretAccessKey string `mapstructure:"secret_access_key" validate:"required_with=AccessKeyID"`
	SenderNumber    string `mapstructure:"sender_number" validate:"required,e164"`
	SenderID        string `mapstructure:"sender_id" validate:"omitempty,max=11"`
	Endpoint        string `mapstructure:"endpoint" validate:"omitempty,url"`
}

type StoreConfig struct {
	Driver      string `mapstructure:"driver" validate:"oneof=redis postgres none"`
	RedisURL    string `mapstructure:"redis_url" validate:"required_if=Driver redis"`
	KeyPrefix   string `mapstructure:"key_prefix"`
	DatabaseURL string `mapstructure:"database_url" validate:"required_if=Driver postgres"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"rps" validate:"gte=0"`
	Burst             int     `mapstructure:"burst" validate:"gte=1"`
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// envBindings maps config keys to the environment variables deployments set
var envBindings = map[string]string{
	"environment":             "ENVIRONMENT",
	"log_level":               "LOG_LEVEL",
	"server.port":             "PORT",
	"server.max_body_bytes":   "MAX_BODY_BYTES",
	"cors.allowed_origins":    "CORS_ALLOWED_ORIGINS",
	"sms.region":              "SMS_REGION",
	"sms.access_key_id":       "SMS_ACCESS_KEY_ID",
	"sms.secret_access_key":   "SMS_SECRET_ACCESS_KEY",
	"sms.sender_number":       "SMS_SENDER_NUMBER",
	"sms.sender_id":           "SMS_SENDER_ID",
	"sms.endpoint":            "SMS_ENDPOINT",
	"store.driver":            "STORE_DRIVER",
	"store.redis_url":         "REDIS_URL",
	"store.key_prefix":        "STORE_KEY_PREFIX",
	"store.database_url":      "DATABASE_URL",
	"rate_limit.rps":          "RATE_LIMIT_RPS",
	"rate_limit.burst":        "RATE_LIMIT_BURST",
	"server.read_timeout":     "SERVER_READ_TIMEOUT",
	"server.write_timeout":    "SERVER_WRITE_TIMEOUT",
	"server.shutdown_timeout": "SERVER_SHUTDOWN_TIMEOUT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", EnvDevelopment)
	v.SetDefault("log_level", "info")

	v.SetDefault("server.port", 3001)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.max_body_bytes", 1<<20)

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})

	v.SetDefault("sms.region", "us-east-1")

	v.SetDefault("store.driver", DriverRedis)
	v.SetDefault("store.redis_url", "redis://localhost:6379/0")

	v.SetDefault("rate_limit.rps", 5)
	v.SetDefault("rate_limit.burst", 10)
}

// Load reads the relay configuration from an optional .env file, an optional
// config.yaml and the environment, in increasing priority.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, apperrors.NewConfiguration("failed to read .env file", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	return LoadFrom(v)
}

// LoadFrom is Load without the .env step, on a caller supplied viper instance
func LoadFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, apperrors.NewConfiguration("failed to bind "+env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, apperrors.NewConfiguration("failed to read config file", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.NewConfiguration("failed to unmarshal config", err)
	}
	cfg.CORS.AllowedOrigins = splitList(v.GetStringSlice("cors.allowed_origins"))
	cfg.Environment = strings.ToLower(strings.TrimSpace(cfg.Environment))

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"mapstructure", "envconfig"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

// Validate checks cfg and reports every failed rule in a single
// ConfigurationError
func Validate(cfg interface{}) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewConfiguration("invalid configuration", err)
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, describe(fe))
	}
	return apperrors.NewConfiguration(strings.Join(problems, "; "), err)
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	if i := strings.Index(field, "["); i >= 0 {
		field = field[:i]
	}
	if env, ok := envBindings[field]; ok {
		field = env
	}

	switch fe.Tag() {
	case "required", "required_with", "required_if":
		return field + " is required"
	case "ne":
		return fmt.Sprintf("%s must not contain %q", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "e164":
		return field + " must be an E.164 phone number"
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// splitList accepts both YAML lists and comma separated env values
func splitList(items []string) []string {
	var out []string
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
