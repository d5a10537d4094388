package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the process-wide settings. It is built once at startup and
// passed by value into constructors.
type Config struct {
	Env        string `env:"APP_ENV" envDefault:"development"`
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`
	GinMode    string `env:"GIN_MODE" envDefault:"debug"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	DB DBConfig

	JWTSecret     string        `env:"JWT_SECRET_KEY,required,notEmpty"`
	JWTExpiration time.Duration `env:"JWT_EXPIRATION" envDefault:"24h"`

	OTPTTL  time.Duration `env:"OTP_TTL" envDefault:"5m"`
	OTPEcho bool          `env:"OTP_ECHO" envDefault:"true"`

	KafkaBrokers  []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaOTPTopic string   `env:"KAFKA_OTP_TOPIC" envDefault:"aadhaar-otp"`
}

// Load parses the environment into a Config. Callers are expected to have
// loaded any .env file beforehand.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("error getting env configs: %w", err)
	}

	dsn, err := cfg.DB.dsn()
	if err != nil {
		return Config{}, err
	}
	cfg.DB.DSN = dsn

	if cfg.JWTExpiration <= 0 {
		return Config{}, fmt.Errorf("JWT_EXPIRATION must be positive, got %s", cfg.JWTExpiration)
	}
	if cfg.OTPTTL <= 0 {
		return Config{}, fmt.Errorf("OTP_TTL must be positive, got %s", cfg.OTPTTL)
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with production defaults.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}
