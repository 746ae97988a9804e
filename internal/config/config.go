package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the full runtime configuration, loaded once at startup from
// environment variables.
type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	Env     string `env:"ENV" envDefault:"DEV"`
	AppName string `env:"APP_NAME" envDefault:"twitblob"`

	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	ConsumerKey    string `env:"TWITTER_CONSUMER_KEY"`
	ConsumerSecret string `env:"TWITTER_CONSUMER_SECRET"`

	MaxBodySize   int64         `env:"MAX_BODY_SIZE" envDefault:"20000"`
	TokenLifetime time.Duration `env:"TOKEN_LIFETIME" envDefault:"336h"`

	FeedbackEnabled bool `env:"FEEDBACK_ENABLED" envDefault:"false"`
}

// requiredVars maps the env vars that have no usable default to a short
// description, used to build the error message when they are missing.
var requiredVars = map[string]string{
	"TWITTER_CONSUMER_KEY":    "OAuth consumer key for the identity provider",
	"TWITTER_CONSUMER_SECRET": "OAuth consumer secret for the identity provider",
}

// Load parses the environment into a Config and validates that the
// provider credentials are present.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	var missing []string
	if cfg.ConsumerKey == "" {
		missing = append(missing, "TWITTER_CONSUMER_KEY")
	}
	if cfg.ConsumerSecret == "" {
		missing = append(missing, "TWITTER_CONSUMER_SECRET")
	}
	if len(missing) > 0 {
		var b strings.Builder
		b.WriteString("missing configuration:\n")
		for _, name := range missing {
			fmt.Fprintf(&b, "  %-24s - %s\n", name, requiredVars[name])
		}
		return Config{}, fmt.Errorf("%s", b.String())
	}

	return cfg, nil
}

// ListenAddr returns the address for http.Server, prefixing the configured
// port with ':' when needed.
func (c Config) ListenAddr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
