// Package config loads the settings of the linkedin-login command from the
// environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"reflect"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"
)

// Config is the full runtime configuration of linkedin-login.
type Config struct {
	ClientID      string         `env:"LINKEDIN_CLIENT_ID" validate:"required"`
	ClientSecret  string         `env:"LINKEDIN_CLIENT_SECRET" validate:"required"`
	RedirectURL   string         `env:"LINKEDIN_REDIRECT_URL" envDefault:"http://localhost:8000/authorize/" validate:"required,url"`
	Scope         string         `env:"LINKEDIN_SCOPE" envDefault:"r_basicprofile"`
	ProfileFields string         `env:"LINKEDIN_PROFILE_FIELDS"`
	Timeout       time.Duration  `env:"LINKEDIN_TIMEOUT" envDefault:"60s" validate:"gt=0"`
	Languages     []language.Tag `env:"LINKEDIN_LANGUAGES" envSeparator:","`

	ListenAddr string `env:"LISTEN_ADDR" envDefault:"localhost:8000" validate:"required,hostname_port"`

	LogLevel   string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=trace debug info warn error"`
	LogBackend string `env:"LOG_BACKEND" envDefault:"logrus" validate:"oneof=logrus zap"`
	LogFile    string `env:"LOG_FILE"`
}

// CallbackPath is the path component of RedirectURL, "/" when empty.
func (c *Config) CallbackPath() string {
	u, err := url.Parse(c.RedirectURL)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}

var languageParser = map[reflect.Type]env.ParserFunc{
	reflect.TypeOf(language.Tag{}): func(v string) (any, error) {
		return language.Parse(v)
	},
}

// Load reads the given dotenv files (".env" when none are given) into the
// process environment, then parses and validates the configuration. Missing
// dotenv files are ignored.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return Parse(nil)
}

// Parse builds a Config from environ, or from the process environment when
// environ is nil, and validates it.
func Parse(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	opts := env.Options{
		Environment: environ,
		FuncMap:     languageParser,
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
