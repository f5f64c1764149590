package birdhouse

import (
	"errors"
	"net/url"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/constants"
	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/router"
)

// Config holds everything needed to build a Navigator. Values come from
// defaults, then an optional TOML file, then BIRDHOUSE_* environment
// variables.
type Config struct {
	BaseURL      string        `toml:"base_url" env:"BIRDHOUSE_BASE_URL"`
	Role         string        `toml:"role" env:"BIRDHOUSE_ROLE"`
	LogPath      string        `toml:"log_path" env:"BIRDHOUSE_LOG_PATH"`
	LogLevel     string        `toml:"log_level" env:"BIRDHOUSE_LOG_LEVEL"`
	Language     string        `toml:"language" env:"BIRDHOUSE_LANG"`
	FetchTimeout time.Duration `toml:"fetch_timeout" env:"BIRDHOUSE_FETCH_TIMEOUT"`
	Routes       RoutesConfig  `toml:"routes" envPrefix:"BIRDHOUSE_ROUTE_"`
}

// RoutesConfig overrides the route table. Empty fields keep the defaults.
type RoutesConfig struct {
	PublicLanding string `toml:"public_landing" env:"PUBLIC_LANDING"`
	MemberLanding string `toml:"member_landing" env:"MEMBER_LANDING"`
	Template      string `toml:"template" env:"TEMPLATE"`
	NotFound      string `toml:"not_found" env:"NOT_FOUND"`
}

// DefaultConfig returns the stock configuration for a local dev server.
func DefaultConfig() Config {
	routes := router.DefaultRoutes()
	return Config{
		BaseURL:      "http://localhost:5173/",
		Role:         string(constants.RoleNone),
		LogLevel:     "info",
		Language:     "en",
		FetchTimeout: constants.DefaultFetchTimeout,
		Routes: RoutesConfig{
			PublicLanding: routes.PublicLanding,
			MemberLanding: routes.MemberLanding,
			Template:      routes.Template,
			NotFound:      routes.NotFound,
		},
	}
}

// LoadConfig builds a Config from defaults, the TOML file at path (skipped
// when path is empty) and the environment.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, NewConfigError("file", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, NewConfigError("env", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values a Navigator cannot work without.
func (c Config) Validate() error {
	if _, err := c.Base(); err != nil {
		return err
	}
	if c.Role != "" && !constants.Role(c.Role).Valid() {
		return NewConfigError("role", errors.New("must be none, player or staff"))
	}
	if c.FetchTimeout < 0 {
		return NewConfigError("fetch_timeout", errors.New("must not be negative"))
	}
	return nil
}

// Base parses BaseURL. It must be absolute.
func (c Config) Base() (*url.URL, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, NewConfigError("base_url", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, NewConfigError("base_url", errors.New("must be an absolute URL"))
	}
	return u, nil
}

// Options returns the process-wide settings of cfg for Init.
func (c Config) Options() Options {
	return Options{
		LogPath:  c.LogPath,
		LogLevel: c.LogLevel,
		Role:     constants.ParseRole(c.Role),
	}
}

// RouteTable converts the routes section to a router.Routes.
func (c Config) RouteTable() router.Routes {
	return router.Routes{
		PublicLanding: c.Routes.PublicLanding,
		MemberLanding: c.Routes.MemberLanding,
		Template:      c.Routes.Template,
		NotFound:      c.Routes.NotFound,
	}
}
