package birdhouse

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/constants"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "birdhouse.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
		assert.Equal(t, constants.DefaultRouteTemplate, cfg.RouteTable().Template)
	})

	t.Run("file", func(t *testing.T) {
		path := writeConfig(t, `
base_url = "https://birdhouse.example/app/"
role = "staff"
language = "cs"
fetch_timeout = "5s"

[routes]
template = "./pages/{name}.html"
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "https://birdhouse.example/app/", cfg.BaseURL)
		assert.Equal(t, "staff", cfg.Role)
		assert.Equal(t, "cs", cfg.Language)
		assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
		assert.Equal(t, "./pages/{name}.html", cfg.Routes.Template)
		assert.Equal(t, constants.DefaultMemberLanding, cfg.Routes.MemberLanding, "unset keys keep defaults")
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := writeConfig(t, `role = "staff"`)
		t.Setenv(constants.RoleEnvVar, "player")
		t.Setenv("BIRDHOUSE_ROUTE_NOT_FOUND", "oops")
		t.Setenv("BIRDHOUSE_FETCH_TIMEOUT", "2s")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "player", cfg.Role)
		assert.Equal(t, "oops", cfg.Routes.NotFound)
		assert.Equal(t, 2*time.Second, cfg.FetchTimeout)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		assert.True(t, IsConfigError(err))
	})

	t.Run("invalid base url", func(t *testing.T) {
		path := writeConfig(t, `base_url = "/relative/"`)
		_, err := LoadConfig(path)

		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "base_url", cfgErr.Field)
	})

	t.Run("invalid role", func(t *testing.T) {
		path := writeConfig(t, `role = "admin"`)
		_, err := LoadConfig(path)
		assert.True(t, IsConfigError(err))
	})
}

func TestConfigOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Role = "player"
	cfg.LogPath = "/tmp/birdhouse.log"

	opts := cfg.Options()
	assert.Equal(t, constants.RolePlayer, opts.Role)
	assert.Equal(t, "/tmp/birdhouse.log", opts.LogPath)
	assert.Equal(t, "info", opts.LogLevel)
}

func TestConfigError(t *testing.T) {
	err := NewConfigError("role", nil)
	assert.Equal(t, "birdhouse: config role", err.Error())
	assert.False(t, IsCancelled(err))
	assert.True(t, IsCancelled(ErrCancelled))
}
