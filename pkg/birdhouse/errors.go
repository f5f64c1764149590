package birdhouse

import (
	"errors"
	"fmt"

	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/router"
)

// ErrCancelled indicates a navigation was superseded or cancelled before it
// changed the page. Navigate reports it as status 0.
var ErrCancelled = router.ErrCancelled

// ConfigError represents an invalid or unreadable configuration value.
type ConfigError struct {
	Field string // Setting that failed (e.g., "base_url", "file")
	Err   error  // Underlying error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("birdhouse: config %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("birdhouse: config %s", e.Field)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new configuration error.
func NewConfigError(field string, err error) *ConfigError {
	return &ConfigError{Field: field, Err: err}
}

// IsConfigError checks if an error is a configuration error.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

// IsCancelled checks if an error indicates a superseded navigation.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
