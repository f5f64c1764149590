// Package constants defines shared constants, types, and configuration values
// used throughout the birdhouse navigation controller.
package constants

import (
	"os"
	"time"
)

// Development is the environment variable value for development mode.
const Development = "DEV"

// Environment variable names read by the birdhouse packages.
const (
	EnvironmentEnvVar = "ENVIRONMENT"
	BaseURLEnvVar     = "BIRDHOUSE_BASE_URL"
	RoleEnvVar        = "BIRDHOUSE_ROLE"
	LogPathEnvVar     = "BIRDHOUSE_LOG_PATH"
	LogLevelEnvVar    = "BIRDHOUSE_LOG_LEVEL"
	LanguageEnvVar    = "BIRDHOUSE_LANG"
)

// IsDevMode returns true if running in development mode (ENVIRONMENT=DEV).
func IsDevMode() bool {
	return os.Getenv(EnvironmentEnvVar) == Development
}

// Role is the category of the signed-in user. It decides the landing page
// and which role-restricted fragments of a page survive parsing.
type Role string

const (
	RoleNone   Role = "none"
	RolePlayer Role = "player"
	RoleStaff  Role = "staff"
)

// GetName returns a display name for the role.
func (r Role) GetName() string {
	switch r {
	case RoleNone:
		return "Guest"
	case RolePlayer:
		return "Player"
	case RoleStaff:
		return "Staff"
	default:
		return "Unknown"
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleNone, RolePlayer, RoleStaff:
		return true
	}
	return false
}

// ParseRole converts a raw string into a Role. Unknown values map to RoleNone.
func ParseRole(raw string) Role {
	if r := Role(raw); r.Valid() {
		return r
	}
	return RoleNone
}

// Page names and markup conventions shared by the router and the document parser.
const (
	LandingPage   = "landing"
	NotFoundPage  = "notfound"
	EscapePrefix  = "_"
	ContentID     = "main-content"
	RoleAttribute = "data-role"
)

// Default routes. RouteTemplate is expanded with the page name.
const (
	DefaultPublicLanding = "./html/about.html"
	DefaultMemberLanding = "./html/dates.html"
	DefaultRouteTemplate = "./html/{name}.html"
)

// Default timing constants.
const (
	DefaultFetchTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
)
