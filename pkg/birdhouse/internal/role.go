package internal

import (
	"go.uber.org/atomic"

	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/constants"
)

var currentRole = atomic.NewString(string(constants.RoleNone))

// SetRole sets the process-wide role. It is written once at startup and only
// read afterwards.
func SetRole(role constants.Role) {
	currentRole.Store(string(role))
}

// GetRole returns the process-wide role.
func GetRole() constants.Role {
	return constants.Role(currentRole.Load())
}
