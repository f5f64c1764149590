package birdhouse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/constants"
)

func TestInitRole(t *testing.T) {
	t.Cleanup(func() { Init(Options{}) })

	Init(Options{Role: constants.RoleStaff, LogLevel: "error"})
	assert.Equal(t, constants.RoleStaff, GetRole())

	Init(Options{Role: constants.Role("admin"), LogLevel: "error"})
	assert.Equal(t, constants.RoleNone, GetRole(), "unknown roles fall back to none")
}
