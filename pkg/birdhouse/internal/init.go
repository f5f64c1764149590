// Package internal contains the process-wide infrastructure for birdhouse:
// logging, the signed-in role, and telemetry.
// Types and functions in this package are not part of the public API.
package internal

import _ "github.com/BrandonKowalski/certifiable" // Add CA certificates to the default trust store
