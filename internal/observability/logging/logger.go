// Package logging provides zerolog helpers for packages that log outside a
// session's call-scoped logger. Process-wide logger setup lives in
// internal/app.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// WithComponent returns the global logger tagged with a component name.
func WithComponent(component string) zerolog.Logger {
	return log.With().
		Str("component", component).
		Logger()
}
