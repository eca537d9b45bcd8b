// Package logging configures the process-wide zerolog logger shared by
// cmd/pivotctl and internal/httpapi, the way czcorpus/vert-tagextract's
// cnf and library packages reach for the global
// github.com/rs/zerolog/log logger rather than threading a *zerolog.Logger
// through every call. Core pipeline packages (morph, pattern, pivot, …)
// stay logging-free; this package is wired in only at the engine/cmd
// boundary.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Configure sets the global zerolog level and output format. level is one
// of zerolog's level strings ("debug", "info", "warn", "error"); an
// unrecognized level falls back to info. When pretty is true, output goes
// through zerolog's ConsoleWriter (for local/CLI use); otherwise it is
// newline-delimited JSON on stderr, suited to a supervised process.
func Configure(level string, pretty bool) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	var w = os.Stderr
	if pretty {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}
