// +build !logless

// Package logger provides the package-level structured logger used by
// the command-line driver (cmd/noisegen).
// Core packages (pkg/pcloud, pkg/kdtree, pkg/narytree, pkg/pointtree,
// pkg/spectrum, pkg/noise, pkg/tensordm) never log: they raise errors and
// let the caller decide what to do with them.
package logger

import (
	"os"

	"github.com/rs/zerolog"
	logger "github.com/rs/zerolog/log"
)

// Log is the shared logger instance, writing a human-friendly console
// format to stderr with caller information attached.
var Log = logger.With().Caller().Logger().Output(zerolog.ConsoleWriter{Out: os.Stderr})

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}
