// Package logging configures the global zerolog logger. All diagnostics
// go to stderr so stdout stays clean for reports and JSON output.
package logging

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// Setup configures the global logger. Verbose lowers the level to debug;
// a TTY on stderr gets the human console format, everything else gets
// line-delimited JSON.
func Setup(verbose bool) {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		log.Logger = log.Output(os.Stderr)
	}
}
