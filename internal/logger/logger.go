// Package logger provides process-wide leveled logging backed by logrus.
//
// All output goes to stderr: stdout is reserved for the MCP stdio transport,
// so anything written there would corrupt the protocol stream.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: false,
		FullTimestamp:    true,
	})
	return l
}

// SetVerbose toggles debug-level output.
func SetVerbose(verbose bool) {
	if verbose {
		log.SetLevel(logrus.DebugLevel)
		return
	}
	log.SetLevel(logrus.InfoLevel)
}

// Fields is a set of structured log fields.
type Fields = logrus.Fields

// WithFields returns an entry with the given structured fields attached.
func WithFields(fields Fields) *logrus.Entry {
	return log.WithFields(fields)
}

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...any) {
	log.Debugf(format, args...)
}

// Infof logs a formatted message at info level.
func Infof(format string, args ...any) {
	log.Infof(format, args...)
}

// Errorf logs a formatted message at error level.
func Errorf(format string, args ...any) {
	log.Errorf(format, args...)
}
