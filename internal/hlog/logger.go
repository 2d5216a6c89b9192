// Package hlog is a minimal logging wrapper around an io.Writer, widened
// from golang-dep's bare Logf/Logln pair with a debug level gated on an
// environment variable so verbose tracing never needs a flag plumbed
// through every call site.
package hlog

import (
	"fmt"
	"io"
	"os"
)

// Logger wraps an io.Writer with a few formatting helpers. Its only other
// state is the debug flag fixed by New; callers that want prefixes
// construct a new Logger with a different Writer.
type Logger struct {
	io.Writer
	debug bool
}

// New returns a logger writing to w. Debug output is enabled when HPM_DEBUG
// is set to a non-empty value.
func New(w io.Writer) *Logger {
	return &Logger{Writer: w, debug: os.Getenv("HPM_DEBUG") != ""}
}

// Logln logs a line.
func (l *Logger) Logln(args ...interface{}) {
	fmt.Fprintln(l, args...)
}

// Logf logs a formatted string.
func (l *Logger) Logf(f string, args ...interface{}) {
	fmt.Fprintf(l, f, args...)
}

// Errf logs a formatted error line, prefixed with "hpm: ".
func (l *Logger) Errf(f string, args ...interface{}) {
	fmt.Fprintf(l, "hpm: "+f+"\n", args...)
}

// Debugf logs a formatted line only when debug output is enabled.
func (l *Logger) Debugf(f string, args ...interface{}) {
	if !l.debug {
		return
	}
	fmt.Fprintf(l, "hpm: debug: "+f+"\n", args...)
}
