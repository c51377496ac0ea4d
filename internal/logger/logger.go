// Package logger prints pipeline progress for clausewise.
//
// Nothing is written unless verbose mode is on (the --verbose flag). Then
// each line goes to stderr with a level prefix, and Step reports how long
// an ingestion, retrieval or generation stage took.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	now               = time.Now
)

// SetVerbose turns logging on or off.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose reports whether logging is on.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects log lines, typically to a buffer in tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func logf(prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	fmt.Fprintf(output, prefix+format+"\n", args...)
}

// Debug logs pipeline detail such as sizes, ids and scores.
func Debug(format string, args ...any) { logf("[DEBUG] ", format, args...) }

// Info logs a completed stage.
func Info(format string, args ...any) { logf("[INFO] ", format, args...) }

// Warn logs a recovered failure, e.g. a retried batch or a summary placeholder.
func Warn(format string, args ...any) { logf("[WARN] ", format, args...) }

// Section prints a header for one top-level operation.
func Section(name string) {
	logf("\n=== ", "%s ===", name)
}

// Step starts timing a named stage. Call the returned func when it ends:
//
//	defer logger.Step("embed")()
func Step(name string) func() {
	start := now()
	return func() {
		logf("[TIME] ", "%s took %s", name, now().Sub(start).Round(time.Millisecond))
	}
}
