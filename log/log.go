package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/kastheco/doist/internal/sentry"
)

var (
	InfoLog    *log.Logger
	WarningLog *log.Logger
	ErrorLog   *log.Logger

	globalLogFile *os.File
	verboseMode   bool
)

// Loggers default to stderr so packages that log before Initialize runs
// (config loading happens first) never hit a nil logger.
func init() {
	initLoggers(os.Stderr)
}

func initLoggers(w io.Writer) {
	// Warnings and errors are teed into Sentry when telemetry is enabled;
	// the writers degrade to plain pass-throughs otherwise.
	InfoLog = log.New(w, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	WarningLog = log.New(sentry.NewWriter(w, sentry.LevelWarning),
		"WARNING: ", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLog = log.New(sentry.NewWriter(w, sentry.LevelError),
		"ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
}

// Initialize sets up logging to a file in the user's cache directory. When
// verbose is true log lines are mirrored to stderr as well. Failure to open
// the log file falls back to stderr-only logging so callers never need to
// handle an error.
func Initialize(verbose bool) {
	verboseMode = verbose

	cacheDir, err := os.UserCacheDir()
	if err != nil {
		initLoggers(os.Stderr)
		return
	}
	logDir := filepath.Join(cacheDir, "doist")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		initLoggers(os.Stderr)
		return
	}

	f, err := os.OpenFile(filepath.Join(logDir, "doist.log"),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		initLoggers(os.Stderr)
		return
	}
	globalLogFile = f

	var w io.Writer = f
	if verbose {
		w = io.MultiWriter(f, os.Stderr)
	}
	initLoggers(w)
}

// Close flushes and closes the log file if one was opened.
func Close() {
	if globalLogFile != nil {
		_ = globalLogFile.Close()
		globalLogFile = nil
	}
}

// Path returns the log file location, or an empty string when logging to
// stderr only.
func Path() string {
	if globalLogFile == nil {
		return ""
	}
	return globalLogFile.Name()
}

// Verbose reports whether verbose logging was requested at startup.
func Verbose() bool {
	return verboseMode
}

// Errorf logs to ErrorLog and returns the formatted error, for call sites
// that both record and propagate.
func Errorf(format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	if ErrorLog != nil {
		ErrorLog.Output(2, err.Error())
	}
	return err
}
