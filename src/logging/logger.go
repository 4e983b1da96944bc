// Package logging is the process-wide leveled logger used by the plotting
// packages and the CLI. Output goes to stderr through a zerolog console writer.
package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// LogLevel represents severity.
type LogLevel int32

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[string]LogLevel{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

var zlevels = map[LogLevel]zerolog.Level{
	LevelDebug: zerolog.DebugLevel,
	LevelInfo:  zerolog.InfoLevel,
	LevelWarn:  zerolog.WarnLevel,
	LevelError: zerolog.ErrorLevel,
}

var currentLevel int32 = int32(LevelInfo)

var baseLogger = newLogger(os.Stderr)

func newLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.000"}).
		With().Timestamp().Logger()
}

// SetOutput redirects log output; tests use it to capture lines.
func SetOutput(w io.Writer) { baseLogger = newLogger(w) }

// SetLogLevel parses and sets the global log level. Unknown names are ignored
// and reported as false.
func SetLogLevel(s string) bool {
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return false
	}
	atomic.StoreInt32(&currentLevel, int32(l))
	return true
}

func getLevel() LogLevel { return LogLevel(atomic.LoadInt32(&currentLevel)) }

// GetLogLevel returns current global log level.
func GetLogLevel() LogLevel { return getLevel() }

func logf(l LogLevel, format string, args ...interface{}) {
	if getLevel() > l {
		return
	}
	// A bare message is not run through Sprintf so literal % survives.
	if len(args) == 0 {
		logMsg(l, format)
		return
	}
	baseLogger.WithLevel(zlevels[l]).Msgf(format, args...)
}

func logMsg(l LogLevel, msg string) {
	if getLevel() > l {
		return
	}
	baseLogger.WithLevel(zlevels[l]).Msg(msg)
}

func Debugf(format string, a ...interface{}) { logf(LevelDebug, format, a...) }
func Infof(format string, a ...interface{})  { logf(LevelInfo, format, a...) }
func Warnf(format string, a ...interface{})  { logf(LevelWarn, format, a...) }
func Errorf(format string, a ...interface{}) { logf(LevelError, format, a...) }

// TimeTrack logs the duration of a phase at debug level.
func TimeTrack(start time.Time, label string) {
	Debugf("%s took %s", label, time.Since(start))
}
