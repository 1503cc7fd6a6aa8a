// Package log is a small leveled logger on top of the standard log writer.
//
// The terminal renderer owns stderr while it runs, so callers redirect the
// output with SetOutput before the screen is taken over.
package log

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync/atomic"
)

// Level is the severity of a message.
type Level uint32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel reads a level name, ignoring case. Unknown names give LevelInfo
// and false.
func ParseLevel(name string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return LevelDebug, true
	case "INFO", "":
		return LevelInfo, true
	case "WARN", "WARNING":
		return LevelWarn, true
	case "ERROR":
		return LevelError, true
	case "FATAL":
		return LevelFatal, true
	default:
		return LevelInfo, false
	}
}

var (
	level  atomic.Uint32
	logger = stdlog.New(os.Stderr, "", stdlog.Ldate|stdlog.Ltime|stdlog.Lmicroseconds)
)

func init() {
	SetLevel(LevelInfo)
}

// SetLevel sets the minimum level that gets written.
func SetLevel(l Level) {
	level.Store(uint32(l))
}

// GetLevel returns the current minimum level.
func GetLevel() Level {
	return Level(level.Load())
}

// SetOutput changes where messages are written.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

func enabled(l Level) bool {
	return l >= GetLevel()
}

func output(l Level, msg string) {
	// two frames up is the caller of Debugf and friends
	logger.Output(3, fmt.Sprintf("[%-5s] %s", l, msg))
}

func Debugf(format string, v ...interface{}) {
	if enabled(LevelDebug) {
		output(LevelDebug, fmt.Sprintf(format, v...))
	}
}

func Infof(format string, v ...interface{}) {
	if enabled(LevelInfo) {
		output(LevelInfo, fmt.Sprintf(format, v...))
	}
}

func Warnf(format string, v ...interface{}) {
	if enabled(LevelWarn) {
		output(LevelWarn, fmt.Sprintf(format, v...))
	}
}

func Errorf(format string, v ...interface{}) {
	if enabled(LevelError) {
		output(LevelError, fmt.Sprintf(format, v...))
	}
}

// Fatalf always logs, then exits with status 1.
func Fatalf(format string, v ...interface{}) {
	output(LevelFatal, fmt.Sprintf(format, v...))
	os.Exit(1)
}
