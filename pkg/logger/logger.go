package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Leveled logger shared by the API server and the ops CLI.
// Debug/Info/Warn/Error/Fatal variants over a zerolog backend, plus Init(level).

var (
	mu   sync.RWMutex
	base = zerolog.New(os.Stdout).With().Timestamp().Logger()
)

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Call early during startup. Default level is Info.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	base = base.Level(parseLevel(l))
}

// UseConsole switches output to zerolog's human-readable console writer.
func UseConsole(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	lvl := base.GetLevel()
	base = zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger().Level(lvl)
}

func parseLevel(l string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// With returns a copy of the current logger for structured fields.
func With() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

func event(lvl zerolog.Level) *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return base.WithLevel(lvl)
}

func Debugf(format string, v ...interface{}) { event(zerolog.DebugLevel).Msgf(format, v...) }
func Infof(format string, v ...interface{})  { event(zerolog.InfoLevel).Msgf(format, v...) }
func Warnf(format string, v ...interface{})  { event(zerolog.WarnLevel).Msgf(format, v...) }
func Errorf(format string, v ...interface{}) { event(zerolog.ErrorLevel).Msgf(format, v...) }

func Fatalf(format string, v ...interface{}) {
	mu.RLock()
	l := base
	mu.RUnlock()
	// WithLevel(Fatal) does not exit, which keeps the exit in one place.
	l.WithLevel(zerolog.FatalLevel).Msgf(format, v...)
	os.Exit(1)
}

// Println kept for brief messages (maps to Info)
func Println(v ...interface{}) {
	event(zerolog.InfoLevel).Msg(strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

func Debug(v string) { Debugf("%s", v) }
func Info(v string)  { Infof("%s", v) }
func Warn(v string)  { Warnf("%s", v) }
func Error(v string) { Errorf("%s", v) }

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	switch base.GetLevel() {
	case zerolog.DebugLevel, zerolog.TraceLevel:
		return "debug"
	case zerolog.WarnLevel:
		return "warn"
	case zerolog.ErrorLevel:
		return "error"
	case zerolog.FatalLevel, zerolog.PanicLevel:
		return "fatal"
	}
	return "info"
}
