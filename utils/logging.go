package utils

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogWriter adapts zerolog logger to io.Writer (gin access log)
type LogWriter struct {
	Logger zerolog.Logger
}

func (lw LogWriter) Write(bs []byte) (int, error) {
	return lw.Logger.With().Str("level", "info").Logger().Write(bs)
}

// SetupLogger configures global logger according to format ("json" or "default")
func SetupLogger(format, levelStr string, w io.Writer) {
	if strings.ToLower(format) == "json" {
		SetupJSONLogger(levelStr, w)
		return
	}
	SetupConsoleLogger(levelStr, w)
}

// SetupJSONLogger sets global logger to emit JSON lines into w
func SetupJSONLogger(levelStr string, w io.Writer) {
	zerolog.MessageFieldName = "message"
	zerolog.LevelFieldName = "level"

	var tsHook timestampHook
	log.Logger = zerolog.New(w).
		Hook(&tsHook).
		Level(GetLogLevelOrDebug(levelStr))
}

// SetupConsoleLogger sets global logger to human-readable output into w
func SetupConsoleLogger(levelStr string, w io.Writer) {
	zerolog.MessageFieldName = "message"
	zerolog.LevelFieldName = "level"

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(GetLogLevelOrDebug(levelStr)).
		With().
		Timestamp().
		Logger()
}

// SetupDefaultLogger sets console logger on stderr
func SetupDefaultLogger(levelStr string) {
	SetupConsoleLogger(levelStr, os.Stderr)
}

// GetLogLevelOrDebug parses level name, unknown names fall back to debug
func GetLogLevelOrDebug(levelStr string) zerolog.Level {
	levelStr = strings.ToLower(levelStr)
	if levelStr == "warning" {
		levelStr = "warn"
	}

	var level zerolog.Level

	err := level.UnmarshalText([]byte(levelStr))
	if err == nil && level != zerolog.NoLevel {
		return level
	}

	log.Warn().Msgf("Unknown log level '%s', defaulting to debug", levelStr)
	return zerolog.DebugLevel
}

type timestampHook struct{}

func (h *timestampHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	e.Str("time", time.Now().Format(time.RFC3339))
}
