package logger

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

const (
	TRACE = iota
	DEBUG
	INFO
	WARN
	ERROR
	FATAL
)

type LogLevel int

func LevelFromString(level string) LogLevel {
	defaultLogLevel := LogLevel(INFO)
	switch strings.ToLower(level) {
	case "trace":
		return TRACE
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	case "fatal", "panic":
		return FATAL
	default:
		return defaultLogLevel
	}

}

func (l LogLevel) String() string {
	switch l {
	case TRACE:
		return "TRACE"
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	}

	return "UNKNOWN"
}

// zapLevel maps a LogLevel onto the closest zap level. zap has no trace level,
// so TRACE is emitted at debug.
func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case TRACE, DEBUG:
		return zapcore.DebugLevel
	case INFO:
		return zapcore.InfoLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		// FATAL is reported on the exit channel rather than through zap's os.Exit.
		return zapcore.ErrorLevel
	}
}
