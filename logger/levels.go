// logger/levels.go
package logger

type LogLevel int

const (
	LogLevelDebug LogLevel = -1
	LogLevelInfo  LogLevel = 0
	LogLevelWarn  LogLevel = 1
	LogLevelError LogLevel = 2
	LogLevelNone  LogLevel = 6
)

// ParseLogLevelFromString takes a string representation of the log level and
// returns the corresponding LogLevel. Used to convert a string log level from
// a configuration file to a strongly-typed LogLevel.
func ParseLogLevelFromString(levelStr string) LogLevel {
	switch levelStr {
	case "LogLevelDebug", "debug":
		return LogLevelDebug
	case "LogLevelInfo", "info":
		return LogLevelInfo
	case "LogLevelWarn", "warn", "warning":
		return LogLevelWarn
	case "LogLevelError", "error":
		return LogLevelError
	case "LogLevelNone", "none":
		return LogLevelNone
	default:
		return LogLevelInfo
	}
}
