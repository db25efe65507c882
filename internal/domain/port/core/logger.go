package core

// LogLevel is the minimum severity a Logger emits
type LogLevel int

// Log levels, lowest first
const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// String returns the level name used in configuration
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "debug"
	case LogLevelWarn:
		return "warn"
	case LogLevelError:
		return "error"
	default:
		return "info"
	}
}

// Logger is the structured logger used by use cases and adapters.
// Field keys are snake_case; money values are logged as decimal strings.
type Logger interface {
	SetLevel(level LogLevel)
	GetLevel() LogLevel
	Debug(message string, fields map[string]any)
	Info(message string, fields map[string]any)
	Warn(message string, fields map[string]any)
	Error(message string, fields map[string]any)
	// Flush writes buffered entries; called once on shutdown
	Flush() error
}
