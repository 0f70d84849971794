package interfaces

// Logger defines the interface for logging throughout the application.
// The production implementation is backed by logrus.
//
// Example usage:
//
//	logger.Warn("Falling back to alternate backend", map[string]interface{}{
//		"channel_id": "UC123",
//		"from":       "local",
//		"to":         "invidious",
//	})
type Logger interface {
	// Debug logs a debug level message with optional structured fields.
	Debug(msg string, fields map[string]interface{})

	// Info logs an info level message with optional structured fields.
	Info(msg string, fields map[string]interface{})

	// Warn logs a warning level message with optional structured fields.
	// Used for recoverable per-channel failures.
	Warn(msg string, fields map[string]interface{})

	// Error logs an error level message with optional structured fields.
	Error(msg string, fields map[string]interface{})
}

// NopLogger discards everything. Used when no logger is configured.
type NopLogger struct{}

func (NopLogger) Debug(string, map[string]interface{}) {}
func (NopLogger) Info(string, map[string]interface{})  {}
func (NopLogger) Warn(string, map[string]interface{})  {}
func (NopLogger) Error(string, map[string]interface{}) {}
