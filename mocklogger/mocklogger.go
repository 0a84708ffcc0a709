// mocklogger/mocklogger.go
package mocklogger

import (
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zapcore"

	"github.com/thedzy/jamf-classes/logger"
)

// MockLogger is a mock type for the Logger interface, for tests that assert
// on what was logged, such as the schema parser's malformed-entry warnings.
type MockLogger struct {
	mock.Mock
	logLevel logger.LogLevel
}

// NewMockLogger creates a new MockLogger instance.
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

var _ logger.Logger = (*MockLogger)(nil)

// GetLogLevel mocks the GetLogLevel method of the Logger interface.
func (m *MockLogger) GetLogLevel() logger.LogLevel {
	return m.logLevel
}

// SetLevel sets the logging level of the MockLogger.
func (m *MockLogger) SetLevel(level logger.LogLevel) {
	m.logLevel = level
}

// With returns the same mock so expectations set on it keep applying to
// loggers derived with contextual fields.
func (m *MockLogger) With(fields ...zapcore.Field) logger.Logger {
	m.Called(fields)
	return m
}

// Debug records a Debug call.
func (m *MockLogger) Debug(msg string, fields ...zapcore.Field) {
	m.Called(msg, fields)
}

// Info records an Info call.
func (m *MockLogger) Info(msg string, fields ...zapcore.Field) {
	m.Called(msg, fields)
}

// Warn records a Warn call.
func (m *MockLogger) Warn(msg string, fields ...zapcore.Field) {
	m.Called(msg, fields)
}

// Error records an Error call and returns the scripted error.
func (m *MockLogger) Error(msg string, fields ...zapcore.Field) error {
	args := m.Called(msg, fields)
	return args.Error(0)
}
