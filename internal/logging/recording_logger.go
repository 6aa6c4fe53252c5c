package logging

import (
	"fmt"
	"sync"
)

// RecordingLogger captures log messages in memory so tests can assert on
// them. Safe for concurrent use by multiple goroutines.
type RecordingLogger struct {
	mu       sync.Mutex
	Verboses []string
	Infos    []string
	Warnings []string
	Errors   []string
}

// NewRecordingLogger creates a new RecordingLogger.
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{}
}

// Verbose records a verbose message.
func (l *RecordingLogger) Verbose(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Verboses = append(l.Verboses, fmt.Sprintf(format, args...))
}

// Info records an info message.
func (l *RecordingLogger) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, fmt.Sprintf(format, args...))
}

// Warning records a warning message.
func (l *RecordingLogger) Warning(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warnings = append(l.Warnings, fmt.Sprintf(format, args...))
}

// Error records an error message.
func (l *RecordingLogger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, fmt.Sprintf(format, args...))
}
