// pattern: Imperative Shell

package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// NopLogger returns a logger that discards all output.
// Use in tests or when logging is not configured.
func NopLogger() *ScopedLogger {
	return &ScopedLogger{sugar: nil, scope: ""}
}

// TestManager provides a LoggerProvider for tests that records entries
// in memory instead of writing a file.
type TestManager struct {
	base     *zap.Logger
	observed *observer.ObservedLogs
	loggers  map[string]*ScopedLogger
	mu       sync.RWMutex
}

// NewTestManager creates an in-memory log manager for tests.
func NewTestManager() *TestManager {
	core, observed := observer.New(zap.DebugLevel)
	return &TestManager{
		base:     zap.New(core),
		observed: observed,
		loggers:  make(map[string]*ScopedLogger),
	}
}

// For returns a scoped logger, matching the production Manager API.
func (m *TestManager) For(scope string) *ScopedLogger {
	m.mu.RLock()
	if logger, ok := m.loggers[scope]; ok {
		m.mu.RUnlock()
		return logger
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if logger, ok := m.loggers[scope]; ok {
		return logger
	}

	logger := &ScopedLogger{
		sugar: m.base.Named(scope).Sugar(),
		scope: scope,
	}
	m.loggers[scope] = logger
	return logger
}

// Entries returns all recorded log entries.
func (m *TestManager) Entries() *observer.ObservedLogs {
	return m.observed
}
