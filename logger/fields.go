package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across biograf.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Components
	FieldComponent = "component"

	// Operations
	FieldOperation = "operation"
	FieldPath      = "path"

	// Records
	FieldPersonID   = "person_id"
	FieldFullName   = "full_name"
	FieldConfidence = "confidence"
	FieldThreshold  = "threshold"
	FieldBackup     = "backup"
	FieldChecksum   = "checksum"
	FieldSeverity   = "severity"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount = "count"
	FieldSize  = "size"

	// Timing
	FieldDurationMS = "duration_ms"
)

// Component names used with ComponentLogger.
const (
	ComponentStore    = "store"
	ComponentMatch    = "match"
	ComponentDocIO    = "docio"
	ComponentValidate = "validate"
	ComponentWatch    = "watch"
	ComponentConfig   = "config"
	ComponentRegistry = "registry"
	ComponentCLI      = "cli"
	ComponentMCP      = "mcp"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Store struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func NewStore() *Store {
//	    return &Store{
//	        logger: logger.ComponentLogger(logger.ComponentStore),
//	    }
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
// Use for sub-operations that need extra context fields.
//
// Example:
//
//	opLogger := logger.ChildLogger(baseLogger, logger.FieldPersonID, id)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
