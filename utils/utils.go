// Package utils carries small helpers shared across the module.
package utils

import (
	"go.uber.org/zap"
)

// LogError logs an error with the given message and fields. A nil logger or
// nil error is a no-op, so call sites stay unconditional.
func LogError(logger *zap.Logger, err error, msg string, fields ...zap.Field) {
	if logger == nil || err == nil {
		return
	}
	fields = append(fields, zap.Error(err))
	logger.Error(msg, fields...)
}
