package logx

import (
	"context"

	"go.uber.org/zap"
)

// Logger is the minimal structured logger shared by every package.
//
// It carries structured fields and lets callers bind trace/span ids from ctx.
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	With(fields ...zap.Field) Logger
	WithContext(ctx context.Context) Logger
}
