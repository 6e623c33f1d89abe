package logx

import (
	"context"

	"GroveWorld/modules/kit/tracex"

	"go.uber.org/zap"
)

// ZapLogger adapts *zap.Logger to Logger.
type ZapLogger struct {
	logger *zap.Logger
}

func NewZapLogger(l *zap.Logger) *ZapLogger {
	if l == nil {
		return &ZapLogger{logger: zap.NewNop()}
	}
	return &ZapLogger{logger: l}
}

// Nop returns a Logger that drops everything.
func Nop() Logger {
	return NewZapLogger(nil)
}

func (z *ZapLogger) WithContext(ctx context.Context) Logger {
	if z == nil {
		return NewZapLogger(nil)
	}
	if ctx == nil {
		return z
	}
	l := z.logger
	if tid, ok := tracex.TraceIDFrom(ctx); ok {
		l = l.With(zap.String("trace_id", tid))
	}
	if sid, ok := tracex.SpanIDFrom(ctx); ok {
		l = l.With(zap.String("span_id", sid))
	}
	return &ZapLogger{logger: l}
}

func (z *ZapLogger) With(fields ...zap.Field) Logger {
	if z == nil {
		return NewZapLogger(nil)
	}
	return &ZapLogger{logger: z.logger.With(fields...)}
}

func (z *ZapLogger) Info(msg string, fields ...zap.Field) {
	z.logger.Info(msg, fields...)
}

func (z *ZapLogger) Error(msg string, fields ...zap.Field) {
	z.logger.Error(msg, fields...)
}

func (z *ZapLogger) Debug(msg string, fields ...zap.Field) {
	z.logger.Debug(msg, fields...)
}

func (z *ZapLogger) Warn(msg string, fields ...zap.Field) {
	z.logger.Warn(msg, fields...)
}
