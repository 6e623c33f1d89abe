package logs

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	glogger "gorm.io/gorm/logger"

	"GroveWorld/modules/kit/tracex"
)

type GormLogger struct {
	level         glogger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger routes gorm output into the process logger.
func NewGormLogger(level glogger.LogLevel, slowThreshold time.Duration) glogger.Interface {
	return &GormLogger{
		level:         level,
		slowThreshold: slowThreshold,
	}
}

func (l *GormLogger) LogMode(level glogger.LogLevel) glogger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= glogger.Info {
		Info("gorm: "+msg, zap.Any("data", data))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= glogger.Warn {
		Warn("gorm: "+msg, zap.Any("data", data))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= glogger.Error {
		Error("gorm: "+msg, zap.Any("data", data))
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= glogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}
	if traceID, ok := tracex.TraceIDFrom(ctx); ok {
		fields = append(fields, zap.String("trace_id", traceID))
	}

	switch {
	case err != nil && !errors.Is(err, glogger.ErrRecordNotFound):
		fields = append(fields, zap.Error(err))
		Error("gorm trace error", fields...)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold:
		Warn("gorm slow query", fields...)
	default:
		if l.level >= glogger.Info {
			Debug("gorm trace", fields...)
		}
	}
}
