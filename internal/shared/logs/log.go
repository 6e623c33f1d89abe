package logs

import (
	"io"
	"os"
	"strings"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"GroveWorld/internal/shared/serverconfig"
)

var logger *zap.Logger = zap.NewNop()

// Init builds the process logger: colored console plus, when FileDir is
// set, a rotated JSON file.
func Init(appName string, cfg serverconfig.LogConfig) error {
	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
		lvl = zapcore.InfoLevel
	}
	atomicLevel := zap.NewAtomicLevelAt(lvl)

	// 2026-01-28T10:00:00 INFO  grove  server start  grove_main.go:12
	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	consoleCfg := encoderCfg
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleEncoder := zapcore.NewConsoleEncoder(consoleCfg)

	fileCfg := encoderCfg
	fileCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	jsonEncoder := zapcore.NewJSONEncoder(fileCfg)

	var fileWriter io.Writer = io.Discard
	if cfg.FileDir != "" {
		fileWriter = &lumberjack.Logger{
			Filename:   cfg.FileDir,
			MaxSize:    max(1, cfg.MaxSize), // MB
			MaxBackups: max(0, cfg.MaxBackups),
			MaxAge:     max(0, cfg.MaxAge), // days
			Compress:   cfg.Compress,
		}
	}

	consoleSyncer := zapcore.Lock(os.Stderr)
	fileSyncer := zapcore.AddSync(fileWriter)

	// Keep ANSI color codes out of the file: split into two cores when writing one.
	core := zapcore.NewCore(consoleEncoder, consoleSyncer, atomicLevel)
	if cfg.FileDir != "" {
		core = zapcore.NewTee(
			zapcore.NewCore(consoleEncoder, consoleSyncer, atomicLevel),
			zapcore.NewCore(jsonEncoder, fileSyncer, atomicLevel),
		)
	}

	opts := []zap.Option{zap.AddCaller(), zap.AddCallerSkip(1)}
	if cfg.Dev {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	}

	_ = logger.Sync()
	logger = zap.New(core, opts...).Named(appName)
	return nil
}

// Logger returns the process logger without the helper caller skip.
func Logger() *zap.Logger {
	return logger.WithOptions(zap.AddCallerSkip(-1))
}

func Sync() error {
	return logger.Sync()
}

func Debug(msg string, fields ...zap.Field) {
	logger.Debug(msg, fields...)
}

// Info logs at info level. Prefer typed fields:
// Info("player joined", zap.String("player_id", id))
func Info(msg string, fields ...zap.Field) {
	logger.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	logger.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	logger.Error(msg, fields...)
}

// Fatal logs and exits the process with status 1.
func Fatal(msg string, fields ...zap.Field) {
	logger.Fatal(msg, fields...)
}
