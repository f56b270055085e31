package telemetry

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ZapLogger adapts a *zap.SugaredLogger to the Logger interface: a console
// encoder for local development, swapped for a lumberjack-backed rotating
// writer whenever LogFilePath is set.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// ZapConfig tunes log rotation when writing to a file. Zero value is a
// sensible default.
type ZapConfig struct {
	// LogFilePath, when non-empty, routes logs through a rotating file
	// writer instead of stdout.
	LogFilePath string
	MaxSizeMB   int
	MaxBackups  int
	MaxAgeDays  int
	Debug       bool
}

// NewZapLogger builds a ZapLogger per cfg.
func NewZapLogger(cfg ZapConfig) (*ZapLogger, error) {
	encCfg := zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "caller",
		MessageKey:    "msg",
		StacktraceKey: "stack",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.CapitalLevelEncoder,
		EncodeTime:    zapcore.ISO8601TimeEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
	}

	level := zapcore.InfoLevel
	if cfg.Debug {
		level = zapcore.DebugLevel
	}

	var core zapcore.Core
	if cfg.LogFilePath != "" {
		maxSize := cfg.MaxSizeMB
		if maxSize == 0 {
			maxSize = 10
		}
		maxBackups := cfg.MaxBackups
		if maxBackups == 0 {
			maxBackups = 3
		}
		maxAge := cfg.MaxAgeDays
		if maxAge == 0 {
			maxAge = 7
		}
		lj := &lumberjack.Logger{
			Filename:   cfg.LogFilePath,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			MaxAge:     maxAge,
		}
		core = zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(lj), level)
	} else {
		core = zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(zapcore.AddSync(os.Stdout)), level)
	}

	logger := zap.New(core, zap.AddCaller())
	return &ZapLogger{sugar: logger.Sugar()}, nil
}

func (z *ZapLogger) Debugw(msg string, kv ...any) { z.sugar.Debugw(msg, kv...) }
func (z *ZapLogger) Infow(msg string, kv ...any)  { z.sugar.Infow(msg, kv...) }
func (z *ZapLogger) Warnw(msg string, kv ...any)  { z.sugar.Warnw(msg, kv...) }
func (z *ZapLogger) Errorw(msg string, kv ...any) { z.sugar.Errorw(msg, kv...) }

// Sync flushes any buffered log entries; call on shutdown.
func (z *ZapLogger) Sync() error {
	return z.sugar.Sync()
}

var _ Logger = (*ZapLogger)(nil)
