package log

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelError Level = "ERROR"
)

var (
	logger     *zap.SugaredLogger
	loggerOnce sync.Once
	mu         sync.RWMutex
	atom       = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// initLogger builds the global zap logger writing to stderr.
// Default minimum level is INFO.
func initLogger() {
	loggerOnce.Do(func() {
		cfg := zap.NewProductionConfig()
		cfg.Level = atom
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		cfg.DisableStacktrace = true
		cfg.Sampling = nil

		z, err := cfg.Build()
		if err != nil {
			z = zap.NewNop()
		}
		mu.Lock()
		logger = z.Sugar()
		mu.Unlock()
	})
}

// SetLevel changes the minimum level of the global logger.
func SetLevel(l Level) {
	initLogger()
	atom.SetLevel(toZapLevel(l))
}

// Replace swaps the underlying zap logger (used by tests to capture output
// with zaptest/observer). It returns a func restoring the previous logger.
func Replace(z *zap.Logger) func() {
	initLogger()
	mu.Lock()
	prev := logger
	logger = z.Sugar()
	mu.Unlock()
	return func() {
		mu.Lock()
		logger = prev
		mu.Unlock()
	}
}

// Sync flushes buffered entries. Call once before exit.
func Sync() {
	initLogger()
	_ = current().Sync()
}

func Debug(msg string, kv ...any) {
	initLogger()
	current().Debugw(msg, pairs(kv)...)
}

func Info(msg string, kv ...any) {
	initLogger()
	current().Infow(msg, pairs(kv)...)
}

func Warn(msg string, kv ...any) {
	initLogger()
	current().Warnw(msg, pairs(kv)...)
}

func Error(msg string, err error, kv ...any) {
	initLogger()
	// Prepend error into key-value list.
	extended := append([]any{"err", err}, pairs(kv)...)
	current().Errorw(msg, extended...)
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func toZapLevel(l Level) zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// pairs drops a trailing key without value and any non-string key so the
// sugared logger never reports "ignored key" errors.
func pairs(kv []any) []any {
	out := make([]any, 0, len(kv))
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		out = append(out, key, kv[i+1])
	}
	return out
}
