// ABOUTME: Structured logger for cohort built on zap's SugaredLogger with key/value call sites.
// ABOUTME: Supports dev (console) and prod (JSON) modes plus a no-op logger for tests.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a thin key/value wrapper over a zap SugaredLogger.
type Logger struct {
	sugar *zap.SugaredLogger
}

// wrapperOptions report the caller of Logger's methods rather than this file,
// and keep stack traces for errors only.
func wrapperOptions() []zap.Option {
	return []zap.Option{zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel)}
}

// New builds a logger writing to stderr for the given mode ("dev" or "prod")
// and level name ("debug", "info", "warn", "error"). An empty level means info.
func New(mode, level string) (*Logger, error) {
	cfg, err := newConfig(mode, level)
	if err != nil {
		return nil, err
	}
	return build(cfg)
}

// NewFile is New with every entry, internal errors included, appended to path
// instead of stderr. Colors are off.
func NewFile(mode, level, path string) (*Logger, error) {
	cfg, err := newConfig(mode, level)
	if err != nil {
		return nil, err
	}
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return build(cfg)
}

func newConfig(mode, level string) (zap.Config, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	lvl, err := parseLevel(level)
	if err != nil {
		return zap.Config{}, err
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg, nil
}

func build(cfg zap.Config) (*Logger, error) {
	z, err := cfg.Build(wrapperOptions()...)
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	return &Logger{sugar: z.Sugar()}, nil
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

// FromZap wraps an existing zap logger. Caller annotations, if z adds them,
// point at the code calling Logger.
func FromZap(z *zap.Logger) *Logger {
	return &Logger{sugar: z.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func parseLevel(level string) (zapcore.Level, error) {
	level = strings.TrimSpace(level)
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

func (l *Logger) Debug(msg string, keysAndValues ...any) { l.sugar.Debugw(msg, keysAndValues...) }
func (l *Logger) Info(msg string, keysAndValues ...any)  { l.sugar.Infow(msg, keysAndValues...) }
func (l *Logger) Warn(msg string, keysAndValues ...any)  { l.sugar.Warnw(msg, keysAndValues...) }
func (l *Logger) Error(msg string, keysAndValues ...any) { l.sugar.Errorw(msg, keysAndValues...) }

// With returns a child logger that always carries the given fields.
func (l *Logger) With(keysAndValues ...any) *Logger {
	return &Logger{sugar: l.sugar.With(keysAndValues...)}
}

// Sync flushes buffered entries. Errors from syncing stderr/stdout are ignored.
func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}
