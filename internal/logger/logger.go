package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the service logger: JSON production output, or a console
// development logger when env is "dev".
func New(env, level string, opts ...zap.Option) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if strings.EqualFold(env, "dev") {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(level))
	return cfg.Build(opts...)
}

// ParseLevel falls back to info for empty or unknown values.
func ParseLevel(value string) zapcore.Level {
	levelString := strings.ToLower(strings.TrimSpace(value))
	if levelString == "" {
		return zapcore.InfoLevel
	}
	lvl, err := zapcore.ParseLevel(levelString)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
