package logger

import (
	"fmt"

	"github.com/Leopold1975/finscore/internal/pkg/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a sugared zap logger shared by every layer of the service.
type Logger struct {
	*zap.SugaredLogger
}

func New(cfg config.Logger) (Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return Logger{}, fmt.Errorf("parse level error: %w", err)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.EncoderConfig.TimeKey = "timestamp"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if len(cfg.Output) != 0 {
		zcfg.OutputPaths = cfg.Output
	}

	if len(cfg.ErrOutput) != 0 {
		zcfg.ErrorOutputPaths = cfg.ErrOutput
	}

	l, err := zcfg.Build()
	if err != nil {
		return Logger{}, fmt.Errorf("build logger error: %w", err)
	}

	return Logger{l.Sugar()}, nil
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() Logger {
	return Logger{zap.NewNop().Sugar()}
}

// With returns a child logger carrying the given key-value pairs.
func (l Logger) With(args ...interface{}) Logger {
	return Logger{l.SugaredLogger.With(args...)}
}
