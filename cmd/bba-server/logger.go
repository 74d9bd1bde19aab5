package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/bridgetools/bba-go/pkg/bba/logging"
)

// zapLogger adapts a zap.SugaredLogger to the logging.Logger interface so
// the server's structured logs flow through one backend.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

func newZapLogger(logger *zap.Logger) logging.Logger {
	return &zapLogger{sugar: logger.Sugar()}
}

func (l *zapLogger) Debug(_ context.Context, msg string, args ...any) {
	l.sugar.Debugw(msg, args...)
}

func (l *zapLogger) Info(_ context.Context, msg string, args ...any) {
	l.sugar.Infow(msg, args...)
}

func (l *zapLogger) Warn(_ context.Context, msg string, args ...any) {
	l.sugar.Warnw(msg, args...)
}

func (l *zapLogger) Error(_ context.Context, msg string, args ...any) {
	l.sugar.Errorw(msg, args...)
}

func (l *zapLogger) With(args ...any) logging.Logger {
	return &zapLogger{sugar: l.sugar.With(args...)}
}
