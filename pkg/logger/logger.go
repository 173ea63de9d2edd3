package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.RWMutex
	base  *zap.Logger
	sugar *zap.SugaredLogger
)

func init() {
	Init(os.Getenv("ENVIRONMENT"))
}

// Init rebuilds the package logger. Development gets a console encoder with
// debug level, everything else the JSON production config.
func Init(environment string) {
	var (
		l   *zap.Logger
		err error
	)
	if environment == "development" || environment == "" {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		l, err = cfg.Build(zap.AddCallerSkip(1))
	} else {
		l, err = zap.NewProduction(zap.AddCallerSkip(1))
	}
	if err != nil {
		l = zap.NewNop()
	}

	mu.Lock()
	base = l
	sugar = l.Sugar()
	mu.Unlock()
}

// Set replaces the package logger, mainly for tests.
func Set(l *zap.Logger) {
	mu.Lock()
	base = l
	sugar = l.Sugar()
	mu.Unlock()
}

// L returns the structured logger for callers that want typed fields.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

func Info(format string, v ...interface{}) {
	current().Infof(format, v...)
}

func Error(format string, v ...interface{}) {
	current().Errorf(format, v...)
}

func Debug(format string, v ...interface{}) {
	current().Debugf(format, v...)
}

func Warn(format string, v ...interface{}) {
	current().Warnf(format, v...)
}

// With returns a sugared logger carrying the given key/value pairs.
func With(keysAndValues ...interface{}) *zap.SugaredLogger {
	return current().With(keysAndValues...)
}

func Sync() {
	_ = L().Sync()
}

// LogSideEffectError records a failed fire-and-forget side effect without
// surfacing it to the caller.
func LogSideEffectError(entityID, action string, err error) {
	current().Warnw("side effect failed", "action", action, "id", entityID, "error", err)
}
