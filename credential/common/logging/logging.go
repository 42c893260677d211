// Package logging provides module-scoped structured loggers for the SDK.
package logging

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu           sync.RWMutex
	defaultLevel = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	levels       = map[string]zap.AtomicLevel{}
)

// New returns a structured logger scoped to the given module name.
// The module name appears as the logger name in every entry.
func New(module string) *zap.SugaredLogger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		levelFor(module),
	)

	return zap.New(core).Named(module).Sugar()
}

// SetLevel sets the log level for the given module.
func SetLevel(module string, level zapcore.Level) {
	levelFor(module).SetLevel(level)
}

// SetDefaultLevel sets the log level applied to modules without an explicit level.
func SetDefaultLevel(level zapcore.Level) {
	defaultLevel.SetLevel(level)
}

// ParseLevel converts a textual level (debug, info, warn, error) to a zap level.
func ParseLevel(s string) (zapcore.Level, error) {
	return zapcore.ParseLevel(strings.ToLower(s))
}

func levelFor(module string) zap.AtomicLevel {
	mu.RLock()
	lvl, ok := levels[module]
	mu.RUnlock()

	if ok {
		return lvl
	}

	mu.Lock()
	defer mu.Unlock()

	if lvl, ok = levels[module]; ok {
		return lvl
	}

	lvl = zap.NewAtomicLevelAt(defaultLevel.Level())
	levels[module] = lvl

	return lvl
}
