package main

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tailored-agentic-units/eventify/observability"
)

// newZapLogger builds a console zap logger writing to w at debug level when
// verbose, info otherwise.
func newZapLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		level,
	)
	return zap.New(core)
}

// installZapLogger makes logger the global zap logger and the backend of the
// "zap" named observer.
func installZapLogger(logger *zap.Logger) (restore func()) {
	restore = zap.ReplaceGlobals(logger)
	observability.RegisterObserver("zap", observability.NewZapObserver(logger))
	return restore
}
