package cli

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the application logger. Output goes to sinks, or to
// stderr when none are given.
func NewLogger(verbose bool, sinks ...zapcore.WriteSyncer) *zap.Logger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		level.SetLevel(zapcore.DebugLevel)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	if len(sinks) == 0 {
		sinks = []zapcore.WriteSyncer{zapcore.Lock(os.Stderr)}
	}

	cores := make([]zapcore.Core, 0, len(sinks))
	for _, sink := range sinks {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), sink, level))
	}

	return zap.New(zapcore.NewTee(cores...))
}
