package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide application logger. It is a no-op until Init runs.
var Log = zap.NewNop().Sugar()

// Init builds a JSON logger writing to stdout. Debug output is enabled
// outside release mode.
func Init(release bool) *zap.SugaredLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}
	if !release {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	base, err := config.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		base = zap.NewExample()
	}
	Log = base.Sugar()
	return Log
}

// Sync flushes buffered entries; call it before exit.
func Sync() {
	_ = Log.Sync()
}
