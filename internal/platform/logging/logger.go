package logging

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/janisto/hello-metrics/internal/platform/timeutil"
)

// ErrAlreadyInitialized is returned by Configure once the shared logger exists.
var ErrAlreadyInitialized = errors.New("logger already initialized")

var (
	loggerOnce sync.Once
	baseLogger *zap.Logger
	loggerErr  error
	projectID  string
)

// Options controls how the shared logger is built.
type Options struct {
	// Level is the minimum severity written.
	Level zapcore.Level
	// OutputPaths are zap sink URLs or file paths ("stdout", "stderr", ...).
	OutputPaths []string
	// TimeLayout is a Go time layout applied to the UTC timestamp.
	TimeLayout string
	// Encoding is "json" or "console".
	Encoding string
	// ProjectID enables Cloud Trace correlation fields when set.
	ProjectID string
}

// DefaultOptions returns debug-level JSON logging to stdout with millisecond timestamps.
func DefaultOptions() Options {
	return Options{
		Level:       zapcore.DebugLevel,
		OutputPaths: []string{"stdout"},
		TimeLayout:  timeutil.RFC3339Millis,
		Encoding:    "json",
	}
}

// Configure builds the shared logger from opts. It must run before the first
// call to Logger; afterwards it returns ErrAlreadyInitialized.
func Configure(opts Options) error {
	configured := false
	loggerOnce.Do(func() {
		configured = true
		build(opts)
	})
	if !configured {
		return ErrAlreadyInitialized
	}
	return loggerErr
}

func initLogger() {
	build(DefaultOptions())
}

func build(opts Options) {
	if opts.Encoding == "" {
		opts.Encoding = "json"
	}
	if len(opts.OutputPaths) == 0 {
		opts.OutputPaths = []string{"stdout"}
	}
	if opts.TimeLayout == "" {
		opts.TimeLayout = timeutil.RFC3339Millis
	}

	cfg := zap.NewProductionConfig()
	// No sampling: every request record is written.
	cfg.Sampling = nil
	cfg.Level = zap.NewAtomicLevelAt(opts.Level)
	cfg.Encoding = opts.Encoding
	cfg.OutputPaths = opts.OutputPaths
	cfg.ErrorOutputPaths = opts.OutputPaths
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = timeEncoder(opts.TimeLayout)
	cfg.EncoderConfig.LevelKey = "severity"
	cfg.EncoderConfig.EncodeLevel = encodeSeverity
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.CallerKey = "caller"

	baseLogger, loggerErr = cfg.Build(zap.AddCaller())
	if loggerErr != nil {
		loggerErr = fmt.Errorf("build logger: %w", loggerErr)
		baseLogger = zap.NewNop()
	}
	projectID = opts.ProjectID
}

func timeEncoder(layout string) zapcore.TimeEncoder {
	return func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(timeutil.Format(t, layout))
	}
}

// encodeSeverity maps zap levels to Cloud Logging severity names.
func encodeSeverity(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	var severity string
	switch level {
	case zapcore.DebugLevel:
		severity = "DEBUG"
	case zapcore.InfoLevel:
		severity = "INFO"
	case zapcore.WarnLevel:
		severity = "WARNING"
	case zapcore.ErrorLevel:
		severity = "ERROR"
	case zapcore.DPanicLevel:
		severity = "CRITICAL"
	case zapcore.PanicLevel:
		severity = "ALERT"
	case zapcore.FatalLevel:
		severity = "EMERGENCY"
	default:
		severity = "DEFAULT"
	}
	enc.AppendString(severity)
}

// Logger returns the process-wide zap.Logger instance.
func Logger() *zap.Logger {
	loggerOnce.Do(initLogger)
	return baseLogger
}

// Sync flushes buffered log entries. Call during shutdown.
func Sync() error {
	loggerOnce.Do(initLogger)
	return baseLogger.Sync()
}
