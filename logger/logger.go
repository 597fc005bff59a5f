package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global logger instance
	Logger *zap.SugaredLogger
	// Flag to track if JSON output is enabled
	JSONOutput bool
)

func init() {
	// Safe no-op logger so calls before Initialize never panic
	Logger = zap.NewNop().Sugar()
}

// Options controls logger construction.
type Options struct {
	JSON      bool
	Verbosity int
	// Stderr routes output to stderr. Required whenever stdout carries a
	// protocol stream (LSP or MCP over stdio).
	Stderr bool
}

// Initialize sets up the global logger at info level on stdout.
func Initialize(jsonOutput bool) error {
	return InitializeWithOptions(Options{JSON: jsonOutput, Verbosity: VerbosityInfo})
}

// InitializeWithOptions sets up the global logger from explicit options.
func InitializeWithOptions(opts Options) error {
	JSONOutput = opts.JSON
	level := VerbosityToLevel(opts.Verbosity)

	sink := zapcore.Lock(os.Stdout)
	if opts.Stderr {
		sink = zapcore.Lock(os.Stderr)
	}

	var zapLogger *zap.Logger
	if opts.JSON {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(level)
		if opts.Stderr {
			config.OutputPaths = []string{"stderr"}
		}
		var err error
		zapLogger, err = config.Build()
		if err != nil {
			return err
		}
	} else {
		zapLogger = zap.New(zapcore.NewCore(newConsoleEncoder(), sink, level))
	}

	Logger = zapLogger.Sugar()
	return nil
}

// Cleanup flushes any buffered log entries
func Cleanup() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// Infow logs an info message with structured fields
func Infow(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Infow(msg, keysAndValues...)
	}
}

// Errorw logs an error message with structured fields
func Errorw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Errorw(msg, keysAndValues...)
	}
}

// Warnw logs a warning message with structured fields
func Warnw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Warnw(msg, keysAndValues...)
	}
}

// Debugw logs a debug message with structured fields
func Debugw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Debugw(msg, keysAndValues...)
	}
}
