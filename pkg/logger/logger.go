package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Global logger instances for application-wide use
var (
	// Logger is the main Zap logger instance for structured logging
	Logger *zap.Logger
	// Sugar is the sugared logger for printf-style logging
	Sugar *zap.SugaredLogger
)

// LogLevel represents the available logging levels for the application
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Output formats
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config holds configuration for the logger system
type Config struct {
	Level      LogLevel
	Format     string
	OutputPath string
}

// DefaultConfig returns a default logger configuration
func DefaultConfig() *Config {
	return &Config{
		Level:      LogLevelInfo,
		Format:     FormatConsole,
		OutputPath: "stderr",
	}
}

// Init builds the global logger from cfg. A nil cfg uses DefaultConfig.
func Init(cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Format == FormatJSON {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	var output zapcore.WriteSyncer
	switch cfg.OutputPath {
	case "", "stderr":
		output = zapcore.Lock(os.Stderr)
	case "stdout":
		output = zapcore.Lock(os.Stdout)
	default:
		file, err := os.OpenFile(cfg.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		output = zapcore.AddSync(file)
	}

	core := zapcore.NewCore(encoder, output, parseLogLevel(cfg.Level))
	set(zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)))
	return nil
}

// UseNop installs a logger that discards everything. Tests use it to keep
// output quiet while still exercising log calls.
func UseNop() {
	set(zap.NewNop())
}

// Sync flushes buffered log entries.
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

func set(l *zap.Logger) {
	Logger = l
	Sugar = l.Sugar()
}

func parseLogLevel(level LogLevel) zapcore.Level {
	switch strings.ToLower(string(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func Debug(msg string, fields ...zap.Field) {
	if Logger != nil {
		Logger.WithOptions(zap.AddCallerSkip(1)).Debug(msg, fields...)
	}
}

func Info(msg string, fields ...zap.Field) {
	if Logger != nil {
		Logger.WithOptions(zap.AddCallerSkip(1)).Info(msg, fields...)
	}
}

func Warn(msg string, fields ...zap.Field) {
	if Logger != nil {
		Logger.WithOptions(zap.AddCallerSkip(1)).Warn(msg, fields...)
	}
}

func Error(msg string, fields ...zap.Field) {
	if Logger != nil {
		Logger.WithOptions(zap.AddCallerSkip(1)).Error(msg, fields...)
	}
}

func Debugf(template string, args ...interface{}) {
	if Sugar != nil {
		Sugar.WithOptions(zap.AddCallerSkip(1)).Debugf(template, args...)
	}
}

func Infof(template string, args ...interface{}) {
	if Sugar != nil {
		Sugar.WithOptions(zap.AddCallerSkip(1)).Infof(template, args...)
	}
}

func Warnf(template string, args ...interface{}) {
	if Sugar != nil {
		Sugar.WithOptions(zap.AddCallerSkip(1)).Warnf(template, args...)
	}
}

func Errorf(template string, args ...interface{}) {
	if Sugar != nil {
		Sugar.WithOptions(zap.AddCallerSkip(1)).Errorf(template, args...)
	}
}

// Fatalf logs and exits. Falls back to a stderr logger when the logger is
// not set up yet; stdout stays reserved for event output.
func Fatalf(template string, args ...interface{}) {
	if Sugar != nil {
		Sugar.WithOptions(zap.AddCallerSkip(1)).Fatalf(template, args...)
		return
	}
	fallbackLogger().Sugar().Fatalf(template, args...)
}

func fallbackLogger() *zap.Logger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.Lock(os.Stderr), zapcore.DebugLevel)
	return zap.New(core)
}
