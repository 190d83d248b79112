package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"moul.io/zapfilter"
)

type (
	Level  = zapcore.Level
	Field  = zap.Field
	Option = zap.Option
)

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
	FatalLevel = zapcore.FatalLevel
)

// field helpers so callers don't need to import zap themselves
var (
	Any        = zap.Any
	Bool       = zap.Bool
	Duration   = zap.Duration
	ErrorField = zap.Error
	Float      = zap.Float64
	Int        = zap.Int
	String     = zap.String
	Time       = zap.Time
	Uint       = zap.Uint
	Uint32     = zap.Uint32

	WithCaller    = zap.WithCaller
	AddCallerSkip = zap.AddCallerSkip
)

func ParseLevel(text string) (Level, error) {
	return zapcore.ParseLevel(text)
}

// Logger is a thin wrapper around zap.Logger carrying its configured level.
type Logger struct {
	l     *zap.Logger
	level Level
}

func (l *Logger) Debug(msg string, fields ...Field) { l.l.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...Field)  { l.l.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.l.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...Field) { l.l.Error(msg, fields...) }
func (l *Logger) Fatal(msg string, fields ...Field) { l.l.Fatal(msg, fields...) }

func (l *Logger) Level() Level               { return l.level }
func (l *Logger) Sugar() *zap.SugaredLogger  { return l.l.Sugar() }
func (l *Logger) Sync() error                { return l.l.Sync() }
func (l *Logger) Named(name string) *Logger {
	return &Logger{l: l.l.Named(name), level: l.level}
}

// New creates a logger with JSON output (production format).
func New(writer io.Writer, level Level, opts ...Option) *Logger {
	if writer == nil {
		writer = os.Stderr
	}
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(cfg),
		zapcore.AddSync(writer),
		level,
	)
	return &Logger{l: zap.New(core, opts...), level: level}
}

// DevLogger creates a logger with console output for local development.
func DevLogger(writer io.Writer, level Level, opts ...Option) *Logger {
	if writer == nil {
		writer = os.Stderr
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.AddSync(writer),
		level,
	)
	return &Logger{l: zap.New(core, opts...), level: level}
}

// WithFilters wraps the logger core with zapfilter rules
// (e.g. "*:sql" to only keep the sql namespace, "-*:http" to mute http).
func (l *Logger) WithFilters(rules string) (*Logger, error) {
	filter, err := zapfilter.ParseRules(rules)
	if err != nil {
		return nil, err
	}
	filtered := zap.New(zapfilter.NewFilteringCore(l.l.Core(), filter))
	return &Logger{l: filtered, level: l.level}, nil
}

var defaultLogger = DevLogger(os.Stderr, InfoLevel)

// ResetDefault replaces the logger used by the package level functions.
func ResetDefault(l *Logger) {
	defaultLogger = l
}

func Default() *Logger { return defaultLogger }

func Debug(msg string, fields ...Field) { defaultLogger.l.Debug(msg, fields...) }
func Info(msg string, fields ...Field)  { defaultLogger.l.Info(msg, fields...) }
func Warn(msg string, fields ...Field)  { defaultLogger.l.Warn(msg, fields...) }
func Error(msg string, fields ...Field) { defaultLogger.l.Error(msg, fields...) }
func Fatal(msg string, fields ...Field) { defaultLogger.l.Fatal(msg, fields...) }
