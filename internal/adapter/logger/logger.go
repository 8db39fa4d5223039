package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	Info(action, message, requestID string, details map[string]interface{})
	Debug(action, message, requestID string, details map[string]interface{})
	Error(action, message, requestID string, details map[string]interface{}, err error)
}

type zapLogger struct {
	z *zap.Logger
}

// New builds a JSON logger writing to stderr. Every entry carries the service
// name and hostname.
func New(service, level string) (Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	hostname, _ := os.Hostname()

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		lvl,
	)
	z := zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel)).With(
		zap.String("service", service),
		zap.String("hostname", hostname),
	)
	return &zapLogger{z: z}, nil
}

// NewFromZap wraps an existing zap logger.
func NewFromZap(z *zap.Logger) Logger {
	return &zapLogger{z: z}
}

func NewNop() Logger {
	return &zapLogger{z: zap.NewNop()}
}

// ParseLevel accepts debug, info and error.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

func (l *zapLogger) Info(action, message, requestID string, details map[string]interface{}) {
	l.z.Info(message, fields(action, requestID, details)...)
}

func (l *zapLogger) Debug(action, message, requestID string, details map[string]interface{}) {
	l.z.Debug(message, fields(action, requestID, details)...)
}

func (l *zapLogger) Error(action, message, requestID string, details map[string]interface{}, err error) {
	l.z.Error(message, append(fields(action, requestID, details), zap.Error(err))...)
}

func fields(action, requestID string, details map[string]interface{}) []zap.Field {
	fs := []zap.Field{
		zap.String("action", action),
		zap.String("request_id", requestID),
	}
	if len(details) > 0 {
		fs = append(fs, zap.Any("details", details))
	}
	return fs
}
