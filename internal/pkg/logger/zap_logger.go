package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ILogger interface {
	Debug(module, message string, details map[string]interface{})
	Info(module, message string, details map[string]interface{})
	Warn(module, message string, details map[string]interface{})
	Error(module, message string, details map[string]interface{})
	Sync() error
}

type ZapLogger struct {
	logger *zap.Logger
}

func rotator(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // Megabytes
		MaxBackups: 5,
		MaxAge:     30, // Days
		Compress:   true,
	}
}

func jsonEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"
	encoderConfig.LevelKey = "level"
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(encoderConfig)
}

// NewZapLogger writes JSON lines to a rotated file and mirrors everything to stdout.
func NewZapLogger(logFilePath string, isProd bool) *ZapLogger {
	fileCore := zapcore.NewCore(jsonEncoder(), zapcore.AddSync(rotator(logFilePath)), zap.InfoLevel)

	var consoleEncoder zapcore.Encoder
	if isProd {
		consoleEncoder = jsonEncoder()
	} else {
		consoleEncoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}
	consoleCore := zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), zap.DebugLevel)

	l := zap.New(zapcore.NewTee(fileCore, consoleCore), zap.AddCaller(), zap.AddCallerSkip(1))
	return &ZapLogger{logger: l}
}

// NewIsolatedLogger writes only to its own file. Used for the check-in feed so
// connection churn stays out of the main log.
func NewIsolatedLogger(logFilePath string) *ZapLogger {
	fileCore := zapcore.NewCore(jsonEncoder(), zapcore.AddSync(rotator(logFilePath)), zap.InfoLevel)
	return &ZapLogger{logger: zap.New(fileCore, zap.AddCaller(), zap.AddCallerSkip(1))}
}

func NewNopLogger() *ZapLogger {
	return &ZapLogger{logger: zap.NewNop()}
}

func (l *ZapLogger) Debug(module, message string, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}
	l.logger.Debug(message, zap.String("module", module), zap.Any("details", details))
}

func (l *ZapLogger) Info(module, message string, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}
	l.logger.Info(message, zap.String("module", module), zap.Any("details", details))
}

func (l *ZapLogger) Warn(module, message string, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}
	l.logger.Warn(message, zap.String("module", module), zap.Any("details", details))
}

func (l *ZapLogger) Error(module, message string, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}
	if err, ok := details["error"]; ok {
		l.logger.Error(message, zap.String("module", module), zap.Any("details", details), zap.Any("error_ref", err))
	} else {
		l.logger.Error(message, zap.String("module", module), zap.Any("details", details))
	}
}

func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}
