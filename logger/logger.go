package logger

import (
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	defaultLogger = logr.Discard()
)

type Config struct {
	Level      string `yaml:"level"` // debug, info, warn or error
	JSON       bool   `yaml:"json"`
	File       string `yaml:"file"`        // also log to this file, rotated
	MaxSizeMB  int    `yaml:"max_size_mb"` // rotate the log file after this size
	MaxBackups int    `yaml:"max_backups"`
}

// Note: only pass in logr.Logger with default depth
func SetLogger(l logr.Logger) {
	defaultLogger = l.WithName("hlssort").WithCallDepth(1)
}

// Init replaces the package logger with a zap logger writing to stderr,
// and to conf.File when set. stdout is left alone, it may carry the playlist.
func Init(conf Config) error {
	lvl := zapcore.InfoLevel
	if conf.Level != "" {
		if err := lvl.UnmarshalText([]byte(conf.Level)); err != nil {
			return err
		}
	}
	level := zap.NewAtomicLevelAt(lvl)

	var encoder zapcore.Encoder
	if conf.JSON {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level),
	}
	if conf.File != "" {
		file := &lumberjack.Logger{
			Filename:   conf.File,
			MaxSize:    conf.MaxSizeMB,
			MaxBackups: conf.MaxBackups,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(file),
			level,
		))
	}

	SetLogger(zapr.NewLogger(zap.New(zapcore.NewTee(cores...), zap.AddCaller())))
	return nil
}

func Debugw(msg string, keysAndValues ...interface{}) {
	defaultLogger.V(1).Info(msg, keysAndValues...)
}

func Infow(msg string, keysAndValues ...interface{}) {
	defaultLogger.Info(msg, keysAndValues...)
}

// Warnw logs at zap's warn level when the logger is backed by zap.
// logr has no warn level, so any other sink gets an info message.
func Warnw(msg string, err error, keysAndValues ...interface{}) {
	if err != nil {
		keysAndValues = append([]interface{}{"error", err}, keysAndValues...)
	}
	if u, ok := defaultLogger.GetSink().(zapr.Underlier); ok {
		u.GetUnderlying().Sugar().Warnw(msg, keysAndValues...)
		return
	}
	defaultLogger.Info(msg, keysAndValues...)
}
