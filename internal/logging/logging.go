// Package logging builds the loggers used by linkedin-login and adapts them to
// the linkedin.Logger interface.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/simp-lee/linkedin"
)

// Backends accepted by New.
const (
	BackendLogrus = "logrus"
	BackendZap    = "zap"
)

// New builds a linkedin.Logger for backend at level. When file is set, logs
// are also written to a rotated file. The returned func flushes and closes
// the outputs.
func New(backend, level, file string) (linkedin.Logger, func(), error) {
	switch backend {
	case "", BackendLogrus:
		l, closer, err := InitLogger(level, file)
		if err != nil {
			return nil, nil, err
		}
		return Logrus(logrus.NewEntry(l)), func() { _ = closer.Close() }, nil
	case BackendZap:
		l, err := NewZap(level, file)
		if err != nil {
			return nil, nil, err
		}
		return Zap(l), func() { Sync(l) }, nil
	default:
		return nil, nil, fmt.Errorf("unknown log backend %q", backend)
	}
}

// InitLogger returns a configured logrus logger writing to stderr, and to a
// rotated file when file is set.
func InitLogger(level, file string) (*logrus.Logger, io.Closer, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}

	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if file != "" {
		lj := rotatingFile(file)
		out = io.MultiWriter(os.Stderr, lj)
		closer = lj
	}

	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
	})
	l.SetOutput(out)
	l.SetLevel(lvl)
	return l, closer, nil
}

// NewZap builds a production zap logger at level writing to stderr, and to a
// rotated file when file is set.
func NewZap(level, file string) (*zap.Logger, error) {
	// zap has no trace level
	if level == "trace" {
		level = "debug"
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	config := zap.NewProductionEncoderConfig()
	config.TimeKey = "timestamp"
	config.EncodeTime = zapcore.ISO8601TimeEncoder

	sink := zapcore.Lock(os.Stderr)
	if file != "" {
		sink = zapcore.NewMultiWriteSyncer(sink, zapcore.AddSync(rotatingFile(file)))
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(config), sink, lvl)
	return zap.New(core), nil
}

// Sync flushes logger.
func Sync(logger *zap.Logger) {
	if logger == nil {
		return
	}
	_ = logger.Sync()
}

func rotatingFile(name string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   name,
		MaxSize:    500, // megabytes
		MaxBackups: 3,
		Compress:   true,
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
