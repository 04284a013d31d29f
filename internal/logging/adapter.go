package logging

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"github.com/simp-lee/linkedin"
)

type logrusLogger struct {
	entry *logrus.Entry
}

// Logrus adapts a logrus entry to linkedin.Logger. Key-value args become fields.
func Logrus(entry *logrus.Entry) linkedin.Logger {
	return &logrusLogger{entry: entry}
}

func (l *logrusLogger) Debug(msg string, args ...any) { l.with(args).Debug(msg) }
func (l *logrusLogger) Info(msg string, args ...any)  { l.with(args).Info(msg) }
func (l *logrusLogger) Warn(msg string, args ...any)  { l.with(args).Warn(msg) }
func (l *logrusLogger) Error(msg string, args ...any) { l.with(args).Error(msg) }

func (l *logrusLogger) with(args []any) *logrus.Entry {
	if len(args) == 0 {
		return l.entry
	}
	return l.entry.WithFields(fields(args))
}

// fields turns alternating key-value args into logrus fields. A trailing key
// without a value is logged under "!BADKEY".
func fields(args []any) logrus.Fields {
	f := make(logrus.Fields, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		if i+1 == len(args) {
			f["!BADKEY"] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		f[key] = args[i+1]
	}
	return f
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// Zap adapts a zap logger to linkedin.Logger.
func Zap(l *zap.Logger) linkedin.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return &zapLogger{sugar: l.Sugar()}
}

func (z *zapLogger) Debug(msg string, args ...any) { z.sugar.Debugw(msg, args...) }
func (z *zapLogger) Info(msg string, args ...any)  { z.sugar.Infow(msg, args...) }
func (z *zapLogger) Warn(msg string, args ...any)  { z.sugar.Warnw(msg, args...) }
func (z *zapLogger) Error(msg string, args ...any) { z.sugar.Errorw(msg, args...) }
