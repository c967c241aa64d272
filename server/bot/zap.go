package bot

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const LevelTrace = "trace"

// ZapLogger implements Logger for the command line. zap has no trace level, so trace
// messages are written at debug level and only when trace is switched on.
type ZapLogger struct {
	base  *zap.Logger
	sugar *zap.SugaredLogger
	trace bool
}

// NewLogger builds a zap logger writing to stderr.
// level is one of trace, debug, info, warn, error; format is console or json.
func NewLogger(level, format string) (*ZapLogger, error) {
	level = strings.ToLower(level)

	trace := level == LevelTrace
	if trace {
		level = zapcore.DebugLevel.String()
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", level)
	}

	var cfg zap.Config
	switch format {
	case "", "console":
		cfg = zap.NewDevelopmentConfig()
		cfg.Encoding = "console"
		cfg.DisableStacktrace = true
	case "json":
		cfg = zap.NewProductionConfig()
	default:
		return nil, errors.Errorf("invalid log format %q (expected console or json)", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build logger")
	}

	return WrapZap(l, trace), nil
}

func WrapZap(l *zap.Logger, trace bool) *ZapLogger {
	return &ZapLogger{
		base:  l,
		sugar: l.Sugar(),
		trace: trace,
	}
}

// With returns a logger carrying an extra field on every entry.
func (l *ZapLogger) With(key string, value interface{}) *ZapLogger {
	return WrapZap(l.base.With(zap.Any(key, value)), l.trace)
}

func (l *ZapLogger) Sync() error {
	return l.base.Sync()
}

func (l *ZapLogger) Tracef(format string, args ...interface{}) {
	if !l.trace {
		return
	}
	l.sugar.Debugw(fmt.Sprintf(format, args...), "trace", true)
}

func (l *ZapLogger) Debugf(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

func (l *ZapLogger) Infof(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

func (l *ZapLogger) Warnf(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

func (l *ZapLogger) Errorf(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}
