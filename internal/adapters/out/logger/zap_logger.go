package logger

import (
	"sort"
	"time"

	"github.com/suchimauz/doctor-schedule-calendar/internal/core/ports/out"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger implements out.LoggerPort. The event name is the log message,
// the module is a named logger.
type ZapLogger struct {
	base          *zap.Logger
	defaultFields out.LogFields
	module        string
}

// NewZapLogger builds a colored console logger for local environments and a
// JSON production logger otherwise. Timestamps are written in timezone.
func NewZapLogger(env string, timezone string) (*ZapLogger, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}

	var config zap.Config
	if env == "local" {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}
	config.OutputPaths = []string{"stdout"}
	config.EncoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.In(loc).Format("2006-01-02 15:04:05.000"))
	}

	base, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}

	return &ZapLogger{
		base:          base,
		defaultFields: make(out.LogFields),
	}, nil
}

// NewNopLogger discards everything.
func NewNopLogger() *ZapLogger {
	return &ZapLogger{
		base:          zap.NewNop(),
		defaultFields: make(out.LogFields),
	}
}

// NewFromZap wraps an existing zap logger.
func NewFromZap(base *zap.Logger) *ZapLogger {
	return &ZapLogger{
		base:          base,
		defaultFields: make(out.LogFields),
	}
}

func (l *ZapLogger) WithFields(fields out.LogFields) out.LoggerPort {
	merged := make(out.LogFields, len(l.defaultFields)+len(fields))
	for k, v := range l.defaultFields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	return &ZapLogger{
		base:          l.base,
		defaultFields: merged,
		module:        l.module,
	}
}

func (l *ZapLogger) WithModule(module string) out.LoggerPort {
	return &ZapLogger{
		base:          l.base,
		defaultFields: l.defaultFields,
		module:        module,
	}
}

func (l *ZapLogger) Debug(event string, fields out.LogFields) {
	l.log(zapcore.DebugLevel, event, fields)
}

func (l *ZapLogger) Info(event string, fields out.LogFields) {
	l.log(zapcore.InfoLevel, event, fields)
}

func (l *ZapLogger) Warn(event string, fields out.LogFields) {
	l.log(zapcore.WarnLevel, event, fields)
}

func (l *ZapLogger) Error(event string, fields out.LogFields) {
	l.log(zapcore.ErrorLevel, event, fields)
}

func (l *ZapLogger) Sync() error {
	return l.base.Sync()
}

func (l *ZapLogger) log(level zapcore.Level, event string, fields out.LogFields) {
	ce := l.base.Check(level, event)
	if ce == nil {
		return
	}

	module := l.module
	if module == "" {
		module = "unknown"
	}

	ce.Write(l.zapFields(module, fields)...)
}

// zapFields merges default and call fields, call fields winning, in key order.
func (l *ZapLogger) zapFields(module string, fields out.LogFields) []zap.Field {
	merged := make(out.LogFields, len(l.defaultFields)+len(fields))
	for k, v := range l.defaultFields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]zap.Field, 0, len(keys)+1)
	result = append(result, zap.String("module", module))
	for _, k := range keys {
		result = append(result, zap.Any(k, merged[k]))
	}
	return result
}
