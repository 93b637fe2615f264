package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls level, encoding and the timezone used for the ts field.
type Config struct {
	Level    string
	Encoding string
	Location *time.Location
}

// New builds a zap logger writing to stdout.
func New(cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	return build(zapcore.Lock(os.Stdout), level, cfg.Encoding, cfg.Location), nil
}

// NewWithWriter builds a JSON logger at debug level writing to w.
func NewWithWriter(w io.Writer, loc *time.Location) *zap.Logger {
	return build(zapcore.AddSync(w), zapcore.DebugLevel, "json", loc)
}

// LoadLocation resolves a timezone name, falling back to UTC.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

func build(ws zapcore.WriteSyncer, level zapcore.Level, encoding string, loc *time.Location) *zap.Logger {
	if loc == nil {
		loc = time.UTC
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = timeEncoder(loc)
	encCfg.EncodeDuration = zapcore.MillisDurationEncoder

	var enc zapcore.Encoder
	if encoding == "console" {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	return zap.New(zapcore.NewCore(enc, ws, level), zap.AddCaller())
}

func timeEncoder(loc *time.Location) zapcore.TimeEncoder {
	return func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(t.In(loc).Format(time.RFC3339Nano))
	}
}
