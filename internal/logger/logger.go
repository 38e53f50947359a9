package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the log level and static fields of the process logger.
type Options struct {
	Level       string
	Version     string
	Environment string
	// Development adds caller info and disables sampling.
	Development bool
}

// New returns a JSON logger and installs it as the zap global.
func New(opts Options) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if raw := strings.TrimSpace(opts.Level); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", raw, err)
		}
	}

	cfg := zap.NewProductionConfig()
	if opts.Development {
		cfg.Development = true
		cfg.Sampling = nil
	}
	cfg.Level = level
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeDuration = zapcore.MillisDurationEncoder

	fields := map[string]any{}
	if opts.Version != "" {
		fields["version"] = opts.Version
	}
	if opts.Environment != "" {
		fields["env"] = opts.Environment
	}
	cfg.InitialFields = fields

	buildOpts := []zap.Option{zap.AddStacktrace(zapcore.ErrorLevel)}
	if !opts.Development {
		buildOpts = append(buildOpts, zap.WithCaller(false))
	}
	log, err := cfg.Build(buildOpts...)
	if err != nil {
		return nil, err
	}

	zap.ReplaceGlobals(log)
	return log, nil
}
