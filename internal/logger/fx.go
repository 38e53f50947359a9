package logger

import (
	"context"

	"github.com/smallbiznis/runway/internal/config"
	"github.com/smallbiznis/runway/pkg/log/ctxlogger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("logger",
	fx.Provide(NewFromConfig),
	fx.Invoke(flushOnStop),
)

// NewFromConfig builds the process logger from the environment config.
func NewFromConfig(cfg config.Config) (*zap.Logger, error) {
	ctxlogger.SetServiceName(cfg.AppName)
	return New(Options{
		Level:       cfg.Logger.Level,
		Version:     cfg.AppVersion,
		Environment: cfg.Environment,
		Development: !cfg.IsProduction(),
	})
}

func flushOnStop(lc fx.Lifecycle, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			// stdout sync fails on some terminals; nothing useful to do about it.
			_ = log.Sync()
			return nil
		},
	})
}
