package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/runway/internal/cache"
	"github.com/smallbiznis/runway/internal/clock"
	"github.com/smallbiznis/runway/internal/config"
	"github.com/smallbiznis/runway/internal/forecast"
	"github.com/smallbiznis/runway/internal/ledger"
	"github.com/smallbiznis/runway/internal/logger"
	"github.com/smallbiznis/runway/internal/migration"
	"github.com/smallbiznis/runway/internal/observability"
	"github.com/smallbiznis/runway/internal/providers/pdf"
	"github.com/smallbiznis/runway/internal/record"
	"github.com/smallbiznis/runway/internal/schedule"
	"github.com/smallbiznis/runway/internal/server"
	"github.com/smallbiznis/runway/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		cache.Module,
		migration.Module,

		// Functional Domains
		record.Module,
		schedule.Module,
		ledger.Module,
		forecast.Module,
		pdf.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.NodeID)
}
