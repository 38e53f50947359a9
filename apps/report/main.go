package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/runway/internal/cache"
	"github.com/smallbiznis/runway/internal/clock"
	"github.com/smallbiznis/runway/internal/config"
	"github.com/smallbiznis/runway/internal/forecast"
	forecastdomain "github.com/smallbiznis/runway/internal/forecast/domain"
	"github.com/smallbiznis/runway/internal/ledger"
	"github.com/smallbiznis/runway/internal/logger"
	"github.com/smallbiznis/runway/internal/migration"
	"github.com/smallbiznis/runway/internal/observability"
	"github.com/smallbiznis/runway/internal/providers/pdf"
	"github.com/smallbiznis/runway/internal/record"
	"github.com/smallbiznis/runway/internal/schedule"
	"github.com/smallbiznis/runway/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// report runs a single forecast against the configured stores and writes it
// as JSON or PDF.
func main() {
	format := flag.String("format", "json", "output format: json or pdf")
	out := flag.String("out", "", "output file (default stdout)")
	months := flag.Int("months", -1, "forecast horizon in months (default from engine config)")
	runwayMonths := flag.Int("runway-months", -1, "runway horizon in months (default from engine config)")
	cash := flag.Float64("cash", -1, "initial cash (default from engine config)")
	flag.Parse()

	req := forecastdomain.Request{}
	if *months >= 0 {
		req.MonthsAhead = months
	}
	if *runwayMonths >= 0 {
		req.RunwayMonthsAhead = runwayMonths
	}
	if *cash >= 0 {
		req.InitialCash = cash
	}

	var (
		svc      forecastdomain.Service
		renderer pdf.Provider
		log      *zap.Logger
	)
	app := fx.New(
		fx.NopLogger,
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		cache.Module,
		migration.Module,
		record.Module,
		schedule.Module,
		ledger.Module,
		forecast.Module,
		pdf.Module,
		fx.Populate(&svc, &renderer, &log),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		fmt.Fprintln(os.Stderr, "start:", err)
		os.Exit(1)
	}

	err := run(context.Background(), svc, renderer, req, *format, *out)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	_ = app.Stop(stopCtx)

	if err != nil {
		log.Error("report failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, svc forecastdomain.Service, renderer pdf.Provider, req forecastdomain.Request, format, out string) error {
	report, err := svc.Run(ctx, req)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "pdf":
		r, err := renderer.GenerateReport(ctx, report)
		if err != nil {
			return err
		}
		_, err = io.Copy(w, r)
		return err
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.NodeID)
}
