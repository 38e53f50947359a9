package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/runway/internal/config"
	forecastdomain "github.com/smallbiznis/runway/internal/forecast/domain"
	ledgerdomain "github.com/smallbiznis/runway/internal/ledger/domain"
	"github.com/smallbiznis/runway/internal/observability"
	obsmiddleware "github.com/smallbiznis/runway/internal/observability/logger"
	obstracing "github.com/smallbiznis/runway/internal/observability/tracing"
	"github.com/smallbiznis/runway/internal/providers/pdf"
	"github.com/smallbiznis/runway/pkg/telemetry"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	telemetry.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, apiMetrics *telemetry.Metrics, log *zap.Logger) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Logger:          log,
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(Correlation())
	r.Use(obstracing.GinMiddleware())
	r.Use(APIMetrics(apiMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, apiMetrics *telemetry.Metrics, log *zap.Logger) *gin.Engine {
	return NewEngine(obsCfg, apiMetrics, log)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	log         *zap.Logger
	forecastSvc forecastdomain.Service
	ledgerSvc   ledgerdomain.Service
	pdf         pdf.Provider
	apiMetrics  *telemetry.Metrics
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	Log         *zap.Logger
	ForecastSvc forecastdomain.Service
	LedgerSvc   ledgerdomain.Service
	PDF         pdf.Provider       `optional:"true"`
	APIMetrics  *telemetry.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		log:         p.Log.Named("http.server"),
		forecastSvc: p.ForecastSvc,
		ledgerSvc:   p.LedgerSvc,
		pdf:         p.PDF,
		apiMetrics:  p.APIMetrics,
	}

	svc.registerAPIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/v1")

	// -------- Forecast --------
	api.GET("/forecast", s.GetForecast)
	api.GET("/forecast/pdf", s.GetForecastPDF)
	api.GET("/runway", s.GetRunway)
	api.GET("/templates", s.ListTemplates)

	// -------- Schedules --------
	api.GET("/schedules/:record_id", s.GetProjectSchedule)
	api.PUT("/schedules/:record_id", s.SaveProjectSchedule)

	// -------- Overrides --------
	api.PUT("/overrides/:record_id", s.PutOverride)

	// -------- Cost ledger --------
	api.GET("/costs", s.ListCosts)
	api.GET("/costs/summary", s.GetCostSummary)
	api.POST("/costs/labor", s.CreateLaborCost)
	api.POST("/costs/overhead", s.CreateOverheadCost)
	api.POST("/costs/one_off", s.CreateOneOffItem)
	api.DELETE("/costs/:type/:id", s.DeleteCostItem)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
