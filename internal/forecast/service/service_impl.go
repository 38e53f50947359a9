package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/smallbiznis/runway/internal/cache"
	cashflowdomain "github.com/smallbiznis/runway/internal/cashflow/domain"
	cashflowservice "github.com/smallbiznis/runway/internal/cashflow/service"
	"github.com/smallbiznis/runway/internal/clock"
	"github.com/smallbiznis/runway/internal/config"
	forecastdomain "github.com/smallbiznis/runway/internal/forecast/domain"
	ledgerdomain "github.com/smallbiznis/runway/internal/ledger/domain"
	obsmetrics "github.com/smallbiznis/runway/internal/observability/metrics"
	"github.com/smallbiznis/runway/internal/record/adapter"
	recorddomain "github.com/smallbiznis/runway/internal/record/domain"
	revenuedomain "github.com/smallbiznis/runway/internal/revenue/domain"
	revenueservice "github.com/smallbiznis/runway/internal/revenue/service"
	runwayservice "github.com/smallbiznis/runway/internal/runway/service"
	"github.com/smallbiznis/runway/internal/schedule/catalog"
	scheduledomain "github.com/smallbiznis/runway/internal/schedule/domain"
	scheduleservice "github.com/smallbiznis/runway/internal/schedule/service"
	"github.com/smallbiznis/runway/pkg/log/ctxlogger"
	"github.com/smallbiznis/runway/pkg/telemetry/correlation"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	tracerName = "runway/forecast"
	writeLease = 10 * time.Second
)

type Params struct {
	fx.In

	Log       *zap.Logger
	Records   recorddomain.Repository
	Schedules scheduledomain.Service
	Ledger    ledgerdomain.Service
	Engine    *config.EngineConfigHolder
	Clock     clock.Clock
	Metrics   *obsmetrics.Metrics `optional:"true"`
	Locker    *cache.Locker       `optional:"true"`
}

type Service struct {
	log       *zap.Logger
	records   recorddomain.Repository
	schedules scheduledomain.Service
	ledger    ledgerdomain.Service
	engine    *config.EngineConfigHolder
	clock     clock.Clock
	metrics   *obsmetrics.Metrics
	locker    *cache.Locker
}

func NewService(p Params) forecastdomain.Service {
	return &Service{
		log:       p.Log.Named("forecast.service"),
		records:   p.Records,
		schedules: p.Schedules,
		ledger:    p.Ledger,
		engine:    p.Engine,
		clock:     p.Clock,
		metrics:   p.Metrics,
		locker:    p.Locker,
	}
}

// snapshot is everything a run reads from the outside world.
type snapshot struct {
	rows      []recorddomain.Row
	overrides []revenuedomain.Override
	schedules map[string]*scheduledomain.PersistedSchedule
	ledger    ledgerdomain.Snapshot
}

// Run loads the current pipeline and cost ledger and produces a full report.
// Failures to read a store abort the run; problems with individual projects
// degrade their contribution and surface as warnings.
func (s *Service) Run(ctx context.Context, req forecastdomain.Request) (*forecastdomain.Report, error) {
	ctx, runID := correlation.EnsureCorrelationID(ctx)
	ctx, span := otel.Tracer(tracerName).Start(ctx, "forecast.Run")
	defer span.End()
	log := ctxlogger.WithContext(ctx, s.log)

	cfg, err := applyRequest(s.engine.Get(), req)
	if err != nil {
		return nil, err
	}

	var warnings []forecastdomain.Warning
	warn := func(w forecastdomain.Warning) {
		warnings = append(warnings, w)
		log.Warn("forecast warning",
			zap.String("kind", string(w.Kind)),
			zap.String("record_id", w.RecordID),
			zap.String("message", w.Message),
		)
	}

	snap, err := s.load(ctx, warn)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.RecordForecastRun(ctx, "error")
		log.Error("forecast run aborted", zap.Error(err))
		return nil, err
	}

	now := s.clock.Now().UTC()
	params := revenuedomain.DecayParams{
		Lambda:             cfg.Forecast.DecayLambda,
		BaseDateOffsetDays: cfg.Forecast.BaseDateOffsetDays,
	}

	degraded := make(map[string]bool)
	projects, rowErrs := adapter.NormalizeProjects(snap.rows)
	for i, errs := range rowErrs {
		recordID := projects[i].RecordID
		for _, fieldErr := range errs {
			kind := warningKindFor(fieldErr)
			warn(forecastdomain.Warning{Kind: kind, RecordID: recordID, Message: fieldErr.Error()})
			s.metrics.RecordDegradedProject(ctx, string(kind))
			degraded[recordID] = true
		}
	}

	latest := revenueservice.ReduceOverrides(snap.overrides)
	stale := revenueservice.StaleOverrides(projects, latest)
	for _, id := range stale {
		warn(forecastdomain.Warning{
			Kind:     forecastdomain.WarningStaleOverride,
			RecordID: id,
			Message:  "override references no known project",
		})
	}
	s.metrics.RecordStaleOverrides(ctx, len(stale))

	cat := s.catalog(cfg, warn)
	schedules := s.usableSchedules(ctx, snap.schedules, warn, degraded)

	amounts := make([]cashflowdomain.ProjectAmount, 0, len(projects))
	results := make([]forecastdomain.ProjectResult, 0, len(projects))
	for _, p := range projects {
		res := revenueservice.Resolve(p, latest, params, now)
		amounts = append(amounts, cashflowdomain.ProjectAmount{Project: p, FinalAmount: res.FinalAmount})
		results = append(results, projectResult(p, res, schedules, degraded[p.RecordID]))
	}

	entries := cashflowservice.Project(amounts, schedules, cat)
	ledgerSnap := snap.ledger

	report := &forecastdomain.Report{
		RunID:          runID,
		GeneratedAt:    now,
		ReferenceDate:  revenueservice.ReferenceDate(now, params.BaseDateOffsetDays),
		Projects:       results,
		Entries:        entries,
		Monthly:        cashflowservice.AggregateMonthly(entries),
		ByBusinessLine: cashflowservice.AggregateByBusinessLine(entries),
		ByStage:        cashflowservice.AggregateByStageType(entries),
		Forecast:       cashflowservice.Forecast(entries, now, cfg.Forecast.MonthsAhead, cfg.Forecast.FillZeroMonths),
		Merged:         cashflowservice.MergeIntoSource(amounts, entries, ""),
		Budget:         cashflowservice.BudgetByBusinessLine(amounts),
		Runway: runwayservice.Build(runwayservice.BuildInput{
			From:        now,
			MonthsAhead: cfg.Cashflow.MonthsAhead,
			InitialCash: cfg.Cashflow.InitialCash,
			Entries:     entries,
			Projects:    amounts,
			Ledger:      ledgerSnap,
			Cost:        cfg.Cost,
		}),
		Costs:    ledgerdomain.Summarize(ledgerSnap, nil, nil),
		Warnings: warnings,
	}
	if report.Warnings == nil {
		report.Warnings = []forecastdomain.Warning{}
	}

	span.SetAttributes(
		attribute.Int("forecast.projects", len(projects)),
		attribute.Int("forecast.entries", len(entries)),
		attribute.Int("forecast.warnings", len(report.Warnings)),
	)
	s.metrics.RecordForecastRun(ctx, "ok")
	log.Info("forecast run completed",
		zap.Int("projects", len(projects)),
		zap.Int("entries", len(entries)),
		zap.Int("warnings", len(report.Warnings)),
		zap.Int("runway_months", report.Runway.RunwayMonths),
		zap.Float64("min_balance", report.Runway.MinBalance),
	)
	return report, nil
}

func (s *Service) load(ctx context.Context, warn func(forecastdomain.Warning)) (snapshot, error) {
	var snap snapshot
	var err error

	if snap.rows, err = s.records.ListProjects(ctx); err != nil {
		return snapshot{}, fmt.Errorf("list projects: %w", err)
	}
	if snap.overrides, err = s.records.ListOverrides(ctx); err != nil {
		return snapshot{}, fmt.Errorf("list overrides: %w", err)
	}

	snap.schedules, err = s.schedules.List(ctx)
	if err != nil {
		if snap.schedules == nil {
			return snapshot{}, fmt.Errorf("list schedules: %w", err)
		}
		warn(forecastdomain.Warning{Kind: forecastdomain.WarningScheduleUnreadable, Message: err.Error()})
	}

	if snap.ledger, err = s.ledger.Snapshot(ctx); err != nil {
		return snapshot{}, fmt.Errorf("load cost ledger: %w", err)
	}
	return snap, nil
}

// catalog builds the template catalog from engine config, falling back to
// the built-in catalog when the configured one is invalid.
func (s *Service) catalog(cfg config.EngineConfig, warn func(forecastdomain.Warning)) scheduledomain.Catalog {
	cat, err := catalog.FromConfig(cfg.Schedule)
	if err != nil {
		if warn != nil {
			warn(forecastdomain.Warning{Kind: forecastdomain.WarningCatalogConfig, Message: err.Error()})
		} else {
			s.log.Warn("invalid template catalog, using built-in templates", zap.Error(err))
		}
		return catalog.Default()
	}
	return cat
}

// usableSchedules drops persisted schedules that no longer validate. Their
// projects fall back to template generation.
func (s *Service) usableSchedules(ctx context.Context, in map[string]*scheduledomain.PersistedSchedule, warn func(forecastdomain.Warning), degraded map[string]bool) map[string]*scheduledomain.PersistedSchedule {
	out := make(map[string]*scheduledomain.PersistedSchedule, len(in))
	for id, ps := range in {
		if ps == nil {
			continue
		}
		if err := scheduledomain.ValidateStages(ps.TemplateName, ps.Stages); err != nil {
			warn(forecastdomain.Warning{Kind: forecastdomain.WarningScheduleConfig, RecordID: id, Message: err.Error()})
			s.metrics.RecordDegradedProject(ctx, string(forecastdomain.WarningScheduleConfig))
			degraded[id] = true
			continue
		}
		out[id] = ps
	}
	return out
}

// UpsertOverride records a manual amount for a project. A nil amount clears
// the override going forward.
func (s *Service) UpsertOverride(ctx context.Context, recordID string, amount *float64) error {
	recordID = strings.TrimSpace(recordID)
	if recordID == "" {
		return forecastdomain.ErrInvalidRecordID
	}
	if amount != nil && (math.IsNaN(*amount) || math.IsInf(*amount, 0) || *amount < 0) {
		return forecastdomain.ErrInvalidOverrideAmount
	}

	release, err := s.lockRecord(ctx, recordID)
	if err != nil {
		return err
	}
	defer release(ctx)

	if err := s.records.UpsertOverride(ctx, recordID, amount, s.clock.Now().UTC()); err != nil {
		return err
	}
	s.metrics.RecordOverrideWrite(ctx)

	fields := []zap.Field{zap.String("record_id", recordID), zap.Bool("cleared", amount == nil)}
	if amount != nil {
		fields = append(fields, zap.Float64("amount", *amount))
	}
	ctxlogger.WithContext(ctxlogger.ContextWithRecordID(ctx, recordID), s.log).Info("override saved", fields...)
	return nil
}

// SaveSchedule persists a project's payment schedule. Without explicit
// stages the named template is expanded against the project dates.
func (s *Service) SaveSchedule(ctx context.Context, req forecastdomain.SaveScheduleRequest) (*scheduledomain.PersistedSchedule, error) {
	recordID := strings.TrimSpace(req.RecordID)
	if recordID == "" {
		return nil, forecastdomain.ErrInvalidRecordID
	}
	templateName := strings.TrimSpace(req.TemplateName)

	release, err := s.lockRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	defer release(ctx)

	stages := make([]scheduledomain.Stage, 0, len(req.Stages))
	for _, st := range req.Stages {
		stages = append(stages, scheduledomain.Stage{Name: st.Name, Ratio: st.Ratio, Date: st.Date})
	}

	if len(stages) == 0 && templateName != "" {
		tpl, ok := s.catalog(s.engine.Get(), nil).Template(templateName)
		if !ok {
			return nil, scheduledomain.ErrTemplateNotFound
		}
		p, err := s.findProject(ctx, recordID)
		if err != nil {
			return nil, err
		}
		stages = scheduleservice.ApplyTemplate(tpl.Stages, p.StartDate, p.EffectiveDeliveryDate())
	}

	saved, err := s.schedules.Save(ctx, scheduledomain.SaveRequest{
		RecordID:     recordID,
		TemplateName: templateName,
		Stages:       stages,
	})
	if err != nil {
		return nil, err
	}
	ctxlogger.WithContext(ctxlogger.ContextWithRecordID(ctx, recordID), s.log).Info("schedule saved",
		zap.String("template", templateName),
		zap.Int("stages", len(saved.Stages)),
	)
	return saved, nil
}

func (s *Service) lockRecord(ctx context.Context, recordID string) (func(context.Context), error) {
	release, err := s.locker.Acquire(ctx, "runway:record:"+recordID, writeLease)
	if errors.Is(err, cache.ErrLockHeld) {
		return nil, forecastdomain.ErrRecordBusy
	}
	if err != nil {
		return nil, fmt.Errorf("lock record: %w", err)
	}
	return release, nil
}

// ProjectSchedule resolves one project's dated payments with amounts.
func (s *Service) ProjectSchedule(ctx context.Context, recordID string) ([]cashflowdomain.ScheduleLine, error) {
	recordID = strings.TrimSpace(recordID)
	if recordID == "" {
		return nil, forecastdomain.ErrInvalidRecordID
	}
	cfg := s.engine.Get()

	p, err := s.findProject(ctx, recordID)
	if err != nil {
		return nil, err
	}
	overrides, err := s.records.ListOverrides(ctx)
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}

	persisted, err := s.schedules.Get(ctx, recordID)
	switch {
	case errors.Is(err, scheduledomain.ErrNotFound):
		persisted = nil
	case err != nil:
		return nil, err
	case scheduledomain.ValidateStages(persisted.TemplateName, persisted.Stages) != nil:
		persisted = nil
	}

	res := revenueservice.Resolve(p, revenueservice.ReduceOverrides(overrides), revenuedomain.DecayParams{
		Lambda:             cfg.Forecast.DecayLambda,
		BaseDateOffsetDays: cfg.Forecast.BaseDateOffsetDays,
	}, s.clock.Now().UTC())

	pa := cashflowdomain.ProjectAmount{Project: p, FinalAmount: res.FinalAmount}
	return cashflowservice.ProjectSchedule(pa, persisted, s.catalog(cfg, nil)), nil
}

// Templates lists the active template catalog.
func (s *Service) Templates(_ context.Context) []scheduledomain.Template {
	return s.catalog(s.engine.Get(), nil).Templates()
}

func (s *Service) findProject(ctx context.Context, recordID string) (revenuedomain.Project, error) {
	rows, err := s.records.ListProjects(ctx)
	if err != nil {
		return revenuedomain.Project{}, fmt.Errorf("list projects: %w", err)
	}
	for _, row := range rows {
		if row.RecordID() != recordID {
			continue
		}
		p, errs := adapter.NormalizeProject(row)
		for _, e := range errs {
			s.log.Warn("project field degraded", zap.String("record_id", recordID), zap.Error(e))
		}
		return p, nil
	}
	return revenuedomain.Project{}, forecastdomain.ErrProjectNotFound
}

func applyRequest(cfg config.EngineConfig, req forecastdomain.Request) (config.EngineConfig, error) {
	if req.MonthsAhead != nil {
		if *req.MonthsAhead < 0 {
			return cfg, fmt.Errorf("%w: months_ahead cannot be negative", forecastdomain.ErrInvalidRequest)
		}
		cfg.Forecast.MonthsAhead = *req.MonthsAhead
	}
	if req.RunwayMonthsAhead != nil {
		if *req.RunwayMonthsAhead < 0 {
			return cfg, fmt.Errorf("%w: runway_months_ahead cannot be negative", forecastdomain.ErrInvalidRequest)
		}
		cfg.Cashflow.MonthsAhead = *req.RunwayMonthsAhead
	}
	if req.InitialCash != nil {
		if math.IsNaN(*req.InitialCash) || math.IsInf(*req.InitialCash, 0) {
			return cfg, fmt.Errorf("%w: initial_cash must be finite", forecastdomain.ErrInvalidRequest)
		}
		cfg.Cashflow.InitialCash = *req.InitialCash
	}
	if req.ReferenceOffsetDays != nil {
		cfg.Forecast.BaseDateOffsetDays = *req.ReferenceOffsetDays
	}
	if req.FillZeroMonths != nil {
		cfg.Forecast.FillZeroMonths = *req.FillZeroMonths
	}
	return cfg, nil
}

func warningKindFor(err error) forecastdomain.WarningKind {
	switch {
	case errors.Is(err, revenuedomain.ErrAmbiguousWinProbability):
		return forecastdomain.WarningAmbiguousWinProbability
	case errors.Is(err, revenuedomain.ErrInvalidRecordID):
		return forecastdomain.WarningMissingRecordID
	default:
		return forecastdomain.WarningInvalidField
	}
}

func projectResult(p revenuedomain.Project, res revenuedomain.Resolution, schedules map[string]*scheduledomain.PersistedSchedule, degraded bool) forecastdomain.ProjectResult {
	out := forecastdomain.ProjectResult{
		RecordID:        p.RecordID,
		Customer:        p.Customer,
		BusinessLine:    p.BusinessLine,
		ContractAmount:  p.ContractAmount,
		FinalAmount:     res.FinalAmount,
		PredictedAmount: res.PredictedAmount,
		DecayFactor:     res.DecayFactor,
		Source:          res.Source,
		IncomeVariance:  res.IncomeVariance,
		ScheduleSource:  forecastdomain.ScheduleSourceTemplate,
		Degraded:        degraded,
	}
	if p.HasValidProbability() {
		pct := p.WinProbability
		out.WinProbability = &pct
	}
	if _, ok := schedules[p.RecordID]; ok {
		out.ScheduleSource = forecastdomain.ScheduleSourcePersisted
	}
	return out
}

