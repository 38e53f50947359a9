package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/runway/internal/clock"
	obsmetrics "github.com/smallbiznis/runway/internal/observability/metrics"
	scheduledomain "github.com/smallbiznis/runway/internal/schedule/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    scheduledomain.Repository
	Clock   clock.Clock
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	log     *zap.Logger
	genID   *snowflake.Node
	repo    scheduledomain.Repository
	clock   clock.Clock
	metrics *obsmetrics.Metrics
}

func NewService(p ServiceParam) scheduledomain.Service {
	return &Service{
		log:     p.Log.Named("schedule.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		clock:   p.Clock,
		metrics: p.Metrics,
	}
}

func (s *Service) Get(ctx context.Context, recordID string) (*scheduledomain.PersistedSchedule, error) {
	recordID = strings.TrimSpace(recordID)
	if recordID == "" {
		return nil, scheduledomain.ErrInvalidRecordID
	}
	row, err := s.repo.FindByRecordID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, scheduledomain.ErrNotFound
	}
	return toPersisted(*row)
}

// List returns every persisted schedule keyed by record id. Rows whose stage
// blob cannot be decoded are skipped and reported in the joined error.
func (s *Service) List(ctx context.Context) (map[string]*scheduledomain.PersistedSchedule, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]*scheduledomain.PersistedSchedule, len(rows))
	var errs []error
	for _, row := range rows {
		persisted, err := toPersisted(row)
		if err != nil {
			s.log.Warn("skipping unreadable schedule",
				zap.String("record_id", row.RecordID),
				zap.Error(err),
			)
			errs = append(errs, err)
			continue
		}
		out[row.RecordID] = persisted
	}
	return out, errors.Join(errs...)
}

// Save validates and stores a schedule. Invalid stages are rejected with a
// ScheduleConfigError and nothing is written.
func (s *Service) Save(ctx context.Context, req scheduledomain.SaveRequest) (*scheduledomain.PersistedSchedule, error) {
	recordID := strings.TrimSpace(req.RecordID)
	if recordID == "" {
		return nil, scheduledomain.ErrInvalidRecordID
	}
	templateName := strings.TrimSpace(req.TemplateName)

	if err := scheduledomain.ValidateStages(templateName, req.Stages); err != nil {
		s.metrics.RecordScheduleRejection(ctx)
		return nil, err
	}

	payload, err := scheduledomain.EncodeStages(req.Stages)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC().Truncate(time.Millisecond)
	row := &scheduledomain.PaymentSchedule{
		ID:           s.genID.Generate(),
		RecordID:     recordID,
		TemplateName: templateName,
		Stages:       payload,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Upsert(ctx, row); err != nil {
		return nil, err
	}

	s.log.Info("payment schedule saved",
		zap.String("record_id", recordID),
		zap.String("template_name", templateName),
		zap.Int("stages", len(req.Stages)),
	)
	return toPersisted(*row)
}

func (s *Service) Delete(ctx context.Context, recordID string) error {
	recordID = strings.TrimSpace(recordID)
	if recordID == "" {
		return scheduledomain.ErrInvalidRecordID
	}
	return s.repo.Delete(ctx, recordID)
}

func toPersisted(row scheduledomain.PaymentSchedule) (*scheduledomain.PersistedSchedule, error) {
	stages, err := scheduledomain.DecodeStages(row.Stages)
	if err != nil {
		return nil, err
	}
	return &scheduledomain.PersistedSchedule{
		RecordID:     row.RecordID,
		TemplateName: row.TemplateName,
		Stages:       stages,
		UpdatedAt:    row.UpdatedAt,
	}, nil
}
