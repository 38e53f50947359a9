package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/runway/internal/clock"
	ledgerdomain "github.com/smallbiznis/runway/internal/ledger/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Repo  ledgerdomain.Repository
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

type Service struct {
	repo  ledgerdomain.Repository
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
}

func NewService(p Params) ledgerdomain.Service {
	return &Service{
		repo:  p.Repo,
		log:   p.Log.Named("ledger.service"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) Snapshot(ctx context.Context) (ledgerdomain.Snapshot, error) {
	labor, err := s.repo.ListLabor(ctx)
	if err != nil {
		return ledgerdomain.Snapshot{}, err
	}
	overhead, err := s.repo.ListOverhead(ctx)
	if err != nil {
		return ledgerdomain.Snapshot{}, err
	}
	oneOff, err := s.repo.ListOneOff(ctx)
	if err != nil {
		return ledgerdomain.Snapshot{}, err
	}
	return ledgerdomain.Snapshot{Labor: labor, Overhead: overhead, OneOff: oneOff}, nil
}

func (s *Service) Summary(ctx context.Context, from, to *time.Time) (ledgerdomain.Summary, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return ledgerdomain.Summary{}, err
	}
	return ledgerdomain.Summarize(snap, from, to), nil
}

func (s *Service) AddLabor(ctx context.Context, c ledgerdomain.LaborCost) (*ledgerdomain.LaborCost, error) {
	freq, err := ledgerdomain.ParseFrequency(string(c.Frequency))
	if err != nil {
		return nil, err
	}
	c.Frequency = freq
	if err := c.Validate(); err != nil {
		return nil, err
	}

	c.ID = s.genID.Generate()
	c.CreatedAt = s.clock.Now().UTC()
	if err := s.repo.CreateLabor(ctx, &c); err != nil {
		return nil, err
	}
	s.log.Info("labor cost added", zap.String("id", c.ID.String()), zap.String("frequency", string(c.Frequency)))
	return &c, nil
}

func (s *Service) AddOverhead(ctx context.Context, c ledgerdomain.OverheadCost) (*ledgerdomain.OverheadCost, error) {
	freq, err := ledgerdomain.ParseFrequency(string(c.Frequency))
	if err != nil {
		return nil, err
	}
	c.Frequency = freq
	if err := c.Validate(); err != nil {
		return nil, err
	}

	c.ID = s.genID.Generate()
	c.CreatedAt = s.clock.Now().UTC()
	if err := s.repo.CreateOverhead(ctx, &c); err != nil {
		return nil, err
	}
	s.log.Info("overhead cost added", zap.String("id", c.ID.String()))
	return &c, nil
}

func (s *Service) AddOneOff(ctx context.Context, i ledgerdomain.OneOffItem) (*ledgerdomain.OneOffItem, error) {
	kind, err := ledgerdomain.ParseOneOffKind(string(i.Kind))
	if err != nil {
		return nil, err
	}
	i.Kind = kind
	if err := i.Validate(); err != nil {
		return nil, err
	}

	i.ID = s.genID.Generate()
	i.CreatedAt = s.clock.Now().UTC()
	if err := s.repo.CreateOneOff(ctx, &i); err != nil {
		return nil, err
	}
	s.log.Info("one-off item added", zap.String("id", i.ID.String()), zap.String("kind", string(i.Kind)))
	return &i, nil
}

func (s *Service) Remove(ctx context.Context, item ledgerdomain.ItemType, id snowflake.ID) error {
	if id == 0 {
		return ledgerdomain.ErrNotFound
	}
	affected, err := s.repo.Delete(ctx, item, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ledgerdomain.ErrNotFound
	}
	return nil
}
