package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	ledgerdomain "github.com/smallbiznis/runway/internal/ledger/domain"
	"github.com/smallbiznis/runway/pkg/db/option"
	"github.com/smallbiznis/runway/pkg/repository"
	"gorm.io/gorm"
)

type repo struct {
	labor    repository.Repository[ledgerdomain.LaborCost]
	overhead repository.Repository[ledgerdomain.OverheadCost]
	oneOff   repository.Repository[ledgerdomain.OneOffItem]
}

func Provide(db *gorm.DB) ledgerdomain.Repository {
	return &repo{
		labor:    repository.ProvideStore[ledgerdomain.LaborCost](db),
		overhead: repository.ProvideStore[ledgerdomain.OverheadCost](db),
		oneOff:   repository.ProvideStore[ledgerdomain.OneOffItem](db),
	}
}

func (r *repo) ListLabor(ctx context.Context) ([]ledgerdomain.LaborCost, error) {
	items, err := r.labor.Find(ctx, &ledgerdomain.LaborCost{}, option.WithOrder("start_date asc, id asc"))
	if err != nil {
		return nil, err
	}
	return deref(items), nil
}

func (r *repo) ListOverhead(ctx context.Context) ([]ledgerdomain.OverheadCost, error) {
	items, err := r.overhead.Find(ctx, &ledgerdomain.OverheadCost{}, option.WithOrder("start_date asc, id asc"))
	if err != nil {
		return nil, err
	}
	return deref(items), nil
}

func (r *repo) ListOneOff(ctx context.Context) ([]ledgerdomain.OneOffItem, error) {
	items, err := r.oneOff.Find(ctx, &ledgerdomain.OneOffItem{}, option.WithOrder("occurred_at asc, id asc"))
	if err != nil {
		return nil, err
	}
	return deref(items), nil
}

func (r *repo) CreateLabor(ctx context.Context, c *ledgerdomain.LaborCost) error {
	return r.labor.Create(ctx, c)
}

func (r *repo) CreateOverhead(ctx context.Context, c *ledgerdomain.OverheadCost) error {
	return r.overhead.Create(ctx, c)
}

func (r *repo) CreateOneOff(ctx context.Context, i *ledgerdomain.OneOffItem) error {
	return r.oneOff.Create(ctx, i)
}

func (r *repo) Delete(ctx context.Context, item ledgerdomain.ItemType, id snowflake.ID) (int64, error) {
	switch item {
	case ledgerdomain.ItemLabor:
		return r.labor.Delete(ctx, id)
	case ledgerdomain.ItemOverhead:
		return r.overhead.Delete(ctx, id)
	case ledgerdomain.ItemOneOff:
		return r.oneOff.Delete(ctx, id)
	default:
		return 0, ledgerdomain.ErrInvalidItemType
	}
}

func deref[T any](items []*T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if item != nil {
			out = append(out, *item)
		}
	}
	return out
}
