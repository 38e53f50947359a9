package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Snapshot(ctx context.Context) (Snapshot, error)
	Summary(ctx context.Context, from, to *time.Time) (Summary, error)
	AddLabor(ctx context.Context, c LaborCost) (*LaborCost, error)
	AddOverhead(ctx context.Context, c OverheadCost) (*OverheadCost, error)
	AddOneOff(ctx context.Context, i OneOffItem) (*OneOffItem, error)
	Remove(ctx context.Context, item ItemType, id snowflake.ID) error
}
