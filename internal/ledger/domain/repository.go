package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	ListLabor(ctx context.Context) ([]LaborCost, error)
	ListOverhead(ctx context.Context) ([]OverheadCost, error)
	ListOneOff(ctx context.Context) ([]OneOffItem, error)
	CreateLabor(ctx context.Context, c *LaborCost) error
	CreateOverhead(ctx context.Context, c *OverheadCost) error
	CreateOneOff(ctx context.Context, i *OneOffItem) error
	Delete(ctx context.Context, item ItemType, id snowflake.ID) (int64, error)
}
