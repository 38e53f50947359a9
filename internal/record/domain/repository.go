package domain

import (
	"context"
	"time"

	revenuedomain "github.com/smallbiznis/runway/internal/revenue/domain"
)

// Repository is the record store holding project rows and overrides.
type Repository interface {
	ListProjects(ctx context.Context) ([]Row, error)
	ListOverrides(ctx context.Context) ([]revenuedomain.Override, error)
	UpsertOverride(ctx context.Context, recordID string, amount *float64, at time.Time) error
	SaveProject(ctx context.Context, row Row) error
}
