package domain

import (
	"context"

	cashflowdomain "github.com/smallbiznis/runway/internal/cashflow/domain"
	scheduledomain "github.com/smallbiznis/runway/internal/schedule/domain"
)

type Service interface {
	Run(ctx context.Context, req Request) (*Report, error)
	UpsertOverride(ctx context.Context, recordID string, amount *float64) error
	SaveSchedule(ctx context.Context, req SaveScheduleRequest) (*scheduledomain.PersistedSchedule, error)
	ProjectSchedule(ctx context.Context, recordID string) ([]cashflowdomain.ScheduleLine, error)
	Templates(ctx context.Context) []scheduledomain.Template
}
