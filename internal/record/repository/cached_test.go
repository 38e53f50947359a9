package repository

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/runway/internal/cache"
	recorddomain "github.com/smallbiznis/runway/internal/record/domain"
	revenuedomain "github.com/smallbiznis/runway/internal/revenue/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingRepository struct {
	projects      []recorddomain.Row
	overrides     []revenuedomain.Override
	projectCalls  int
	overrideCalls int
}

func (r *countingRepository) ListProjects(context.Context) ([]recorddomain.Row, error) {
	r.projectCalls++
	return r.projects, nil
}

func (r *countingRepository) ListOverrides(context.Context) ([]revenuedomain.Override, error) {
	r.overrideCalls++
	return r.overrides, nil
}

func (r *countingRepository) UpsertOverride(_ context.Context, recordID string, amount *float64, at time.Time) error {
	r.overrides = append(r.overrides, revenuedomain.Override{RecordID: recordID, Amount: amount, UpdatedAt: at})
	return nil
}

func (r *countingRepository) SaveProject(_ context.Context, row recorddomain.Row) error {
	r.projects = append(r.projects, row)
	return nil
}

func TestCached_ServesSnapshotUntilWrite(t *testing.T) {
	ctx := context.Background()
	inner := &countingRepository{projects: []recorddomain.Row{{"record_id": "a"}}}
	repo := NewCached(inner, cache.NewMemoryStore(), time.Minute, zap.NewNop())

	for i := 0; i < 3; i++ {
		rows, err := repo.ListProjects(ctx)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	}
	assert.Equal(t, 1, inner.projectCalls)

	require.NoError(t, repo.SaveProject(ctx, recorddomain.Row{"record_id": "b"}))
	rows, err := repo.ListProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, 2, inner.projectCalls)
}

func TestCached_OverrideWriteInvalidates(t *testing.T) {
	ctx := context.Background()
	inner := &countingRepository{}
	repo := NewCached(inner, cache.NewMemoryStore(), time.Minute, zap.NewNop())

	_, err := repo.ListOverrides(ctx)
	require.NoError(t, err)
	amount := 42.0
	require.NoError(t, repo.UpsertOverride(ctx, "a", &amount, time.Now()))

	overrides, err := repo.ListOverrides(ctx)
	require.NoError(t, err)
	require.Len(t, overrides, 1)
	assert.InDelta(t, 42, *overrides[0].Amount, 1e-9)
	assert.Equal(t, 2, inner.overrideCalls)
}

func TestCached_DisabledWithoutStore(t *testing.T) {
	inner := &countingRepository{}
	assert.Same(t, inner, NewCached(inner, nil, time.Minute, nil))
}
