package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	recorddomain "github.com/smallbiznis/runway/internal/record/domain"
	"github.com/smallbiznis/runway/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) recorddomain.Repository {
	t.Helper()
	conn := db.NewTest(t, &recorddomain.ProjectRecord{}, &recorddomain.OverrideRecord{})
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return NewRepository(conn, node)
}

func floatPtr(v float64) *float64 { return &v }

func TestRepository_SaveAndListProjects(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	require.NoError(t, repo.SaveProject(ctx, recorddomain.Row{"record_id": "b", "客户": "Beta"}))
	require.NoError(t, repo.SaveProject(ctx, recorddomain.Row{"record_id": "a", "客户": "Acme"}))
	require.NoError(t, repo.SaveProject(ctx, recorddomain.Row{"record_id": "a", "客户": "Acme Ltd"}))

	rows, err := repo.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].RecordID())
	assert.Equal(t, "Acme Ltd", rows[0]["客户"])
	assert.Equal(t, "b", rows[1].RecordID())
}

func TestRepository_SaveProjectRequiresRecordID(t *testing.T) {
	repo := newTestRepository(t)
	err := repo.SaveProject(context.Background(), recorddomain.Row{"客户": "x"})
	assert.True(t, errors.Is(err, recorddomain.ErrInvalidRecordID))
}

func TestRepository_UpsertOverrideUpdatesLatest(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	t0 := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, repo.UpsertOverride(ctx, "rec1", floatPtr(100), t0))
	require.NoError(t, repo.UpsertOverride(ctx, "rec1", floatPtr(250.5), t0.Add(time.Hour)))
	require.NoError(t, repo.UpsertOverride(ctx, "rec2", nil, t0))

	overrides, err := repo.ListOverrides(ctx)
	require.NoError(t, err)
	require.Len(t, overrides, 2)

	assert.Equal(t, "rec1", overrides[0].RecordID)
	require.NotNil(t, overrides[0].Amount)
	assert.InDelta(t, 250.5, *overrides[0].Amount, 1e-9)
	assert.True(t, overrides[0].UpdatedAt.Equal(t0.Add(time.Hour)))

	assert.Equal(t, "rec2", overrides[1].RecordID)
	assert.Nil(t, overrides[1].Amount)
}

func TestRepository_UpsertOverrideNullLeavesOlderRows(t *testing.T) {
	ctx := context.Background()
	conn := db.NewTest(t, &recorddomain.ProjectRecord{}, &recorddomain.OverrideRecord{})
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	repo := NewRepository(conn, node)
	t0 := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, conn.Create(&recorddomain.OverrideRecord{
		ID: node.Generate(), RecordID: "rec1", OverrideAmount: floatPtr(100), CreatedAt: t0, UpdatedAt: t0,
	}).Error)
	require.NoError(t, conn.Create(&recorddomain.OverrideRecord{
		ID: node.Generate(), RecordID: "rec1", OverrideAmount: floatPtr(200), CreatedAt: t0.Add(time.Hour), UpdatedAt: t0.Add(time.Hour),
	}).Error)

	require.NoError(t, repo.UpsertOverride(ctx, "rec1", nil, t0.Add(2*time.Hour)))

	overrides, err := repo.ListOverrides(ctx)
	require.NoError(t, err)
	require.Len(t, overrides, 2)
	require.NotNil(t, overrides[0].Amount)
	assert.InDelta(t, 100, *overrides[0].Amount, 1e-9)
	assert.Nil(t, overrides[1].Amount)
	assert.True(t, overrides[1].UpdatedAt.Equal(t0.Add(2*time.Hour)))
}

func TestRepository_UpsertOverrideValidates(t *testing.T) {
	repo := newTestRepository(t)
	err := repo.UpsertOverride(context.Background(), "  ", floatPtr(1), time.Now())
	assert.True(t, errors.Is(err, recorddomain.ErrInvalidRecordID))
}
