package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/runway/internal/clock"
	scheduledomain "github.com/smallbiznis/runway/internal/schedule/domain"
	"github.com/smallbiznis/runway/internal/schedule/repository"
	"github.com/smallbiznis/runway/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (scheduledomain.Service, *clock.FakeClock) {
	t.Helper()
	conn := db.NewTest(t, &scheduledomain.PaymentSchedule{})
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC))

	svc := NewService(ServiceParam{
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.NewRepository(conn),
		Clock: clk,
	})
	return svc, clk
}

func TestService_SaveCreatesThenUpdates(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()

	first, err := svc.Save(ctx, scheduledomain.SaveRequest{
		RecordID:     "rec1",
		TemplateName: "全款",
		Stages:       []scheduledomain.Stage{{Name: "全款", Ratio: 1, Date: day(2024, 3, 1)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "全款", first.TemplateName)

	clk.Advance(time.Hour)
	_, err = svc.Save(ctx, scheduledomain.SaveRequest{
		RecordID: "rec1",
		Stages: []scheduledomain.Stage{
			{Name: "deposit", Ratio: 0.4, Date: day(2024, 3, 1)},
			{Name: "final", Ratio: 0.6},
		},
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, "rec1")
	require.NoError(t, err)
	require.Len(t, got.Stages, 2)
	assert.Equal(t, "deposit", got.Stages[0].Name)
	assert.True(t, day(2024, 3, 1).Equal(*got.Stages[0].Date))
	assert.Nil(t, got.Stages[1].Date)
	assert.Equal(t, "", got.TemplateName)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestService_SaveRejectsInvalidStages(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, scheduledomain.SaveRequest{
		RecordID: "rec1",
		Stages:   []scheduledomain.Stage{{Name: "a", Ratio: 0.5}, {Name: "b", Ratio: 0.3}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, scheduledomain.ErrScheduleConfig))

	_, err = svc.Get(ctx, "rec1")
	assert.True(t, errors.Is(err, scheduledomain.ErrNotFound))
}

func TestService_RequiresRecordID(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Save(context.Background(), scheduledomain.SaveRequest{
		Stages: []scheduledomain.Stage{{Name: "a", Ratio: 1}},
	})
	assert.ErrorIs(t, err, scheduledomain.ErrInvalidRecordID)

	_, err = svc.Get(context.Background(), " ")
	assert.ErrorIs(t, err, scheduledomain.ErrInvalidRecordID)
}

func TestService_Delete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Save(ctx, scheduledomain.SaveRequest{
		RecordID: "rec1",
		Stages:   []scheduledomain.Stage{{Name: "a", Ratio: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "rec1"))
	_, err = svc.Get(ctx, "rec1")
	assert.ErrorIs(t, err, scheduledomain.ErrNotFound)
}
