package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func TestDashboardStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, stage := range []entity.DealStage{
		entity.StageApplicationProcessing,
		entity.StageVerificationNeeded,
		entity.StageActivationNeeded,
		entity.StageCompleted,
		entity.StageCompleted,
		entity.StageUnsuccessful,
	} {
		_, err := f.deals.Create(ctx, ownerA, &entity.Deal{Stage: stage})
		require.NoError(t, err)
	}
	f.newTask(t, "focus", true)
	f.newTask(t, "plain", false)

	stats, err := f.dashboard.Stats(ctx, ownerA)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.DealsProcessing)
	assert.Equal(t, 2, stats.DoneSuccessfully)
	assert.Equal(t, 1, stats.FocusToday)
	// 2026-03-10 14:30 → 2026-03-31 00:00
	assert.Equal(t, 21, stats.DaysRemaining)

	empty, err := f.dashboard.Stats(ctx, ownerB)
	require.NoError(t, err)
	assert.Zero(t, empty.DealsProcessing)
	assert.Zero(t, empty.FocusToday)
}

func TestDaysRemainingInMonth(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"first of month", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), 27},
		{"mid day", time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC), 21},
		{"eve of last day", time.Date(2026, 4, 29, 23, 0, 0, 0, time.UTC), 1},
		{"last day midnight", time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC), 0},
		{"last day afternoon", time.Date(2026, 12, 31, 15, 0, 0, 0, time.UTC), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, usecase.DaysRemainingInMonth(tt.now))
		})
	}
}
