package usecase

import (
	"context"
	"math"
	"slices"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type DashboardUseCase struct {
	Deals entity.DealRepositoryInterface
	Focus *FocusScheduler
}

func NewDashboardUseCase(deals entity.DealRepositoryInterface, focus *FocusScheduler) *DashboardUseCase {
	return &DashboardUseCase{Deals: deals, Focus: focus}
}

func (uc *DashboardUseCase) Stats(ctx context.Context, ownerID string) (*DashboardStats, error) {
	deals, err := uc.Deals.List(ctx, ownerID)
	if err != nil {
		return nil, storeErr("list deals", err)
	}

	stats := &DashboardStats{}
	for _, d := range deals {
		switch {
		case slices.Contains(entity.ProcessingStages, d.Stage):
			stats.DealsProcessing++
		case d.Stage == entity.StageCompleted:
			stats.DoneSuccessfully++
		}
	}

	focus, err := uc.Focus.CountFocusToday(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	stats.FocusToday = focus
	stats.DaysRemaining = DaysRemainingInMonth(uc.Focus.Clock().In(uc.Focus.Location))
	return stats, nil
}

// DaysRemainingInMonth counts whole days, rounded up, from now until
// midnight starting the last day of the month. Never negative.
func DaysRemainingInMonth(now time.Time) int {
	lastDay := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location())
	days := int(math.Ceil(lastDay.Sub(now).Hours() / 24))
	return max(days, 0)
}
