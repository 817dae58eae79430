package usecase

import "github.com/xavierca1/ligue-crm/internal/entity"

type DashboardStats struct {
	DealsProcessing  int `json:"dealsProcessing"`
	DoneSuccessfully int `json:"doneSuccessfully"`
	DaysRemaining    int `json:"daysRemaining"`
	FocusToday       int `json:"focusToday"`
}

type SetLeadStatusInput struct {
	Status entity.LeadStatus `json:"status"`
}

type SetDealStageInput struct {
	Stage entity.DealStage `json:"stage"`
}

type RolloverOutput struct {
	RolledOver int `json:"rolled_over"`
}
