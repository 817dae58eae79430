package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type LeadUseCase struct {
	Leads  entity.LeadRepositoryInterface
	Logger *zap.Logger
}

func NewLeadUseCase(leads entity.LeadRepositoryInterface, logger *zap.Logger) *LeadUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeadUseCase{Leads: leads, Logger: logger}
}

func (uc *LeadUseCase) Create(ctx context.Context, ownerID string, lead *entity.Lead) (*entity.Lead, error) {
	lead.Base = entity.Base{OwnerID: ownerID}
	lead.Normalize()
	if err := validationErr(ValidateLead(lead)); err != nil {
		return nil, err
	}

	if err := uc.Leads.Create(ctx, lead); err != nil {
		uc.Logger.Error("failed to create lead", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, storeErr("create lead", err)
	}

	uc.Logger.Info("lead created",
		zap.String("owner_id", ownerID),
		zap.Int64("lead_id", lead.ID),
		zap.String("status", string(lead.Status)),
	)
	return lead, nil
}

func (uc *LeadUseCase) Get(ctx context.Context, ownerID string, id int64) (*entity.Lead, error) {
	lead, err := uc.Leads.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, lookupErr(entity.KindLead, id, err)
	}
	return lead, nil
}

// Update replaces every mutable field of the lead. An empty status keeps
// the current one. Invalid input is rejected before the lead is read.
func (uc *LeadUseCase) Update(ctx context.Context, ownerID string, id int64, in *entity.Lead) (*entity.Lead, error) {
	if err := validationErr(ValidateLead(in)); err != nil {
		return nil, err
	}

	current, err := uc.Leads.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, lookupErr(entity.KindLead, id, err)
	}

	in.Base = current.Base
	if in.Status == "" {
		in.Status = current.Status
	}
	in.Normalize()

	if err := uc.Leads.Update(ctx, in); err != nil {
		return nil, writeErr(entity.KindLead, id, "update lead", err)
	}
	return in, nil
}

func (uc *LeadUseCase) Delete(ctx context.Context, ownerID string, id int64) error {
	if err := uc.Leads.Delete(ctx, ownerID, id); err != nil {
		return writeErr(entity.KindLead, id, "delete lead", err)
	}
	uc.Logger.Info("lead deleted", zap.String("owner_id", ownerID), zap.Int64("lead_id", id))
	return nil
}

// List returns the owner's leads newest first, optionally by status.
func (uc *LeadUseCase) List(ctx context.Context, ownerID string, status *entity.LeadStatus) ([]*entity.Lead, error) {
	var filters []entity.Filter
	if status != nil {
		if !status.Valid() {
			return nil, validationErr([]ValidationError{{"status", "is not a known lead status"}})
		}
		filters = append(filters, entity.ByLeadStatus(*status))
	}
	leads, err := uc.Leads.List(ctx, ownerID, filters...)
	if err != nil {
		return nil, storeErr("list leads", err)
	}
	return leads, nil
}
