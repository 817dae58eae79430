package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type DealUseCase struct {
	Deals  entity.DealRepositoryInterface
	Leads  entity.LeadRepositoryInterface
	Clock  Clock
	Logger *zap.Logger
}

func NewDealUseCase(deals entity.DealRepositoryInterface, leads entity.LeadRepositoryInterface, clock Clock, logger *zap.Logger) *DealUseCase {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DealUseCase{Deals: deals, Leads: leads, Clock: clock, Logger: logger}
}

// Create stores a deal entered directly, with or without an originating lead.
func (uc *DealUseCase) Create(ctx context.Context, ownerID string, deal *entity.Deal) (*entity.Deal, error) {
	deal.Base = entity.Base{OwnerID: ownerID}
	deal.Normalize(uc.Clock())
	if err := validationErr(ValidateDeal(deal)); err != nil {
		return nil, err
	}
	if err := uc.checkLead(ctx, ownerID, deal.LeadID); err != nil {
		return nil, err
	}

	if err := uc.Deals.Create(ctx, deal); err != nil {
		return nil, writeErr(entity.KindLead, derefID(deal.LeadID), "create deal", err)
	}

	uc.Logger.Info("deal created",
		zap.String("owner_id", ownerID),
		zap.Int64("deal_id", deal.ID),
		zap.String("stage", string(deal.Stage)),
	)
	return deal, nil
}

func (uc *DealUseCase) Get(ctx context.Context, ownerID string, id int64) (*entity.Deal, error) {
	deal, err := uc.Deals.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, lookupErr(entity.KindDeal, id, err)
	}
	return deal, nil
}

// Update replaces the mutable fields. completed_date is never taken from
// the input: it is kept while the stage is unchanged and re-derived when
// the stage moves.
func (uc *DealUseCase) Update(ctx context.Context, ownerID string, id int64, in *entity.Deal) (*entity.Deal, error) {
	if err := validationErr(ValidateDeal(in)); err != nil {
		return nil, err
	}

	current, err := uc.Deals.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, lookupErr(entity.KindDeal, id, err)
	}

	in.Base = current.Base
	target := in.Stage
	if target == "" {
		target = current.Stage
	}
	in.Stage = current.Stage
	in.CompletedDate = current.CompletedDate
	if target != current.Stage {
		in.MoveTo(target, uc.Clock())
	}
	in.Normalize(uc.Clock())

	if err := uc.checkLead(ctx, ownerID, in.LeadID); err != nil {
		return nil, err
	}

	if err := uc.Deals.Update(ctx, in); err != nil {
		return nil, writeErr(entity.KindDeal, id, "update deal", err)
	}
	return in, nil
}

func (uc *DealUseCase) Delete(ctx context.Context, ownerID string, id int64) error {
	if err := uc.Deals.Delete(ctx, ownerID, id); err != nil {
		return writeErr(entity.KindDeal, id, "delete deal", err)
	}
	uc.Logger.Info("deal deleted", zap.String("owner_id", ownerID), zap.Int64("deal_id", id))
	return nil
}

func (uc *DealUseCase) List(ctx context.Context, ownerID string, stage *entity.DealStage) ([]*entity.Deal, error) {
	var filters []entity.Filter
	if stage != nil {
		if !stage.Valid() {
			return nil, validationErr([]ValidationError{{"stage", "is not a known deal stage"}})
		}
		filters = append(filters, entity.ByDealStage(*stage))
	}
	deals, err := uc.Deals.List(ctx, ownerID, filters...)
	if err != nil {
		return nil, storeErr("list deals", err)
	}
	return deals, nil
}

// ListForLead scans the owner's deals for those spawned from one lead.
func (uc *DealUseCase) ListForLead(ctx context.Context, ownerID string, leadID int64) ([]*entity.Deal, error) {
	if _, err := uc.Leads.FindByID(ctx, ownerID, leadID); err != nil {
		return nil, lookupErr(entity.KindLead, leadID, err)
	}
	deals, err := uc.Deals.List(ctx, ownerID, entity.ByLeadID(leadID))
	if err != nil {
		return nil, storeErr("list deals for lead", err)
	}
	return deals, nil
}

func (uc *DealUseCase) checkLead(ctx context.Context, ownerID string, leadID *int64) error {
	if leadID == nil {
		return nil
	}
	if _, err := uc.Leads.FindByID(ctx, ownerID, *leadID); err != nil {
		return lookupErr(entity.KindLead, *leadID, err)
	}
	return nil
}

func derefID(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
