package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// PipelineEngine owns the Lead and Deal state machines and the conversions
// Lead→Deal and Deal→Connection. Conversions are additive: source rows are
// never deleted or marked as converted.
type PipelineEngine struct {
	Leads       entity.LeadRepositoryInterface
	Deals       entity.DealRepositoryInterface
	Connections entity.ConnectionRepositoryInterface
	Events      EventPublisher
	Clock       Clock
	Logger      *zap.Logger
}

func NewPipelineEngine(store Store, events EventPublisher, clock Clock, logger *zap.Logger) *PipelineEngine {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PipelineEngine{
		Leads:       store.Leads,
		Deals:       store.Deals,
		Connections: store.Connections,
		Events:      events,
		Clock:       clock,
		Logger:      logger,
	}
}

// SetLeadStatus moves a lead to any of the three statuses.
func (p *PipelineEngine) SetLeadStatus(ctx context.Context, ownerID string, leadID int64, status entity.LeadStatus) (*entity.Lead, error) {
	if !status.Valid() {
		return nil, validationErr([]ValidationError{{"status", "must be one of New Lead, Qualified Lead, Appointment Booked"}})
	}

	lead, err := p.Leads.FindByID(ctx, ownerID, leadID)
	if err != nil {
		return nil, lookupErr(entity.KindLead, leadID, err)
	}

	lead.Status = status
	if err := p.Leads.Update(ctx, lead); err != nil {
		return nil, writeErr(entity.KindLead, leadID, "update lead status", err)
	}
	return lead, nil
}

// ConvertLeadToDeal opens a new deal for the lead. Every call creates a
// new deal; the lead itself is not touched.
func (p *PipelineEngine) ConvertLeadToDeal(ctx context.Context, ownerID string, leadID int64) (*entity.Deal, error) {
	lead, err := p.Leads.FindByID(ctx, ownerID, leadID)
	if err != nil {
		return nil, lookupErr(entity.KindLead, leadID, err)
	}

	deal := entity.NewDealFromLead(ownerID, lead.ID)
	if err := p.Deals.Create(ctx, deal); err != nil {
		return nil, storeErr("create deal from lead", err)
	}

	p.Logger.Info("lead converted to deal",
		zap.String("owner_id", ownerID),
		zap.Int64("lead_id", lead.ID),
		zap.Int64("deal_id", deal.ID),
	)
	p.publish(ctx, entity.PipelineEvent{
		Type:    entity.EventLeadConverted,
		OwnerID: ownerID,
		LeadID:  &lead.ID,
		DealID:  &deal.ID,
		Stage:   deal.Stage,
		Name:    lead.FullName,
	})
	return deal, nil
}

// SetDealStage allows any-to-any transitions. Entering Completed or
// Unsuccessful stamps completed_date; any other stage clears it.
func (p *PipelineEngine) SetDealStage(ctx context.Context, ownerID string, dealID int64, stage entity.DealStage) (*entity.Deal, error) {
	if !stage.Valid() {
		return nil, validationErr([]ValidationError{{"stage", "is not a known deal stage"}})
	}

	deal, err := p.Deals.FindByID(ctx, ownerID, dealID)
	if err != nil {
		return nil, lookupErr(entity.KindDeal, dealID, err)
	}

	previous := deal.Stage
	deal.MoveTo(stage, p.Clock())
	if err := p.Deals.Update(ctx, deal); err != nil {
		return nil, writeErr(entity.KindDeal, dealID, "update deal stage", err)
	}

	p.Logger.Info("deal stage changed",
		zap.String("owner_id", ownerID),
		zap.Int64("deal_id", deal.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(stage)),
	)
	p.publish(ctx, entity.PipelineEvent{
		Type:    entity.EventDealStageChanged,
		OwnerID: ownerID,
		LeadID:  deal.LeadID,
		DealID:  &deal.ID,
		Stage:   deal.Stage,
	})
	return deal, nil
}

// ConvertDealToConnection onboards the client behind a deal. Lead and deal
// rows stay as they are.
func (p *PipelineEngine) ConvertDealToConnection(ctx context.Context, ownerID string, dealID int64) (*entity.Connection, error) {
	deal, err := p.Deals.FindByID(ctx, ownerID, dealID)
	if err != nil {
		return nil, lookupErr(entity.KindDeal, dealID, err)
	}

	lead, err := p.originatingLead(ctx, ownerID, deal)
	if err != nil {
		return nil, err
	}

	conn := entity.ConnectionFromPipeline(ownerID, deal, lead)
	if err := p.Connections.Create(ctx, conn); err != nil {
		return nil, storeErr("create connection from deal", err)
	}

	p.Logger.Info("deal converted to connection",
		zap.String("owner_id", ownerID),
		zap.Int64("deal_id", deal.ID),
		zap.Int64("connection_id", conn.ID),
		zap.Bool("has_lead", lead != nil),
	)
	p.publish(ctx, entity.PipelineEvent{
		Type:         entity.EventDealConverted,
		OwnerID:      ownerID,
		LeadID:       deal.LeadID,
		DealID:       &deal.ID,
		ConnectionID: &conn.ID,
		Stage:        deal.Stage,
		Name:         conn.FullName,
	})
	return conn, nil
}

// originatingLead returns nil when the deal is standalone or its lead was
// deleted since.
func (p *PipelineEngine) originatingLead(ctx context.Context, ownerID string, deal *entity.Deal) (*entity.Lead, error) {
	if deal.LeadID == nil {
		return nil, nil
	}
	lead, err := p.Leads.FindByID(ctx, ownerID, *deal.LeadID)
	if errors.Is(err, entity.ErrNotFound) {
		p.Logger.Warn("originating lead is gone, converting deal alone",
			zap.Int64("deal_id", deal.ID),
			zap.Int64("lead_id", *deal.LeadID),
		)
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(fmt.Sprintf("load lead %d", *deal.LeadID), err)
	}
	return lead, nil
}

func (p *PipelineEngine) DuplicateLead(ctx context.Context, ownerID string, id int64) (*entity.Lead, error) {
	src, err := p.Leads.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, lookupErr(entity.KindLead, id, err)
	}
	dup := src.Duplicate()
	dup.OwnerID = ownerID
	if err := p.Leads.Create(ctx, dup); err != nil {
		return nil, storeErr("duplicate lead", err)
	}
	return dup, nil
}

// DuplicateDeal always restarts the copy at Application Processing.
func (p *PipelineEngine) DuplicateDeal(ctx context.Context, ownerID string, id int64) (*entity.Deal, error) {
	src, err := p.Deals.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, lookupErr(entity.KindDeal, id, err)
	}
	dup := src.Duplicate()
	dup.OwnerID = ownerID
	if err := p.Deals.Create(ctx, dup); err != nil {
		return nil, storeErr("duplicate deal", err)
	}
	return dup, nil
}

func (p *PipelineEngine) DuplicateConnection(ctx context.Context, ownerID string, id int64) (*entity.Connection, error) {
	src, err := p.Connections.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, lookupErr(entity.KindConnection, id, err)
	}
	dup := src.Duplicate()
	dup.OwnerID = ownerID
	if err := p.Connections.Create(ctx, dup); err != nil {
		return nil, storeErr("duplicate connection", err)
	}
	return dup, nil
}

// Duplicate dispatches on kind. Tasks cannot be duplicated.
func (p *PipelineEngine) Duplicate(ctx context.Context, ownerID string, kind entity.Kind, id int64) (entity.Record, error) {
	var (
		rec entity.Record
		err error
	)
	switch kind {
	case entity.KindLead:
		rec, err = p.DuplicateLead(ctx, ownerID, id)
	case entity.KindDeal:
		rec, err = p.DuplicateDeal(ctx, ownerID, id)
	case entity.KindConnection:
		rec, err = p.DuplicateConnection(ctx, ownerID, id)
	default:
		return nil, validationErr([]ValidationError{{"kind", fmt.Sprintf("%q cannot be duplicated", kind)}})
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// publish is best effort: the transition is already persisted.
func (p *PipelineEngine) publish(ctx context.Context, ev entity.PipelineEvent) {
	if p.Events == nil {
		return
	}
	ev.ID = uuid.NewString()
	ev.OccurredAt = p.Clock()
	if err := p.Events.PublishEvent(ctx, ev); err != nil {
		p.Logger.Warn("pipeline event not published",
			zap.String("event_type", string(ev.Type)),
			zap.String("event_id", ev.ID),
			zap.Error(err),
		)
	}
}

// writeErr maps an update/delete failure: a row that vanished between read
// and write is NotFound, anything else a StoreError.
func writeErr(kind entity.Kind, id int64, op string, err error) error {
	if errors.Is(err, entity.ErrNotFound) {
		return &NotFoundError{Kind: kind, ID: id}
	}
	return storeErr(op, err)
}
