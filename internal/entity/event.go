package entity

import "time"

type EventType string

const (
	EventLeadConverted    EventType = "lead.converted"
	EventDealStageChanged EventType = "deal.stage_changed"
	EventDealConverted    EventType = "deal.converted"
)

// PipelineEvent is published after a pipeline transition has been persisted.
type PipelineEvent struct {
	ID           string    `json:"id"`
	Type         EventType `json:"type"`
	OwnerID      string    `json:"owner_id"`
	LeadID       *int64    `json:"lead_id,omitempty"`
	DealID       *int64    `json:"deal_id,omitempty"`
	ConnectionID *int64    `json:"connection_id,omitempty"`
	Stage        DealStage `json:"stage,omitempty"`
	Name         string    `json:"name,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
