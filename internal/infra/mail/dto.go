package mail

import (
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type DealClosedData struct {
	DealID     string
	Name       string
	Stage      entity.DealStage
	Won        bool
	OccurredAt string
}

type ConnectionOnboardedData struct {
	ConnectionID string
	DealID       string
	Name         string
	OccurredAt   string
}

type Settings struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	NotifyTo string
}

const timestampLayout = "2006-01-02 15:04 MST"

func idString(id *int64) string {
	if id == nil {
		return ""
	}
	return fmt.Sprintf("%d", *id)
}

func dealClosedData(ev entity.PipelineEvent) DealClosedData {
	return DealClosedData{
		DealID:     idString(ev.DealID),
		Name:       ev.Name,
		Stage:      ev.Stage,
		Won:        ev.Stage == entity.StageCompleted,
		OccurredAt: ev.OccurredAt.Format(timestampLayout),
	}
}

func connectionOnboardedData(ev entity.PipelineEvent) ConnectionOnboardedData {
	return ConnectionOnboardedData{
		ConnectionID: idString(ev.ConnectionID),
		DealID:       idString(ev.DealID),
		Name:         ev.Name,
		OccurredAt:   ev.OccurredAt.Format(timestampLayout),
	}
}
