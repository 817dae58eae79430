package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// Clock returns the current wall-clock time.
type Clock func() time.Time

// FocusLocker serializes focus-mutating calls for one owner. The returned
// func releases the lock and is safe to call once.
type FocusLocker interface {
	Lock(ctx context.Context, ownerID string) (func(), error)
}

// EventPublisher receives pipeline events after they are persisted.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event entity.PipelineEvent) error
}

// Store groups the repositories of the four entity kinds.
type Store struct {
	Leads       entity.LeadRepositoryInterface
	Deals       entity.DealRepositoryInterface
	Connections entity.ConnectionRepositoryInterface
	Tasks       entity.TaskRepositoryInterface
}
