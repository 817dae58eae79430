// Package memstore keeps every entity kind in process memory. It backs
// DATABASE_DRIVER=memory and the use case tests.
package memstore

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type (
	LeadTable       = Table[entity.Lead, *entity.Lead]
	DealTable       = Table[entity.Deal, *entity.Deal]
	ConnectionTable = Table[entity.Connection, *entity.Connection]
	TaskTable       = Table[entity.Task, *entity.Task]
)

type Store struct {
	Leads       *leads
	Deals       *DealTable
	Connections *connections
	Tasks       *TaskTable
}

func New(now func() time.Time) *Store {
	deals := NewTable[entity.Deal](now)
	tasks := NewTable[entity.Task](now)
	return &Store{
		Leads:       &leads{LeadTable: NewTable[entity.Lead](now), deals: deals},
		Deals:       deals,
		Connections: &connections{ConnectionTable: NewTable[entity.Connection](now), tasks: tasks},
		Tasks:       tasks,
	}
}

// Repositories exposes the store through the use case interfaces.
func (s *Store) Repositories() usecase.Store {
	return usecase.Store{
		Leads:       s.Leads,
		Deals:       s.Deals,
		Connections: s.Connections,
		Tasks:       s.Tasks,
	}
}

// leads detaches deals from a deleted lead.
type leads struct {
	*LeadTable
	deals *DealTable
}

func (l *leads) Delete(ctx context.Context, ownerID string, id int64) error {
	if err := l.LeadTable.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	l.deals.detach(ownerID, id, func(d *entity.Deal) **int64 { return &d.LeadID })
	return nil
}

// connections detaches tasks from a deleted connection.
type connections struct {
	*ConnectionTable
	tasks *TaskTable
}

func (c *connections) Delete(ctx context.Context, ownerID string, id int64) error {
	if err := c.ConnectionTable.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	c.tasks.detach(ownerID, id, func(t *entity.Task) **int64 { return &t.ConnectionID })
	return nil
}
