package entity

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by repositories when a row does not exist for the owner.
var ErrNotFound = errors.New("record not found")

// Kind names a persisted entity type.
type Kind string

const (
	KindLead       Kind = "lead"
	KindDeal       Kind = "deal"
	KindConnection Kind = "connection"
	KindTask       Kind = "task"
)

// Base carries the identity every persisted row shares. ID and timestamps
// are stamped by the store; OwnerID scopes every read and write.
type Base struct {
	ID        int64     `json:"id"`
	OwnerID   string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Base) Meta() *Base { return b }

// Record is implemented by every entity through the embedded Base.
type Record interface {
	Meta() *Base
}

// Filter is a single equality predicate on a named column.
type Filter struct {
	Field string
	Value any
}

// Filterable exposes column values so non-SQL stores can evaluate filters.
type Filterable interface {
	FieldValue(field string) (any, bool)
}

// Repository is the persistence gateway for one entity kind.
type Repository[T any] interface {
	Create(ctx context.Context, e *T) error
	FindByID(ctx context.Context, ownerID string, id int64) (*T, error)
	Update(ctx context.Context, e *T) error
	Delete(ctx context.Context, ownerID string, id int64) error
	List(ctx context.Context, ownerID string, filters ...Filter) ([]*T, error)
}

type LeadRepositoryInterface = Repository[Lead]
type DealRepositoryInterface = Repository[Deal]
type ConnectionRepositoryInterface = Repository[Connection]
type TaskRepositoryInterface = Repository[Task]

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
