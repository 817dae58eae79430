package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// row is satisfied by the entity pointer types.
type row[T any] interface {
	*T
	entity.Record
	entity.Filterable
	Clone() *T
}

// Table is an owner-scoped in-memory table. Rows are copied on the way in
// and out, so callers never share memory with the store.
type Table[T any, PT row[T]] struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]*T
	now    func() time.Time
}

func NewTable[T any, PT row[T]](now func() time.Time) *Table[T, PT] {
	if now == nil {
		now = time.Now
	}
	return &Table[T, PT]{
		nextID: 1,
		rows:   make(map[int64]*T),
		now:    now,
	}
}

func (t *Table[T, PT]) Create(ctx context.Context, e *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	meta := PT(e).Meta()
	if meta.OwnerID == "" {
		return fmt.Errorf("memstore: owner id is required")
	}
	meta.ID = t.nextID
	t.nextID++
	now := t.now().UTC()
	meta.CreatedAt, meta.UpdatedAt = now, now

	t.rows[meta.ID] = PT(e).Clone()
	return nil
}

func (t *Table[T, PT]) FindByID(ctx context.Context, ownerID string, id int64) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	r, ok := t.rows[id]
	if !ok || PT(r).Meta().OwnerID != ownerID {
		return nil, entity.ErrNotFound
	}
	return PT(r).Clone(), nil
}

// Update replaces the row and stamps UpdatedAt; CreatedAt is kept.
func (t *Table[T, PT]) Update(ctx context.Context, e *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	meta := PT(e).Meta()
	current, ok := t.rows[meta.ID]
	if !ok || PT(current).Meta().OwnerID != meta.OwnerID {
		return entity.ErrNotFound
	}
	meta.CreatedAt = PT(current).Meta().CreatedAt
	meta.UpdatedAt = t.now().UTC()

	t.rows[meta.ID] = PT(e).Clone()
	return nil
}

func (t *Table[T, PT]) Delete(ctx context.Context, ownerID string, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	r, ok := t.rows[id]
	if !ok || PT(r).Meta().OwnerID != ownerID {
		return entity.ErrNotFound
	}
	delete(t.rows, id)
	return nil
}

// List returns the owner's rows matching every filter, newest first.
func (t *Table[T, PT]) List(ctx context.Context, ownerID string, filters ...entity.Filter) ([]*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*T, 0)
	for _, r := range t.rows {
		if PT(r).Meta().OwnerID != ownerID {
			continue
		}
		ok, err := matches(PT(r), filters)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, PT(r).Clone())
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := PT(out[i]).Meta(), PT(out[j]).Meta()
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return out, nil
}

// detach nulls a reference column on every owner row pointing at id, the
// way ON DELETE SET NULL does in Postgres.
func (t *Table[T, PT]) detach(ownerID string, id int64, ref func(*T) **int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, r := range t.rows {
		if PT(r).Meta().OwnerID != ownerID {
			continue
		}
		if p := ref(r); *p != nil && **p == id {
			*p = nil
		}
	}
}

// Len is the total row count across owners.
func (t *Table[T, PT]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

func matches(r entity.Filterable, filters []entity.Filter) (bool, error) {
	for _, f := range filters {
		v, ok := r.FieldValue(f.Field)
		if !ok {
			return false, fmt.Errorf("memstore: unknown filter field %q", f.Field)
		}
		if v != f.Value {
			return false, nil
		}
	}
	return true, nil
}
