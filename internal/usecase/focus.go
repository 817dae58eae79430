package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// FocusLimit is the number of tasks one owner may focus on per calendar day.
const FocusLimit = 3

// FocusScheduler enforces the daily focus quota and lapses focus flags set
// on earlier days. Every focus-mutating call holds the owner's lock, so the
// quota check and the write cannot interleave with another caller.
type FocusScheduler struct {
	Tasks    entity.TaskRepositoryInterface
	Locker   FocusLocker
	Clock    Clock
	Location *time.Location
	Logger   *zap.Logger

	// OnRollover, when set, receives the number of tasks each rollover
	// unmarked, whichever operation triggered it.
	OnRollover func(n int)
}

func NewFocusScheduler(tasks entity.TaskRepositoryInterface, locker FocusLocker, clock Clock, loc *time.Location, logger *zap.Logger) *FocusScheduler {
	if clock == nil {
		clock = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FocusScheduler{
		Tasks:    tasks,
		Locker:   locker,
		Clock:    clock,
		Location: loc,
		Logger:   logger,
	}
}

// Today is the caller's local calendar day.
func (s *FocusScheduler) Today() entity.Date {
	return entity.DateOf(s.Clock().In(s.Location))
}

// MarkFocus flags the task for today. Re-marking a task already focused
// today is a no-op and never hits the quota.
func (s *FocusScheduler) MarkFocus(ctx context.Context, ownerID string, taskID int64) (*entity.Task, error) {
	var task *entity.Task
	err := s.guard(ctx, ownerID, func(today entity.Date) error {
		t, err := s.Tasks.FindByID(ctx, ownerID, taskID)
		if err != nil {
			return lookupErr(entity.KindTask, taskID, err)
		}
		if t.FocusedOn(today) {
			task = t
			return nil
		}
		if err := s.admit(ctx, ownerID, t.ID, today); err != nil {
			return err
		}
		t.SetFocus(today)
		if err := s.Tasks.Update(ctx, t); err != nil {
			return writeErr(entity.KindTask, taskID, "mark focus", err)
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// UnmarkFocus clears the flag and the date unconditionally.
func (s *FocusScheduler) UnmarkFocus(ctx context.Context, ownerID string, taskID int64) (*entity.Task, error) {
	var task *entity.Task
	err := s.guard(ctx, ownerID, func(entity.Date) error {
		t, err := s.Tasks.FindByID(ctx, ownerID, taskID)
		if err != nil {
			return lookupErr(entity.KindTask, taskID, err)
		}
		t.ClearFocus()
		if err := s.Tasks.Update(ctx, t); err != nil {
			return writeErr(entity.KindTask, taskID, "unmark focus", err)
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ListFocusToday rolls stale focus over and returns today's unfinished focus
// tasks, P1 first.
func (s *FocusScheduler) ListFocusToday(ctx context.Context, ownerID string) ([]*entity.Task, error) {
	var out []*entity.Task
	err := s.guard(ctx, ownerID, func(today entity.Date) error {
		if _, err := s.rollover(ctx, ownerID, today); err != nil {
			return err
		}
		focused, err := s.Tasks.List(ctx, ownerID, entity.ByFocusFlag(true))
		if err != nil {
			return storeErr("list focus tasks", err)
		}
		out = make([]*entity.Task, 0, len(focused))
		for _, t := range focused {
			if t.Status != entity.TaskDone && t.FocusedOn(today) {
				out = append(out, t)
			}
		}
		sort.SliceStable(out, func(i, j int) bool {
			if ri, rj := out[i].Priority.Rank(), out[j].Priority.Rank(); ri != rj {
				return ri < rj
			}
			return out[i].ID < out[j].ID
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RolloverStaleFocus unmarks every focus task whose focus date is not today
// and returns how many were unmarked. A second call on the same day
// unmarks nothing.
func (s *FocusScheduler) RolloverStaleFocus(ctx context.Context, ownerID string) (int, error) {
	var n int
	err := s.guard(ctx, ownerID, func(today entity.Date) error {
		var err error
		n, err = s.rollover(ctx, ownerID, today)
		return err
	})
	return n, err
}

// CountFocusToday counts the tasks ListFocusToday returns. Done tasks are
// not included, although they still hold a quota slot until rollover.
func (s *FocusScheduler) CountFocusToday(ctx context.Context, ownerID string) (int, error) {
	tasks, err := s.ListFocusToday(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	return len(tasks), nil
}

func (s *FocusScheduler) rollover(ctx context.Context, ownerID string, today entity.Date) (int, error) {
	focused, err := s.Tasks.List(ctx, ownerID, entity.ByFocusFlag(true))
	if err != nil {
		return 0, storeErr("list focus tasks", err)
	}

	tx := NewTransaction(s.Logger)
	for _, t := range focused {
		if t.FocusedOn(today) {
			continue
		}
		task, before := t, t.Clone()
		name := fmt.Sprintf("unmark_task_%d", task.ID)
		tx.AddOperation(name, func(ctx context.Context) error {
			task.ClearFocus()
			return s.Tasks.Update(ctx, task)
		})
		tx.AddCompensation("restore_"+name, func(ctx context.Context) error {
			return s.Tasks.Update(ctx, before)
		})
	}
	if tx.Len() == 0 {
		return 0, nil
	}

	if err := tx.Execute(ctx); err != nil {
		return 0, storeErr("rollover stale focus", err)
	}

	s.Logger.Info("stale focus tasks rolled over",
		zap.String("owner_id", ownerID),
		zap.String("today", today.String()),
		zap.Int("count", tx.Len()),
	)
	if s.OnRollover != nil {
		s.OnRollover(tx.Len())
	}
	return tx.Len(), nil
}

// admit fails when FocusLimit other tasks are already focused today. The
// count includes Done tasks, since they keep their flag until rollover.
func (s *FocusScheduler) admit(ctx context.Context, ownerID string, taskID int64, today entity.Date) error {
	focused, err := s.Tasks.List(ctx, ownerID, entity.ByFocusFlag(true))
	if err != nil {
		return storeErr("count focus tasks", err)
	}
	count := 0
	for _, t := range focused {
		if t.ID != taskID && t.FocusedOn(today) {
			count++
		}
	}
	if count >= FocusLimit {
		s.Logger.Info("focus quota reached",
			zap.String("owner_id", ownerID),
			zap.Int64("task_id", taskID),
			zap.Int("focused", count),
		)
		return &QuotaExceededError{Limit: FocusLimit}
	}
	return nil
}

// guard runs fn under the owner's focus lock with today computed once.
func (s *FocusScheduler) guard(ctx context.Context, ownerID string, fn func(today entity.Date) error) error {
	if s.Locker != nil {
		unlock, err := s.Locker.Lock(ctx, ownerID)
		if err != nil {
			return storeErr("acquire focus lock", err)
		}
		defer unlock()
	}
	return fn(s.Today())
}
