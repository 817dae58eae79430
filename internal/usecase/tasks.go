package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// TaskUseCase is the generic task CRUD. Any change to the focus flag goes
// through the scheduler's lock and quota.
type TaskUseCase struct {
	Tasks       entity.TaskRepositoryInterface
	Connections entity.ConnectionRepositoryInterface
	Focus       *FocusScheduler
	Logger      *zap.Logger
}

func NewTaskUseCase(tasks entity.TaskRepositoryInterface, conns entity.ConnectionRepositoryInterface, focus *FocusScheduler, logger *zap.Logger) *TaskUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskUseCase{Tasks: tasks, Connections: conns, Focus: focus, Logger: logger}
}

// Create stores a task. A task created with the focus flag is admitted
// against today's quota and stamped with today's date.
func (uc *TaskUseCase) Create(ctx context.Context, ownerID string, task *entity.Task) (*entity.Task, error) {
	task.Base = entity.Base{OwnerID: ownerID}
	task.Normalize()
	if err := validationErr(ValidateTask(task)); err != nil {
		return nil, err
	}
	if err := uc.checkConnection(ctx, ownerID, task.ConnectionID); err != nil {
		return nil, err
	}

	if !task.IsFocusTask {
		task.ClearFocus()
		if err := uc.Tasks.Create(ctx, task); err != nil {
			return nil, writeErr(entity.KindConnection, derefID(task.ConnectionID), "create task", err)
		}
		return task, nil
	}

	err := uc.Focus.guard(ctx, ownerID, func(today entity.Date) error {
		if err := uc.Focus.admit(ctx, ownerID, 0, today); err != nil {
			return err
		}
		task.SetFocus(today)
		if err := uc.Tasks.Create(ctx, task); err != nil {
			return writeErr(entity.KindConnection, derefID(task.ConnectionID), "create task", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.Logger.Info("focus task created",
		zap.String("owner_id", ownerID),
		zap.Int64("task_id", task.ID),
	)
	return task, nil
}

func (uc *TaskUseCase) Get(ctx context.Context, ownerID string, id int64) (*entity.Task, error) {
	task, err := uc.Tasks.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, lookupErr(entity.KindTask, id, err)
	}
	return task, nil
}

// Update replaces the mutable fields. A request that keeps the focus flag
// on a task focused today leaves its focus date alone; turning the flag on
// is a markFocus and turning it off an unmarkFocus. An empty status or
// priority keeps the current one.
func (uc *TaskUseCase) Update(ctx context.Context, ownerID string, id int64, in *entity.Task) (*entity.Task, error) {
	if err := validationErr(ValidateTask(in)); err != nil {
		return nil, err
	}
	if err := uc.checkConnection(ctx, ownerID, in.ConnectionID); err != nil {
		return nil, err
	}

	wantFocus := in.IsFocusTask
	err := uc.Focus.guard(ctx, ownerID, func(today entity.Date) error {
		current, err := uc.Tasks.FindByID(ctx, ownerID, id)
		if err != nil {
			return lookupErr(entity.KindTask, id, err)
		}

		in.Base = current.Base
		if in.Status == "" {
			in.Status = current.Status
		}
		if in.Priority == "" {
			in.Priority = current.Priority
		}
		in.Normalize()
		in.IsFocusTask, in.FocusDate = current.IsFocusTask, current.FocusDate
		switch {
		case !wantFocus:
			in.ClearFocus()
		case !current.FocusedOn(today):
			if err := uc.Focus.admit(ctx, ownerID, id, today); err != nil {
				return err
			}
			in.SetFocus(today)
		}

		if err := uc.Tasks.Update(ctx, in); err != nil {
			return writeErr(entity.KindTask, id, "update task", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return in, nil
}

func (uc *TaskUseCase) Delete(ctx context.Context, ownerID string, id int64) error {
	if err := uc.Tasks.Delete(ctx, ownerID, id); err != nil {
		return writeErr(entity.KindTask, id, "delete task", err)
	}
	uc.Logger.Info("task deleted", zap.String("owner_id", ownerID), zap.Int64("task_id", id))
	return nil
}

func (uc *TaskUseCase) List(ctx context.Context, ownerID string, status *entity.TaskStatus) ([]*entity.Task, error) {
	var filters []entity.Filter
	if status != nil {
		if !status.Valid() {
			return nil, validationErr([]ValidationError{{"status", "must be Todo, In Progress or Done"}})
		}
		filters = append(filters, entity.ByTaskStatus(*status))
	}
	tasks, err := uc.Tasks.List(ctx, ownerID, filters...)
	if err != nil {
		return nil, storeErr("list tasks", err)
	}
	return tasks, nil
}

func (uc *TaskUseCase) checkConnection(ctx context.Context, ownerID string, connID *int64) error {
	if connID == nil {
		return nil
	}
	if _, err := uc.Connections.FindByID(ctx, ownerID, *connID); err != nil {
		return lookupErr(entity.KindConnection, *connID, err)
	}
	return nil
}
