package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type TaskHandler struct {
	Tasks  *usecase.TaskUseCase
	Focus  *usecase.FocusScheduler
	Logger *zap.Logger
}

func NewTaskHandler(tasks *usecase.TaskUseCase, focus *usecase.FocusScheduler, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{Tasks: tasks, Focus: focus, Logger: logger}
}

func (h *TaskHandler) Register(r chi.Router) {
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)

		// static segments win over {id} in chi
		r.Get("/focus", h.ListFocus)
		r.Post("/focus/rollover", h.Rollover)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
			r.Put("/focus", h.MarkFocus)
			r.Delete("/focus", h.UnmarkFocus)
		})
	})
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	status, ok := queryEnum(w, r, "status", entity.TaskStatus.Valid)
	if !ok {
		return
	}

	tasks, err := h.Tasks.List(r.Context(), owner(r), status)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in entity.Task
	if !decodeJSON(w, r, &in) {
		return
	}

	task, err := h.Tasks.Create(r.Context(), owner(r), &in)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	task, err := h.Tasks.Get(r.Context(), owner(r), id)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in entity.Task
	if !decodeJSON(w, r, &in) {
		return
	}

	task, err := h.Tasks.Update(r.Context(), owner(r), id, &in)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.Tasks.Delete(r.Context(), owner(r), id); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) MarkFocus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	task, err := h.Focus.MarkFocus(r.Context(), owner(r), id)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) UnmarkFocus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	task, err := h.Focus.UnmarkFocus(r.Context(), owner(r), id)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) ListFocus(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.Focus.ListFocusToday(r.Context(), owner(r))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Rollover(w http.ResponseWriter, r *http.Request) {
	n, err := h.Focus.RolloverStaleFocus(r.Context(), owner(r))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, usecase.RolloverOutput{RolledOver: n})
}
