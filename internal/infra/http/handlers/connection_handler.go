package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type ConnectionHandler struct {
	Connections *usecase.ConnectionUseCase
	Pipeline    *usecase.PipelineEngine
	Logger      *zap.Logger
}

func NewConnectionHandler(conns *usecase.ConnectionUseCase, pipeline *usecase.PipelineEngine, logger *zap.Logger) *ConnectionHandler {
	return &ConnectionHandler{Connections: conns, Pipeline: pipeline, Logger: logger}
}

func (h *ConnectionHandler) Register(r chi.Router) {
	r.Route("/connections", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
			r.Post("/duplicate", h.Duplicate)
		})
	})
}

func (h *ConnectionHandler) List(w http.ResponseWriter, r *http.Request) {
	conns, err := h.Connections.List(r.Context(), owner(r))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, conns)
}

func (h *ConnectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in entity.Connection
	if !decodeJSON(w, r, &in) {
		return
	}

	conn, err := h.Connections.Create(r.Context(), owner(r), &in)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, conn)
}

func (h *ConnectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	conn, err := h.Connections.Get(r.Context(), owner(r), id)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, conn)
}

func (h *ConnectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in entity.Connection
	if !decodeJSON(w, r, &in) {
		return
	}

	conn, err := h.Connections.Update(r.Context(), owner(r), id, &in)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, conn)
}

func (h *ConnectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.Connections.Delete(r.Context(), owner(r), id); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ConnectionHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	conn, err := h.Pipeline.DuplicateConnection(r.Context(), owner(r), id)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, conn)
}
