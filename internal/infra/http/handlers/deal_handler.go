package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type DealHandler struct {
	Deals    *usecase.DealUseCase
	Pipeline *usecase.PipelineEngine
	Logger   *zap.Logger
}

func NewDealHandler(deals *usecase.DealUseCase, pipeline *usecase.PipelineEngine, logger *zap.Logger) *DealHandler {
	return &DealHandler{Deals: deals, Pipeline: pipeline, Logger: logger}
}

func (h *DealHandler) Register(r chi.Router) {
	r.Route("/deals", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
			r.Patch("/stage", h.SetStage)
			r.Post("/convert", h.Convert)
			r.Post("/duplicate", h.Duplicate)
		})
	})
}

func (h *DealHandler) List(w http.ResponseWriter, r *http.Request) {
	stage, ok := queryEnum(w, r, "stage", entity.DealStage.Valid)
	if !ok {
		return
	}

	deals, err := h.Deals.List(r.Context(), owner(r), stage)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, deals)
}

func (h *DealHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in entity.Deal
	if !decodeJSON(w, r, &in) {
		return
	}

	deal, err := h.Deals.Create(r.Context(), owner(r), &in)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, deal)
}

func (h *DealHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	deal, err := h.Deals.Get(r.Context(), owner(r), id)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, deal)
}

func (h *DealHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in entity.Deal
	if !decodeJSON(w, r, &in) {
		return
	}

	deal, err := h.Deals.Update(r.Context(), owner(r), id, &in)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, deal)
}

func (h *DealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.Deals.Delete(r.Context(), owner(r), id); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DealHandler) SetStage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in usecase.SetDealStageInput
	if !decodeJSON(w, r, &in) {
		return
	}

	deal, err := h.Pipeline.SetDealStage(r.Context(), owner(r), id, in.Stage)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	middleware.RecordStageChange(string(deal.Stage))
	writeJSON(w, http.StatusOK, deal)
}

func (h *DealHandler) Convert(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	conn, err := h.Pipeline.ConvertDealToConnection(r.Context(), owner(r), id)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	middleware.RecordConversion(string(entity.KindDeal))
	writeJSON(w, http.StatusCreated, conn)
}

func (h *DealHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	deal, err := h.Pipeline.DuplicateDeal(r.Context(), owner(r), id)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, deal)
}
