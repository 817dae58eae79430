package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type LeadHandler struct {
	Leads    *usecase.LeadUseCase
	Deals    *usecase.DealUseCase
	Pipeline *usecase.PipelineEngine
	Logger   *zap.Logger
}

func NewLeadHandler(leads *usecase.LeadUseCase, deals *usecase.DealUseCase, pipeline *usecase.PipelineEngine, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{Leads: leads, Deals: deals, Pipeline: pipeline, Logger: logger}
}

func (h *LeadHandler) Register(r chi.Router) {
	r.Route("/leads", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
			r.Patch("/status", h.SetStatus)
			r.Post("/convert", h.Convert)
			r.Post("/duplicate", h.Duplicate)
			r.Get("/deals", h.ListDeals)
		})
	})
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	status, ok := queryEnum(w, r, "status", entity.LeadStatus.Valid)
	if !ok {
		return
	}

	leads, err := h.Leads.List(r.Context(), owner(r), status)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in entity.Lead
	if !decodeJSON(w, r, &in) {
		return
	}

	lead, err := h.Leads.Create(r.Context(), owner(r), &in)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	lead, err := h.Leads.Get(r.Context(), owner(r), id)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in entity.Lead
	if !decodeJSON(w, r, &in) {
		return
	}

	lead, err := h.Leads.Update(r.Context(), owner(r), id, &in)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.Leads.Delete(r.Context(), owner(r), id); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LeadHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in usecase.SetLeadStatusInput
	if !decodeJSON(w, r, &in) {
		return
	}

	lead, err := h.Pipeline.SetLeadStatus(r.Context(), owner(r), id, in.Status)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Convert(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	deal, err := h.Pipeline.ConvertLeadToDeal(r.Context(), owner(r), id)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	middleware.RecordConversion(string(entity.KindLead))
	writeJSON(w, http.StatusCreated, deal)
}

func (h *LeadHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	lead, err := h.Pipeline.DuplicateLead(r.Context(), owner(r), id)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) ListDeals(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	deals, err := h.Deals.ListForLead(r.Context(), owner(r), id)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, deals)
}
