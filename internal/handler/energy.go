package handler

import (
	"net/http"

	"github.com/energydash/energydash-go/internal/service"
)

// EnergyHandler serves the chart endpoints.
type EnergyHandler struct {
	service *service.EnergyService
}

// NewEnergyHandler creates a new EnergyHandler.
func NewEnergyHandler(svc *service.EnergyService) *EnergyHandler {
	return &EnergyHandler{service: svc}
}

// HandleTrends handles GET /energy/trends?energy_type=.
func (h *EnergyHandler) HandleTrends(w http.ResponseWriter, r *http.Request) {
	points, err := h.service.Trends(r.Context(), r.URL.Query().Get("energy_type"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

// HandleComposition handles GET /energy/composition?energy_type=.
func (h *EnergyHandler) HandleComposition(w http.ResponseWriter, r *http.Request) {
	points, err := h.service.Composition(r.Context(), r.URL.Query().Get("energy_type"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

// HandleSummary handles GET /energy/summary?energy_type=.
func (h *EnergyHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Summary(r.Context(), r.URL.Query().Get("energy_type"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandleComposed handles GET /energy/composed?energy_type=&highlight=.
func (h *EnergyHandler) HandleComposed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	points, err := h.service.Composed(r.Context(), q.Get("energy_type"), q.Get("highlight"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

// HandleTracks handles GET /energy/tracks.
func (h *EnergyHandler) HandleTracks(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Tracks(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandleSources handles GET /energy/sources. It returns the bare names.
func (h *EnergyHandler) HandleSources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.service.Sources(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.Name
	}
	writeJSON(w, http.StatusOK, names)
}

// HandleTypes handles GET /energy/types. It returns the bare names.
func (h *EnergyHandler) HandleTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.service.Types(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.Name
	}
	writeJSON(w, http.StatusOK, names)
}
