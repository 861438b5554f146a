package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"homemeds/m/domain"
	"homemeds/m/internal/query"
)

type dashboardResponse struct {
	Today   domain.Date             `json:"today"`
	Metrics domain.DashboardMetrics `json:"metrics"`
	Lots    []domain.JoinedRow      `json:"lots"`
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	today := h.Query.Today()
	rows, err := h.Query.LoadJoinedViewAt(r.Context(), today)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dashboardResponse{
		Today:   today,
		Metrics: query.Summarize(rows),
		Lots:    rows,
	})
}

func (h *Handler) advisorContext(w http.ResponseWriter, r *http.Request) {
	text, err := h.Builder.BuildContext(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"context": text})
}

func (h *Handler) ask(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Question string `json:"question"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	answer, err := h.Advisor.Ask(r.Context(), payload.Question)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, answer)
}

func (h *Handler) exportSeed(w http.ResponseWriter, r *http.Request) {
	n, err := h.Seed.Export(r.Context(), callerFromRequest(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"exported": n, "location": h.Seed.Location()})
}

func (h *Handler) listMembers(w http.ResponseWriter, r *http.Request) {
	list, err := h.Members.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *Handler) addMember(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	m, err := h.Members.Add(r.Context(), payload.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, m)
}

func (h *Handler) deleteMember(w http.ResponseWriter, r *http.Request) {
	if err := h.Members.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
