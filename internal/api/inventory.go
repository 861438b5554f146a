package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"homemeds/m/domain"
	"homemeds/m/internal/inventory"
	"homemeds/m/internal/query"
)

func (h *Handler) listInventory(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Query.LoadJoinedView(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	filter := query.Filter{Search: r.URL.Query().Get("search"), Owner: r.URL.Query().Get("owner")}
	respondJSON(w, http.StatusOK, filter.Apply(rows))
}

func (h *Handler) addLot(w http.ResponseWriter, r *http.Request) {
	var req inventory.NewLot
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	lot, err := h.Inventory.Add(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, lot)
}

func (h *Handler) getLot(w http.ResponseWriter, r *http.Request) {
	id, ok := lotID(w, r)
	if !ok {
		return
	}
	lot, err := h.Inventory.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, lot)
}

func (h *Handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := lotID(w, r)
	if !ok {
		return
	}
	var payload struct {
		QuantityVal *float64 `json:"quantity_val"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.QuantityVal == nil {
		respondServiceError(w, domain.Validationf("quantity_val is required"))
		return
	}
	if err := h.Inventory.SetQuantity(r.Context(), id, *payload.QuantityVal); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"id": id, "quantity_val": *payload.QuantityVal})
}

type consumeResponse struct {
	ID        int64   `json:"id"`
	Remaining float64 `json:"remaining"`
	Depleted  bool    `json:"depleted"`
}

func (h *Handler) consume(w http.ResponseWriter, r *http.Request) {
	id, ok := lotID(w, r)
	if !ok {
		return
	}
	var payload struct {
		Amount float64 `json:"amount"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	remaining, err := h.Inventory.Decrement(r.Context(), id, payload.Amount)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, consumeResponse{ID: id, Remaining: remaining, Depleted: remaining == 0})
}

func (h *Handler) deleteLot(w http.ResponseWriter, r *http.Request) {
	id, ok := lotID(w, r)
	if !ok {
		return
	}
	if err := h.Inventory.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func lotID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid lot id")
		return 0, false
	}
	return id, true
}
