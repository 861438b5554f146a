package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"homemeds/m/domain"
	"homemeds/m/internal/catalog"
)

func (h *Handler) listCatalog(w http.ResponseWriter, r *http.Request) {
	order := catalog.OrderRecent
	if r.URL.Query().Get("order") == string(catalog.OrderName) {
		order = catalog.OrderName
	}
	entries, err := h.Catalog.ListAll(r.Context(), order)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, catalog.Search(entries, r.URL.Query().Get("search")))
}

func (h *Handler) lookupCatalog(w http.ResponseWriter, r *http.Request) {
	entry, err := h.Catalog.Lookup(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

func (h *Handler) getCatalogEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.Catalog.Get(r.Context(), chi.URLParam(r, "barcode"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

func (h *Handler) upsertCatalogEntry(w http.ResponseWriter, r *http.Request) {
	var entry domain.CatalogEntry
	if err := decodeJSON(r, &entry); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	entry.Barcode = chi.URLParam(r, "barcode")
	stored, err := h.Catalog.Upsert(r.Context(), callerFromRequest(r), entry)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stored)
}

func (h *Handler) deleteCatalogEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.Delete(r.Context(), callerFromRequest(r), chi.URLParam(r, "barcode")); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
