package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"homemeds/m/domain"
	"homemeds/m/internal/advisor"
	"homemeds/m/internal/auth"
	"homemeds/m/internal/catalog"
	"homemeds/m/internal/inventory"
	"homemeds/m/internal/members"
	"homemeds/m/internal/query"
	"homemeds/m/internal/seed"
)

type ctxKey string

const (
	ctxUserID ctxKey = "userID"
	ctxRole   ctxKey = "role"
)

// Deps are the services the HTTP API is built on.
type Deps struct {
	Catalog     *catalog.Store
	Inventory   *inventory.Store
	Query       *query.Engine
	Seed        *seed.Syncer
	Builder     *advisor.Builder
	Advisor     *advisor.Advisor
	Members     *members.Store
	Users       *auth.Store
	Tokens      *auth.Tokens
	Metrics     http.Handler
	CORSOrigins []string
}

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	Deps
}

// New constructs a Handler.
func New(deps Deps) *Handler {
	if len(deps.CORSOrigins) == 0 {
		deps.CORSOrigins = []string{"*"}
	}
	return &Handler{Deps: deps}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Group(func(protected chi.Router) {
			protected.Use(h.authMiddleware)
			protected.Post("/reset-password", h.resetPassword)
		})
	})

	r.Group(func(pr chi.Router) {
		pr.Use(h.authMiddleware)

		pr.Route("/catalog", func(r chi.Router) {
			r.Get("/", h.listCatalog)
			r.Get("/lookup", h.lookupCatalog)
			r.Get("/{barcode}", h.getCatalogEntry)
			r.Put("/{barcode}", h.upsertCatalogEntry)
			r.Delete("/{barcode}", h.deleteCatalogEntry)
		})

		pr.Route("/inventory", func(r chi.Router) {
			r.Get("/", h.listInventory)
			r.Post("/", h.addLot)
			r.Get("/{id}", h.getLot)
			r.Put("/{id}/quantity", h.setQuantity)
			r.Post("/{id}/consume", h.consume)
			r.Delete("/{id}", h.deleteLot)
		})

		pr.Get("/dashboard", h.dashboard)

		pr.Route("/advisor", func(r chi.Router) {
			r.Get("/context", h.advisorContext)
			r.Post("/ask", h.ask)
		})

		pr.Post("/seed/export", h.exportSeed)

		pr.Route("/members", func(r chi.Router) {
			r.Get("/", h.listMembers)
			r.Post("/", h.addMember)
			r.Delete("/{name}", h.deleteMember)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := h.Tokens.Parse(strings.TrimSpace(header[len("Bearer "):]))
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID)
		ctx = context.WithValue(ctx, ctxRole, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// callerFromRequest derives the caller capabilities from the verified token.
func callerFromRequest(r *http.Request) domain.Caller {
	role, _ := r.Context().Value(ctxRole).(string)
	return domain.CallerFor(role)
}

// Helpers

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps the domain error taxonomy onto HTTP statuses.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrReferentialConflict):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrPermissionDenied):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, domain.ErrExternalService):
		respondError(w, http.StatusBadGateway, err.Error())
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
