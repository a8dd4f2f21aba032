package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/astra-console/internal/gate"
	"github.com/hongminglow/astra-console/internal/http/respond"
	"github.com/hongminglow/astra-console/internal/models"
	"github.com/hongminglow/astra-console/internal/models/dto"
	"github.com/hongminglow/astra-console/internal/profiles"
	"github.com/hongminglow/astra-console/internal/readmodel"
)

// APIHandler exposes the read side of the console as JSON.
type APIHandler struct {
	profiles *readmodel.Profiles
}

// NewAPIHandler constructs the handler.
func NewAPIHandler(profiles *readmodel.Profiles) *APIHandler {
	return &APIHandler{profiles: profiles}
}

// Register attaches the JSON routes; the gate answers 401/403 instead of redirecting.
func (h *APIHandler) Register(r chi.Router, g *gate.Gate) {
	r.Route("/api", func(api chi.Router) {
		api.With(g.RequireSessionAPI).Get("/me", h.handleMe)
		api.With(g.RequireAdminAPI).Get("/admin/profiles", h.handleProfiles)
	})
}

func (h *APIHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	p, _ := gate.FromContext(r.Context())
	result := h.profiles.Own(r.Context(), p.UserID)
	switch result.Status {
	case readmodel.Loaded:
		respond.JSON(w, http.StatusOK, "ok", map[string]any{"user": p, "profile": result.Data})
	case readmodel.Empty:
		respond.JSON(w, http.StatusOK, "profile not found", map[string]any{"user": p, "profile": nil})
	default:
		respond.Error(w, http.StatusBadGateway, "failed to load profile")
	}
}

func (h *APIHandler) handleProfiles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	result := h.profiles.All(r.Context())
	if result.Failed() {
		respond.Error(w, http.StatusBadGateway, "failed to load profiles")
		return
	}
	filtered := profiles.Filter(result.Data, query)
	if filtered == nil {
		filtered = []models.Profile{}
	}
	respond.JSON(w, http.StatusOK, "ok", dto.ProfileList{
		Query:    query,
		Shown:    len(filtered),
		Profiles: filtered,
	})
}
