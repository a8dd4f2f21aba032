package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/astra-console/internal/gate"
	"github.com/hongminglow/astra-console/internal/http/respond"
	"github.com/hongminglow/astra-console/internal/models"
	"github.com/hongminglow/astra-console/internal/readmodel"
)

type dashboardPage struct {
	Principal models.Principal
	Profile   readmodel.Result[models.ProfileSummary]
}

// DashboardHandler serves a client's own summary.
type DashboardHandler struct {
	profiles *readmodel.Profiles
	views    respond.Renderer
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(profiles *readmodel.Profiles, views respond.Renderer) *DashboardHandler {
	return &DashboardHandler{profiles: profiles, views: views}
}

// Register attaches the dashboard behind the session gate.
func (h *DashboardHandler) Register(r chi.Router, g *gate.Gate) {
	r.With(g.RequireSession).Get(gate.DashboardPath, h.handleDashboard)
}

func (h *DashboardHandler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	p, _ := gate.FromContext(r.Context())
	respond.HTML(w, http.StatusOK, h.views, "dashboard", dashboardPage{
		Principal: p,
		Profile:   h.profiles.Own(r.Context(), p.UserID),
	})
}
