package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hongminglow/astra-console/internal/editor"
	"github.com/hongminglow/astra-console/internal/gate"
	"github.com/hongminglow/astra-console/internal/http/respond"
	"github.com/hongminglow/astra-console/internal/models"
	"github.com/hongminglow/astra-console/internal/profiles"
	"github.com/hongminglow/astra-console/internal/readmodel"
	"github.com/hongminglow/astra-console/internal/storage"
)

type adminPage struct {
	Principal models.Principal
	Query     string
	Rows      readmodel.Result[[]models.Profile]
	Filtered  []models.Profile
	Edit      editor.EditSession
	Max       int
}

type clientPage struct {
	Principal models.Principal
	Profile   readmodel.Result[models.Profile]
}

// AdminHandler serves the client list, the client page and inline edits.
type AdminHandler struct {
	profiles *readmodel.Profiles
	edits    *editor.Manager
	views    respond.Renderer
	logger   *zap.Logger
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(profiles *readmodel.Profiles, edits *editor.Manager, views respond.Renderer, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{profiles: profiles, edits: edits, views: views, logger: logger}
}

// Register attaches the admin routes behind the admin gate.
func (h *AdminHandler) Register(r chi.Router, g *gate.Gate) {
	r.Route(gate.AdminPath, func(ar chi.Router) {
		ar.Use(g.RequireAdmin)
		ar.Get("/", h.handleList)
		ar.Get("/clients/{id}", h.handleClient)
		ar.Post("/profiles/{id}/edit", h.handleEdit)
		ar.Post("/profiles/{id}/save", h.handleSave)
		ar.Post("/profiles/{id}/cancel", h.handleCancel)
	})
}

func (h *AdminHandler) handleList(w http.ResponseWriter, r *http.Request) {
	p, _ := gate.FromContext(r.Context())
	session, err := h.edits.Current(r.Context(), p.SessionID)
	if err != nil {
		h.logger.Warn("load edit session", zap.Error(err))
		session = editor.EditSession{}
	}
	h.renderList(w, r, http.StatusOK, r.URL.Query().Get("q"), session)
}

func (h *AdminHandler) handleClient(w http.ResponseWriter, r *http.Request) {
	p, _ := gate.FromContext(r.Context())
	respond.HTML(w, http.StatusOK, h.views, "client", clientPage{
		Principal: p,
		Profile:   h.profiles.ByID(r.Context(), chi.URLParam(r, "id")),
	})
}

func (h *AdminHandler) handleEdit(w http.ResponseWriter, r *http.Request) {
	p, _ := gate.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	row := h.profiles.ByID(r.Context(), id)
	if !row.Loaded() {
		h.logger.Info("edit requested for unavailable row", zap.String("row", id), zap.Stringer("status", row.Status))
		h.redirectToList(w, r)
		return
	}
	if _, err := h.edits.Begin(r.Context(), p.SessionID, row.Data); err != nil {
		h.logger.Error("begin edit", zap.String("row", id), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.redirectToList(w, r)
}

func (h *AdminHandler) handleSave(w http.ResponseWriter, r *http.Request) {
	p, _ := gate.FromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")
	draft := draftFromForm(r)
	session, err := h.edits.Save(r.Context(), p.SessionID, id, draft)
	var (
		validationErr *editor.ValidationError
		commitErr     *editor.CommitError
	)
	switch {
	case err == nil:
		// the list reloads every row from the store
		h.redirectToList(w, r)
	case errors.Is(err, editor.ErrNotEditing):
		h.restoreExpired(w, r, p.SessionID, id, draft)
	case errors.As(err, &validationErr):
		h.renderList(w, r, http.StatusUnprocessableEntity, r.PostFormValue("q"), session)
	case errors.As(err, &commitErr):
		h.renderList(w, r, http.StatusBadGateway, r.PostFormValue("q"), session)
	default:
		h.logger.Error("save edit", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// restoreExpired answers a save whose edit session is gone. The submitted
// values come back in edit mode with a notice; nothing is committed.
func (h *AdminHandler) restoreExpired(w http.ResponseWriter, r *http.Request, key, id string, draft editor.Draft) {
	row := h.profiles.ByID(r.Context(), id)
	if !row.Loaded() {
		h.logger.Info("save for unavailable row", zap.String("row", id), zap.Stringer("status", row.Status))
		h.redirectToList(w, r)
		return
	}
	session, err := h.edits.Restore(r.Context(), key, row.Data, draft)
	if err != nil {
		h.logger.Warn("restore edit session", zap.String("row", id), zap.Error(err))
	}
	h.renderList(w, r, http.StatusConflict, r.PostFormValue("q"), session)
}

func (h *AdminHandler) handleCancel(w http.ResponseWriter, r *http.Request) {
	p, _ := gate.FromContext(r.Context())
	if err := h.edits.Cancel(r.Context(), p.SessionID, chi.URLParam(r, "id")); err != nil {
		h.logger.Error("cancel edit", zap.Error(err))
	}
	h.redirectToList(w, r)
}

func (h *AdminHandler) renderList(w http.ResponseWriter, r *http.Request, status int, query string, session editor.EditSession) {
	p, _ := gate.FromContext(r.Context())
	rows := h.profiles.All(r.Context())
	respond.HTML(w, status, h.views, "admin", adminPage{
		Principal: p,
		Query:     query,
		Rows:      rows,
		Filtered:  profiles.Filter(rows.Data, query),
		Edit:      session,
		Max:       storage.MaxProfileRows,
	})
}

func (h *AdminHandler) redirectToList(w http.ResponseWriter, r *http.Request) {
	target := gate.AdminPath
	if q := r.FormValue("q"); q != "" {
		target += "?" + url.Values{"q": {q}}.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func draftFromForm(r *http.Request) editor.Draft {
	return editor.Draft{
		FirstName:     r.PostFormValue("first_name"),
		LastName:      r.PostFormValue("last_name"),
		PUTotal:       r.PostFormValue("pu_total"),
		PUConverted:   r.PostFormValue("pu_converted"),
		AutoConvert:   editor.ParseBool(r.PostFormValue("auto_convert")),
		CarryoverUSD:  r.PostFormValue("carryover_usd"),
		WalletDefault: r.PostFormValue("wallet_default"),
		BybitUID:      r.PostFormValue("bybit_uid"),
		BTCAddress:    r.PostFormValue("btc_address"),
	}
}
