package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hongminglow/astra-console/internal/auth"
	"github.com/hongminglow/astra-console/internal/gate"
	"github.com/hongminglow/astra-console/internal/http/respond"
	"github.com/hongminglow/astra-console/internal/models"
	"github.com/hongminglow/astra-console/internal/models/dto"
)

// Authenticator signs users in and out.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, auth.Session, error)
	Logout(ctx context.Context, token string) error
}

// AuthHandler owns the login, logout and landing routes.
type AuthHandler struct {
	auth         Authenticator
	gate         *gate.Gate
	views        respond.Renderer
	cookieSecure bool
	logger       *zap.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authenticator Authenticator, g *gate.Gate, views respond.Renderer, cookieSecure bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: authenticator, gate: g, views: views, cookieSecure: cookieSecure, logger: logger}
}

// Register attaches the auth routes. loginLimit guards credential submissions.
func (h *AuthHandler) Register(r chi.Router, loginLimit func(http.Handler) http.Handler) {
	r.Get("/", h.handleRoot)
	r.Get(gate.LoginPath, h.handleLoginForm)
	r.With(loginLimit).Post(gate.LoginPath, h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

func (h *AuthHandler) handleRoot(w http.ResponseWriter, r *http.Request) {
	p, err := h.gate.Session(r)
	if err != nil {
		http.Redirect(w, r, gate.LoginPath, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, h.gate.Landing(r.Context(), p), http.StatusSeeOther)
}

func (h *AuthHandler) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	respond.HTML(w, http.StatusOK, h.views, "login", dto.LoginView{})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respond.HTML(w, http.StatusBadRequest, h.views, "login", dto.LoginView{Error: "Richiesta non valida."})
		return
	}
	req := dto.LoginRequest{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}

	token, session, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		view := dto.LoginView{Email: req.Email, Error: "Credenziali di accesso non valide."}
		status := http.StatusUnauthorized
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			h.logger.Error("login failed", zap.String("email", req.Email), zap.Error(err))
			view.Error = "Accesso non riuscito. Riprova più tardi."
			status = http.StatusServiceUnavailable
		}
		respond.HTML(w, status, h.views, "login", view)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     gate.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	h.logger.Info("user signed in", zap.String("user_id", session.UserID))

	p := models.Principal{UserID: session.UserID, Email: session.Email, SessionID: session.ID}
	http.Redirect(w, r, h.gate.Landing(r.Context(), p), http.StatusSeeOther)
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := gate.Token(r); token != "" {
		if err := h.auth.Logout(r.Context(), token); err != nil {
			h.logger.Error("logout failed", zap.Error(err))
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     gate.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, gate.LoginPath, http.StatusSeeOther)
}
