// Package gate decides, before a protected page renders, whether the caller
// has a session and, for admin pages, whether they hold the admin role.
package gate

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hongminglow/astra-console/internal/auth"
	"github.com/hongminglow/astra-console/internal/http/respond"
	"github.com/hongminglow/astra-console/internal/models"
	"github.com/hongminglow/astra-console/internal/storage"
)

const (
	// CookieName carries the session token in browsers.
	CookieName = "astra_session"

	LoginPath     = "/login"
	DashboardPath = "/dashboard"
	AdminPath     = "/admin"
)

// ErrNotAdmin is returned when the role predicate is false.
var ErrNotAdmin = errors.New("caller is not an administrator")

// SessionResolver maps a session token to its principal.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (models.Principal, error)
}

// Gate guards protected routes.
type Gate struct {
	sessions SessionResolver
	roles    storage.RoleChecker
	timeout  time.Duration
	logger   *zap.Logger
}

// New constructs a Gate. Each backend check is bounded by timeout.
func New(sessions SessionResolver, roles storage.RoleChecker, timeout time.Duration, logger *zap.Logger) *Gate {
	return &Gate{sessions: sessions, roles: roles, timeout: timeout, logger: logger}
}

// Session resolves the caller's session. It performs one session lookup.
func (g *Gate) Session(r *http.Request) (models.Principal, error) {
	ctx, cancel := context.WithTimeout(r.Context(), g.timeout)
	defer cancel()
	return g.sessions.Resolve(ctx, Token(r))
}

// Admin evaluates the role predicate for p and returns p with IsAdmin set.
func (g *Gate) Admin(ctx context.Context, p models.Principal) (models.Principal, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	isAdmin, err := g.roles.IsAdmin(ctx, p.UserID)
	if err != nil {
		return p, err
	}
	p.IsAdmin = isAdmin
	if !isAdmin {
		return p, ErrNotAdmin
	}
	return p, nil
}

// Landing is the page a signed-in caller starts on.
func (g *Gate) Landing(ctx context.Context, p models.Principal) string {
	if _, err := g.Admin(ctx, p); err != nil {
		if !errors.Is(err, ErrNotAdmin) {
			g.logger.Warn("role check failed", zap.String("user_id", p.UserID), zap.Error(err))
		}
		return DashboardPath
	}
	return AdminPath
}

// RequireSession redirects callers without a session to the login page.
func (g *Gate) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := g.Session(r)
		if err != nil {
			g.deny(r, "session", err)
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

// RequireAdmin redirects callers without a session to the login page and
// signed-in non-admins to the dashboard.
func (g *Gate) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := g.Session(r)
		if err != nil {
			g.deny(r, "session", err)
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		p, err = g.Admin(r.Context(), p)
		if err != nil {
			g.deny(r, "admin", err)
			http.Redirect(w, r, DashboardPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

// RequireSessionAPI answers 401 instead of redirecting.
func (g *Gate) RequireSessionAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := g.Session(r)
		if err != nil {
			g.deny(r, "session", err)
			respond.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

// RequireAdminAPI answers 401 or 403 instead of redirecting.
func (g *Gate) RequireAdminAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := g.Session(r)
		if err != nil {
			g.deny(r, "session", err)
			respond.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		p, err = g.Admin(r.Context(), p)
		if err != nil {
			g.deny(r, "admin", err)
			respond.Error(w, http.StatusForbidden, "administrator role required")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

func (g *Gate) deny(r *http.Request, check string, err error) {
	fields := []zap.Field{
		zap.String("check", check),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}
	if errors.Is(err, auth.ErrNoSession) || errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, ErrNotAdmin) {
		g.logger.Debug("gate denied request", fields...)
		return
	}
	// backend failure; still treated as not authorized
	g.logger.Warn("gate check failed", fields...)
}

// Token extracts the session token from the cookie or a bearer header.
func Token(r *http.Request) string {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
