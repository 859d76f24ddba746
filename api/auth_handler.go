package api

import (
	"net/http"
	"strings"

	"github.com/rpupo63/ailabs-portal-backend/auth"
	"github.com/rpupo63/ailabs-portal-backend/database"
	"github.com/rpupo63/ailabs-portal-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authHandler struct {
	logger       zerolog.Logger
	database     database.Database
	pages        *pages
	sessions     auth.Manager
	middleware   authMiddleware
	secureCookie bool
}

func newAuthHandler(database database.Database, pages *pages, sessions auth.Manager, middleware authMiddleware, secureCookie bool) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		logger:       logger,
		database:     database,
		pages:        pages,
		sessions:     sessions,
		middleware:   middleware,
		secureCookie: secureCookie,
	}
}

func (h authHandler) loginPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := h.middleware.identify(r); err == nil {
			http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
			return
		}
		var next string
		if target := loginRedirect(r.URL.Query().Get("next")); target != "/admin/dashboard" {
			next = target
		}
		h.pages.render(w, r, http.StatusOK, "admin_login.html", "Sign in", next)
	}
}

func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := parseAdminForm(r); err != nil {
			h.pages.adminFailure(w, r, "/admin/login", err)
			return
		}

		db := h.database.WithContext(r.Context())
		token, err := h.sessions.Login(db.UserRepo(), db.SessionRepo(),
			r.FormValue("username"), r.FormValue("password"), clientIP(r), r.UserAgent())
		if errs.IsInvalidCredentialsError(err) {
			h.logger.Warn().Str("username", r.FormValue("username")).Str("ip", clientIP(r)).Msg("Failed admin login")
			redirectWithFlash(w, r, "/admin/login", "danger", "Invalid username or password")
			return
		}
		if err != nil {
			h.pages.serverError(w, r, true, err)
			return
		}

		setSessionCookie(w, token, h.sessions.TTL(), h.secureCookie)
		http.Redirect(w, r, loginRedirect(r.URL.Query().Get("next")), http.StatusSeeOther)
	}
}

func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions := h.database.WithContext(r.Context()).SessionRepo()
		if err := h.sessions.Logout(sessions, sessionToken(r)); err != nil {
			h.logger.Error().Err(err).Msg("Failed to revoke session")
		}
		clearSessionCookie(w)
		redirectWithFlash(w, r, "/admin/login", "info", "You have been logged out.")
	}
}

// loginRedirect only follows next when it points back into the admin area.
func loginRedirect(next string) string {
	if strings.HasPrefix(next, "/admin/") && !strings.HasPrefix(next, "//") && !strings.Contains(next, "\\") {
		return next
	}
	return "/admin/dashboard"
}
