package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rpupo63/ailabs-portal-backend/auth"
	"github.com/rpupo63/ailabs-portal-backend/database"
	"github.com/rpupo63/ailabs-portal-backend/ingest"
	"github.com/rpupo63/ailabs-portal-backend/services"
	"github.com/rs/zerolog/log"
)

type handlerDeps struct {
	database     database.Database
	pages        *pages
	uploader     *ingest.Uploader
	notifier     *services.Notifier
	sessions     auth.Manager
	middleware   authMiddleware
	baseURL      string
	secureCookie bool
	startupTime  time.Time
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps handlerDeps) *routeHandlers {
	return &routeHandlers{
		authHandler:       newAuthHandler(deps.database, deps.pages, deps.sessions, deps.middleware, deps.secureCookie),
		dashboardHandler:  newDashboardHandler(deps.database, deps.pages),
		submissionHandler: newSubmissionHandler(deps.database, deps.pages, deps.notifier),
		projectHandler:    newProjectHandler(deps.database, deps.pages, deps.uploader),
		eventHandler:      newEventHandler(deps.database, deps.pages, deps.uploader),
		vacancyHandler:    newVacancyHandler(deps.database, deps.pages),
		siteHandler:       newSiteHandler(deps.database, deps.pages, deps.baseURL),
		healthHandler:     newHealthHandler(deps.database, deps.startupTime),
	}
}

type healthHandler struct {
	responder   Responder
	database    database.Database
	startupTime time.Time
}

func newHealthHandler(database database.Database, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()
	return healthHandler{
		responder:   NewResponder(logger),
		database:    database,
		startupTime: startupTime,
	}
}

// HealthResponse reports liveness and database reachability
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Uptime string `json:"uptime" example:"1h2m3s"`
}

// health checks the database answers
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /healthz [get]
func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := time.Since(h.startupTime).Round(time.Second).String()

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := h.database.Ping(ctx); err != nil {
			log.Error().Err(err).Msg("health check failed")
			h.responder.WriteStatusJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Uptime: uptime})
			return
		}
		h.responder.WriteJSON(w, HealthResponse{Status: "ok", Uptime: uptime})
	}
}
