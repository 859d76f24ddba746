package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/ailabs-portal-backend/database"
	"github.com/rpupo63/ailabs-portal-backend/models"
	"github.com/rpupo63/ailabs-portal-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const siteRecentLimit = 6

type siteHandler struct {
	logger   zerolog.Logger
	database database.Database
	pages    *pages
	baseURL  string
}

func newSiteHandler(database database.Database, pages *pages, baseURL string) siteHandler {
	logger := log.With().Str("handlerName", "siteHandler").Logger()

	return siteHandler{
		logger:   logger,
		database: database,
		pages:    pages,
		baseURL:  baseURL,
	}
}

type siteIndexView struct {
	Projects  []*models.Project
	Events    []*models.Event
	Vacancies []*models.Vacancy
}

type siteProjectView struct {
	Project *models.Project
	URL     string
}

type siteEventView struct {
	Event *models.Event
	URL   string
}

func (h siteHandler) index() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		db := h.database.WithContext(r.Context())

		var view siteIndexView
		var err error
		if view.Projects, err = db.ProjectRepo().FindRecent(siteRecentLimit); err != nil {
			h.pages.serverError(w, r, false, err)
			return
		}
		if view.Events, err = db.EventRepo().FindRecent(siteRecentLimit); err != nil {
			h.pages.serverError(w, r, false, err)
			return
		}
		if view.Vacancies, err = db.VacancyRepo().FindActive(); err != nil {
			h.pages.serverError(w, r, false, err)
			return
		}
		h.pages.render(w, r, http.StatusOK, "site_index.html", "Home", view)
	}
}

func (h siteHandler) projectPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		project, err := h.database.WithContext(r.Context()).ProjectRepo().FindBySlug(slug)
		if isRecordNotFound(err) {
			h.pages.notFound(w, r, false)
			return
		}
		if err != nil {
			h.pages.serverError(w, r, false, err)
			return
		}
		h.pages.render(w, r, http.StatusOK, "site_project.html", project.Title, siteProjectView{
			Project: project,
			URL:     services.BuildContentURL(h.baseURL, "projects", slug),
		})
	}
}

func (h siteHandler) eventPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		event, err := h.database.WithContext(r.Context()).EventRepo().FindBySlug(slug)
		if isRecordNotFound(err) {
			h.pages.notFound(w, r, false)
			return
		}
		if err != nil {
			h.pages.serverError(w, r, false, err)
			return
		}
		h.pages.render(w, r, http.StatusOK, "site_event.html", event.Title, siteEventView{
			Event: event,
			URL:   services.BuildContentURL(h.baseURL, "events", slug),
		})
	}
}
