package api

import (
	"net/http"

	"github.com/rpupo63/ailabs-portal-backend/database"
	"github.com/rpupo63/ailabs-portal-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const dashboardRecentLimit = 5

type dashboardHandler struct {
	logger   zerolog.Logger
	database database.Database
	pages    *pages
}

func newDashboardHandler(database database.Database, pages *pages) dashboardHandler {
	logger := log.With().Str("handlerName", "dashboardHandler").Logger()

	return dashboardHandler{
		logger:   logger,
		database: database,
		pages:    pages,
	}
}

type dashboardCounts struct {
	Contacts        int64
	Partnerships    int64
	Applications    int64
	Projects        int64
	Events          int64
	ActiveVacancies int64
}

type dashboardView struct {
	Counts             dashboardCounts
	RecentContacts     []*models.ContactQuery
	RecentPartnerships []*models.PartnershipRequest
	RecentApplications []*models.JobApplication
}

func (h dashboardHandler) loadDashboard(db database.Database) (dashboardView, error) {
	var view dashboardView
	var err error

	counters := []struct {
		dst   *int64
		count func() (int64, error)
	}{
		{&view.Counts.Contacts, db.ContactQueryRepo().Count},
		{&view.Counts.Partnerships, db.PartnershipRequestRepo().Count},
		{&view.Counts.Applications, db.JobApplicationRepo().Count},
		{&view.Counts.Projects, db.ProjectRepo().Count},
		{&view.Counts.Events, db.EventRepo().Count},
		{&view.Counts.ActiveVacancies, db.VacancyRepo().CountActive},
	}
	for _, c := range counters {
		if *c.dst, err = c.count(); err != nil {
			return view, err
		}
	}

	if view.RecentContacts, err = db.ContactQueryRepo().FindRecent(dashboardRecentLimit); err != nil {
		return view, err
	}
	if view.RecentPartnerships, err = db.PartnershipRequestRepo().FindRecent(dashboardRecentLimit); err != nil {
		return view, err
	}
	if view.RecentApplications, err = db.JobApplicationRepo().FindRecent(dashboardRecentLimit); err != nil {
		return view, err
	}
	return view, nil
}

func (h dashboardHandler) dashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := h.loadDashboard(h.database.WithContext(r.Context()))
		if err != nil {
			h.pages.serverError(w, r, true, err)
			return
		}
		h.pages.render(w, r, http.StatusOK, "admin_dashboard.html", "Dashboard", view)
	}
}
