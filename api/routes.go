package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// setupRoutes mounts the public site, the JSON API and the admin area
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware, limiter rateLimiter) {
	r.Get("/healthz", handlers.healthHandler.health())

	// Public site
	r.Get("/", handlers.siteHandler.index())
	r.Get("/projects/{slug}", handlers.siteHandler.projectPage())
	r.Get("/events/{slug}", handlers.siteHandler.eventPage())

	r.Route("/api", func(r chi.Router) {
		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Get("/projects/{slug}", handlers.projectHandler.getProject())
		r.Get("/events", handlers.eventHandler.getAllEvents())
		r.Get("/events/{slug}", handlers.eventHandler.getEvent())
		r.Get("/vacancies", handlers.vacancyHandler.getActiveVacancies())
		r.Get("/vacancies/{slug}", handlers.vacancyHandler.getVacancy())

		// Public form submissions
		r.Group(func(r chi.Router) {
			r.Use(limiter.limitByIP("submissions"))

			r.Post("/contact", handlers.submissionHandler.createContactQuery())
			r.Post("/academy/partnership", handlers.submissionHandler.createPartnershipRequest())
			r.Post("/careers/apply", handlers.submissionHandler.createJobApplication())
		})

		// Admin session required
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.authenticate)

			r.Post("/projects", handlers.projectHandler.createProject())
			r.Post("/events", handlers.eventHandler.createEvent())
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Get("/login", handlers.authHandler.loginPage())
		r.With(limiter.limitByIP("login")).Post("/login", handlers.authHandler.login())

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.requireAdmin)

			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
			})
			r.Post("/logout", handlers.authHandler.logout())
			r.Get("/dashboard", handlers.dashboardHandler.dashboard())

			// Submissions
			r.Get("/contacts", handlers.submissionHandler.listContactQueries())
			r.Post("/contacts/{id}/delete", handlers.submissionHandler.deleteContactQuery())
			r.Get("/partnerships", handlers.submissionHandler.listPartnershipRequests())
			r.Post("/partnerships/{id}/delete", handlers.submissionHandler.deletePartnershipRequest())
			r.Get("/careers", handlers.submissionHandler.listJobApplications())
			r.Post("/careers/{id}/delete", handlers.submissionHandler.deleteJobApplication())

			// Projects
			r.Get("/projects", handlers.projectHandler.adminListProjects())
			r.Get("/projects/new", handlers.projectHandler.adminNewProjectForm())
			r.Post("/projects/new", handlers.projectHandler.adminCreateProject())
			r.Get("/projects/{id}", handlers.projectHandler.adminViewProject())
			r.Get("/projects/{id}/edit", handlers.projectHandler.adminEditProjectForm())
			r.Post("/projects/{id}/edit", handlers.projectHandler.adminUpdateProject())
			r.Post("/projects/{id}/delete", handlers.projectHandler.adminDeleteProject())

			// Events
			r.Get("/events", handlers.eventHandler.adminListEvents())
			r.Get("/events/new", handlers.eventHandler.adminNewEventForm())
			r.Post("/events/new", handlers.eventHandler.adminCreateEvent())
			r.Get("/events/{id}", handlers.eventHandler.adminViewEvent())
			r.Get("/events/{id}/edit", handlers.eventHandler.adminEditEventForm())
			r.Post("/events/{id}/edit", handlers.eventHandler.adminUpdateEvent())
			r.Post("/events/{id}/delete", handlers.eventHandler.adminDeleteEvent())

			// Vacancies
			r.Get("/vacancies", handlers.vacancyHandler.adminListVacancies())
			r.Get("/vacancies/new", handlers.vacancyHandler.adminNewVacancyForm())
			r.Post("/vacancies/new", handlers.vacancyHandler.adminCreateVacancy())
			r.Get("/vacancies/{id}", handlers.vacancyHandler.adminViewVacancy())
			r.Get("/vacancies/{id}/edit", handlers.vacancyHandler.adminEditVacancyForm())
			r.Post("/vacancies/{id}/edit", handlers.vacancyHandler.adminUpdateVacancy())
			r.Post("/vacancies/{id}/delete", handlers.vacancyHandler.adminDeleteVacancy())
		})
	})
}
