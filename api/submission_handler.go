package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/ailabs-portal-backend/database"
	"github.com/rpupo63/ailabs-portal-backend/models"
	"github.com/rpupo63/ailabs-portal-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const notifyTimeout = 15 * time.Second

type submissionHandler struct {
	responder Responder
	logger    zerolog.Logger
	database  database.Database
	pages     *pages
	notifier  *services.Notifier
}

func newSubmissionHandler(database database.Database, pages *pages, notifier *services.Notifier) submissionHandler {
	logger := log.With().Str("handlerName", "submissionHandler").Logger()

	return submissionHandler{
		responder: NewResponder(logger),
		logger:    logger,
		database:  database,
		pages:     pages,
		notifier:  notifier,
	}
}

// notify sends msg after the submission is stored. Failures are logged only.
func (h submissionHandler) notify(ctx context.Context, kind string, build func(n *services.Notifier) services.Message) {
	if h.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := h.notifier.Notify(ctx, build(h.notifier)); err != nil {
		h.logger.Error().Err(err).Str("submission", kind).Msg("Failed to send submission notification")
	}
}

// createContactQuery stores a message from the contact form
// @Summary Submit a contact query
// @Tags Submissions
// @Accept json
// @Produce json
// @Param query body contactInput true "Contact query"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} ErrorResponse "No data provided or invalid field"
// @Failure 500 {object} ErrorResponse
// @Router /api/contact [post]
func (h submissionHandler) createContactQuery() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input contactInput
		if err := decodeJSON(r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validateInput(input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		query := &models.ContactQuery{
			Name:    strings.TrimSpace(input.Name),
			Email:   strings.TrimSpace(input.Email),
			Type:    strings.TrimSpace(input.Type),
			Message: input.Message,
		}
		if err := h.database.WithContext(r.Context()).ContactQueryRepo().Add(query); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "contact query", err))
			return
		}

		h.notify(r.Context(), "contact", func(n *services.Notifier) services.Message {
			return n.ContactMessage(*query)
		})
		h.responder.WriteMessage(w, http.StatusCreated, "Contact query submitted successfully")
	}
}

// createPartnershipRequest stores a college partnership request
// @Summary Submit an academy partnership request
// @Tags Submissions
// @Accept json
// @Produce json
// @Param request body partnershipInput true "Partnership request"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/academy/partnership [post]
func (h submissionHandler) createPartnershipRequest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input partnershipInput
		if err := decodeJSON(r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validateInput(input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		request := &models.PartnershipRequest{
			CollegeName: strings.TrimSpace(input.CollegeName),
			Email:       strings.TrimSpace(input.Email),
			Phone:       strings.TrimSpace(input.Phone),
		}
		if err := h.database.WithContext(r.Context()).PartnershipRequestRepo().Add(request); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "partnership request", err))
			return
		}

		h.notify(r.Context(), "partnership", func(n *services.Notifier) services.Message {
			return n.PartnershipMessage(*request)
		})
		h.responder.WriteMessage(w, http.StatusCreated, "Partnership request submitted successfully")
	}
}

// createJobApplication stores an application for an open role
// @Summary Apply for a job
// @Tags Submissions
// @Accept json
// @Produce json
// @Param application body jobApplicationInput true "Job application"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/careers/apply [post]
func (h submissionHandler) createJobApplication() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input jobApplicationInput
		if err := decodeJSON(r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validateInput(input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		application := &models.JobApplication{
			JobRole:     strings.TrimSpace(input.JobRole),
			Name:        strings.TrimSpace(input.Name),
			Email:       strings.TrimSpace(input.Email),
			ResumeLink:  strings.TrimSpace(input.ResumeLink),
			CoverLetter: input.CoverLetter,
		}
		if err := h.database.WithContext(r.Context()).JobApplicationRepo().Add(application); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "job application", err))
			return
		}

		h.notify(r.Context(), "job application", func(n *services.Notifier) services.Message {
			return n.JobApplicationMessage(*application)
		})
		h.responder.WriteMessage(w, http.StatusCreated, "Job application submitted successfully")
	}
}

type submissionRow struct {
	ID    uuid.UUID
	Cells []string
}

type submissionsView struct {
	Heading string
	Section string
	Columns []string
	Rows    []submissionRow
}

func (h submissionHandler) listContactQueries() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		queries, err := h.database.WithContext(r.Context()).ContactQueryRepo().FindAll()
		if err != nil {
			h.pages.serverError(w, r, true, err)
			return
		}

		view := submissionsView{
			Heading: "Contact queries",
			Section: "contacts",
			Columns: []string{"Date", "Name", "Email", "Type", "Message"},
		}
		for _, q := range queries {
			view.Rows = append(view.Rows, submissionRow{
				ID:    q.ID,
				Cells: []string{formatTimestamp(q.Timestamp), q.Name, q.Email, q.Type, q.Message},
			})
		}
		h.pages.render(w, r, http.StatusOK, "admin_submissions.html", view.Heading, view)
	}
}

func (h submissionHandler) listPartnershipRequests() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requests, err := h.database.WithContext(r.Context()).PartnershipRequestRepo().FindAll()
		if err != nil {
			h.pages.serverError(w, r, true, err)
			return
		}

		view := submissionsView{
			Heading: "Partnership requests",
			Section: "partnerships",
			Columns: []string{"Date", "College", "Email", "Phone"},
		}
		for _, p := range requests {
			view.Rows = append(view.Rows, submissionRow{
				ID:    p.ID,
				Cells: []string{formatTimestamp(p.Timestamp), p.CollegeName, p.Email, p.Phone},
			})
		}
		h.pages.render(w, r, http.StatusOK, "admin_submissions.html", view.Heading, view)
	}
}

func (h submissionHandler) listJobApplications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		applications, err := h.database.WithContext(r.Context()).JobApplicationRepo().FindAll()
		if err != nil {
			h.pages.serverError(w, r, true, err)
			return
		}

		view := submissionsView{
			Heading: "Job applications",
			Section: "careers",
			Columns: []string{"Date", "Role", "Name", "Email", "Resume", "Cover letter"},
		}
		for _, a := range applications {
			view.Rows = append(view.Rows, submissionRow{
				ID:    a.ID,
				Cells: []string{formatTimestamp(a.Timestamp), a.JobRole, a.Name, a.Email, a.ResumeLink, a.CoverLetter},
			})
		}
		h.pages.render(w, r, http.StatusOK, "admin_submissions.html", view.Heading, view)
	}
}

// deleteSubmission removes one submission row and redirects to its list.
func (h submissionHandler) deleteSubmission(section, message string, remove func(db database.Database, id uuid.UUID) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r)
		if !ok {
			h.pages.notFound(w, r, true)
			return
		}

		err := h.database.Transaction(r.Context(), func(tx database.Database) error {
			return remove(tx, id)
		})
		if err != nil {
			h.pages.adminFailure(w, r, "/admin/"+section, err)
			return
		}
		redirectWithFlash(w, r, "/admin/"+section, "success", message)
	}
}

func (h submissionHandler) deleteContactQuery() http.HandlerFunc {
	return h.deleteSubmission("contacts", "Contact query deleted successfully.", func(db database.Database, id uuid.UUID) error {
		return db.ContactQueryRepo().Delete(id)
	})
}

func (h submissionHandler) deletePartnershipRequest() http.HandlerFunc {
	return h.deleteSubmission("partnerships", "Partnership request deleted successfully.", func(db database.Database, id uuid.UUID) error {
		return db.PartnershipRequestRepo().Delete(id)
	})
}

func (h submissionHandler) deleteJobApplication() http.HandlerFunc {
	return h.deleteSubmission("careers", "Job application deleted successfully.", func(db database.Database, id uuid.UUID) error {
		return db.JobApplicationRepo().Delete(id)
	})
}

func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}
