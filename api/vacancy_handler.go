package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/ailabs-portal-backend/database"
	"github.com/rpupo63/ailabs-portal-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type vacancyHandler struct {
	responder Responder
	logger    zerolog.Logger
	database  database.Database
	pages     *pages
}

func newVacancyHandler(database database.Database, pages *pages) vacancyHandler {
	logger := log.With().Str("handlerName", "vacancyHandler").Logger()

	return vacancyHandler{
		responder: NewResponder(logger),
		logger:    logger,
		database:  database,
		pages:     pages,
	}
}

// getActiveVacancies lists the vacancies currently open
// @Summary Get open vacancies
// @Tags Careers
// @Produce json
// @Success 200 {array} models.Vacancy
// @Failure 500 {object} ErrorResponse
// @Router /api/vacancies [get]
func (h vacancyHandler) getActiveVacancies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vacancies, err := h.database.WithContext(r.Context()).VacancyRepo().FindActive()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "vacancies", err))
			return
		}
		if vacancies == nil {
			vacancies = []*models.Vacancy{}
		}
		h.responder.WriteJSON(w, vacancies)
	}
}

// getVacancy retrieves an open vacancy by its slug
// @Summary Get a vacancy
// @Tags Careers
// @Produce json
// @Param slug path string true "Vacancy slug"
// @Success 200 {object} models.Vacancy
// @Failure 404 {object} ErrorResponse "Vacancy not found"
// @Router /api/vacancies/{slug} [get]
func (h vacancyHandler) getVacancy() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vacancy, err := h.database.WithContext(r.Context()).VacancyRepo().FindBySlug(chi.URLParam(r, "slug"))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "vacancy", err))
			return
		}
		h.responder.WriteJSON(w, vacancy)
	}
}

type vacancyFormView struct {
	Action  string
	Vacancy *models.Vacancy
}

func (h vacancyHandler) adminListVacancies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vacancies, err := h.database.WithContext(r.Context()).VacancyRepo().FindAll()
		if err != nil {
			h.pages.serverError(w, r, true, err)
			return
		}
		h.pages.render(w, r, http.StatusOK, "admin_vacancies.html", "Vacancies", vacancies)
	}
}

func (h vacancyHandler) adminViewVacancy() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vacancy, ok := h.findVacancy(w, r)
		if !ok {
			return
		}
		h.pages.render(w, r, http.StatusOK, "admin_vacancy_view.html", vacancy.Title, vacancy)
	}
}

func (h vacancyHandler) adminNewVacancyForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.pages.render(w, r, http.StatusOK, "admin_vacancy_form.html", "New vacancy",
			vacancyFormView{Action: "/admin/vacancies/new"})
	}
}

func (h vacancyHandler) adminEditVacancyForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vacancy, ok := h.findVacancy(w, r)
		if !ok {
			return
		}
		h.pages.render(w, r, http.StatusOK, "admin_vacancy_form.html", "Edit vacancy",
			vacancyFormView{Action: "/admin/vacancies/" + vacancy.ID.String() + "/edit", Vacancy: vacancy})
	}
}

func (h vacancyHandler) adminCreateVacancy() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const back = "/admin/vacancies/new"
		if err := parseAdminForm(r); err != nil {
			h.pages.adminFailure(w, r, back, err)
			return
		}
		input := readVacancyForm(r)
		if err := validateInput(input); err != nil {
			h.pages.adminFailure(w, r, back, err)
			return
		}

		vacancy := &models.Vacancy{
			Title:        input.Title,
			Location:     input.Location,
			Type:         input.Type,
			Description:  input.Description,
			Requirements: models.StringList(input.Requirements),
			Active:       input.Active,
		}
		err := h.database.Transaction(r.Context(), func(tx database.Database) error {
			return tx.VacancyRepo().Add(vacancy)
		})
		if err != nil {
			h.pages.adminFailure(w, r, back, wrapDatabaseError("create", "vacancy", err))
			return
		}

		redirectWithFlash(w, r, "/admin/vacancies", "success", "Vacancy created successfully.")
	}
}

func (h vacancyHandler) adminUpdateVacancy() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vacancy, ok := h.findVacancy(w, r)
		if !ok {
			return
		}
		back := "/admin/vacancies/" + vacancy.ID.String() + "/edit"

		if err := parseAdminForm(r); err != nil {
			h.pages.adminFailure(w, r, back, err)
			return
		}
		input := readVacancyForm(r)
		if err := validateInput(input); err != nil {
			h.pages.adminFailure(w, r, back, err)
			return
		}

		titleChanged := input.Title != vacancy.Title
		vacancy.Title = input.Title
		vacancy.Location = input.Location
		vacancy.Type = input.Type
		vacancy.Description = input.Description
		vacancy.Requirements = models.StringList(input.Requirements)
		vacancy.Active = input.Active

		err := h.database.Transaction(r.Context(), func(tx database.Database) error {
			return tx.VacancyRepo().Update(vacancy, titleChanged)
		})
		if err != nil {
			h.pages.adminFailure(w, r, back, wrapDatabaseError("update", "vacancy", err))
			return
		}

		redirectWithFlash(w, r, "/admin/vacancies", "success", "Vacancy updated successfully.")
	}
}

func (h vacancyHandler) adminDeleteVacancy() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r)
		if !ok {
			h.pages.notFound(w, r, true)
			return
		}

		err := h.database.Transaction(r.Context(), func(tx database.Database) error {
			return tx.VacancyRepo().Delete(id)
		})
		if err != nil {
			h.pages.adminFailure(w, r, "/admin/vacancies", err)
			return
		}
		redirectWithFlash(w, r, "/admin/vacancies", "success", "Vacancy deleted successfully.")
	}
}

func (h vacancyHandler) findVacancy(w http.ResponseWriter, r *http.Request) (*models.Vacancy, bool) {
	id, ok := idParam(r)
	if !ok {
		h.pages.notFound(w, r, true)
		return nil, false
	}
	vacancy, err := h.database.WithContext(r.Context()).VacancyRepo().FindByID(id)
	if isRecordNotFound(err) {
		h.pages.notFound(w, r, true)
		return nil, false
	}
	if err != nil {
		h.pages.serverError(w, r, true, err)
		return nil, false
	}
	return vacancy, true
}
