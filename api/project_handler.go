package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/ailabs-portal-backend/database"
	"github.com/rpupo63/ailabs-portal-backend/ingest"
	"github.com/rpupo63/ailabs-portal-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	database  database.Database
	pages     *pages
	uploader  *ingest.Uploader
}

func newProjectHandler(database database.Database, pages *pages, uploader *ingest.Uploader) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		database:  database,
		pages:     pages,
		uploader:  uploader,
	}
}

// getAllProjects retrieves all projects
// @Summary Get all projects
// @Description Retrieves all projects, newest first
// @Tags Projects
// @Produce json
// @Success 200 {array} models.Project
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching projects"
// @Router /api/projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.database.WithContext(r.Context()).ProjectRepo().FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
			return
		}
		if projects == nil {
			projects = []*models.Project{}
		}
		h.responder.WriteJSON(w, projects)
	}
}

// getProject retrieves a project by its slug
// @Summary Get a project
// @Tags Projects
// @Produce json
// @Param slug path string true "Project slug"
// @Success 200 {object} models.Project
// @Failure 404 {object} ErrorResponse "Project not found"
// @Router /api/projects/{slug} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := h.database.WithContext(r.Context()).ProjectRepo().FindBySlug(chi.URLParam(r, "slug"))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
			return
		}
		h.responder.WriteJSON(w, project)
	}
}

// createProject creates a project from a JSON body
// @Summary Create a project
// @Description Creates a project. Requires an admin session.
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body projectInput true "Project"
// @Success 201 {object} ProjectCreatedResponse
// @Failure 400 {object} ErrorResponse "No data provided or invalid field"
// @Failure 401 {object} ErrorResponse
// @Router /api/projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input projectInput
		if err := decodeJSON(r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validateInput(input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project := &models.Project{
			Title:        strings.TrimSpace(input.Title),
			StudentName:  strings.TrimSpace(input.StudentName),
			StudentBatch: strings.TrimSpace(input.StudentBatch),
			Description:  input.Description,
			TechStack:    models.StringList(input.TechStack),
			Thumbnail:    input.Thumbnail,
			Screenshots:  models.StringList(input.Screenshots),
			Links:        datatypes.NewJSONType(input.Links),
		}

		err := h.database.Transaction(r.Context(), func(tx database.Database) error {
			return tx.ProjectRepo().Add(project)
		})
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "project", err))
			return
		}

		h.responder.WriteStatusJSON(w, http.StatusCreated, ProjectCreatedResponse{
			Message: "Project created successfully",
			Project: project,
		})
	}
}

type projectFormView struct {
	Action  string
	Project *models.Project
}

func (h projectHandler) adminListProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.database.WithContext(r.Context()).ProjectRepo().FindAll()
		if err != nil {
			h.pages.serverError(w, r, true, err)
			return
		}
		h.pages.render(w, r, http.StatusOK, "admin_projects.html", "Projects", projects)
	}
}

func (h projectHandler) adminViewProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, ok := h.findProject(w, r)
		if !ok {
			return
		}
		h.pages.render(w, r, http.StatusOK, "admin_project_view.html", project.Title, project)
	}
}

func (h projectHandler) adminNewProjectForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.pages.render(w, r, http.StatusOK, "admin_project_form.html", "New project",
			projectFormView{Action: "/admin/projects/new"})
	}
}

func (h projectHandler) adminEditProjectForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, ok := h.findProject(w, r)
		if !ok {
			return
		}
		h.pages.render(w, r, http.StatusOK, "admin_project_form.html", "Edit project",
			projectFormView{Action: "/admin/projects/" + project.ID.String() + "/edit", Project: project})
	}
}

// adminCreateProject ingests the project form: files are stored first, then
// the row is inserted with a fresh slug.
func (h projectHandler) adminCreateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const back = "/admin/projects/new"
		if err := parseAdminForm(r); err != nil {
			h.pages.adminFailure(w, r, back, err)
			return
		}
		input := readProjectForm(r)
		if err := validateInput(input); err != nil {
			h.pages.adminFailure(w, r, back, err)
			return
		}

		thumbnail, err := h.uploader.SaveFile(r.Context(), ingest.DirProjectThumbnails, formFile(r, "thumbnail"))
		if err != nil {
			h.pages.adminFailure(w, r, back, err)
			return
		}
		screenshots, err := h.uploader.SaveFiles(r.Context(), ingest.DirProjectScreenshots, formFiles(r, "screenshots"))
		if err != nil {
			h.pages.adminFailure(w, r, back, err)
			return
		}

		project := &models.Project{
			Title:        input.Title,
			StudentName:  input.StudentName,
			StudentBatch: input.StudentBatch,
			Description:  input.Description,
			TechStack:    models.StringList(input.TechStack),
			Thumbnail:    thumbnail,
			Screenshots:  models.StringList(screenshots),
			Links:        datatypes.NewJSONType(models.ProjectLinks{Github: input.Github, Demo: input.Demo}),
		}
		err = h.database.Transaction(r.Context(), func(tx database.Database) error {
			return tx.ProjectRepo().Add(project)
		})
		if err != nil {
			h.pages.adminFailure(w, r, back, wrapDatabaseError("create", "project", err))
			return
		}

		redirectWithFlash(w, r, "/admin/projects", "success", "Project created successfully.")
	}
}

// adminUpdateProject applies the edit form. A new thumbnail replaces the old
// one; new screenshots are appended.
func (h projectHandler) adminUpdateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, ok := h.findProject(w, r)
		if !ok {
			return
		}
		back := "/admin/projects/" + project.ID.String() + "/edit"

		if err := parseAdminForm(r); err != nil {
			h.pages.adminFailure(w, r, back, err)
			return
		}
		input := readProjectForm(r)
		if err := validateInput(input); err != nil {
			h.pages.adminFailure(w, r, back, err)
			return
		}

		thumbnail, err := h.uploader.SaveFile(r.Context(), ingest.DirProjectThumbnails, formFile(r, "thumbnail"))
		if err != nil {
			h.pages.adminFailure(w, r, back, err)
			return
		}
		screenshots, err := h.uploader.SaveFiles(r.Context(), ingest.DirProjectScreenshots, formFiles(r, "screenshots"))
		if err != nil {
			h.pages.adminFailure(w, r, back, err)
			return
		}

		titleChanged := input.Title != project.Title
		project.Title = input.Title
		project.StudentName = input.StudentName
		project.StudentBatch = input.StudentBatch
		project.Description = input.Description
		project.TechStack = models.StringList(input.TechStack)
		project.Links = datatypes.NewJSONType(models.ProjectLinks{Github: input.Github, Demo: input.Demo})
		if thumbnail != "" {
			if project.Thumbnail != "" {
				h.logger.Info().Str("path", project.Thumbnail).Str("projectID", project.ID.String()).Msg("Replaced thumbnail left in storage")
			}
			project.Thumbnail = thumbnail
		}
		project.Screenshots = append(project.Screenshots, screenshots...)

		err = h.database.Transaction(r.Context(), func(tx database.Database) error {
			return tx.ProjectRepo().Update(project, titleChanged)
		})
		if err != nil {
			h.pages.adminFailure(w, r, back, wrapDatabaseError("update", "project", err))
			return
		}

		redirectWithFlash(w, r, "/admin/projects", "success", "Project updated successfully.")
	}
}

func (h projectHandler) adminDeleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r)
		if !ok {
			h.pages.notFound(w, r, true)
			return
		}

		err := h.database.Transaction(r.Context(), func(tx database.Database) error {
			return tx.ProjectRepo().Delete(id)
		})
		if err != nil {
			h.pages.adminFailure(w, r, "/admin/projects", err)
			return
		}
		redirectWithFlash(w, r, "/admin/projects", "success", "Project deleted successfully.")
	}
}

// findProject loads the project named by the {id} URL parameter, rendering
// the 404 or error page itself when it cannot.
func (h projectHandler) findProject(w http.ResponseWriter, r *http.Request) (*models.Project, bool) {
	id, ok := idParam(r)
	if !ok {
		h.pages.notFound(w, r, true)
		return nil, false
	}
	project, err := h.database.WithContext(r.Context()).ProjectRepo().FindByID(id)
	if isRecordNotFound(err) {
		h.pages.notFound(w, r, true)
		return nil, false
	}
	if err != nil {
		h.pages.serverError(w, r, true, err)
		return nil, false
	}
	return project, true
}
