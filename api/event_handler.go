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
)

type eventHandler struct {
	responder Responder
	logger    zerolog.Logger
	database  database.Database
	pages     *pages
	uploader  *ingest.Uploader
}

func newEventHandler(database database.Database, pages *pages, uploader *ingest.Uploader) eventHandler {
	logger := log.With().Str("handlerName", "eventHandler").Logger()

	return eventHandler{
		responder: NewResponder(logger),
		logger:    logger,
		database:  database,
		pages:     pages,
		uploader:  uploader,
	}
}

// getAllEvents retrieves events, optionally filtered by category
// @Summary Get all events
// @Tags Events
// @Produce json
// @Param category query string false "Only events in this category"
// @Success 200 {array} models.Event
// @Failure 500 {object} ErrorResponse
// @Router /api/events [get]
func (h eventHandler) getAllEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := strings.TrimSpace(r.URL.Query().Get("category"))
		events, err := h.database.WithContext(r.Context()).EventRepo().FindAll(category)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "events", err))
			return
		}
		if events == nil {
			events = []*models.Event{}
		}
		h.responder.WriteJSON(w, events)
	}
}

// getEvent retrieves an event by its slug
// @Summary Get an event
// @Tags Events
// @Produce json
// @Param slug path string true "Event slug"
// @Success 200 {object} models.Event
// @Failure 404 {object} ErrorResponse "Event not found"
// @Router /api/events/{slug} [get]
func (h eventHandler) getEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, err := h.database.WithContext(r.Context()).EventRepo().FindBySlug(chi.URLParam(r, "slug"))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "event", err))
			return
		}
		h.responder.WriteJSON(w, event)
	}
}

// createEvent creates an event from a JSON body
// @Summary Create an event
// @Description Creates an event. Requires an admin session.
// @Tags Events
// @Accept json
// @Produce json
// @Param event body eventInput true "Event"
// @Success 201 {object} EventCreatedResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/events [post]
func (h eventHandler) createEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input eventInput
		if err := decodeJSON(r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := validateInput(input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		event := eventFromInput(input)
		event.MainImage = input.MainImage
		event.Gallery = models.StringList(input.Gallery)

		err := h.database.Transaction(r.Context(), func(tx database.Database) error {
			return tx.EventRepo().Add(event)
		})
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "event", err))
			return
		}

		h.responder.WriteStatusJSON(w, http.StatusCreated, EventCreatedResponse{
			Message: "Event created successfully",
			Event:   event,
		})
	}
}

func eventFromInput(input eventInput) *models.Event {
	return &models.Event{
		Title:       strings.TrimSpace(input.Title),
		Category:    strings.TrimSpace(input.Category),
		Date:        strings.TrimSpace(input.Date),
		Time:        strings.TrimSpace(input.Time),
		Venue:       strings.TrimSpace(input.Venue),
		Organizer:   strings.TrimSpace(input.Organizer),
		Description: input.Description,
	}
}

type eventFormView struct {
	Action string
	Event  *models.Event
}

func (h eventHandler) adminListEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := h.database.WithContext(r.Context()).EventRepo().FindAll("")
		if err != nil {
			h.pages.serverError(w, r, true, err)
			return
		}
		h.pages.render(w, r, http.StatusOK, "admin_events.html", "Events", events)
	}
}

func (h eventHandler) adminViewEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, ok := h.findEvent(w, r)
		if !ok {
			return
		}
		h.pages.render(w, r, http.StatusOK, "admin_event_view.html", event.Title, event)
	}
}

func (h eventHandler) adminNewEventForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.pages.render(w, r, http.StatusOK, "admin_event_form.html", "New event",
			eventFormView{Action: "/admin/events/new"})
	}
}

func (h eventHandler) adminEditEventForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, ok := h.findEvent(w, r)
		if !ok {
			return
		}
		h.pages.render(w, r, http.StatusOK, "admin_event_form.html", "Edit event",
			eventFormView{Action: "/admin/events/" + event.ID.String() + "/edit", Event: event})
	}
}

func (h eventHandler) adminCreateEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const back = "/admin/events/new"
		if err := parseAdminForm(r); err != nil {
			h.pages.adminFailure(w, r, back, err)
			return
		}
		input := readEventForm(r)
		if err := validateInput(input); err != nil {
			h.pages.adminFailure(w, r, back, err)
			return
		}

		mainImage, err := h.uploader.SaveFile(r.Context(), ingest.DirEventImages, formFile(r, "main_image"))
		if err != nil {
			h.pages.adminFailure(w, r, back, err)
			return
		}
		gallery, err := h.uploader.SaveFiles(r.Context(), ingest.DirEventGallery, formFiles(r, "gallery"))
		if err != nil {
			h.pages.adminFailure(w, r, back, err)
			return
		}

		event := eventFromInput(input)
		event.MainImage = mainImage
		event.Gallery = models.StringList(gallery)

		err = h.database.Transaction(r.Context(), func(tx database.Database) error {
			return tx.EventRepo().Add(event)
		})
		if err != nil {
			h.pages.adminFailure(w, r, back, wrapDatabaseError("create", "event", err))
			return
		}

		redirectWithFlash(w, r, "/admin/events", "success", "Event created successfully.")
	}
}

// adminUpdateEvent applies the edit form. A new main image replaces the old
// one; new gallery images are appended.
func (h eventHandler) adminUpdateEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, ok := h.findEvent(w, r)
		if !ok {
			return
		}
		back := "/admin/events/" + event.ID.String() + "/edit"

		if err := parseAdminForm(r); err != nil {
			h.pages.adminFailure(w, r, back, err)
			return
		}
		input := readEventForm(r)
		if err := validateInput(input); err != nil {
			h.pages.adminFailure(w, r, back, err)
			return
		}

		mainImage, err := h.uploader.SaveFile(r.Context(), ingest.DirEventImages, formFile(r, "main_image"))
		if err != nil {
			h.pages.adminFailure(w, r, back, err)
			return
		}
		gallery, err := h.uploader.SaveFiles(r.Context(), ingest.DirEventGallery, formFiles(r, "gallery"))
		if err != nil {
			h.pages.adminFailure(w, r, back, err)
			return
		}

		titleChanged := input.Title != event.Title
		event.Title = input.Title
		event.Category = input.Category
		event.Date = input.Date
		event.Time = input.Time
		event.Venue = input.Venue
		event.Organizer = input.Organizer
		event.Description = input.Description
		if mainImage != "" {
			if event.MainImage != "" {
				h.logger.Info().Str("path", event.MainImage).Str("eventID", event.ID.String()).Msg("Replaced main image left in storage")
			}
			event.MainImage = mainImage
		}
		event.Gallery = append(event.Gallery, gallery...)

		err = h.database.Transaction(r.Context(), func(tx database.Database) error {
			return tx.EventRepo().Update(event, titleChanged)
		})
		if err != nil {
			h.pages.adminFailure(w, r, back, wrapDatabaseError("update", "event", err))
			return
		}

		redirectWithFlash(w, r, "/admin/events", "success", "Event updated successfully.")
	}
}

func (h eventHandler) adminDeleteEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r)
		if !ok {
			h.pages.notFound(w, r, true)
			return
		}

		err := h.database.Transaction(r.Context(), func(tx database.Database) error {
			return tx.EventRepo().Delete(id)
		})
		if err != nil {
			h.pages.adminFailure(w, r, "/admin/events", err)
			return
		}
		redirectWithFlash(w, r, "/admin/events", "success", "Event deleted successfully.")
	}
}

func (h eventHandler) findEvent(w http.ResponseWriter, r *http.Request) (*models.Event, bool) {
	id, ok := idParam(r)
	if !ok {
		h.pages.notFound(w, r, true)
		return nil, false
	}
	event, err := h.database.WithContext(r.Context()).EventRepo().FindByID(id)
	if isRecordNotFound(err) {
		h.pages.notFound(w, r, true)
		return nil, false
	}
	if err != nil {
		h.pages.serverError(w, r, true, err)
		return nil, false
	}
	return event, true
}
