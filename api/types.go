package api

import "github.com/rpupo63/ailabs-portal-backend/models"

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler       authHandler
	dashboardHandler  dashboardHandler
	submissionHandler submissionHandler
	projectHandler    projectHandler
	eventHandler      eventHandler
	vacancyHandler    vacancyHandler
	siteHandler       siteHandler
	healthHandler     healthHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"No data provided"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"email"`
	Details string `json:"details,omitempty" example:"Invalid field email: must be a valid email address"`
}

// MessageResponse is the body of a successful write
type MessageResponse struct {
	Message string `json:"message" example:"Contact query submitted successfully"`
}

// ProjectCreatedResponse is returned by POST /api/projects
type ProjectCreatedResponse struct {
	Message string          `json:"message"`
	Project *models.Project `json:"project"`
}

// EventCreatedResponse is returned by POST /api/events
type EventCreatedResponse struct {
	Message string        `json:"message"`
	Event   *models.Event `json:"event"`
}
