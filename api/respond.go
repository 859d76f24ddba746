package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/rpupo63/ailabs-portal-backend/errs"
	"github.com/rs/zerolog"
)

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	r.WriteStatusJSON(w, http.StatusOK, data)
}

func (r Responder) WriteStatusJSON(w http.ResponseWriter, status int, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteMessage writes {"message": msg} with status.
func (r Responder) WriteMessage(w http.ResponseWriter, status int, msg string) {
	r.WriteStatusJSON(w, status, MessageResponse{Message: msg})
}

// SendErrorNotification posts unexpected errors to ERROR_WEBHOOK_URL when set.
func (r Responder) SendErrorNotification(errMsg string) {
	webhookURL := os.Getenv("ERROR_WEBHOOK_URL")
	if webhookURL == "" {
		return
	}

	jsonData, err := json.Marshal(map[string]string{"errorMessage": errMsg})
	if err != nil {
		r.logger.Error().Err(err).Msg("Error marshaling error notification request")
		return
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Post(webhookURL, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		r.logger.Error().Err(err).Msg("Error sending error notification")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		r.logger.Error().Msgf("Error notification webhook returned status: %d", resp.StatusCode)
	}
}

// WriteError renders err as {error, status, field?, details?}. Errors that are
// not an *errs.ApiErr become a generic 500 and are logged with their cause.
func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		r.SendErrorNotification(err.Error())
		r.WriteStatusJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:  "Internal Server Error",
			Status: "error",
		})
		return
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Str("error", apiErr.GetFullError()).Int("status", apiErr.StatusCode).Msg("request failed")
		r.SendErrorNotification(apiErr.GetFullError())
		r.WriteStatusJSON(w, apiErr.StatusCode, ErrorResponse{
			Error:  apiErr.Message(),
			Status: "error",
		})
		return
	}

	r.WriteStatusJSON(w, apiErr.StatusCode, ErrorResponse{
		Error:   apiErr.Message(),
		Status:  "error",
		Field:   apiErr.Field,
		Details: apiErr.Details,
	})
}

// wrapDatabaseError wraps a database error with context information
func wrapDatabaseError(operation, entity string, cause error) error {
	return errs.NewDatabaseError(operation, entity, cause)
}
