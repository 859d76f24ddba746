package api

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/ailabs-portal-backend/errs"
	"gorm.io/gorm"
)

const multipartMemory = 8 << 20

// parseAdminForm parses a urlencoded or multipart admin form.
func parseAdminForm(r *http.Request) error {
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(multipartMemory)
	} else {
		err = r.ParseForm()
	}
	if err == nil {
		return nil
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errs.NewMaxBodySizeExceededError(maxErr.Limit)
	}
	if strings.Contains(err.Error(), "request body too large") {
		return errs.NewMaxBodySizeExceededError(0)
	}
	return errs.NewMalformedPayloadError("form", err)
}

func formFiles(r *http.Request, key string) []*multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	return r.MultipartForm.File[key]
}

func formFile(r *http.Request, key string) *multipart.FileHeader {
	files := formFiles(r, key)
	if len(files) == 0 {
		return nil
	}
	return files[0]
}

func idParam(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errs.IsNotFound(err)
}

// adminFailure reports a failed admin write. Oversized uploads and missing
// rows get an error page; everything else becomes a flash on redirect.
func (p *pages) adminFailure(w http.ResponseWriter, r *http.Request, location string, err error) {
	switch {
	case errs.IsMaxBodySizeExceededError(err):
		p.render(w, r, http.StatusRequestEntityTooLarge, "admin_error.html", "Upload too large",
			"The upload is larger than the allowed limit.")
		return
	case isRecordNotFound(err):
		p.notFound(w, r, true)
		return
	}

	message := "Could not save changes. Please try again."
	switch {
	case errs.IsStorageError(err):
		p.logger.Error().Err(err).Str("path", r.URL.Path).Msg("upload failed")
		message = "Could not store the uploaded file. Please try again."
	case errs.StatusCode(err) < http.StatusInternalServerError:
		message = formErrorMessage(err)
	default:
		p.logger.Error().Err(err).Str("path", r.URL.Path).Msg("admin write failed")
	}
	redirectWithFlash(w, r, location, "danger", message)
}
