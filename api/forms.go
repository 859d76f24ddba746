package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rpupo63/ailabs-portal-backend/errs"
	"github.com/rpupo63/ailabs-portal-backend/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report wire names (json, then form) instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

type contactInput struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email,max=120"`
	Type    string `json:"type" validate:"max=50"`
	Message string `json:"message" validate:"required"`
}

type partnershipInput struct {
	CollegeName string `json:"collegeName" validate:"required,max=150"`
	Email       string `json:"email" validate:"required,email,max=120"`
	Phone       string `json:"phone" validate:"required,max=20"`
}

type jobApplicationInput struct {
	JobRole     string `json:"jobRole" validate:"required,max=100"`
	Name        string `json:"name" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email,max=120"`
	ResumeLink  string `json:"resumeLink" validate:"omitempty,max=255"`
	CoverLetter string `json:"coverLetter"`
}

type projectInput struct {
	Title        string              `json:"title" form:"title" validate:"required,max=200"`
	StudentName  string              `json:"studentName" form:"student_name" validate:"max=100"`
	StudentBatch string              `json:"studentBatch" form:"student_batch" validate:"max=50"`
	Description  string              `json:"description" form:"description" validate:"required"`
	TechStack    []string            `json:"techStack" form:"tech_stack" validate:"dive,max=50"`
	Thumbnail    string              `json:"thumbnail" form:"-" validate:"max=255"`
	Screenshots  []string            `json:"screenshots" form:"-"`
	Links        models.ProjectLinks `json:"links" form:"-"`
	Github       string              `json:"-" form:"github" validate:"omitempty,url,max=255"`
	Demo         string              `json:"-" form:"demo" validate:"omitempty,url,max=255"`
}

type eventInput struct {
	Title       string   `json:"title" form:"title" validate:"required,max=200"`
	Category    string   `json:"category" form:"category" validate:"max=50"`
	Date        string   `json:"date" form:"date" validate:"max=50"`
	Time        string   `json:"time" form:"time" validate:"max=50"`
	Venue       string   `json:"venue" form:"venue" validate:"max=150"`
	Organizer   string   `json:"organizer" form:"organizer" validate:"max=100"`
	Description string   `json:"description" form:"description" validate:"required"`
	MainImage   string   `json:"mainImage" form:"-" validate:"max=255"`
	Gallery     []string `json:"gallery" form:"-"`
}

type vacancyInput struct {
	Title        string   `form:"title" validate:"required,max=200"`
	Location     string   `form:"location" validate:"max=100"`
	Type         string   `form:"type" validate:"max=50"`
	Description  string   `form:"description" validate:"required"`
	Requirements []string `form:"requirements"`
	Active       bool     `form:"active"`
}

// decodeJSON reads a JSON object into dst. An empty body, null or {} is
// reported as "No data provided".
func decodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewMaxBodySizeExceededError(maxErr.Limit)
		}
		return errs.NewMalformedPayloadError("JSON", err)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return errs.NewNoDataError()
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return errs.NewInvalidJSONError(err)
	}
	if len(probe) == 0 {
		return errs.NewNoDataError()
	}

	if err := json.Unmarshal(trimmed, dst); err != nil {
		return errs.NewInvalidJSONError(err)
	}
	return nil
}

// validateInput runs struct validation and converts the first failure to an
// ApiErr. Details lists every failing field.
func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errs.NewBadRequestError(err.Error())
	}

	first := verrs[0]
	var apiErr *errs.ApiErr
	if first.Tag() == "required" {
		apiErr = errs.NewMissingRequiredFieldError(fieldName(first))
	} else {
		apiErr = errs.NewInvalidFieldError(fieldName(first), describeViolation(first))
	}
	if len(verrs) > 1 {
		apiErr.Details = formatValidationErrors(verrs)
	}
	return apiErr
}

func fieldName(fe validator.FieldError) string {
	// Namespace is Struct.field[0]; drop the struct name.
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describeViolation(fe validator.FieldError) string {
	switch fe.Tag() {
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}

func formatValidationErrors(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			msgs = append(msgs, fmt.Sprintf("%s is required", fieldName(fe)))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s %s", fieldName(fe), describeViolation(fe)))
	}
	return strings.Join(msgs, "; ")
}

// formList reads a textarea holding one list element per line. Blank lines
// are dropped; commas inside an element are kept.
func formList(r *http.Request, key string) []string {
	var items []string
	for _, line := range strings.Split(r.FormValue(key), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			items = append(items, line)
		}
	}
	return items
}

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

func readProjectForm(r *http.Request) projectInput {
	return projectInput{
		Title:        formValue(r, "title"),
		StudentName:  formValue(r, "student_name"),
		StudentBatch: formValue(r, "student_batch"),
		Description:  formValue(r, "description"),
		TechStack:    formList(r, "tech_stack"),
		Github:       formValue(r, "github"),
		Demo:         formValue(r, "demo"),
	}
}

func readEventForm(r *http.Request) eventInput {
	return eventInput{
		Title:       formValue(r, "title"),
		Category:    formValue(r, "category"),
		Date:        formValue(r, "date"),
		Time:        formValue(r, "time"),
		Venue:       formValue(r, "venue"),
		Organizer:   formValue(r, "organizer"),
		Description: formValue(r, "description"),
	}
}

func readVacancyForm(r *http.Request) vacancyInput {
	return vacancyInput{
		Title:        formValue(r, "title"),
		Location:     formValue(r, "location"),
		Type:         formValue(r, "type"),
		Description:  formValue(r, "description"),
		Requirements: formList(r, "requirements"),
		Active:       r.FormValue("active") != "",
	}
}

// formErrorMessage turns a validation error into a single flash line.
func formErrorMessage(err error) string {
	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) && apiErr.Details != "" {
		return apiErr.Details
	}
	return err.Error()
}
