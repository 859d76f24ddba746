package api

import (
	"bytes"
	"embed"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

//go:embed templates/*.html
var templateFS embed.FS

const flashCookieName = "portal_flash"

// flash is a one-shot message shown on the next rendered page.
type flash struct {
	Category string `json:"c"`
	Message  string `json:"m"`
}

type pageData struct {
	Title    string
	Flash    *flash
	SignedIn bool
	Data     any
}

type pages struct {
	templates map[string]*template.Template
	markdown  goldmark.Markdown
	logger    zerolog.Logger
}

func newPages(logger zerolog.Logger) (*pages, error) {
	p := &pages{
		templates: map[string]*template.Template{},
		markdown:  goldmark.New(goldmark.WithRendererOptions(gmhtml.WithHardWraps())),
		logger:    logger,
	}

	funcs := template.FuncMap{
		"markdown": p.renderMarkdown,
		"date":     func(t time.Time) string { return t.Format("2006-01-02 15:04") },
		"join":     func(items []string) string { return strings.Join(items, ", ") },
		"lines":    func(items []string) string { return strings.Join(items, "\n") },
	}

	for _, set := range []struct{ glob, layout string }{
		{"templates/admin_*.html", "templates/layout_admin.html"},
		{"templates/site_*.html", "templates/layout_site.html"},
	} {
		files, err := fs.Glob(templateFS, set.glob)
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			t, err := template.New(path.Base(set.layout)).Funcs(funcs).ParseFS(templateFS, set.layout, file)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", file, err)
			}
			p.templates[path.Base(file)] = t
		}
	}
	return p, nil
}

// renderMarkdown converts stored descriptions to HTML. Raw HTML in the
// source is dropped by goldmark's default renderer.
func (p *pages) renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := p.markdown.Convert([]byte(src), &buf); err != nil {
		p.logger.Warn().Err(err).Msg("markdown conversion failed")
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

func (p *pages) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	t, ok := p.templates[name]
	if !ok {
		p.logger.Error().Str("template", name).Msg("unknown template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	_, signedIn := ctxGetIdentity(r.Context())
	page := pageData{
		Title:    title,
		Flash:    popFlash(w, r),
		SignedIn: signedIn,
		Data:     data,
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", page); err != nil {
		p.logger.Error().Err(err).Str("template", name).Msg("error rendering template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		p.logger.Error().Err(err).Msg("error writing page")
	}
}

func (p *pages) notFound(w http.ResponseWriter, r *http.Request, admin bool) {
	name := "site_error.html"
	if admin {
		name = "admin_error.html"
	}
	p.render(w, r, http.StatusNotFound, name, "Not found", "The page you are looking for does not exist.")
}

func (p *pages) serverError(w http.ResponseWriter, r *http.Request, admin bool, err error) {
	p.logger.Error().Err(err).Str("path", r.URL.Path).Msg("page failed")
	name := "site_error.html"
	if admin {
		name = "admin_error.html"
	}
	p.render(w, r, http.StatusInternalServerError, name, "Error", "Something went wrong. Please try again.")
}

// redirectWithFlash stores a flash message and sends a 303 to location.
func redirectWithFlash(w http.ResponseWriter, r *http.Request, location, category, message string) {
	setFlash(w, category, message)
	http.Redirect(w, r, location, http.StatusSeeOther)
}

func setFlash(w http.ResponseWriter, category, message string) {
	raw, err := json.Marshal(flash{Category: category, Message: message})
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash reads the pending flash message and clears the cookie.
func popFlash(w http.ResponseWriter, r *http.Request) *flash {
	c, err := r.Cookie(flashCookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var f flash
	if err := json.Unmarshal(raw, &f); err != nil || f.Message == "" {
		return nil
	}
	return &f
}
