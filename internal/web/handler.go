// Package web renders the countboard page and turns its form posts into page actions.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/shohag/countboard/internal/page"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type Handler struct {
	page *page.Page
	base string
	log  zerolog.Logger
}

// NewHandler serves p. base is the path the routes are mounted under, used in form actions.
func NewHandler(p *page.Page, base string, log zerolog.Logger) *Handler {
	return &Handler{
		page: p,
		base: strings.TrimRight(base, "/"),
		log:  log,
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.Index)
	r.Post("/counter/increment", h.action(h.page.Increment))
	r.Post("/counter/decrement", h.action(h.page.Decrement))
	r.Post("/counter/reset", h.action(h.page.Reset))
	r.Post("/messages", h.Submit)
	r.Post("/messages/clear", h.action(h.page.DeleteAll))
	r.Post("/messages/{id}/delete", h.Delete)
}

type indexData struct {
	Base string
	View page.View
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	// The banner carries a failure; render whatever state we have.
	_ = h.page.Load(r.Context())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, indexData{Base: h.base, View: h.page.View()}); err != nil {
		h.log.Error().Err(err).Msg("failed to render page")
	}
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	content := r.PostFormValue("content")
	h.finish(w, r, h.page.Submit(r.Context(), content))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid message id", http.StatusBadRequest)
		return
	}
	h.finish(w, r, h.page.Delete(r.Context(), id))
}

func (h *Handler) action(fn func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.finish(w, r, fn(r.Context()))
	}
}

// finish redirects back to the page. Action errors are already on the page's banner.
func (h *Handler) finish(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, page.ErrBusy) {
		h.log.Debug().Str("path", r.URL.Path).Msg("rejected action while control is busy")
	}
	http.Redirect(w, r, h.base+"/", http.StatusSeeOther)
}
