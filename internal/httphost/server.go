// Package httphost serves the field builder as server-rendered HTML. Each
// request rebuilds the editor from the posted store, replays the user's event
// on its controls and renders the result.
package httphost

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-fieldbuilder/internal/store"
	"github.com/goliatone/go-fieldbuilder/pkg/editor"
	"github.com/goliatone/go-fieldbuilder/pkg/fieldschema"
	"github.com/goliatone/go-fieldbuilder/pkg/lookup"
	"github.com/goliatone/go-fieldbuilder/pkg/openapi"
	"github.com/goliatone/go-fieldbuilder/pkg/renderers/html"
)

// Button values posted in the action input.
const (
	ActionAdd  = "add"
	ActionType = "type"
	ActionSave = "save"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLookup enables GET /api/lookup backed by fetcher.
func WithLookup(fetcher lookup.Fetcher) Option {
	return func(s *Server) {
		if fetcher != nil {
			s.lookup = lookup.NewUpdater(fetcher, lookup.WithLogger(s.logger))
		}
	}
}

// WithIntro sets the text shown above the builder. Basic markup is kept.
func WithIntro(intro string) Option {
	return func(s *Server) {
		s.intro = intro
	}
}

// Server routes builder requests.
type Server struct {
	store    store.Store
	renderer *html.Renderer
	logger   logrus.FieldLogger
	lookup   *lookup.Updater
	intro    string
	router   *mux.Router
}

// New wires the routes. Options are applied in order, so WithLogger should
// precede WithLookup.
func New(st store.Store, renderer *html.Renderer, opts ...Option) *Server {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	s := &Server{
		store:    st,
		renderer: renderer,
		logger:   logger,
		router:   mux.NewRouter(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/forms", s.handleList).Methods(http.MethodGet)
	r.HandleFunc("/forms/new", s.handleNew).Methods(http.MethodGet)
	r.HandleFunc("/forms/new", s.handleEvent).Methods(http.MethodPost)
	r.HandleFunc("/forms/{id}", s.handleShow).Methods(http.MethodGet)
	r.HandleFunc("/forms/{id}", s.handleEvent).Methods(http.MethodPost)
	r.HandleFunc("/forms/{id}", s.handleDelete).Methods(http.MethodDelete)
	r.HandleFunc("/forms/{id}/delete", s.handleDelete).Methods(http.MethodPost)
	r.HandleFunc("/forms/{id}/schema.json", s.handleSchema).Methods(http.MethodGet)
	r.HandleFunc("/forms/{id}/openapi.{format:json|yaml}", s.handleOpenAPI).Methods(http.MethodGet)
	r.HandleFunc("/api/lookup", s.handleLookup).Methods(http.MethodGet)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.WithField("addr", addr).Info("httphost: listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("httphost: shutting down")
		return srv.Shutdown(context.Background())
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/forms/new", http.StatusSeeOther)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type formSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Fields    int    `json:"fields"`
	UpdatedAt string `json:"updated_at"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	forms, err := s.store.List(r.Context())
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	out := make([]formSummary, len(forms))
	for i, form := range forms {
		out[i] = formSummary{
			ID:        form.ID,
			Title:     form.Title,
			Fields:    len(form.Schema),
			UpdatedAt: form.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	s.renderBuilder(w, r, builderRequest{action: "/forms/new"})
}

func (s *Server) handleShow(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	form, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.failStore(w, r, err)
		return
	}
	s.renderBuilder(w, r, builderRequest{
		id:        form.ID,
		action:    "/forms/" + form.ID,
		formTitle: form.Title,
		initial:   fieldschema.MustEncode(form.Schema),
	})
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	id := mux.Vars(r)["id"]
	action := "/forms/new"
	if id != "" {
		action = "/forms/" + id
	}
	s.renderBuilder(w, r, builderRequest{
		id:        id,
		action:    action,
		formTitle: strings.TrimSpace(r.PostForm.Get(html.InputTitle)),
		initial:   r.PostForm.Get(html.InputStore),
		posted:    true,
	})
}

type builderRequest struct {
	id        string
	action    string
	formTitle string
	initial   string
	posted    bool
}

func (req builderRequest) deleteAction() string {
	if req.id == "" {
		return ""
	}
	return "/forms/" + req.id + "/delete"
}

// renderBuilder constructs an editor over fresh in-memory controls, replays
// the posted event and writes the page. Saving redirects on success.
func (s *Server) renderBuilder(w http.ResponseWriter, r *http.Request, req builderRequest) {
	logger := s.logger.WithField("path", r.URL.Path)

	mem := editor.NewMemory(req.initial)
	pane := html.NewPane(s.renderer)
	controls := mem.Controls()
	controls.Rows = pane

	ed, err := editor.New(controls, editor.WithLogger(logger))
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}

	var notices []string
	if req.posted {
		form := r.PostForm
		mem.Name.SetValue(form.Get(html.InputName))
		mem.Type.Change(form.Get(html.InputType))
		mem.Options.SetValue(form.Get(html.InputOptions))

		switch {
		case form.Has(html.InputRemove):
			index, err := strconv.Atoi(strings.TrimSpace(form.Get(html.InputRemove)))
			if err != nil {
				index = -1
			}
			pane.Remove(index)
		case form.Get(html.InputAction) == ActionAdd:
			mem.Add.Activate()
		case form.Get(html.InputAction) == ActionSave:
			saved, messages, err := s.save(r.Context(), req, ed)
			if err != nil {
				s.fail(w, r, http.StatusInternalServerError, err)
				return
			}
			if messages == nil {
				http.Redirect(w, r, "/forms/"+saved.ID, http.StatusSeeOther)
				return
			}
			notices = append(notices, messages...)
		}
	}
	notices = append(mem.Alerts.Messages(), notices...)

	title := req.formTitle
	if title == "" {
		title = "New form"
	}
	page, err := s.renderer.Page(html.Page{
		Title:          title,
		Intro:          s.intro,
		Action:         req.action,
		FormTitle:      req.formTitle,
		Serialized:     mem.Store.Value(),
		RowsHTML:       pane.HTML(),
		Name:           mem.Name.Value(),
		Type:           mem.Type.Value(),
		Options:        mem.Options.Value(),
		OptionsVisible: mem.OptionsPanel.Visible(),
		Notices:        notices,
		DeleteAction:   req.deleteAction(),
	})
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}

	status := http.StatusOK
	if len(notices) > 0 {
		status = http.StatusUnprocessableEntity
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, page)
}

// save persists the editor's schema. Validation problems come back as
// messages for the page rather than as an error.
func (s *Server) save(ctx context.Context, req builderRequest, ed *editor.Editor) (store.Form, []string, error) {
	if ed.Len() == 0 {
		return store.Form{}, []string{fieldschema.MessageEmptySchema}, nil
	}
	saved, err := s.store.Put(ctx, store.Form{
		ID:     req.id,
		Title:  req.formTitle,
		Schema: ed.Schema(),
	})
	var invalid *store.InvalidFormError
	if errors.As(err, &invalid) {
		return store.Form{}, invalid.Messages, nil
	}
	if err != nil {
		return store.Form{}, nil, err
	}
	s.logger.WithFields(logrus.Fields{"id": saved.ID, "fields": len(saved.Schema)}).Info("httphost: form saved")
	return saved, nil, nil
}

// handleDelete removes a form. The HTML form posts and is redirected to a
// fresh builder; DELETE answers 204.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.failStore(w, r, err)
		return
	}
	s.logger.WithField("id", id).Info("httphost: form deleted")
	if r.Method == http.MethodPost {
		http.Redirect(w, r, "/forms/new", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	form, err := s.store.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.failStore(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, fieldschema.MustEncode(form.Schema))
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	form, err := s.store.Get(r.Context(), vars["id"])
	if err != nil {
		s.failStore(w, r, err)
		return
	}
	result, err := openapi.Export(r.Context(), form.Title, form.Schema,
		openapi.WithPath("/forms/"+form.ID+"/submissions"))
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	if len(result.Duplicates) > 0 {
		s.logger.WithField("names", result.Duplicates).Warn("httphost: duplicate field names in export")
	}

	var body []byte
	contentType := "application/json"
	if vars["format"] == "yaml" {
		body, err = result.YAML()
		contentType = "application/yaml"
	} else {
		body, err = result.JSON()
	}
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(body)
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	if s.lookup == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "lookup not configured"})
		return
	}
	q := r.URL.Query()
	choices := &lookup.Choices{}
	s.lookup.Update(r.Context(), q.Get(lookup.ParamSource), q.Get(lookup.ParamParent), choices)
	writeJSON(w, http.StatusOK, choices.Items)
}

func (s *Server) failStore(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		s.fail(w, r, http.StatusNotFound, err)
		return
	}
	s.fail(w, r, http.StatusInternalServerError, err)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	entry := s.logger.WithError(err).WithFields(logrus.Fields{
		"path":   r.URL.Path,
		"status": status,
	})
	if status >= http.StatusInternalServerError {
		entry.Error("httphost: request failed")
	} else {
		entry.Debug("httphost: request rejected")
	}
	http.Error(w, http.StatusText(status), status)
}
