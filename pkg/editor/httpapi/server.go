// Package httpapi serves a workspace of functions over HTTP.
//
// Every stored function can be read, replaced and deleted, drawn as SVG, and
// edited remotely: the server keeps one [editor.Editor] per function and feeds
// it key presses and actions, saving the tree back to the store after every
// change.
//
// Routes:
//
//	GET    /healthz
//	GET    /api/bindings
//	GET    /api/functions
//	GET    /api/functions/{name}
//	PUT    /api/functions/{name}
//	DELETE /api/functions/{name}
//	GET    /api/functions/{name}/svg
//	GET    /api/functions/{name}/state
//	GET    /api/functions/{name}/menu?node=ID
//	POST   /api/functions/{name}/keys      {"keys": ["tab", "d"]}
//	POST   /api/functions/{name}/actions   {"action": "delete", "node": 3}
//	POST   /api/functions/{name}/select    {"node": 3}
//
// Errors are JSON objects {"error": message, "code": CODE}.
package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/kale/pkg/editor"
	"github.com/matzehuels/kale/pkg/errors"
	"github.com/matzehuels/kale/pkg/expr"
	kaleio "github.com/matzehuels/kale/pkg/io"
	"github.com/matzehuels/kale/pkg/render/svg"
	"github.com/matzehuels/kale/pkg/store"
	"github.com/matzehuels/kale/pkg/textmetrics"
	"github.com/matzehuels/kale/pkg/theme"
)

// maxBody caps request bodies.
const maxBody = 4 << 20

// Server is the HTTP API over a function store.
type Server struct {
	store    store.Store
	theme    *theme.Theme
	logger   *log.Logger
	measurer func() textmetrics.Measurer

	mu      sync.Mutex
	editors map[string]*session
}

// session is the live editor of one function.
type session struct {
	mu sync.Mutex
	ed *editor.Editor
}

// Option configures a Server.
type Option func(*Server)

// WithTheme sets the theme used for layout and SVG.
func WithTheme(t *theme.Theme) Option { return func(s *Server) { s.theme = t } }

// WithLogger sets the server logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithMeasurer sets the measurer factory; each editor gets its own measurer.
func WithMeasurer(fn func() textmetrics.Measurer) Option {
	return func(s *Server) { s.measurer = fn }
}

// New creates a server over st.
func New(st store.Store, opts ...Option) *Server {
	s := &Server{
		store:   st,
		theme:   theme.Default(),
		logger:  log.Default(),
		editors: make(map[string]*session),
		measurer: func() textmetrics.Measurer {
			return textmetrics.NewMono(textmetrics.DefaultCell)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(observe)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/api", func(r chi.Router) {
		r.Get("/bindings", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, editor.Bindings())
		})
		r.Get("/functions", s.listFunctions)
		r.Route("/functions/{name}", func(r chi.Router) {
			r.Get("/", s.getFunction)
			r.Put("/", s.putFunction)
			r.Delete("/", s.deleteFunction)
			r.Get("/svg", s.renderFunction)
			r.Get("/state", s.state)
			r.Get("/menu", s.menu)
			r.Post("/keys", s.keys)
			r.Post("/actions", s.actions)
			r.Post("/select", s.selectNode)
		})
	})
	return r
}

// Close drops every live editor.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, sess := range s.editors {
		sess.ed.Close()
		delete(s.editors, name)
	}
}

func (s *Server) listFunctions(w http.ResponseWriter, r *http.Request) {
	fns, err := s.store.List(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	if fns == nil {
		fns = []store.Summary{}
	}
	writeJSON(w, http.StatusOK, fns)
}

func (s *Server) getFunction(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var data []byte
	err := s.withEditor(r.Context(), name, func(ed *editor.Editor) (err error) {
		data, err = kaleio.Marshal(ed.Tree())
		return err
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) putFunction(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	tree, err := kaleio.ReadJSON(io.LimitReader(r.Body, maxBody))
	if err != nil {
		s.fail(w, err)
		return
	}
	if err := s.store.Put(r.Context(), name, tree); err != nil {
		s.fail(w, err)
		return
	}
	s.forget(name)
	writeJSON(w, http.StatusOK, map[string]string{"name": name})
}

func (s *Server) deleteFunction(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.store.Delete(r.Context(), name); err != nil {
		s.fail(w, err)
		return
	}
	s.forget(name)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) renderFunction(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var data []byte
	err := s.withEditor(r.Context(), name, func(ed *editor.Editor) error {
		opts := []svg.Option{svg.WithTheme(s.theme), svg.WithTitle(name), svg.WithHighlights(ed.Highlights()...)}
		if r.URL.Query().Get("debug") != "" || ed.Debug() {
			opts = append(opts, svg.WithDebug())
		}
		data = svg.RenderSVG(ed.Layout(), opts...)
		return nil
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(data)
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, func(*editor.Editor) error { return nil })
}

func (s *Server) menu(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var items []editor.MenuItem
	err := s.withEditor(r.Context(), name, func(ed *editor.Editor) error {
		id := ed.Selection()
		if q := r.URL.Query().Get("node"); q != "" {
			n, err := strconv.ParseUint(q, 10, 64)
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "bad node id %q", q)
			}
			id = expr.ID(n)
		}
		if items = ed.Menu(id); items == nil {
			return errors.New(errors.ErrCodeNotFound, "node %d not found", uint64(id))
		}
		return nil
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type keysRequest struct {
	Keys []string `json:"keys"`
}

func (s *Server) keys(w http.ResponseWriter, r *http.Request) {
	var req keysRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.respond(w, r, func(ed *editor.Editor) error {
		for _, k := range req.Keys {
			if _, err := ed.HandleKey(k); err != nil {
				return err
			}
		}
		return nil
	})
}

type actionRequest struct {
	Action editor.Action `json:"action"`
	// Node defaults to the selection.
	Node expr.ID `json:"node,omitempty"`
}

func (s *Server) actions(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.respond(w, r, func(ed *editor.Editor) error {
		if req.Node == 0 {
			return ed.Do(req.Action)
		}
		return ed.DoAt(req.Action, req.Node)
	})
}

type selectRequest struct {
	Node expr.ID `json:"node"`
}

func (s *Server) selectNode(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.respond(w, r, func(ed *editor.Editor) error {
		if !ed.Select(req.Node) {
			return errors.New(errors.ErrCodeNotFound, "node %d not found", uint64(req.Node))
		}
		return nil
	})
}

// State is the editor state returned by the editing endpoints.
type State struct {
	Name      string     `json:"name"`
	Tree      string     `json:"tree"`
	Selection expr.ID    `json:"selection"`
	Label     string     `json:"label"`
	Editing   *EditState `json:"editing,omitempty"`
	Popover   expr.ID    `json:"popover,omitempty"`
	Clipboard []string   `json:"clipboard"`
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
}

// EditState describes an open inline editor.
type EditState struct {
	Target expr.ID `json:"target"`
	Field  string  `json:"field"`
	Value  string  `json:"value"`
}

func snapshot(ed *editor.Editor) State {
	tree := ed.Tree()
	sel := ed.Selection()
	st := State{
		Name:      ed.Name(),
		Tree:      expr.Format(tree),
		Selection: sel,
		Clipboard: []string{},
		Width:     ed.Layout().Size.W,
		Height:    ed.Layout().Size.H,
	}
	if n, ok := expr.Find(tree, sel); ok {
		st.Label = expr.Label(n)
	}
	if e, ok := ed.Editing(); ok {
		field := "value"
		if e.Field == editor.FieldComment {
			field = "comment"
		}
		st.Editing = &EditState{Target: e.Target, Field: field, Value: e.Value}
	}
	if id, ok := ed.Popover(); ok {
		st.Popover = id
	}
	for _, x := range ed.Clipboard().Items() {
		st.Clipboard = append(st.Clipboard, expr.Format(x))
	}
	return st
}

// respond runs fn on the editor of the named function, saves the tree when
// fn changed it, and writes the resulting state.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, fn func(*editor.Editor) error) {
	name := chi.URLParam(r, "name")
	var st State
	err := s.withEditor(r.Context(), name, func(ed *editor.Editor) error {
		before := ed.Tree()
		err := fn(ed)
		if ed.Tree() != before {
			if perr := s.store.Put(r.Context(), name, ed.Tree()); perr != nil {
				return perr
			}
		}
		st = snapshot(ed)
		return err
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// withEditor runs fn holding the lock of the function's editor, opening the
// editor from the store on first use.
func (s *Server) withEditor(ctx context.Context, name string, fn func(*editor.Editor) error) error {
	sess, err := s.open(ctx, name)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess.ed)
}

func (s *Server) open(ctx context.Context, name string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.editors[name]; ok {
		return sess, nil
	}
	f, err := s.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	ed, err := editor.New(f.Tree,
		editor.WithName(name),
		editor.WithLogger(s.logger),
		editor.WithTheme(s.theme),
		editor.WithMeasurer(s.measurer()),
	)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("opened editor", "function", name, "editor", ed.ID())
	sess := &session{ed: ed}
	s.editors[name] = sess
	return sess, nil
}

// forget drops the live editor of name so the next request reloads it.
func (s *Server) forget(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.editors[name]; ok {
		sess.ed.Close()
		delete(s.editors, name)
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(v); err != nil {
		s.fail(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, map[string]string{"error": errors.UserMessage(err), "code": string(code)})
}

// statusOf maps error codes to HTTP status codes.
func statusOf(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidName, errors.ErrCodeInvalidTheme:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFunctionNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
