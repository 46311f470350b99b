// Package server exposes stepwise Fortune sweeps over HTTP: a demo page that
// draws a diagram, and a JSON API driving one sweep per session.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/0x0FACED/fortune-sweep/pkg/config"
	"github.com/0x0FACED/fortune-sweep/pkg/logger"
	"github.com/0x0FACED/fortune-sweep/pkg/render"
	"github.com/0x0FACED/fortune-sweep/pkg/sitegen"
	"github.com/0x0FACED/fortune-sweep/pkg/voronoi"
	"github.com/0x0FACED/fortune-sweep/static"
)

// maxBodyBytes bounds a create request, enough for the largest site list.
const maxBodyBytes = 1 << 20

type Server struct {
	cfg config.Config
	log *logger.ZapLogger
	now func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*session
}

// session is one sweep driven through the API. Its mutex serialises steps,
// lastUsed is guarded by the server mutex.
type session struct {
	mu       sync.Mutex
	sweep    *voronoi.Sweep
	bbox     voronoi.BoundingBox
	created  time.Time
	lastUsed time.Time
}

func New(cfg config.Config, log *logger.ZapLogger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		cfg:      cfg,
		log:      log,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*session),
	}
}

// Router wires every route of the server.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.loggingMiddleware)

	r.Get("/", s.diagramPage)
	r.Post("/", s.diagramPage)
	r.Get("/sessions/{id}/chart", s.sessionChart)

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.createSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)
			r.Post("/step", s.stepSession)
			r.Post("/run", s.runSession)
		})
	})
	return r
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.statusCode = code
	rec.ResponseWriter.WriteHeader(code)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("[http] Request served",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.statusCode),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type createRequest struct {
	Sites     []voronoi.Vertex  `json:"sites"`
	Generator *generatorRequest `json:"generator"`
}

type generatorRequest struct {
	Mode   string  `json:"mode"`
	Count  int     `json:"count"`
	Seed   int64   `json:"seed"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type createResponse struct {
	ID    uuid.UUID `json:"id"`
	State Snapshot  `json:"state"`
}

// sites resolves the request into sites and the box they are drawn in.
func (s *Server) sites(req createRequest) ([]voronoi.Vertex, voronoi.BoundingBox, error) {
	limit := s.cfg.Server.MaxSites
	if len(req.Sites) > limit {
		return nil, voronoi.BoundingBox{}, fmt.Errorf("too many sites: %d, at most %d", len(req.Sites), limit)
	}
	if len(req.Sites) > 0 {
		return req.Sites, boundsOf(req.Sites), nil
	}

	g := config.Generator{Mode: s.cfg.Generator.Mode, Count: s.cfg.Generator.Count, Seed: s.cfg.Generator.Seed}
	width, height := s.cfg.Viewport.Width, s.cfg.Viewport.Height
	if req.Generator != nil {
		g = config.Generator{Mode: req.Generator.Mode, Count: req.Generator.Count, Seed: req.Generator.Seed}
		if req.Generator.Width > 0 {
			width = req.Generator.Width
		}
		if req.Generator.Height > 0 {
			height = req.Generator.Height
		}
	}
	if err := g.Validate(); err != nil {
		return nil, voronoi.BoundingBox{}, err
	}
	if g.Count > limit {
		return nil, voronoi.BoundingBox{}, fmt.Errorf("too many sites: generator.count %d, at most %d", g.Count, limit)
	}
	return sitegen.Generate(g.Mode, g.Count, width, height, g.Seed), voronoi.NewBoundingBox(0, width, 0, height), nil
}

// boundsOf pads the extent of the sites by a tenth on every side.
func boundsOf(sites []voronoi.Vertex) voronoi.BoundingBox {
	b := voronoi.NewBoundingBox(sites[0].X, sites[0].X, sites[0].Y, sites[0].Y)
	for _, p := range sites[1:] {
		b.Xl, b.Xr = min(b.Xl, p.X), max(b.Xr, p.X)
		b.Yt, b.Yb = min(b.Yt, p.Y), max(b.Yb, p.Y)
	}
	pad := max(1, (b.Xr-b.Xl)/10, (b.Yb-b.Yt)/10)
	return voronoi.NewBoundingBox(b.Xl-pad, b.Xr+pad, b.Yt-pad, b.Yb+pad)
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	sites, bbox, err := s.sites(req)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := uuid.New()
	sw, err := voronoi.Initialize(sites, voronoi.WithLogger(s.log.With(zap.Stringer("session", id))))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := s.now()
	sess := &session{sweep: sw, bbox: bbox, created: now, lastUsed: now}
	s.register(id, sess)

	s.log.Info("[http] Session created", zap.Stringer("session", id), zap.Int("sites", len(sw.Sites())))
	writeJSON(w, http.StatusCreated, createResponse{ID: id, State: snapshotOf(sw)})
}

// register stores the session. Expired sessions are dropped first, then the
// least recently used ones until a slot is free.
func (s *Server) register(id uuid.UUID, sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for old, o := range s.sessions {
		if s.expired(o, now) {
			delete(s.sessions, old)
			s.log.Info("[http] Session expired", zap.Stringer("session", old), zap.Duration("idle", now.Sub(o.lastUsed)))
		}
	}
	for len(s.sessions) > 0 && len(s.sessions) >= s.cfg.Server.MaxSessions {
		var (
			victim uuid.UUID
			oldest *session
		)
		for old, o := range s.sessions {
			if oldest == nil || o.lastUsed.Before(oldest.lastUsed) {
				victim, oldest = old, o
			}
		}
		delete(s.sessions, victim)
		s.log.Info("[http] Session evicted", zap.Stringer("session", victim), zap.Duration("idle", now.Sub(oldest.lastUsed)))
	}
	s.sessions[id] = sess
}

func (s *Server) expired(sess *session, now time.Time) bool {
	ttl := s.cfg.Server.SessionTTL
	return ttl > 0 && now.Sub(sess.lastUsed) > ttl
}

// lookup resolves the {id} parameter, writing the error response itself.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (uuid.UUID, *session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid session id")
		return uuid.Nil, nil, false
	}

	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		now := s.now()
		if s.expired(sess, now) {
			delete(s.sessions, id)
			ok = false
		} else {
			sess.lastUsed = now
		}
	}
	s.mu.Unlock()
	if !ok {
		writeJSONError(w, http.StatusNotFound, "session not found")
		return id, nil, false
	}
	return id, sess, true
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	_, sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	writeJSON(w, http.StatusOK, snapshotOf(sess.sweep))
}

func (s *Server) stepSession(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	err := sess.sweep.Step()
	switch {
	case errors.Is(err, voronoi.ErrSweepDone):
		writeJSONError(w, http.StatusConflict, err.Error())
	case err != nil:
		s.log.Error("[http] Step failed", zap.Stringer("session", id), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, snapshotOf(sess.sweep))
	default:
		writeJSON(w, http.StatusOK, snapshotOf(sess.sweep))
	}
}

func (s *Server) runSession(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.sweep.Run(); err != nil {
		s.log.Error("[http] Run failed", zap.Stringer("session", id), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, snapshotOf(sess.sweep))
		return
	}
	writeJSON(w, http.StatusOK, snapshotOf(sess.sweep))
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	s.log.Info("[http] Session deleted", zap.Stringer("session", id), zap.Duration("age", s.now().Sub(sess.created)))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) sessionChart(w http.ResponseWriter, r *http.Request) {
	_, sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	sess.mu.Lock()
	frame := render.FromSweep(sess.sweep, sess.bbox)
	sess.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.WriteHTML(w, frame); err != nil {
		s.log.Error("[http] Chart rendering failed", zap.Error(err))
	}
}

// diagramPage draws a diagram from the form values along with the sweep logs.
func (s *Server) diagramPage(w http.ResponseWriter, r *http.Request) {
	values := static.FormValues{
		Width:  int(s.cfg.Viewport.Width),
		Height: int(s.cfg.Viewport.Height),
		Sites:  s.cfg.Generator.Count,
		Random: s.cfg.Generator.Mode == config.GeneratorRandom,
		Seed:   s.cfg.Generator.Seed,
	}
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		values.Width = formInt(r, "width", values.Width)
		values.Height = formInt(r, "height", values.Height)
		values.Sites = formInt(r, "sites", values.Sites)
		values.Steps = formInt(r, "steps", 0)
		values.Random = r.FormValue("random") == "true"
		values.Seed = int64(formInt(r, "seed", int(values.Seed)))
	}
	values.Width = max(1, values.Width)
	values.Height = max(1, values.Height)
	values.Sites = min(values.Sites, s.cfg.Server.MaxSites)

	mode := config.GeneratorGrid
	if values.Random {
		mode = config.GeneratorRandom
	}
	sites := sitegen.Generate(mode, values.Sites, float64(values.Width), float64(values.Height), values.Seed)
	bbox := voronoi.NewBoundingBox(0, float64(values.Width), 0, float64(values.Height))

	level := zapcore.DebugLevel
	if values.Sites > 200 {
		level = zapcore.InfoLevel
	}
	pageLog := logger.New(logger.Options{Level: level, Capture: true})
	defer pageLog.ClearLogs()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintln(w, static.Head)
	if err := static.WriteForm(w, values); err != nil {
		s.log.Error("[http] Form rendering failed", zap.Error(err))
	}

	sw, err := voronoi.Initialize(sites, voronoi.WithLogger(pageLog))
	if err == nil {
		if values.Steps > 0 {
			for i := 0; i < values.Steps && !sw.Done() && err == nil; i++ {
				err = sw.Step()
			}
		} else {
			err = sw.Run()
		}
	}
	if err != nil {
		fmt.Fprintf(w, "<p class=\"error\">%s</p>\n", html.EscapeString(err.Error()))
	}
	if sw != nil {
		if err := render.WriteHTML(w, render.FromSweep(sw, bbox)); err != nil {
			s.log.Error("[http] Chart rendering failed", zap.Error(err))
		}
	}

	fmt.Fprintln(w, static.Logs)
	fmt.Fprintln(w, pageLog.HTML())
	fmt.Fprintln(w, static.Foot)
}

func formInt(r *http.Request, key string, fallback int) int {
	v, err := strconv.Atoi(r.FormValue(key))
	if err != nil {
		return fallback
	}
	return v
}
