// Package web serves the browser front end: the upload page and the
// fragments it swaps in for analysis, tab selection, export and reset.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yildizm/MeetSum/internal/client"
	"github.com/yildizm/MeetSum/internal/export"
	"github.com/yildizm/MeetSum/internal/logger"
	"github.com/yildizm/MeetSum/internal/notice"
	"github.com/yildizm/MeetSum/internal/presenter"
)

// multipart overhead allowed on top of the transcript limit
const formOverhead = 1 << 20

var loadingSteps = []string{"Reading transcript", "Extracting insights", "Finalizing"}

// Analyzer uploads a transcript and returns the backend's answer.
type Analyzer interface {
	Analyze(ctx context.Context, up client.Upload) (*client.Response, error)
}

// Options configures a Server.
type Options struct {
	Analyzer       Analyzer
	MaxUploadBytes int64
	SessionTTL     time.Duration

	// PresenterOptions apply to every session's presenter
	PresenterOptions []presenter.Option

	// Registry receives the metrics. A fresh registry is used when nil.
	Registry *prometheus.Registry
	Logger   *logger.Logger
	Now      func() time.Time
}

// Server is the web front end.
type Server struct {
	analyzer  Analyzer
	maxUpload int64
	sessions  *SessionStore
	metrics   *Metrics
	registry  *prometheus.Registry
	log       *logger.Logger
	now       func() time.Time
	router    *chi.Mux
}

// New creates a server and its routes.
func New(opts Options) (*Server, error) {
	if opts.Analyzer == nil {
		return nil, fmt.Errorf("web server requires an analyzer")
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * time.Minute
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = int64(client.DefaultConfig().MaxUploadMB) << 20
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
		opts.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	presenterOpts := append([]presenter.Option{presenter.WithRenderer(presenter.HTMLRenderer{})}, opts.PresenterOptions...)
	sessions := NewSessionStore(opts.SessionTTL, func() *presenter.Presenter {
		return presenter.New(presenterOpts...)
	})
	sessions.now = opts.Now

	s := &Server{
		analyzer:  opts.Analyzer,
		maxUpload: opts.MaxUploadBytes,
		sessions:  sessions,
		metrics:   NewMetrics(opts.Registry),
		registry:  opts.Registry,
		log:       opts.Logger.WithComponent("web"),
		now:       opts.Now,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/help", s.handleHelp)
	r.Post("/analyze", s.handleAnalyze)
	r.Get("/tabs", s.handleTab)
	r.Get("/export", s.handleExport)
	r.Post("/reset", s.handleReset)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweep(ctx, time.Minute)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) sweep(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := s.sessions.Sweep()
			s.metrics.Sessions.Set(float64(n))
			s.log.Debug("session sweep: %d live", n)
		}
	}
}

// requestLogger logs through the component logger and records request metrics.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		s.metrics.RequestsTotal.WithLabelValues(route, r.Method, fmt.Sprint(status)).Inc()
		s.metrics.RequestSeconds.WithLabelValues(route).Observe(elapsed.Seconds())
		s.log.DebugWithFields("request", []logger.Field{
			logger.F("request_id", middleware.GetReqID(r.Context())),
			logger.F("method", r.Method),
			logger.F("route", route),
			logger.F("status", status),
			logger.F("bytes", ww.BytesWritten()),
			logger.Duration(elapsed),
		})
	})
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) *Session {
	sess := s.sessions.Resolve(w, r)
	s.metrics.Sessions.Set(float64(s.sessions.Len()))
	return sess
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	var view pageView
	sess.with(func(p *presenter.Presenter) {
		view = pageView{
			Results:   newResultsView(p),
			Steps:     loadingSteps,
			MaxMB:     int(s.maxUpload >> 20),
			AcceptExt: client.TranscriptExt,
		}
	})
	s.render(w, http.StatusOK, "page", view)
}

func (s *Server) handleHelp(w http.ResponseWriter, _ *http.Request) {
	s.renderNotice(w, http.StatusOK, notice.Help())
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	up, err := s.readUpload(w, r)
	if err != nil {
		s.metrics.AnalysesTotal.WithLabelValues("rejected").Inc()
		s.renderNotice(w, http.StatusBadRequest, notice.TransportFailure(err))
		return
	}

	if !sess.begin() {
		s.metrics.AnalysesTotal.WithLabelValues("busy").Inc()
		s.renderNotice(w, http.StatusConflict, notice.Busy())
		return
	}
	defer sess.end()

	start := time.Now()
	resp, err := s.analyzer.Analyze(r.Context(), up)
	s.metrics.AnalysisSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		status := http.StatusBadGateway
		if client.IsValidation(err) {
			status = http.StatusBadRequest
		}
		s.metrics.AnalysesTotal.WithLabelValues("failed").Inc()
		s.log.WarnWithFields("analysis failed", []logger.Field{
			logger.F("session", sess.ID),
			logger.F("file", up.Filename),
			logger.Error(err),
		})
		s.renderNotice(w, status, notice.TransportFailure(err))
		return
	}

	s.metrics.AnalysesTotal.WithLabelValues("ok").Inc()
	var view resultsView
	sess.with(func(p *presenter.Presenter) {
		p.Ingest(resp.Value)
		view = newResultsView(p)
	})
	s.log.InfoWithFields("analysis complete", []logger.Field{
		logger.F("session", sess.ID),
		logger.F("file", up.Filename),
		logger.Count(len(view.Tabs)),
		logger.Duration(resp.Duration),
	})
	s.render(w, http.StatusOK, "results", view)
}

// readUpload extracts the transcript from the multipart form.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (client.Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+formOverhead)

	file, header, err := r.FormFile(client.FormField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return client.Upload{}, client.TooLarge(s.maxUpload)
		}
		return client.Upload{}, client.NewValidationError(client.FormField, "Please select a file")
	}
	defer func() { _ = file.Close() }()

	return client.ReadUpload(header.Filename, file, s.maxUpload)
}

func (s *Server) handleTab(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	// tab names are free-form section keys, taken verbatim from the query
	q := r.URL.Query()
	if !q.Has("name") {
		s.renderNotice(w, http.StatusBadRequest, notice.Failure("Unknown tab"))
		return
	}
	name := q.Get("name")

	var view resultsView
	sess.with(func(p *presenter.Presenter) {
		p.SelectTab(name)
		view = newResultsView(p)
	})
	s.render(w, http.StatusOK, "results", view)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	var (
		data string
		err  error
	)
	sess.with(func(p *presenter.Presenter) {
		data, err = p.ExportJSON()
	})
	if err != nil {
		s.metrics.ExportsTotal.WithLabelValues("empty").Inc()
		status := http.StatusInternalServerError
		if errors.Is(err, presenter.ErrNothingToExport) {
			status = http.StatusNotFound
		}
		s.renderNotice(w, status, notice.ExportFailure(notice.ActionDownload, err))
		return
	}

	s.metrics.ExportsTotal.WithLabelValues("ok").Inc()
	w.Header().Set("Content-Type", export.MIMEType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": export.Filename(s.now()),
	}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(data))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	var view resultsView
	sess.with(func(p *presenter.Presenter) {
		p.Reset()
		view = newResultsView(p)
	})
	s.render(w, http.StatusOK, "results", view)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}

func (s *Server) renderNotice(w http.ResponseWriter, status int, n notice.Notice) {
	s.render(w, status, "notice", noticeView(n))
}

// render buffers the template so a failure can still produce a clean 500.
func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.log.Error("template %s failed: %v", name, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
