// Package server exposes a dashboard session over HTTP: the page, the apply
// action and read-only JSON views of the payload and charts.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mwiater/mtdash/internal/chart"
	"github.com/mwiater/mtdash/internal/dashboard"
	"github.com/mwiater/mtdash/internal/results"
)

// Options configures a Server.
type Options struct {
	Title          string
	MaxUploadBytes int64
	AllowedOrigins []string
}

// Server serves one dashboard session.
type Server struct {
	opts    Options
	doc     *dashboard.Document
	engine  *chart.ChartJSEngine
	notices *dashboard.Notices
	session *dashboard.Session
}

// ErrResp is the body of JSON error responses.
type ErrResp struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// New builds a server whose session already shows the sample.
func New(opts Options) (*Server, error) {
	s := &Server{
		opts:    opts,
		doc:     dashboard.NewDocument(),
		engine:  chart.NewChartJSEngine(),
		notices: &dashboard.Notices{},
	}
	s.session = dashboard.NewSession(s.doc, s.engine, s.notices)
	if err := s.session.ApplySample(); err != nil {
		return nil, err
	}
	return s, nil
}

// Session returns the session behind the server.
func (s *Server) Session() *dashboard.Session {
	return s.session
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/", s.handleIndex)
	r.Post("/apply", s.handleApply)

	r.Route("/api", func(r chi.Router) {
		if len(s.opts.AllowedOrigins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: s.opts.AllowedOrigins,
				AllowedMethods: []string{http.MethodGet},
				MaxAge:         300,
			}))
		}
		r.Get("/payload", s.handlePayload)
		r.Get("/charts", s.handleCharts)
	})
	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	notices := s.notices.Drain()
	var data dashboard.PageData
	err := s.session.Read(func(_ *results.Payload, state dashboard.State) error {
		var err error
		data, err = dashboard.BuildPage(s.opts.Title, s.doc, s.engine, notices, "/apply", state)
		return err
	})
	if err != nil {
		log.Printf("page build error: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboard.RenderPage(w, data); err != nil {
		log.Printf("page render error: %v", err)
	}
}

// handleApply is the apply button. Every outcome ends on the page; failures
// reach the user as notices rather than HTTP errors.
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	file, err := s.selectedFile(w, r)
	if err != nil {
		log.Printf("apply form error: %v", err)
		s.notices.Notify("error reading upload: " + err.Error())
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	select {
	case err := <-s.session.Trigger(r.Context(), file):
		if err != nil {
			log.Printf("apply failed: %v", err)
		}
	case <-r.Context().Done():
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// selectedFile returns the uploaded file, or nil when none was chosen.
func (s *Server) selectedFile(w http.ResponseWriter, r *http.Request) (dashboard.FileSource, error) {
	limit := s.opts.MaxUploadBytes
	if limit <= 0 {
		limit = 8 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	files := r.MultipartForm.File["file"]
	if len(files) == 0 || files[0].Filename == "" {
		return nil, nil
	}
	return upload{files[0]}, nil
}

type upload struct {
	header *multipart.FileHeader
}

func (u upload) Name() string { return u.header.Filename }

func (u upload) Open() (io.ReadCloser, error) { return u.header.Open() }

func (s *Server) handlePayload(w http.ResponseWriter, _ *http.Request) {
	var body map[string]any
	_ = s.session.Read(func(p *results.Payload, state dashboard.State) error {
		if p != nil {
			body = map[string]any{"state": state.String(), "payload": *p}
		}
		return nil
	})
	if body == nil {
		writeJSON(w, http.StatusNotFound, ErrResp{OK: false, Error: "nothing applied yet"})
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleCharts(w http.ResponseWriter, _ *http.Request) {
	var configs map[string]chart.ChartJSConfig
	_ = s.session.Read(func(*results.Payload, dashboard.State) error {
		configs = s.engine.Configs()
		return nil
	})
	writeJSON(w, http.StatusOK, configs)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Run serves handler on addr until ctx is cancelled, then shuts down
// gracefully.
func Run(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Println("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		log.Println("server stopped")
		return nil
	}
}
