package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/certwatch/docsite/internal/config"
	"github.com/certwatch/docsite/internal/logfields"
	"github.com/certwatch/docsite/internal/metrics"
	"github.com/certwatch/docsite/internal/render"
	"github.com/certwatch/docsite/internal/version"
)

// buildStatus tracks the current build state for the health endpoint.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	lastBuildAt  time.Time
	hasGoodBuild bool
}

func (bs *buildStatus) setError(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
	bs.lastBuildAt = time.Now()
}

func (bs *buildStatus) setSuccess() {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = nil
	bs.lastBuildAt = time.Now()
	bs.hasGoodBuild = true
}

func (bs *buildStatus) snapshot() (err error, at time.Time, good bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.lastError, bs.lastBuildAt, bs.hasGoodBuild
}

// httpServer serves the rendered site plus health and metrics endpoints.
type httpServer struct {
	cfg     *config.Config
	status  *buildStatus
	locales *render.Locales
	srv     *http.Server
}

func newHTTPServer(cfg *config.Config, status *buildStatus, promRec *metrics.PrometheusRecorder, port int) *httpServer {
	s := &httpServer{
		cfg:     cfg,
		status:  status,
		locales: render.NewLocales(cfg.Site, cfg.Locales),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	if promRec != nil {
		mux.Handle("/metrics", promRec.Handler())
	}

	base := cfg.Site.Base
	if base == "" {
		base = "/"
	}
	files := http.FileServer(http.Dir(cfg.Output.Dir))
	if base != "/" {
		mux.Handle(base, http.StripPrefix(strings.TrimSuffix(base, "/"), files))
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/" {
				http.Redirect(w, r, base, http.StatusFound)
				return
			}
			http.NotFound(w, r)
		})
	} else {
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			// Redirect the site root to the best matching language edition.
			if r.URL.Path == "/" && len(s.cfg.Locales) > 0 {
				if key := s.locales.Match(r.Header.Get("Accept-Language")); key != "root" {
					http.Redirect(w, r, "/"+key+"/", http.StatusFound)
					return
				}
			}
			files.ServeHTTP(w, r)
		})
	}

	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *httpServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	err, at, good := s.status.snapshot()
	resp := map[string]any{
		"status":         "ok",
		"version":        version.Version,
		"has_good_build": good,
	}
	if !at.IsZero() {
		resp["last_build_at"] = at.UTC().Format(time.RFC3339)
	}
	code := http.StatusOK
	if err != nil {
		resp["status"] = "degraded"
		resp["last_error"] = err.Error()
		if !good {
			code = http.StatusServiceUnavailable
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *httpServer) start() {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Preview server failed", logfields.Error(err))
		}
	}()
}

func (s *httpServer) stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
