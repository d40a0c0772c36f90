package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/maastricht-university/moodtrack/mood"
)

const shutdownTimeout = 5 * time.Second

// Timeline is the /timeline response. Chart is nil while there are fewer
// than two entries.
type Timeline struct {
	Entries []mood.Entry      `json:"entries"`
	Chart   *mood.ChartSeries `json:"chart"`
}

// Server exposes the mood state to displays over HTTP.
type Server struct {
	state  *mood.State
	log    logrus.FieldLogger
	router *mux.Router
}

func New(state *mood.State, log logrus.FieldLogger, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		state:  state,
		log:    log.WithField("component", "server"),
		router: mux.NewRouter(),
	}
	s.router.HandleFunc("/mood", s.mood).Methods(http.MethodGet)
	s.router.HandleFunc("/timeline", s.timeline).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("status server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) mood(w http.ResponseWriter, r *http.Request) {
	s.write(w, http.StatusOK, s.state.Status())
}

func (s *Server) timeline(w http.ResponseWriter, r *http.Request) {
	t := Timeline{Entries: s.state.Snapshot()}
	if cs, ok := mood.Chart(t.Entries); ok {
		t.Chart = &cs
	}
	s.write(w, http.StatusOK, t)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if s.state.Status().Degraded {
		http.Error(w, "camera unavailable", http.StatusServiceUnavailable)
		return
	}
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) write(w http.ResponseWriter, status int, v any) {
	if err := writeJSON(w, status, v); err != nil {
		s.log.WithError(err).Debug("write response")
	}
}
