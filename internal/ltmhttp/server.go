package ltmhttp

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/simlin/ltm/analysis"
)

// Server is the read-only HTTP front end for one run's Analysis.
type Server struct {
	router     *mux.Router
	httpServer *http.Server
	analysis   *analysis.Analysis
	hub        *Hub
}

// NewServer builds a Server bound to addr, serving a's data, upgrading
// /ws connections via hub, and exposing reg's collectors at /metrics if
// reg is non-nil (§10.5).
func NewServer(addr string, a *analysis.Analysis, hub *Hub, reg *prometheus.Registry) *Server {
	s := &Server{analysis: a, hub: hub, router: mux.NewRouter()}
	s.setupRoutes(reg)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes(reg *prometheus.Registry) {
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/partitions", s.handlePartitions).Methods(http.MethodGet)
	s.router.HandleFunc("/partitions/{id}/loops", s.handleLoops).Methods(http.MethodGet)
	s.router.HandleFunc("/partitions/{id}/dominant", s.handleDominant).Methods(http.MethodGet)
	if s.hub != nil {
		s.router.HandleFunc("/ws", s.hub.ServeWS)
	}
	if reg != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
}

// Router exposes the underlying mux.Router, primarily so tests can drive
// it with httptest without a live listener.
func (s *Server) Router() http.Handler { return s.router }

// Start blocks serving HTTP until the server is shut down.
func (s *Server) Start() error { return s.httpServer.ListenAndServe() }

// Shutdown stops the server immediately, closing its listener and every
// open connection without waiting for in-flight requests to finish.
func (s *Server) Shutdown() error { return s.httpServer.Close() }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "steps": s.analysis.Steps()})
}

func (s *Server) handlePartitions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.analysis.Partitions())
}

func (s *Server) handleLoops(w http.ResponseWriter, r *http.Request) {
	partitionID, step, ok := s.parsePartitionAndStep(w, r)
	if !ok {
		return
	}
	loops, ok := s.analysis.Loops(step, partitionID)
	if !ok {
		writeError(w, http.StatusNotFound, "no data for that step/partition")
		return
	}
	writeJSON(w, http.StatusOK, loops)
}

func (s *Server) handleDominant(w http.ResponseWriter, r *http.Request) {
	partitionID, step, ok := s.parsePartitionAndStep(w, r)
	if !ok {
		return
	}
	dominant, ok := s.analysis.DominantSet(step, partitionID)
	if !ok {
		writeError(w, http.StatusNotFound, "no data for that step/partition")
		return
	}
	writeJSON(w, http.StatusOK, dominant)
}

func (s *Server) parsePartitionAndStep(w http.ResponseWriter, r *http.Request) (partitionID, step int, ok bool) {
	partitionID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid partition id")
		return 0, 0, false
	}
	step = s.analysis.Steps() - 1
	if raw := r.URL.Query().Get("step"); raw != "" {
		step, err = strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid step")
			return 0, 0, false
		}
	}
	return partitionID, step, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
