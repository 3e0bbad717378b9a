// Package api serves the latest tick record as JSON over HTTP. The server is
// a renderer: the kernel pushes a record each tick and handlers read the most
// recent one.
package api

import (
	"encoding/json"
	"log"
	"math"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"gitlab.com/akita/vmsim/kernel"
	"gitlab.com/akita/vmsim/profiler"
)

// A Server publishes kernel statistics at /api/memory, /api/access, and
// /api/processes.
type Server struct {
	mu   sync.Mutex
	rec  kernel.TickRecord
	seen bool

	router *mux.Router
	server *http.Server
}

// NewServer creates a Server listening on addr. Call Start to begin serving.
func NewServer(addr string) *Server {
	s := &Server{
		router: mux.NewRouter(),
	}

	s.router.HandleFunc("/api/memory", s.handleMemory).Methods(http.MethodGet)
	s.router.HandleFunc("/api/access", s.handleAccess).Methods(http.MethodGet)
	s.router.HandleFunc("/api/processes", s.handleProcesses).
		Methods(http.MethodGet)

	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	return s
}

// Render stores the record for the handlers to serve.
func (s *Server) Render(rec kernel.TickRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rec = rec
	s.seen = true
}

// Start begins serving in a background goroutine.
func (s *Server) Start() {
	go func() {
		err := s.server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Panic(err)
		}
	}()
}

// Shutdown stops the server without waiting for in-flight requests.
func (s *Server) Shutdown() {
	s.server.Close()
}

// Router returns the request router, mainly for tests.
func (s *Server) Router() *mux.Router {
	return s.router
}

func (s *Server) snapshot() (kernel.TickRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rec, s.seen
}

func (s *Server) handleMemory(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.snapshot()
	if !ok {
		noTickYet(w)
		return
	}

	writeJSON(w, rec.Memory)
}

func (s *Server) handleAccess(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.snapshot()
	if !ok {
		noTickYet(w)
		return
	}

	writeJSON(w, sanitize(rec.Access))
}

func (s *Server) handleProcesses(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.snapshot()
	if !ok {
		noTickYet(w)
		return
	}

	procs := rec.Processes
	if procs == nil {
		procs = []kernel.ProcessStats{}
	}
	writeJSON(w, procs)
}

// sanitize replaces NaN rates, which appear before any access is counted,
// with zero so the snapshot stays JSON-encodable.
func sanitize(s profiler.Snapshot) profiler.Snapshot {
	if math.IsNaN(s.FaultRate) {
		s.FaultRate = 0
	}
	if math.IsNaN(s.ReplacementRate) {
		s.ReplacementRate = 0
	}
	return s
}

func noTickYet(w http.ResponseWriter) {
	http.Error(w, "no tick published yet", http.StatusServiceUnavailable)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		log.Panic(err)
	}
}
