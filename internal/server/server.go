// Package server exposes the simulation engine and config storage over HTTP:
// JSON endpoints for one-shot runs and saved configurations, a websocket
// session for live recompute, plus health and Prometheus metrics.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/cjllanwarne/payoff-calculator/internal/amortize"
	"github.com/cjllanwarne/payoff-calculator/internal/domain"
	"github.com/cjllanwarne/payoff-calculator/internal/observability"
	"github.com/cjllanwarne/payoff-calculator/internal/simulation"
	"github.com/cjllanwarne/payoff-calculator/internal/storage"
)

// Options configures a Server.
type Options struct {
	ConfigStore storage.ConfigStore
	RunStore    storage.RunStore
	PointStore  storage.MonthlyPointStore
	Runner      *simulation.Runner
	Logger      *log.Logger
}

// Server handles HTTP requests for simulations and saved configurations.
type Server struct {
	configStore storage.ConfigStore
	runStore    storage.RunStore
	pointStore  storage.MonthlyPointStore
	runner      *simulation.Runner
	logger      *log.Logger
	now         func() time.Time // Injectable clock for deterministic output
}

// NewServer creates a new Server.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		configStore: opts.ConfigStore,
		runStore:    opts.RunStore,
		pointStore:  opts.PointStore,
		runner:      opts.Runner,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (s *Server) WithClock(now func() time.Time) *Server {
	s.now = now
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /simulate", s.handleSimulate)
	mux.HandleFunc("POST /configs", s.handleSaveConfig)
	mux.HandleFunc("GET /configs", s.handleListConfigs)
	mux.HandleFunc("GET /configs/{name}", s.handleGetConfig)
	mux.HandleFunc("GET /runs", s.handleListRuns)
	mux.HandleFunc("GET /runs/{id}", s.handleGetRun)
	mux.HandleFunc("GET /runs/{id}/points", s.handleGetRunPoints)
	mux.HandleFunc("GET /ws", s.handleWS)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", observability.Handler())

	return mux
}

// simulateRequest is the body of POST /simulate.
type simulateRequest struct {
	Name    string        `json:"name"`
	Config  domain.Config `json:"config"`
	LumpSum float64       `json:"lump_sum"`
}

// simulateResponse bundles the run record and the full series.
type simulateResponse struct {
	Run    *domain.SimulationRun    `json:"run"`
	Result *domain.SimulationResult `json:"result"`
}

// handleSimulate runs a simulation and persists the outcome.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	start := s.now()

	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		s.writeError(w, r, http.StatusBadRequest, "name is required")
		return
	}

	run, result, err := s.runner.Run(r.Context(), req.Name, req.Config, req.LumpSum)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrDuplicateKey):
			observability.RecordSimulation("duplicate", 0, s.now().Sub(start).Seconds())
			s.writeError(w, r, http.StatusConflict, "run already recorded")
		case isInvalidInput(err):
			observability.RecordSimulation("invalid", 0, s.now().Sub(start).Seconds())
			s.writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		default:
			s.logger.Printf("simulate failed: %v", err)
			observability.RecordSimulation("error", 0, s.now().Sub(start).Seconds())
			s.writeError(w, r, http.StatusInternalServerError, "simulation failed")
		}
		return
	}

	observability.RecordSimulation("success", run.Months, s.now().Sub(start).Seconds())
	observability.RecordSuccessfulRun(s.now().Unix())
	s.writeJSON(w, r, http.StatusCreated, simulateResponse{Run: run, Result: result})
}

// handleSaveConfig saves a named configuration revision, stamping the
// save time server-side.
func (s *Server) handleSaveConfig(w http.ResponseWriter, r *http.Request) {
	var req domain.NamedConfig
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		s.writeError(w, r, http.StatusBadRequest, "name is required")
		return
	}
	req.SavedAt = s.now().UnixMilli()

	if err := s.configStore.Save(r.Context(), &req); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			s.writeError(w, r, http.StatusConflict, "revision already saved")
			return
		}
		s.logger.Printf("save config failed: %v", err)
		s.writeError(w, r, http.StatusInternalServerError, "save failed")
		return
	}

	observability.RecordConfigSaved()
	s.writeJSON(w, r, http.StatusCreated, req)
}

// handleListConfigs lists every saved configuration revision.
func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.configStore.List(r.Context())
	if err != nil {
		s.logger.Printf("list configs failed: %v", err)
		s.writeError(w, r, http.StatusInternalServerError, "list failed")
		return
	}
	if configs == nil {
		configs = []*domain.NamedConfig{}
	}
	s.writeJSON(w, r, http.StatusOK, configs)
}

// handleGetConfig returns the latest revision for a name.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	cfg, err := s.configStore.GetLatestByName(r.Context(), name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.writeError(w, r, http.StatusNotFound, "config not found")
			return
		}
		s.logger.Printf("get config failed: %v", err)
		s.writeError(w, r, http.StatusInternalServerError, "get failed")
		return
	}

	observability.RecordConfigLoaded()
	s.writeJSON(w, r, http.StatusOK, cfg)
}

// handleListRuns lists all recorded runs.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.runStore.List(r.Context())
	if err != nil {
		s.logger.Printf("list runs failed: %v", err)
		s.writeError(w, r, http.StatusInternalServerError, "list failed")
		return
	}
	if runs == nil {
		runs = []*domain.SimulationRun{}
	}
	s.writeJSON(w, r, http.StatusOK, runs)
}

// handleGetRun returns one run record by ID.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")

	run, err := s.runStore.GetByID(r.Context(), runID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.writeError(w, r, http.StatusNotFound, "run not found")
			return
		}
		s.logger.Printf("get run failed: %v", err)
		s.writeError(w, r, http.StatusInternalServerError, "get failed")
		return
	}
	s.writeJSON(w, r, http.StatusOK, run)
}

// handleGetRunPoints returns a run's monthly series, optionally bounded by
// ?start= and ?end= month indexes.
func (s *Server) handleGetRunPoints(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")

	startParam := r.URL.Query().Get("start")
	endParam := r.URL.Query().Get("end")

	var points []*domain.MonthlyPoint
	var err error
	if startParam != "" || endParam != "" {
		start, end, perr := parseMonthRange(startParam, endParam)
		if perr != nil {
			s.writeError(w, r, http.StatusBadRequest, perr.Error())
			return
		}
		points, err = s.pointStore.GetByMonthRange(r.Context(), runID, start, end)
	} else {
		points, err = s.pointStore.GetByRunID(r.Context(), runID)
	}
	if err != nil {
		s.logger.Printf("get run points failed: %v", err)
		s.writeError(w, r, http.StatusInternalServerError, "get failed")
		return
	}
	if points == nil {
		points = []*domain.MonthlyPoint{}
	}
	s.writeJSON(w, r, http.StatusOK, points)
}

// parseMonthRange parses optional start/end query values. A missing start
// defaults to 0; a missing end defaults to the largest int.
func parseMonthRange(startParam, endParam string) (int, int, error) {
	start := 0
	end := int(^uint(0) >> 1)

	var err error
	if startParam != "" {
		start, err = strconv.Atoi(startParam)
		if err != nil || start < 0 {
			return 0, 0, errors.New("invalid start month")
		}
	}
	if endParam != "" {
		end, err = strconv.Atoi(endParam)
		if err != nil || end < start {
			return 0, 0, errors.New("invalid end month")
		}
	}
	return start, end, nil
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	observability.RecordHTTPRequest(r.URL.Path, strconv.Itoa(code), 0)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	observability.RecordHTTPRequest(r.URL.Path, strconv.Itoa(code), 0)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Printf("encode response: %v", err)
	}
}

// isInvalidInput reports whether err is a validation failure from any layer.
func isInvalidInput(err error) bool {
	return errors.Is(err, storage.ErrInvalidInput) || errors.Is(err, amortize.ErrInvalidInput)
}
