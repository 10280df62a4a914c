package uiapi

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/mfaller/shadetemp/internal/engine"
	"github.com/mfaller/shadetemp/internal/solar"
	"github.com/mfaller/shadetemp/internal/store"
	"github.com/mfaller/shadetemp/internal/weather"
)

// maxPreviewSamples bounds the example adjustments returned by a preview.
const maxPreviewSamples = 20

type Server struct {
	store *store.Store
	log   *zap.SugaredLogger
}

func NewServer(st *store.Store, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Server{store: st, log: log}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
		r.Post("/preview", s.handlePreview)
	})

	return r
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	runs, err := s.store.ListRuns(limit)
	if err != nil {
		s.log.Errorw("listing runs", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	run, err := s.store.GetRun(id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		s.log.Errorw("getting run", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get run")
		return
	}

	facades, err := s.store.GetRunFacades(id)
	if err != nil {
		s.log.Errorw("getting run facades", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get run facades")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"run":     run,
		"facades": facades,
	})
}

type previewRequest struct {
	WeatherFile string  `json:"weather_file"`
	SolarFile   string  `json:"solar_file"`
	Threshold   float64 `json:"threshold"`
	DeltaT      float64 `json:"delta_t"`
}

// handlePreview runs the full matching pass over the given files without
// writing any output and returns the summary.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.WeatherFile == "" || req.SolarFile == "" {
		writeError(w, http.StatusBadRequest, "weather_file and solar_file are required")
		return
	}

	eng := engine.New(weather.NewSource(req.WeatherFile), solar.NewSource(req.SolarFile), s.log)
	result, err := eng.Run(engine.Params{
		Threshold:   req.Threshold,
		DeltaT:      req.DeltaT,
		WeatherFile: req.WeatherFile,
		SolarFile:   req.SolarFile,
	})
	if err != nil {
		s.log.Errorw("preview run failed", "error", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result.Summarize(maxPreviewSamples))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
