package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/becodeorg/liveboard"
)

// Ingestor is what the HTTP surface needs from the pipeline.
type Ingestor interface {
	Run(ctx context.Context, station string) (*liveboard.Result, error)
	Preview(ctx context.Context, station string) (*liveboard.Preview, error)
}

// Server exposes the ingestion pipeline over HTTP. It holds no
// per-request state; error classification happens in the pipeline and
// is mapped to status codes here, once.
type Server struct {
	pipeline Ingestor
	logger   *logrus.Logger
}

func New(pipeline Ingestor, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.New()
	}
	return &Server{
		pipeline: pipeline,
		logger:   logger,
	}
}

func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/fetch_departures", s.handleFetch).Methods(http.MethodGet)
	r.HandleFunc("/departures", s.handlePreview).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	return r
}

func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	station := r.URL.Query().Get("station")

	result, err := s.pipeline.Run(r.Context(), station)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	station := r.URL.Query().Get("station")

	preview, err := s.pipeline.Preview(r.Context(), station)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, preview)
}

type healthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := liveboard.HTTPStatus(err)
	s.logger.WithError(err).WithField("status", status).Error("request failed")
	s.writeJSON(w, status, errorResponse{
		Status:  "error",
		Message: err.Error(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.WithError(err).Error("encoding response")
	}
}
