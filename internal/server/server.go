// Package server is the HTTP shell around the generation pipeline:
// routing, CORS, request IDs, panic recovery, and structured error
// responses. Every outcome leaves as a structured JSON body.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"marklet-proxy/internal/common/config"
	stderrors "marklet-proxy/internal/common/errors"
	"marklet-proxy/internal/common/logger"
	"marklet-proxy/internal/pipeline"
)

type Server struct {
	service *pipeline.Service
	cfg     *config.Config
	logger  logger.Logger
}

func NewServer(service *pipeline.Service, cfg *config.Config, log logger.Logger) *Server {
	return &Server{
		service: service,
		cfg:     cfg,
		logger:  log.WithFields(map[string]interface{}{"component": "http-server"}),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.recoverer)
	r.Use(s.cors)

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/api/generate", s.generate)
	r.Post("/api/chat", s.chat)

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"name":    s.cfg.App.Name,
		"version": s.cfg.App.Version,
	})
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, r, stderrors.NewInvalidRequestError("unable to read request body"))
		return
	}

	if err := pipeline.ValidateGenerateBody(body); err != nil {
		s.writeError(w, r, err)
		return
	}

	var req pipeline.GenerateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, r, stderrors.NewInvalidRequestError(err.Error()))
		return
	}

	result, err := s.service.Generate(r.Context(), &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, r, stderrors.NewInvalidRequestError("unable to read request body"))
		return
	}

	if err := pipeline.ValidateChatBody(body); err != nil {
		s.writeError(w, r, err)
		return
	}

	var req pipeline.ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, r, stderrors.NewInvalidRequestError(err.Error()))
		return
	}

	result, err := s.service.Chat(r.Context(), &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type errorBody struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		Details   string `json:"details,omitempty"`
		Retryable bool   `json:"retryable"`
	} `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var body errorBody
	var se *stderrors.StandardError
	if errors.As(err, &se) {
		body.Error.Code = string(se.Code)
		body.Error.Message = se.Message
		body.Error.Details = se.Details
		body.Error.Retryable = se.Retryable
	} else {
		body.Error.Code = "INTERNAL"
		body.Error.Message = "internal error"
	}

	s.logger.Warn("request failed", map[string]interface{}{
		"path":      r.URL.Path,
		"errorCode": body.Error.Code,
		"requestId": w.Header().Get("X-Request-ID"),
	})

	writeJSON(w, stderrors.HTTPStatus(err), body)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
