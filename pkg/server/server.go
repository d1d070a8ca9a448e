// Package server provides the HTTP API for the lead qualification service:
// lead intake, the chat turn endpoint, config inspection, health, and metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"leadflow/pkg/config"
	"leadflow/pkg/dialog"
	"leadflow/pkg/leaderrors"
	"leadflow/pkg/logx"
	"leadflow/pkg/store"
)

// Server is the HTTP API server.
type Server struct {
	driver   *dialog.Driver
	leads    store.LeadStore
	scripts  *config.ScriptLoader
	industry string
	logger   *logx.Logger
}

// NewServer creates the API server.
func NewServer(driver *dialog.Driver, leads store.LeadStore, scripts *config.ScriptLoader, industry string) *Server {
	return &Server{
		driver:   driver,
		leads:    leads,
		scripts:  scripts,
		industry: industry,
		logger:   logx.NewLogger("server"),
	}
}

// RegisterRoutes sets up HTTP routes for the API.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /leads", s.handleCreateLead)
	mux.HandleFunc("GET /config", s.handleConfig)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
}

type chatRequest struct {
	LeadID  string `json:"leadId"`
	Message string `json:"message"`
	Name    string `json:"name"`
}

type chatResponse struct {
	Message string          `json:"message"`
	State   dialog.Snapshot `json:"state"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.LeadID == "" {
		writeError(w, http.StatusBadRequest, "leadId is required and must be a string")
		return
	}

	res, err := s.driver.Advance(r.Context(), req.LeadID, req.Message, req.Name)
	if err != nil {
		s.writeKindError(w, err)
		return
	}
	writeData(w, http.StatusOK, chatResponse{Message: res.Utterance, State: res.State})
}

type createLeadRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Source  string `json:"source"`
	Message string `json:"message"`
}

func (s *Server) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	var req createLeadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" || req.Phone == "" || req.Source == "" {
		writeError(w, http.StatusBadRequest, "name, phone, and source are required")
		return
	}

	lead := &store.Lead{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Source:  req.Source,
		Message: req.Message,
	}
	if err := s.leads.CreateLead(r.Context(), lead); err != nil {
		if errors.Is(err, store.ErrDuplicatePhone) {
			writeError(w, http.StatusBadRequest, store.ErrDuplicatePhone.Error())
			return
		}
		s.logger.Error("lead create failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create lead")
		return
	}
	writeData(w, http.StatusCreated, lead)
}

func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	script, err := s.scripts.Load(s.industry)
	if err != nil {
		s.writeKindError(w, err)
		return
	}
	writeData(w, http.StatusOK, script)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeKindError maps classified error kinds to stable HTTP statuses.
func (s *Server) writeKindError(w http.ResponseWriter, err error) {
	kind, classified := leaderrors.KindOf(err)
	status := http.StatusInternalServerError
	if classified {
		switch kind {
		case leaderrors.KindValidation:
			status = http.StatusBadRequest
		case leaderrors.KindNotFound:
			status = http.StatusNotFound
		case leaderrors.KindExternalService:
			status = http.StatusBadGateway
		case leaderrors.KindConfiguration, leaderrors.KindPersistence, leaderrors.KindClassification:
			status = http.StatusInternalServerError
		}
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed: %v", err)
	}
	writeError(w, status, err.Error())
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, map[string]any{"data": data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Headers are already written; nothing useful left to do.
		_ = err
	}
}

// ListenAndServe runs the HTTP server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("listening on %s", addr)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return nil
}
