package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/campus-labs/studysync-core/internal/core/domain"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// SyncRequest is the optional body of a sync trigger request
// @Description Sync trigger options
type SyncRequest struct {
	WifiOnly bool `json:"wifi_only" example:"false"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns the readiness status of the API (checks database, queue and lock backends)
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse  "A backend is unreachable"
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	if s.taskQueue != nil {
		if err := s.taskQueue.Ping(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, "task queue unavailable")
			return
		}
	}
	if s.redis != nil {
		if err := s.redis.Ping(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, "redis unavailable")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Auth endpoints

// handleMintToken godoc
// @Summary      Mint bearer token
// @Description  Exchange a client ID and API key for a bearer token
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request  body      domain.TokenRequest  true  "Client credentials"
// @Success      200      {object}  domain.TokenResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Failure      401      {object}  ErrorResponse  "Invalid credentials"
// @Router       /auth/token [post]
func (s *Server) handleMintToken(w http.ResponseWriter, r *http.Request) {
	var req domain.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.authService.MintToken(r.Context(), req)
	if err != nil {
		switch err {
		case domain.ErrUnauthorized:
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		default:
			writeError(w, http.StatusInternalServerError, "token mint failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Sync settings endpoints

// handleGetSettings godoc
// @Summary      Get sync settings
// @Description  Returns the offline sync selection for a course
// @Tags         SyncSettings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Course ID"
// @Success      200  {object}  domain.SyncSettings
// @Failure      404  {object}  ErrorResponse  "No settings for course"
// @Router       /courses/{id}/sync-settings [get]
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	courseID, ok := courseIDFromPath(w, r)
	if !ok {
		return
	}

	settings, err := s.syncService.Settings(r.Context(), courseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

// handleSaveSettings godoc
// @Summary      Save sync settings
// @Description  Creates or replaces the offline sync selection for a course
// @Tags         SyncSettings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                  true  "Course ID"
// @Param        request  body      domain.SyncSettings  true  "Sync selection"
// @Success      200      {object}  domain.SyncSettings
// @Failure      400      {object}  ErrorResponse  "Invalid settings"
// @Router       /courses/{id}/sync-settings [put]
func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	courseID, ok := courseIDFromPath(w, r)
	if !ok {
		return
	}

	var settings domain.SyncSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	settings.CourseID = courseID

	if err := s.syncService.SaveSettings(r.Context(), &settings); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

// handleDeleteSettings godoc
// @Summary      Delete sync settings
// @Description  Removes a course's sync settings and progress record
// @Tags         SyncSettings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Course ID"
// @Success      200  {object}  StatusResponse
// @Failure      404  {object}  ErrorResponse  "No settings for course"
// @Router       /courses/{id}/sync-settings [delete]
func (s *Server) handleDeleteSettings(w http.ResponseWriter, r *http.Request) {
	courseID, ok := courseIDFromPath(w, r)
	if !ok {
		return
	}

	if err := s.syncService.DeleteSettings(r.Context(), courseID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Sync run endpoints

// handleRequestSync godoc
// @Summary      Request course sync
// @Description  Enqueues a background sync task for a course
// @Tags         Sync
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int          true   "Course ID"
// @Param        request  body      SyncRequest  false  "Sync options"
// @Success      202      {object}  domain.Task
// @Failure      404      {object}  ErrorResponse  "No settings for course"
// @Router       /courses/{id}/sync [post]
func (s *Server) handleRequestSync(w http.ResponseWriter, r *http.Request) {
	courseID, ok := courseIDFromPath(w, r)
	if !ok {
		return
	}

	// Body is optional
	var req SyncRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	task, err := s.syncService.RequestSync(r.Context(), courseID, req.WifiOnly)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, task)
}

// handleGetProgress godoc
// @Summary      Get sync progress
// @Description  Returns the pollable per-tab progress of the latest sync run
// @Tags         Sync
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Course ID"
// @Success      200  {object}  domain.SyncProgress
// @Failure      404  {object}  ErrorResponse  "No sync run recorded"
// @Router       /courses/{id}/sync-progress [get]
func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	courseID, ok := courseIDFromPath(w, r)
	if !ok {
		return
	}

	progress, err := s.syncService.Progress(r.Context(), courseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, progress)
}

// Task endpoints

// handleGetTask godoc
// @Summary      Get task status
// @Description  Returns a queued or finished background task
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  domain.Task
// @Failure      404  {object}  ErrorResponse  "Task not found"
// @Router       /tasks/{id} [get]
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("id")
	if taskID == "" {
		writeError(w, http.StatusBadRequest, "task id required")
		return
	}

	task, err := s.syncService.TaskStatus(r.Context(), taskID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if task == nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// handleQueueStats godoc
// @Summary      Get queue statistics
// @Description  Returns task queue counters
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  driven.QueueStats
// @Router       /queue/stats [get]
func (s *Server) handleQueueStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.taskQueue.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read queue stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Helpers

func courseIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid course id")
		return 0, false
	}
	return id, true
}

// writeServiceError maps domain errors to HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSettingsNotFound):
		writeError(w, http.StatusNotFound, "sync settings not found")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrSyncInProgress):
		writeError(w, http.StatusConflict, "sync already in progress")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid input")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
