package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/alexanderramin/studenttracker/internal/domain"
	"github.com/alexanderramin/studenttracker/internal/service"
)

const maxBodyBytes = 64 << 10

type listLogsResponse struct {
	Logs    []domain.LogEntry `json:"logs"`
	Message string            `json:"message"`
}

type createLogResponse struct {
	Message string           `json:"message"`
	Log     *domain.LogEntry `json:"log"`
}

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFromContext(r.Context())

	entries, err := s.logs.List(r.Context(), u.ID)
	if err != nil {
		s.logger.Error("listing logs", "user_id", u.ID, "error", err)
		writeError(w, http.StatusInternalServerError, domain.ServerErrorBody{
			Error:   "Failed to fetch logs",
			Message: err.Error(),
			Details: "Database query failed",
		})
		return
	}

	msg := "Logs retrieved successfully"
	if len(entries) == 0 {
		msg = "No logs found"
	}
	writeJSON(w, http.StatusOK, listLogsResponse{Logs: entries, Message: msg})
}

func (s *Server) handleCreateLog(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFromContext(r.Context())

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil || len(strings.TrimSpace(string(raw))) == 0 {
		writeError(w, http.StatusBadRequest, domain.ServerErrorBody{
			Error:   "No request body provided",
			Details: "Request body is required",
		})
		return
	}

	var in domain.NewLogEntry
	if err := json.Unmarshal(raw, &in); err != nil {
		writeError(w, http.StatusBadRequest, domain.ServerErrorBody{
			Error:   "Invalid JSON in request body",
			Details: err.Error(),
		})
		return
	}

	entry, err := s.logs.Create(r.Context(), u.ID, in)
	switch {
	case errors.Is(err, service.ErrMissingFields):
		writeError(w, http.StatusBadRequest, domain.ServerErrorBody{
			Error:   "Productivity level and feedback are required",
			Details: "Please provide both productivity level and feedback",
		})
		return
	case errors.Is(err, domain.ErrUnknownProductivity):
		writeError(w, http.StatusBadRequest, domain.ServerErrorBody{
			Error:   "Productivity must be one of High, Medium, Low",
			Details: err.Error(),
		})
		return
	case err != nil:
		s.logger.Error("creating log entry", "user_id", u.ID, "error", err)
		writeError(w, http.StatusInternalServerError, domain.ServerErrorBody{
			Error:   "Failed to create log entry",
			Message: err.Error(),
			Details: "Database operation failed",
		})
		return
	}

	writeJSON(w, http.StatusCreated, createLogResponse{
		Message: "Log entry created successfully",
		Log:     entry,
	})
}
