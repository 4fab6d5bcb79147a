package handlers

import (
	"context"
	"net/http"
	"sort"

	"codeforge/internal/logger"
	"codeforge/internal/models"
	"codeforge/internal/service"
)

// HistoryHandler lists a user's past quizzes
type HistoryHandler struct {
	historyService *service.HistoryService
	log            *logger.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(historyService *service.HistoryService, log *logger.Logger) *HistoryHandler {
	return &HistoryHandler{historyService: historyService, log: log}
}

type historyResponse struct {
	Quizzes []models.QuizSummary `json:"quizzes"`
	Summary string               `json:"summary"`
}

// List returns the signed-in user's quizzes, newest first
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := GetIdentityFromContext(r.Context()).UserID()

	quizzes, err := h.historyService.ListQuizzes(r.Context(), userID)
	if err != nil {
		respondWithError(w, h.log, http.StatusInternalServerError, "Failed to load quiz history", "Error listing quizzes", err)
		return
	}
	summary, err := h.historyService.Summary(r.Context(), userID)
	if err != nil {
		respondWithError(w, h.log, http.StatusInternalServerError, "Failed to load quiz history", "Error counting quizzes", err)
		return
	}

	respondWithJSON(w, h.log, http.StatusOK, historyResponse{Quizzes: quizzes, Summary: summary.Message})
}

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// Health reports whether every dependency answers. It is served without
// authentication.
func Health(checks map[string]HealthCheck, log *logger.Logger) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		failed := map[string]string{}
		for _, name := range names {
			if err := checks[name](r.Context()); err != nil {
				log.Warn("Health check failed", "check", name, "error", err)
				failed[name] = err.Error()
			}
		}
		if len(failed) > 0 {
			respondWithJSON(w, log, http.StatusServiceUnavailable, map[string]interface{}{"status": "unavailable", "failed": failed})
			return
		}
		respondWithJSON(w, log, http.StatusOK, map[string]string{"status": "ok"})
	}
}
