package grader

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/sanyaade-teachings/GradeWise/internal/auth"
	"github.com/sanyaade-teachings/GradeWise/internal/models"
)

// Handler exposes the grading procedure over HTTP. Authentication is
// checked before anything else: an unauthenticated request never reaches
// the model provider.
type Handler struct {
	provider Provider
	logger   zerolog.Logger
}

func NewHandler(provider Provider, logger zerolog.Logger) *Handler {
	return &Handler{
		provider: provider,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router, authMiddleware func(http.Handler) http.Handler) {
	router.Get("/health", h.HealthCheck)

	router.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/grade", h.Grade)
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Grade(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "You must be signed in to use this feature")
		return
	}

	var req models.GradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "Prompt is required")
		return
	}

	h.logger.Info().
		Str("uid", principal.UID).
		Str("submission_id", req.SubmissionID).
		Msg("Grading request received")

	result, err := h.provider.Complete(r.Context(), req.Prompt)
	if err != nil {
		// Provider detail stays in the log; the client gets a generic message.
		h.logger.Error().Err(err).
			Str("submission_id", req.SubmissionID).
			Msg("Model completion failed")

		if errors.Is(err, ErrNoCredential) {
			writeError(w, http.StatusInternalServerError, "Grading is not available right now")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error grading assignment")
		return
	}

	writeJSON(w, http.StatusOK, models.GradeResponse{Result: result})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error":   http.StatusText(status),
		"message": message,
	})
}
