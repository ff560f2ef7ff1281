package httpd

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/sanyaade-teachings/GradeWise/internal/auth"
	"github.com/sanyaade-teachings/GradeWise/internal/service"
)

type Handler struct {
	assignmentService service.AssignmentService
	submissionService service.SubmissionService
	gradingService    service.GradingService
	onboardingService service.OnboardingService
	logger            zerolog.Logger
}

func NewHandler(
	assignmentService service.AssignmentService,
	submissionService service.SubmissionService,
	gradingService service.GradingService,
	onboardingService service.OnboardingService,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		assignmentService: assignmentService,
		submissionService: submissionService,
		gradingService:    gradingService,
		onboardingService: onboardingService,
		logger:            logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router, authMiddleware func(http.Handler) http.Handler) {
	router.Get("/health", h.HealthCheck)

	router.Route("/api/v1", func(api chi.Router) {
		api.Use(authMiddleware)

		api.Route("/assignments", func(r chi.Router) {
			r.Post("/", h.CreateAssignment)
			r.Get("/", h.GetAllAssignments)
			r.Get("/{id}", h.GetAssignmentByID)
			r.Delete("/{id}", h.DeleteAssignment)

			r.Route("/{id}/submissions", func(r chi.Router) {
				r.Post("/", h.UploadSubmission)
				r.Get("/", h.ListSubmissions)
				r.Delete("/{sid}", h.DeleteSubmission)
				r.Post("/{sid}/grade", h.GradeSubmission)
			})
		})

		api.Get("/onboarding", h.GetOnboardingProgress)
	})
}

func principalFrom(r *http.Request) auth.Principal {
	p, _ := auth.PrincipalFromContext(r.Context())
	return p
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

func writeSuccess(w http.ResponseWriter, data interface{}) {
	response := map[string]interface{}{
		"success": true,
		"data":    data,
	}
	writeJSON(w, http.StatusOK, response)
}

// handleServiceError maps typed service errors onto HTTP status codes.
// Remote grading detail is already logged where it happened; clients get
// a generic message.
func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "You must be signed in to use this feature")
	case errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, service.ErrSubmissionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAlreadyGraded),
		errors.Is(err, service.ErrGradingInFlight):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrContentFetch):
		writeError(w, http.StatusBadGateway, "Failed to fetch submission content")
	case errors.Is(err, service.ErrGradingTimeout):
		writeError(w, http.StatusGatewayTimeout, "Grading timed out, please try again")
	case errors.Is(err, service.ErrGradingRemote):
		writeError(w, http.StatusBadGateway, "Grading failed, please try again")
	default:
		h.logger.Error().Err(err).Msg("Internal service error")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
