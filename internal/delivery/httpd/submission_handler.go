package httpd

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sanyaade-teachings/GradeWise/internal/models"
)

func (h *Handler) UploadSubmission(w http.ResponseWriter, r *http.Request) {
	assignmentID := chi.URLParam(r, "id")
	if assignmentID == "" {
		writeError(w, http.StatusBadRequest, "Assignment ID is required")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "multipart/form-data") {
		writeError(w, http.StatusBadRequest, "Content-Type must be multipart/form-data")
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil { // 32MB
		writeError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	ctx := r.Context()
	submission, err := h.submissionService.UploadSubmission(ctx, principalFrom(r), &models.UploadSubmissionRequest{
		AssignmentID: assignmentID,
		FileName:     fileHeader.Filename,
		FileContent:  fileBytes,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, submission)
}

func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	assignmentID := chi.URLParam(r, "id")
	if assignmentID == "" {
		writeError(w, http.StatusBadRequest, "Assignment ID is required")
		return
	}

	filter := models.ParseSubmissionFilter(r.URL.Query().Get("status"))

	ctx := r.Context()
	response, err := h.submissionService.ListSubmissions(ctx, principalFrom(r), assignmentID, filter)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, response)
}

func (h *Handler) DeleteSubmission(w http.ResponseWriter, r *http.Request) {
	assignmentID := chi.URLParam(r, "id")
	submissionID := chi.URLParam(r, "sid")
	if assignmentID == "" || submissionID == "" {
		writeError(w, http.StatusBadRequest, "Assignment ID and submission ID are required")
		return
	}

	ctx := r.Context()
	if err := h.submissionService.DeleteSubmission(ctx, principalFrom(r), assignmentID, submissionID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Submission deleted successfully",
	})
}

func (h *Handler) GradeSubmission(w http.ResponseWriter, r *http.Request) {
	assignmentID := chi.URLParam(r, "id")
	submissionID := chi.URLParam(r, "sid")
	if assignmentID == "" || submissionID == "" {
		writeError(w, http.StatusBadRequest, "Assignment ID and submission ID are required")
		return
	}

	ctx := r.Context()
	result, err := h.gradingService.GradeSubmission(ctx, principalFrom(r), assignmentID, submissionID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, result)
}
