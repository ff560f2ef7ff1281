package httpd

import (
	"net/http"
)

func (h *Handler) GetOnboardingProgress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	progress, err := h.onboardingService.GetProgress(ctx, principalFrom(r))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, progress)
}
