package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/paperpharmacy/paperpharmacy/internal/providers"
	"github.com/paperpharmacy/paperpharmacy/internal/recommend"
	"github.com/paperpharmacy/paperpharmacy/internal/validation"
)

const (
	moodRequiredMessage  = "userInput with mood is required"
	missingAPIKeyMessage = "API key is not configured"
)

func (h *Handler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	var req recommend.Request
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Input.Mood) == "" {
		h.writeError(w, moodRequiredMessage, http.StatusBadRequest)
		return
	}
	if err := validation.Struct(req); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	books, err := h.recommender.Assemble(r.Context(), req)
	if err != nil {
		h.writeAssembleError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, books)
}

func (h *Handler) writeAssembleError(w http.ResponseWriter, err error) {
	slog.Error("Error fetching book recommendations", "error", err)
	if errors.Is(err, providers.ErrMissingAPIKey) {
		h.writeError(w, missingAPIKeyMessage, http.StatusInternalServerError)
		return
	}
	h.writeError(w, recommend.FailureMessage, http.StatusInternalServerError)
}
