package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/paperpharmacy/paperpharmacy/internal/models"
	"github.com/paperpharmacy/paperpharmacy/internal/recommend"
	"github.com/paperpharmacy/paperpharmacy/internal/session"
	"github.com/paperpharmacy/paperpharmacy/internal/storage"
	"github.com/paperpharmacy/paperpharmacy/internal/validation"
)

type sessionInputRequest struct {
	Input      models.UserInput `json:"userInput" validate:"-"`
	Region     string           `json:"region" validate:"max=100"`
	Nationwide bool             `json:"searchNationwide"`
}

type sessionLocationRequest struct {
	Latitude  *float64              `json:"latitude" validate:"required_without=Error,omitempty,latitude"`
	Longitude *float64              `json:"longitude" validate:"required_without=Error,omitempty,longitude"`
	Error     session.LocationError `json:"error" validate:"omitempty,oneof=unsupported permission_denied position_unavailable timeout"`
}

func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	state := h.sessionStore.Create()
	slog.Info("Session created", "session_id", state.ID)
	h.writeJSON(w, http.StatusCreated, state)
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	state, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, state)
}

func (h *Handler) HandleSessionHistory(w http.ResponseWriter, r *http.Request) {
	state, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, state.History)
}

func (h *Handler) HandleSessionInput(w http.ResponseWriter, r *http.Request) {
	var req sessionInputRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if err := validation.Struct(req); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.updateSession(w, r, func(s session.State) (session.State, error) {
		return s.WithInput(req.Input, req.Region, req.Nationwide), nil
	})
}

func (h *Handler) HandleSessionLocateStart(w http.ResponseWriter, r *http.Request) {
	h.updateSession(w, r, func(s session.State) (session.State, error) {
		return s.LocateStarted(), nil
	})
}

func (h *Handler) HandleSessionLocation(w http.ResponseWriter, r *http.Request) {
	var req sessionLocationRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if err := validation.Struct(req); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.updateSession(w, r, func(s session.State) (session.State, error) {
		if req.Error != "" {
			return s.LocationFailed(req.Error), nil
		}
		return s.LocationResolved(models.Location{Latitude: *req.Latitude, Longitude: *req.Longitude}), nil
	})
}

func (h *Handler) HandleSessionSubmit(w http.ResponseWriter, r *http.Request) {
	h.runBatch(w, r, session.State.Submit)
}

func (h *Handler) HandleSessionRegenerate(w http.ResponseWriter, r *http.Request) {
	h.runBatch(w, r, session.State.Regenerate)
}

// runBatch marks the session busy, assembles a batch outside the store lock
// and records the outcome.
func (h *Handler) runBatch(w http.ResponseWriter, r *http.Request, start func(session.State) (session.State, recommend.Request, error)) {
	id := chi.URLParam(r, "id")

	var req recommend.Request
	_, err := h.sessionStore.Update(id, func(s session.State) (session.State, error) {
		next, batch, err := start(s)
		req = batch
		return next, err
	})
	switch {
	case errors.Is(err, storage.ErrNotFound):
		h.writeError(w, "Session not found", http.StatusNotFound)
		return
	case errors.Is(err, session.ErrBusy):
		h.writeError(w, err.Error(), http.StatusConflict)
		return
	case errors.Is(err, session.ErrMoodRequired):
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	finished := false
	defer func() {
		if finished {
			return
		}
		slog.Error("Session batch aborted", "session_id", id)
		_, _ = h.sessionStore.Update(id, func(s session.State) (session.State, error) {
			return s.Fail(recommend.FailureMessage), nil
		})
	}()

	books, assembleErr := h.recommender.Assemble(r.Context(), req)

	finished = true
	state, err := h.sessionStore.Update(id, func(s session.State) (session.State, error) {
		if assembleErr != nil {
			return s.Fail(recommend.FailureMessage), nil
		}
		return s.Complete(books), nil
	})
	if err != nil {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return
	}

	if assembleErr != nil {
		h.writeAssembleError(w, assembleErr)
		return
	}
	slog.Info("Session batch completed", "session_id", id, "history", len(state.History))
	h.writeJSON(w, http.StatusOK, state)
}

func (h *Handler) updateSession(w http.ResponseWriter, r *http.Request, fn func(session.State) (session.State, error)) {
	state, err := h.sessionStore.Update(chi.URLParam(r, "id"), fn)
	if errors.Is(err, storage.ErrNotFound) {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.writeJSON(w, http.StatusOK, state)
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, r *http.Request) (session.State, bool) {
	state, exists := h.sessionStore.Get(chi.URLParam(r, "id"))
	if !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return session.State{}, false
	}
	return state, true
}
