package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/paperpharmacy/paperpharmacy/internal/catalog"
	"github.com/paperpharmacy/paperpharmacy/internal/models"
	"github.com/paperpharmacy/paperpharmacy/internal/recommend"
	"github.com/paperpharmacy/paperpharmacy/internal/storage"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// Recommender produces a batch of recommendations
type Recommender interface {
	Assemble(ctx context.Context, req recommend.Request) ([]models.BookRecommendation, error)
}

// Catalog is the part of the catalog client the HTTP API exposes
type Catalog interface {
	FindBest(ctx context.Context, title, author string) (catalog.Candidate, error)
	LookupCover(ctx context.Context, isbn13 string) (string, error)
}

type Handler struct {
	sessionStore *storage.SessionStore
	recommender  Recommender
	catalog      Catalog
	staticDir    string
}

type errorResponse struct {
	Error string `json:"error"`
	Found *bool  `json:"found,omitempty"`
}

func New(recommender Recommender, cat Catalog, staticDir string) *Handler {
	if staticDir == "" {
		staticDir = "static"
	}
	return &Handler{
		sessionStore: storage.New(),
		recommender:  recommender,
		catalog:      cat,
		staticDir:    staticDir,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message)
	} else {
		slog.Warn(message, "status", code)
	}
	h.writeJSON(w, code, errorResponse{Error: message})
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, "Failed to read request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}
