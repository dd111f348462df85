package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/paperpharmacy/paperpharmacy/internal/catalog"
	"github.com/paperpharmacy/paperpharmacy/internal/isbn"
)

const (
	isbnRequiredMessage  = "ISBN이 필요해요"
	coverFailedMessage   = "이미지를 가져올 수 없어요"
	titleRequiredMessage = "책 제목이 필요해요"
	bookNotFoundMessage  = "책을 찾을 수 없어요"
	searchFailedMessage  = "책을 검색할 수 없어요"
)

type coverResponse struct {
	Cover *string `json:"cover"`
}

type searchRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

type searchResponse struct {
	Found       bool    `json:"found"`
	ISBN13      *string `json:"isbn13"`
	Title       string  `json:"title"`
	Author      *string `json:"author"`
	Publisher   *string `json:"publisher"`
	Cover       *string `json:"cover"`
	Description *string `json:"description"`
}

// HandleCover looks up the large catalog cover for an ISBN-13
func (h *Handler) HandleCover(w http.ResponseWriter, r *http.Request) {
	isbn13, ok := isbn.Validate(r.URL.Query().Get("isbn"))
	if !ok {
		h.writeError(w, isbnRequiredMessage, http.StatusBadRequest)
		return
	}

	cover, err := h.catalog.LookupCover(r.Context(), isbn13)
	if err != nil && !errors.Is(err, catalog.ErrNotFound) {
		slog.Error("Catalog cover lookup failed", "isbn", isbn13, "error", err)
		h.writeError(w, coverFailedMessage, http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, coverResponse{Cover: nullable(cover)})
}

// HandleSearch finds the best catalog record for a title and optional author.
// Parameters come from the query string on GET and a JSON body on POST.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if r.Method == http.MethodPost {
		if !h.decodeJSON(w, r, &req) {
			return
		}
	} else {
		req.Title = r.URL.Query().Get("title")
		req.Author = r.URL.Query().Get("author")
	}

	if strings.TrimSpace(req.Title) == "" {
		h.writeError(w, titleRequiredMessage, http.StatusBadRequest)
		return
	}

	best, err := h.catalog.FindBest(r.Context(), req.Title, req.Author)
	if errors.Is(err, catalog.ErrNotFound) {
		found := false
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: bookNotFoundMessage, Found: &found})
		return
	}
	if err != nil {
		slog.Error("Catalog search failed", "title", req.Title, "error", err)
		found := false
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: searchFailedMessage, Found: &found})
		return
	}

	resp := searchResponse{
		Found:       true,
		ISBN13:      nullable(best.ISBN13),
		Title:       best.Title,
		Author:      nullable(best.Author),
		Publisher:   nullable(best.Publisher),
		Cover:       nullable(best.Cover),
		Description: nullable(best.Description),
	}
	if resp.Title == "" {
		resp.Title = req.Title
	}
	if resp.Author == nil {
		resp.Author = nullable(req.Author)
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
