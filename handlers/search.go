package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"aniview/models"
	"aniview/services/metadata"
)

type searchService interface {
	SearchRaw(ctx context.Context, query string) ([]byte, error)
	SearchPage(ctx context.Context, query string, page int) (*models.SearchPage, error)
}

var _ searchService = (*metadata.Service)(nil)

type SearchHandler struct {
	Service searchService
}

func NewSearchHandler(s searchService) *SearchHandler {
	return &SearchHandler{Service: s}
}

// Proxy serves GET /api/search?q=: a verbatim pass-through of the metadata
// service's search response. 400 on missing query, 500 on upstream failure.
func (h *SearchHandler) Proxy(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Query parameter is required"})
		return
	}

	body, err := h.Service.SearchRaw(r.Context(), query)
	if err != nil {
		log.Printf("[handlers] search proxy failed q=%q err=%v", query, err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Internal Server Error"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// FullSearch serves GET /api/search/full?q=&page=: the paginated full search
// view with the server-reported page count.
func (h *SearchHandler) FullSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Query parameter is required"})
		return
	}
	page := 1
	if p := strings.TrimSpace(r.URL.Query().Get("page")); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}

	result, err := h.Service.SearchPage(r.Context(), query, page)
	if err != nil {
		log.Printf("[handlers] full search failed q=%q page=%d err=%v", query, page, err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
