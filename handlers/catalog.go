package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"aniview/models"
	"aniview/services/metadata"
)

// catalogService is the slice of the metadata service the catalog handler
// consumes.
type catalogService interface {
	Catalog(ctx context.Context, view metadata.View, key metadata.SortKey) ([]models.Anime, error)
}

var _ catalogService = (*metadata.Service)(nil)

type CatalogHandler struct {
	Service catalogService
}

func NewCatalogHandler(s catalogService) *CatalogHandler {
	return &CatalogHandler{Service: s}
}

// GetCatalog serves GET /api/catalog?view=trending|popular|top|recent|airing&sort=score|members|title.
func (h *CatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	view := metadata.View(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("view"))))
	if view == "" {
		view = metadata.ViewTrending
	}
	sortKey := metadata.SortKey(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("sort"))))
	switch sortKey {
	case metadata.SortNone, metadata.SortScore, metadata.SortMembers, metadata.SortTitle:
	default:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "unknown sort key"})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}

	items, err := h.Service.Catalog(r.Context(), view, sortKey)
	if err != nil {
		log.Printf("[handlers] catalog fetch failed view=%s err=%v", view, err)
		status := http.StatusBadGateway
		if errors.Is(err, metadata.ErrUnknownView) {
			status = http.StatusBadRequest
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}
