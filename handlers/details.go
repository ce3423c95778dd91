package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"aniview/models"
	"aniview/services/metadata"
)

type detailsService interface {
	Details(ctx context.Context, id int64) (*models.AnimeDetails, error)
	Reviews(ctx context.Context, id int64) ([]models.Review, error)
	Random(ctx context.Context) (*models.AnimeDetails, error)
}

var _ detailsService = (*metadata.Service)(nil)

type DetailsHandler struct {
	Service detailsService
}

func NewDetailsHandler(s detailsService) *DetailsHandler {
	return &DetailsHandler{Service: s}
}

func animeID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil && id > 0
}

// GetDetails serves GET /api/anime/{id}: the details bundle of metadata plus
// the dependent episode listing in a single response.
func (h *DetailsHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := animeID(r)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid anime id"})
		return
	}

	details, err := h.Service.Details(r.Context(), id)
	if err != nil {
		log.Printf("[handlers] details fetch failed id=%d err=%v", id, err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(details)
}

// GetReviews serves GET /api/anime/{id}/reviews.
func (h *DetailsHandler) GetReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := animeID(r)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid anime id"})
		return
	}

	reviews, err := h.Service.Reviews(r.Context(), id)
	if err != nil {
		log.Printf("[handlers] reviews fetch failed id=%d err=%v", id, err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reviews)
}

// GetRandom serves GET /api/random.
func (h *DetailsHandler) GetRandom(w http.ResponseWriter, r *http.Request) {
	details, err := h.Service.Random(r.Context())
	if err != nil {
		log.Printf("[handlers] random fetch failed err=%v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(details)
}
