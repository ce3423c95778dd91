package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/sourcegraph/conc"

	"aniview/models"
	"aniview/services/metadata"
)

// HomeHandler serves the combined home-screen payload to cut the number of
// round-trips when the frontend opens the landing page. The three rows are
// independent upstream fetches and run concurrently; a failed row degrades to
// empty instead of failing the bundle.
type HomeHandler struct {
	Service catalogService
}

func NewHomeHandler(s catalogService) *HomeHandler {
	return &HomeHandler{Service: s}
}

// GetHome serves GET /api/home.
func (h *HomeHandler) GetHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bundle := models.HomeBundle{
		Trending: []models.Anime{},
		Popular:  []models.Anime{},
		Recent:   []models.Anime{},
	}

	row := func(view metadata.View, dst *[]models.Anime) func() {
		return func() {
			items, err := h.Service.Catalog(ctx, view, metadata.SortNone)
			if err != nil {
				log.Printf("[handlers] home row failed view=%s err=%v", view, err)
				return
			}
			*dst = items
		}
	}

	var wg conc.WaitGroup
	wg.Go(row(metadata.ViewTrending, &bundle.Trending))
	wg.Go(row(metadata.ViewPopular, &bundle.Popular))
	wg.Go(row(metadata.ViewRecent, &bundle.Recent))
	wg.Wait()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bundle)
}
