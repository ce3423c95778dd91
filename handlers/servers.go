package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"aniview/models"
	"aniview/services/episodes"
)

type serverService interface {
	Servers(ctx context.Context, episodeID string) ([]models.ServerRef, error)
}

var _ serverService = (*episodes.Client)(nil)

type ServersHandler struct {
	Service serverService
}

func NewServersHandler(s serverService) *ServersHandler {
	return &ServersHandler{Service: s}
}

// GetServers serves GET /api/episodes/{episodeId}/servers. The first entry of
// a non-empty response is the client's default selection.
func (h *ServersHandler) GetServers(w http.ResponseWriter, r *http.Request) {
	episodeID := strings.TrimSpace(mux.Vars(r)["episodeId"])
	if episodeID == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "episode id is required"})
		return
	}

	servers, err := h.Service.Servers(r.Context(), episodeID)
	if err != nil {
		log.Printf("[handlers] server fetch failed episode=%s err=%v", episodeID, err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(servers)
}
