package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"aniview/models"
	"aniview/services/metadata"
)

type scheduleService interface {
	WeeklySchedule(ctx context.Context) ([]models.DaySchedule, error)
	ScheduleForDay(ctx context.Context, day string) ([]models.TimeSlot, error)
}

var _ scheduleService = (*metadata.Service)(nil)

type ScheduleHandler struct {
	Service scheduleService
}

func NewScheduleHandler(s scheduleService) *ScheduleHandler {
	return &ScheduleHandler{Service: s}
}

// GetWeek serves GET /api/schedule: all seven days, one throttled upstream
// request per day. Days whose fetch failed come back with empty slots.
func (h *ScheduleHandler) GetWeek(w http.ResponseWriter, r *http.Request) {
	week, err := h.Service.WeeklySchedule(r.Context())
	if err != nil {
		log.Printf("[handlers] weekly schedule failed err=%v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(week)
}

// GetDay serves GET /api/schedule/{day}.
func (h *ScheduleHandler) GetDay(w http.ResponseWriter, r *http.Request) {
	day := strings.ToLower(strings.TrimSpace(mux.Vars(r)["day"]))
	slots, err := h.Service.ScheduleForDay(r.Context(), day)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, metadata.ErrUnknownDay) {
			status = http.StatusBadRequest
		}
		log.Printf("[handlers] day schedule failed day=%s err=%v", day, err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.DaySchedule{Day: day, Slots: slots})
}
