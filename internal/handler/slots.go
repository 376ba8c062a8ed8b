package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/dineflow/api/internal/checkout"
	"github.com/dineflow/api/internal/database"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SlotStore defines the database methods needed by the slot handler.
type SlotStore interface {
	GetSettings(ctx context.Context, tenantID uuid.UUID) (database.TenantSettings, error)
}

// SlotHandler serves the public storefront's pickup/delivery slot listing.
type SlotHandler struct {
	store SlotStore
}

func NewSlotHandler(store SlotStore) *SlotHandler {
	return &SlotHandler{store: store}
}

type slotsResponse struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

// List returns the bookable slots for a date:
// GET /tenants/{tid}/slots?date=2026-09-02
// A closed or unconfigured day returns an empty slot list, not an error.
func (h *SlotHandler) List(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tenant ID"})
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date is required"})
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD"})
		return
	}

	settings, err := h.store.GetSettings(r.Context(), tenantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusOK, slotsResponse{Date: dateStr, Slots: []string{}})
			return
		}
		log.Printf("ERROR: get settings for slots: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	var hours map[string]checkout.DayHours
	if len(settings.OpeningHours) > 0 {
		if err := json.Unmarshal(settings.OpeningHours, &hours); err != nil {
			log.Printf("ERROR: decode opening hours: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
	}

	day := hours[strings.ToLower(date.Weekday().String())]
	slots := checkout.GenerateSlots(day, int(settings.SlotInterval))
	if slots == nil {
		slots = []string{}
	}

	writeJSON(w, http.StatusOK, slotsResponse{Date: dateStr, Slots: slots})
}
