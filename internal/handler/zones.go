package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/dineflow/api/internal/checkout"
	"github.com/dineflow/api/internal/database"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ZoneStore defines the database methods needed by delivery zone handlers.
type ZoneStore interface {
	ListDeliveryZonesByTenant(ctx context.Context, tenantID uuid.UUID) ([]database.DeliveryZone, error)
	CreateDeliveryZone(ctx context.Context, arg database.CreateDeliveryZoneParams) (database.DeliveryZone, error)
	UpdateDeliveryZone(ctx context.Context, arg database.UpdateDeliveryZoneParams) (database.DeliveryZone, error)
	SoftDeleteDeliveryZone(ctx context.Context, arg database.SoftDeleteDeliveryZoneParams) (uuid.UUID, error)
}

// ZoneHandler handles delivery zone CRUD and the postcode fee check.
type ZoneHandler struct {
	store ZoneStore
}

func NewZoneHandler(store ZoneStore) *ZoneHandler {
	return &ZoneHandler{store: store}
}

// RegisterRoutes registers zone CRUD endpoints.
// Mounted at /tenants/{tid}/delivery-zones.
func (h *ZoneHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type zoneRequest struct {
	Name        string   `json:"name"`
	Postcodes   []string `json:"postcodes"`
	DeliveryFee string   `json:"delivery_fee"`
	SortOrder   int32    `json:"sort_order"`
}

type zoneResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Postcodes   []string  `json:"postcodes"`
	DeliveryFee string    `json:"delivery_fee"`
	SortOrder   int32     `json:"sort_order"`
}

func toZoneResponse(z database.DeliveryZone) zoneResponse {
	return zoneResponse{
		ID:          z.ID,
		Name:        z.Name,
		Postcodes:   z.Postcodes,
		DeliveryFee: numericToString(z.DeliveryFee),
		SortOrder:   z.SortOrder,
	}
}

// --- Handlers ---

func (h *ZoneHandler) List(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tenant ID"})
		return
	}

	zones, err := h.store.ListDeliveryZonesByTenant(r.Context(), tenantID)
	if err != nil {
		log.Printf("ERROR: list delivery zones: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]zoneResponse, len(zones))
	for i, z := range zones {
		resp[i] = toZoneResponse(z)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ZoneHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tenant ID"})
		return
	}

	var req zoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" || len(req.Postcodes) == 0 || req.DeliveryFee == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name, postcodes and delivery_fee are required"})
		return
	}

	fee, err := parseNumeric(req.DeliveryFee)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid delivery_fee"})
		return
	}

	zone, err := h.store.CreateDeliveryZone(r.Context(), database.CreateDeliveryZoneParams{
		TenantID:    tenantID,
		Name:        req.Name,
		Postcodes:   normalizePostcodes(req.Postcodes),
		DeliveryFee: fee,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		log.Printf("ERROR: create delivery zone: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toZoneResponse(zone))
}

func (h *ZoneHandler) Update(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tenant ID"})
		return
	}

	zoneID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid zone ID"})
		return
	}

	var req zoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" || len(req.Postcodes) == 0 || req.DeliveryFee == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name, postcodes and delivery_fee are required"})
		return
	}

	fee, err := parseNumeric(req.DeliveryFee)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid delivery_fee"})
		return
	}

	zone, err := h.store.UpdateDeliveryZone(r.Context(), database.UpdateDeliveryZoneParams{
		ID:          zoneID,
		TenantID:    tenantID,
		Name:        req.Name,
		Postcodes:   normalizePostcodes(req.Postcodes),
		DeliveryFee: fee,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "zone not found"})
			return
		}
		log.Printf("ERROR: update delivery zone: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toZoneResponse(zone))
}

func (h *ZoneHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tenant ID"})
		return
	}

	zoneID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid zone ID"})
		return
	}

	_, err = h.store.SoftDeleteDeliveryZone(r.Context(), database.SoftDeleteDeliveryZoneParams{
		ID:       zoneID,
		TenantID: tenantID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "zone not found"})
			return
		}
		log.Printf("ERROR: delete delivery zone: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CheckPostcode is the public storefront fee lookup:
// GET /tenants/{tid}/delivery-zones/check?postcode=SW1A+1AA
// Returns the zone and fee, or deliverable=false when no zone matches.
func (h *ZoneHandler) CheckPostcode(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tenant ID"})
		return
	}

	postcode := r.URL.Query().Get("postcode")
	if strings.TrimSpace(postcode) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "postcode is required"})
		return
	}

	rows, err := h.store.ListDeliveryZonesByTenant(r.Context(), tenantID)
	if err != nil {
		log.Printf("ERROR: check postcode: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	zones := make([]checkout.Zone, len(rows))
	for i, z := range rows {
		zones[i] = checkout.Zone{
			Name:        z.Name,
			Postcodes:   z.Postcodes,
			DeliveryFee: numericToDecimal(z.DeliveryFee),
		}
	}

	zone, ok := checkout.ResolveZone(postcode, zones)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]interface{}{"deliverable": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"deliverable":  true,
		"zone":         zone.Name,
		"delivery_fee": zone.DeliveryFee.StringFixed(2),
	})
}

func normalizePostcodes(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
