package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dineflow/api/internal/checkout"
	"github.com/dineflow/api/internal/database"
	"github.com/dineflow/api/internal/enum"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// SettingsStore defines the database methods needed by settings handlers.
type SettingsStore interface {
	GetSettings(ctx context.Context, tenantID uuid.UUID) (database.TenantSettings, error)
	UpsertSettings(ctx context.Context, arg database.UpsertSettingsParams) (database.TenantSettings, error)
}

// SettingsHandler handles the per-tenant configuration endpoints.
type SettingsHandler struct {
	store SettingsStore
}

func NewSettingsHandler(store SettingsStore) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// RegisterRoutes registers settings endpoints at /tenants/{tid}/settings.
func (h *SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Put("/", h.Update)
}

// --- Request / Response types ---

type settingsPayload struct {
	TaxRate           string                       `json:"tax_rate"`
	DeliveryEnabled   bool                         `json:"delivery_enabled"`
	CollectionEnabled bool                         `json:"collection_enabled"`
	AdvanceEnabled    bool                         `json:"advance_enabled"`
	SlotInterval      int32                        `json:"slot_interval"`
	OpeningHours      map[string]checkout.DayHours `json:"opening_hours"`
	EmailFromName     string                       `json:"email_from_name"`
	EmailAccentColor  string                       `json:"email_accent_color"`
	EmailLogoURL      string                       `json:"email_logo_url"`
	EmailFooter       string                       `json:"email_footer"`
}

func toSettingsPayload(s database.TenantSettings) settingsPayload {
	p := settingsPayload{
		TaxRate:           numericToString(s.TaxRate),
		DeliveryEnabled:   s.DeliveryEnabled,
		CollectionEnabled: s.CollectionEnabled,
		AdvanceEnabled:    s.AdvanceEnabled,
		SlotInterval:      s.SlotInterval,
	}
	if len(s.OpeningHours) > 0 {
		// a decode failure leaves the hours empty rather than failing the read
		_ = json.Unmarshal(s.OpeningHours, &p.OpeningHours)
	}
	if s.EmailFromName.Valid {
		p.EmailFromName = s.EmailFromName.String
	}
	if s.EmailAccentColor.Valid {
		p.EmailAccentColor = s.EmailAccentColor.String
	}
	if s.EmailLogoURL.Valid {
		p.EmailLogoURL = s.EmailLogoURL.String
	}
	if s.EmailFooter.Valid {
		p.EmailFooter = s.EmailFooter.String
	}
	return p
}

// --- Handlers ---

// Get returns the tenant's settings, or sensible defaults when no row exists
// yet (a freshly provisioned tenant).
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tenant ID"})
		return
	}

	settings, err := h.store.GetSettings(r.Context(), tenantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusOK, settingsPayload{
				TaxRate:           "0.00",
				CollectionEnabled: true,
				SlotInterval:      checkout.DefaultSlotInterval,
			})
			return
		}
		log.Printf("ERROR: get settings: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toSettingsPayload(settings))
}

// Update replaces the tenant's settings row. The admin UI always submits the
// full form, so this is a whole-row upsert.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tenant ID"})
		return
	}

	var req settingsPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.TaxRate == "" {
		req.TaxRate = "0"
	}
	taxRate, err := parseNumeric(req.TaxRate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tax_rate"})
		return
	}

	if req.SlotInterval <= 0 {
		req.SlotInterval = checkout.DefaultSlotInterval
	}

	for _, day := range req.OpeningHours {
		if day.TimeMode != "" && day.TimeMode != enum.TimeModeSingle && day.TimeMode != enum.TimeModeSplit {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "time_mode must be SINGLE or SPLIT"})
			return
		}
	}

	hours := []byte("{}")
	if req.OpeningHours != nil {
		hours, err = json.Marshal(req.OpeningHours)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid opening_hours"})
			return
		}
	}

	settings, err := h.store.UpsertSettings(r.Context(), database.UpsertSettingsParams{
		TenantID:          tenantID,
		TaxRate:           taxRate,
		DeliveryEnabled:   req.DeliveryEnabled,
		CollectionEnabled: req.CollectionEnabled,
		AdvanceEnabled:    req.AdvanceEnabled,
		SlotInterval:      req.SlotInterval,
		OpeningHours:      hours,
		EmailFromName:     textOrNull(req.EmailFromName),
		EmailAccentColor:  textOrNull(req.EmailAccentColor),
		EmailLogoURL:      textOrNull(req.EmailLogoURL),
		EmailFooter:       textOrNull(req.EmailFooter),
	})
	if err != nil {
		log.Printf("ERROR: upsert settings: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toSettingsPayload(settings))
}

func textOrNull(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}
