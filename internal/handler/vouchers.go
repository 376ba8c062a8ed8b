package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/dineflow/api/internal/database"
	"github.com/dineflow/api/internal/enum"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// VoucherStore defines the database methods needed by voucher handlers.
type VoucherStore interface {
	ListVouchersByTenant(ctx context.Context, tenantID uuid.UUID) ([]database.Voucher, error)
	CreateVoucher(ctx context.Context, arg database.CreateVoucherParams) (database.Voucher, error)
	UpdateVoucher(ctx context.Context, arg database.UpdateVoucherParams) (database.Voucher, error)
	SoftDeleteVoucher(ctx context.Context, arg database.SoftDeleteVoucherParams) (uuid.UUID, error)
}

// VoucherHandler handles voucher CRUD endpoints.
type VoucherHandler struct {
	store VoucherStore
}

func NewVoucherHandler(store VoucherStore) *VoucherHandler {
	return &VoucherHandler{store: store}
}

// RegisterRoutes registers voucher CRUD endpoints.
// Mounted at /tenants/{tid}/vouchers.
func (h *VoucherHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type voucherRequest struct {
	Code        string `json:"code"`
	Type        string `json:"type"`
	Value       string `json:"value"`
	MinOrder    string `json:"min_order"`
	MaxDiscount string `json:"max_discount"`
	ExpiresAt   string `json:"expires_at"` // RFC3339, empty means never
	IsActive    *bool  `json:"is_active"`
}

type voucherResponse struct {
	ID          uuid.UUID  `json:"id"`
	Code        string     `json:"code"`
	Type        string     `json:"type"`
	Value       string     `json:"value"`
	MinOrder    string     `json:"min_order"`
	MaxDiscount *string    `json:"max_discount"`
	ExpiresAt   *time.Time `json:"expires_at"`
	Redemptions int32      `json:"redemptions"`
	IsActive    bool       `json:"is_active"`
}

func toVoucherResponse(v database.Voucher) voucherResponse {
	resp := voucherResponse{
		ID:          v.ID,
		Code:        v.Code,
		Type:        v.Type,
		Value:       numericToString(v.Value),
		MinOrder:    numericToString(v.MinOrder),
		Redemptions: v.Redemptions,
		IsActive:    v.IsActive,
	}
	if v.MaxDiscount.Valid {
		s := numericToString(v.MaxDiscount)
		resp.MaxDiscount = &s
	}
	if v.ExpiresAt.Valid {
		t := v.ExpiresAt.Time
		resp.ExpiresAt = &t
	}
	return resp
}

// parseVoucherFields validates the shared create/update fields.
func parseVoucherFields(req voucherRequest) (value, minOrder, maxDiscount pgtype.Numeric, expiresAt pgtype.Timestamptz, errMsg string) {
	if req.Type != enum.VoucherTypeAmount && req.Type != enum.VoucherTypePercentage {
		return value, minOrder, maxDiscount, expiresAt, "type must be AMOUNT or PERCENTAGE"
	}

	var err error
	value, err = parseNumeric(req.Value)
	if err != nil {
		return value, minOrder, maxDiscount, expiresAt, "invalid value"
	}

	minOrder = pgtype.Numeric{}
	if req.MinOrder != "" {
		minOrder, err = parseNumeric(req.MinOrder)
		if err != nil {
			return value, minOrder, maxDiscount, expiresAt, "invalid min_order"
		}
	} else {
		minOrder, _ = parseNumeric("0")
	}

	if req.MaxDiscount != "" {
		maxDiscount, err = parseNumeric(req.MaxDiscount)
		if err != nil {
			return value, minOrder, maxDiscount, expiresAt, "invalid max_discount"
		}
	}

	if req.ExpiresAt != "" {
		t, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			return value, minOrder, maxDiscount, expiresAt, "invalid expires_at"
		}
		expiresAt = pgtype.Timestamptz{Time: t, Valid: true}
	}

	return value, minOrder, maxDiscount, expiresAt, ""
}

// --- Handlers ---

func (h *VoucherHandler) List(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tenant ID"})
		return
	}

	vouchers, err := h.store.ListVouchersByTenant(r.Context(), tenantID)
	if err != nil {
		log.Printf("ERROR: list vouchers: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]voucherResponse, len(vouchers))
	for i, v := range vouchers {
		resp[i] = toVoucherResponse(v)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *VoucherHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tenant ID"})
		return
	}

	var req voucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Code == "" || req.Value == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "code and value are required"})
		return
	}

	value, minOrder, maxDiscount, expiresAt, errMsg := parseVoucherFields(req)
	if errMsg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
		return
	}

	voucher, err := h.store.CreateVoucher(r.Context(), database.CreateVoucherParams{
		TenantID:    tenantID,
		Code:        req.Code,
		Type:        req.Type,
		Value:       value,
		MinOrder:    minOrder,
		MaxDiscount: maxDiscount,
		ExpiresAt:   expiresAt,
	})
	if err != nil {
		log.Printf("ERROR: create voucher: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toVoucherResponse(voucher))
}

func (h *VoucherHandler) Update(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tenant ID"})
		return
	}

	voucherID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid voucher ID"})
		return
	}

	var req voucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Value == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "value is required"})
		return
	}

	value, minOrder, maxDiscount, expiresAt, errMsg := parseVoucherFields(req)
	if errMsg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	voucher, err := h.store.UpdateVoucher(r.Context(), database.UpdateVoucherParams{
		ID:          voucherID,
		TenantID:    tenantID,
		Type:        req.Type,
		Value:       value,
		MinOrder:    minOrder,
		MaxDiscount: maxDiscount,
		ExpiresAt:   expiresAt,
		IsActive:    active,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "voucher not found"})
			return
		}
		log.Printf("ERROR: update voucher: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toVoucherResponse(voucher))
}

func (h *VoucherHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tenant ID"})
		return
	}

	voucherID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid voucher ID"})
		return
	}

	_, err = h.store.SoftDeleteVoucher(r.Context(), database.SoftDeleteVoucherParams{
		ID:       voucherID,
		TenantID: tenantID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "voucher not found"})
			return
		}
		log.Printf("ERROR: delete voucher: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
