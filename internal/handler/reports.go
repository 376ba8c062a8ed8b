package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/dineflow/api/internal/database"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ReportStore defines the database methods needed by report handlers.
type ReportStore interface {
	DailySalesSummary(ctx context.Context, arg database.DailySalesSummaryParams) (database.DailySalesSummaryRow, error)
	OrderTypeBreakdown(ctx context.Context, arg database.DailySalesSummaryParams) ([]database.OrderTypeBreakdownRow, error)
}

// ReportHandler serves the owner dashboard's sales reports.
type ReportHandler struct {
	store ReportStore
}

func NewReportHandler(store ReportStore) *ReportHandler {
	return &ReportHandler{store: store}
}

type orderTypeBreakdownResponse struct {
	OrderType  string `json:"order_type"`
	OrderCount int64  `json:"order_count"`
	GrossSales string `json:"gross_sales"`
}

type dailySummaryResponse struct {
	Date           string                       `json:"date"`
	OrderCount     int64                        `json:"order_count"`
	GrossSales     string                       `json:"gross_sales"`
	TotalTax       string                       `json:"total_tax"`
	TotalDiscounts string                       `json:"total_discounts"`
	TotalDelivery  string                       `json:"total_delivery"`
	ByOrderType    []orderTypeBreakdownResponse `json:"by_order_type"`
}

// DailySummary returns one day's sales totals:
// GET /tenants/{tid}/reports/daily?date=2026-08-31
// Defaults to today when no date is given.
func (h *ReportHandler) DailySummary(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tenant ID"})
		return
	}

	day := time.Now()
	if v := r.URL.Query().Get("date"); v != "" {
		day, err = time.Parse("2006-01-02", v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD"})
			return
		}
	}

	params := database.DailySalesSummaryParams{TenantID: tenantID, Day: day}

	summary, err := h.store.DailySalesSummary(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: daily sales summary: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	breakdown, err := h.store.OrderTypeBreakdown(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: order type breakdown: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := dailySummaryResponse{
		Date:           day.Format("2006-01-02"),
		OrderCount:     summary.OrderCount,
		GrossSales:     numericToString(summary.GrossSales),
		TotalTax:       numericToString(summary.TotalTax),
		TotalDiscounts: numericToString(summary.TotalDiscounts),
		TotalDelivery:  numericToString(summary.TotalDelivery),
		ByOrderType:    make([]orderTypeBreakdownResponse, len(breakdown)),
	}
	for i, b := range breakdown {
		resp.ByOrderType[i] = orderTypeBreakdownResponse{
			OrderType:  b.OrderType,
			OrderCount: b.OrderCount,
			GrossSales: numericToString(b.GrossSales),
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
