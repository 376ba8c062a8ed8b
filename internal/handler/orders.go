package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/dineflow/api/internal/checkout"
	"github.com/dineflow/api/internal/database"
	"github.com/dineflow/api/internal/enum"
	"github.com/dineflow/api/internal/mailer"
	"github.com/dineflow/api/internal/service"
	"github.com/dineflow/api/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// OrderCreator is the checkout entrypoint. Satisfied by *service.OrderService.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (*service.CreateOrderResult, error)
}

// OrderStore defines the database methods needed by order read/update handlers.
type OrderStore interface {
	GetOrder(ctx context.Context, arg database.GetOrderParams) (database.Order, error)
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	ListOrderItemAddonsByOrderItem(ctx context.Context, orderItemID uuid.UUID) ([]database.OrderItemAddon, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	CancelOrder(ctx context.Context, arg database.CancelOrderParams) (database.Order, error)
	GetTenant(ctx context.Context, id uuid.UUID) (database.Tenant, error)
	GetSettings(ctx context.Context, tenantID uuid.UUID) (database.TenantSettings, error)
}

// GreetingPicker rotates confirmation email greetings. Satisfied by
// *service.GreetingService.
type GreetingPicker interface {
	NextIndex(ctx context.Context, tenantID uuid.UUID, n int) (int, error)
}

// OrderHandler handles order creation (public storefront) and the tenant
// dashboard's order management endpoints.
type OrderHandler struct {
	creator   OrderCreator
	store     OrderStore
	hub       *ws.Hub
	mail      *mailer.Mailer
	greetings GreetingPicker
}

func NewOrderHandler(creator OrderCreator, store OrderStore, hub *ws.Hub, mail *mailer.Mailer, greetings GreetingPicker) *OrderHandler {
	return &OrderHandler{creator: creator, store: store, hub: hub, mail: mail, greetings: greetings}
}

// RegisterRoutes registers the authenticated dashboard endpoints.
// Mounted at /tenants/{tid}/orders; Create is registered separately on the
// public storefront router.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}/status", h.UpdateStatus)
	r.Post("/{id}/cancel", h.Cancel)
}

// --- Request / Response types ---

type createOrderRequest struct {
	OrderType     string                   `json:"order_type"`
	CustomerName  string                   `json:"customer_name"`
	CustomerEmail string                   `json:"customer_email"`
	CustomerPhone string                   `json:"customer_phone"`
	Postcode      string                   `json:"postcode"`
	Address       string                   `json:"address"`
	ScheduledFor  string                   `json:"scheduled_for"`
	VoucherCode   string                   `json:"voucher_code"`
	Notes         string                   `json:"notes"`
	Items         []createOrderItemRequest `json:"items"`
}

type createOrderItemRequest struct {
	MenuItemID          string   `json:"menu_item_id"`
	Quantity            int32    `json:"quantity"`
	SpecialInstructions string   `json:"special_instructions"`
	AddonIDs            []string `json:"addon_ids"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type orderItemAddonResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Price string    `json:"price"`
}

type orderItemResponse struct {
	ID                  uuid.UUID                `json:"id"`
	MenuItemID          uuid.UUID                `json:"menu_item_id"`
	Name                string                   `json:"name"`
	Quantity            int32                    `json:"quantity"`
	UnitPrice           string                   `json:"unit_price"`
	Subtotal            string                   `json:"subtotal"`
	SpecialInstructions *string                  `json:"special_instructions"`
	Addons              []orderItemAddonResponse `json:"addons"`
}

type orderResponse struct {
	ID             uuid.UUID           `json:"id"`
	OrderNumber    string              `json:"order_number"`
	OrderType      string              `json:"order_type"`
	Status         string              `json:"status"`
	CustomerName   string              `json:"customer_name"`
	CustomerEmail  *string             `json:"customer_email"`
	CustomerPhone  *string             `json:"customer_phone"`
	Postcode       *string             `json:"postcode"`
	Address        *string             `json:"address"`
	ScheduledFor   *time.Time          `json:"scheduled_for"`
	Subtotal       string              `json:"subtotal"`
	TaxAmount      string              `json:"tax_amount"`
	DeliveryFee    string              `json:"delivery_fee"`
	DiscountAmount string              `json:"discount_amount"`
	TotalAmount    string              `json:"total_amount"`
	VoucherCode    *string             `json:"voucher_code"`
	Notes          *string             `json:"notes"`
	CreatedAt      time.Time           `json:"created_at"`
	Items          []orderItemResponse `json:"items,omitempty"`
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	return &t.String
}

func toOrderResponse(o database.Order) orderResponse {
	resp := orderResponse{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		OrderType:      o.OrderType,
		Status:         o.Status,
		CustomerName:   o.CustomerName,
		CustomerEmail:  textPtr(o.CustomerEmail),
		CustomerPhone:  textPtr(o.CustomerPhone),
		Postcode:       textPtr(o.Postcode),
		Address:        textPtr(o.Address),
		Subtotal:       numericToString(o.Subtotal),
		TaxAmount:      numericToString(o.TaxAmount),
		DeliveryFee:    numericToString(o.DeliveryFee),
		DiscountAmount: numericToString(o.DiscountAmount),
		TotalAmount:    numericToString(o.TotalAmount),
		VoucherCode:    textPtr(o.VoucherCode),
		Notes:          textPtr(o.Notes),
		CreatedAt:      o.CreatedAt,
	}
	if o.ScheduledFor.Valid {
		t := o.ScheduledFor.Time
		resp.ScheduledFor = &t
	}
	return resp
}

func toOrderItemResponse(item database.OrderItem, addons []database.OrderItemAddon) orderItemResponse {
	resp := orderItemResponse{
		ID:                  item.ID,
		MenuItemID:          item.MenuItemID,
		Name:                item.ItemName,
		Quantity:            item.Quantity,
		UnitPrice:           numericToString(item.UnitPrice),
		Subtotal:            numericToString(item.Subtotal),
		SpecialInstructions: textPtr(item.SpecialInstructions),
		Addons:              make([]orderItemAddonResponse, len(addons)),
	}
	for i, a := range addons {
		resp.Addons[i] = orderItemAddonResponse{
			ID:    a.AddonID,
			Name:  a.AddonName,
			Price: numericToString(a.Price),
		}
	}
	return resp
}

// --- Handlers ---

// Create is the public storefront checkout endpoint:
// POST /tenants/{tid}/orders
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tenant ID"})
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	items := make([]service.CreateOrderItemRequest, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.CreateOrderItemRequest{
			MenuItemID:          item.MenuItemID,
			Quantity:            item.Quantity,
			SpecialInstructions: item.SpecialInstructions,
			AddonIDs:            item.AddonIDs,
		}
	}

	result, err := h.creator.CreateOrder(r.Context(), service.CreateOrderRequest{
		TenantID:      tenantID,
		OrderType:     req.OrderType,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Postcode:      req.Postcode,
		Address:       req.Address,
		ScheduledFor:  req.ScheduledFor,
		VoucherCode:   req.VoucherCode,
		Notes:         req.Notes,
		Items:         items,
	})
	if err != nil {
		if isCheckoutRejection(err) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			return
		}
		log.Printf("ERROR: create order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := toOrderResponse(result.Order)
	for _, ir := range result.Items {
		resp.Items = append(resp.Items, toOrderItemResponse(ir.Item, ir.Addons))
	}

	if h.hub != nil {
		h.broadcastOrderEvent(tenantID, "order.created", resp)
	}
	if h.mail != nil && h.mail.Enabled() && result.Order.CustomerEmail.Valid {
		go h.sendConfirmation(tenantID, *result)
	}

	writeJSON(w, http.StatusCreated, resp)
}

// checkoutRejections are the user-correctable checkout failures. Everything
// else is a 500.
var checkoutRejections = []error{
	service.ErrEmptyItems,
	service.ErrInvalidOrderType,
	service.ErrOrderTypeDisabled,
	service.ErrInvalidQuantity,
	service.ErrCustomerNameRequired,
	service.ErrInvalidMenuItemID,
	service.ErrInvalidAddonID,
	service.ErrMenuItemNotFound,
	service.ErrMenuItemUnavailable,
	service.ErrAddonNotFound,
	service.ErrAddonMismatch,
	service.ErrPostcodeRequired,
	service.ErrAddressRequired,
	service.ErrDeliveryUnavailable,
	service.ErrScheduledTime,
	service.ErrInvalidScheduledTime,
	service.ErrSlotUnavailable,
	checkout.ErrVoucherNotFound,
	checkout.ErrVoucherExpired,
	checkout.ErrVoucherMinOrder,
}

func isCheckoutRejection(err error) bool {
	for _, target := range checkoutRejections {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// List returns the tenant's orders, newest first. Optional ?status= filter
// and ?limit=/?offset= paging.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tenant ID"})
		return
	}

	status := pgtype.Text{}
	if s := r.URL.Query().Get("status"); s != "" {
		if !validOrderStatus(s) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status filter"})
			return
		}
		status = pgtype.Text{String: s, Valid: true}
	}

	limit := int32(50)
	offset := int32(0)
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = int32(n)
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = int32(n)
		}
	}

	orders, err := h.store.ListOrders(r.Context(), database.ListOrdersParams{
		TenantID: tenantID,
		Status:   status,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns one order with its items and addons.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tenant ID"})
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	order, err := h.store.GetOrder(r.Context(), database.GetOrderParams{ID: orderID, TenantID: tenantID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	items, err := h.store.ListOrderItemsByOrder(r.Context(), order.ID)
	if err != nil {
		log.Printf("ERROR: get order items: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := toOrderResponse(order)
	for _, item := range items {
		addons, err := h.store.ListOrderItemAddonsByOrderItem(r.Context(), item.ID)
		if err != nil {
			log.Printf("ERROR: get order item addons: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		resp.Items = append(resp.Items, toOrderItemResponse(item, addons))
	}

	writeJSON(w, http.StatusOK, resp)
}

// UpdateStatus moves an order to a new status and notifies dashboards.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tenant ID"})
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if !validOrderStatus(req.Status) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
		return
	}

	order, err := h.store.UpdateOrderStatus(r.Context(), database.UpdateOrderStatusParams{
		ID:       orderID,
		TenantID: tenantID,
		Status:   req.Status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: update order status: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := toOrderResponse(order)
	if h.hub != nil {
		h.broadcastOrderEvent(tenantID, "order.status_changed", resp)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Cancel cancels an order unless it is already completed or cancelled.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tenant ID"})
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	order, err := h.store.CancelOrder(r.Context(), database.CancelOrderParams{ID: orderID, TenantID: tenantID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// either the order doesn't exist or it's in a terminal status
			writeJSON(w, http.StatusConflict, map[string]string{"error": "order cannot be cancelled"})
			return
		}
		log.Printf("ERROR: cancel order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := toOrderResponse(order)
	if h.hub != nil {
		h.broadcastOrderEvent(tenantID, "order.status_changed", resp)
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- Helpers ---

func validOrderStatus(s string) bool {
	switch s {
	case enum.OrderStatusNew, enum.OrderStatusConfirmed, enum.OrderStatusPreparing,
		enum.OrderStatusReady, enum.OrderStatusCompleted, enum.OrderStatusCancelled:
		return true
	}
	return false
}

func (h *OrderHandler) broadcastOrderEvent(tenantID uuid.UUID, eventType string, payload orderResponse) {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ERROR: marshal %s event: %v", eventType, err)
		return
	}
	h.hub.BroadcastToTenant(tenantID, ws.Event{Type: eventType, Payload: raw})
}

// sendConfirmation renders and sends the customer's confirmation email.
// Runs off the request path; failures are logged, never surfaced.
func (h *OrderHandler) sendConfirmation(tenantID uuid.UUID, result service.CreateOrderResult) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	tenant, err := h.store.GetTenant(ctx, tenantID)
	if err != nil {
		log.Printf("ERROR: confirmation email tenant lookup: %v", err)
		return
	}
	settings, err := h.store.GetSettings(ctx, tenantID)
	if err != nil {
		log.Printf("ERROR: confirmation email settings lookup: %v", err)
		return
	}

	greeting := mailer.Greetings[0]
	if h.greetings != nil {
		idx, err := h.greetings.NextIndex(ctx, tenantID, len(mailer.Greetings))
		if err != nil {
			log.Printf("ERROR: greeting rotation: %v", err)
		} else {
			greeting = mailer.Greetings[idx]
		}
	}

	order := result.Order
	data := mailer.ConfirmationData{
		Greeting:     greeting,
		TenantName:   tenant.Name,
		OrderNumber:  order.OrderNumber,
		OrderType:    order.OrderType,
		CustomerName: order.CustomerName,
		Subtotal:     numericToString(order.Subtotal),
		Tax:          numericToString(order.TaxAmount),
		Total:        numericToString(order.TotalAmount),
	}
	if settings.EmailFromName.Valid {
		data.TenantName = settings.EmailFromName.String
	}
	if settings.EmailAccentColor.Valid {
		data.AccentColor = settings.EmailAccentColor.String
	}
	if settings.EmailLogoURL.Valid {
		data.LogoURL = settings.EmailLogoURL.String
	}
	if settings.EmailFooter.Valid {
		data.Footer = settings.EmailFooter.String
	}
	if order.ScheduledFor.Valid {
		data.ScheduledFor = order.ScheduledFor.Time.Format("Mon 2 Jan 15:04")
	}
	if order.Address.Valid {
		data.Address = order.Address.String
	}
	if !numericToDecimal(order.DeliveryFee).IsZero() {
		data.DeliveryFee = numericToString(order.DeliveryFee)
	}
	if !numericToDecimal(order.DiscountAmount).IsZero() {
		data.Discount = numericToString(order.DiscountAmount)
	}
	for _, ir := range result.Items {
		item := mailer.ConfirmationItem{
			Name:     ir.Item.ItemName,
			Quantity: ir.Item.Quantity,
			Subtotal: numericToString(ir.Item.Subtotal),
		}
		for _, a := range ir.Addons {
			item.Addons = append(item.Addons, a.AddonName)
		}
		data.Items = append(data.Items, item)
	}

	body, err := mailer.RenderConfirmation(data)
	if err != nil {
		log.Printf("ERROR: render confirmation email: %v", err)
		return
	}

	if err := h.mail.Send(tenant.ContactEmail, data.TenantName, order.CustomerEmail.String,
		"Order "+order.OrderNumber+" confirmed", body); err != nil {
		log.Printf("ERROR: send confirmation email: %v", err)
	}
}
