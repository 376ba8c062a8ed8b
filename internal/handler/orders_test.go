package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dineflow/api/internal/database"
	"github.com/dineflow/api/internal/handler"
	"github.com/dineflow/api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// --- Mocks ---

type mockOrderCreator struct {
	createOrderFn func(ctx context.Context, req service.CreateOrderRequest) (*service.CreateOrderResult, error)
}

func (m *mockOrderCreator) CreateOrder(ctx context.Context, req service.CreateOrderRequest) (*service.CreateOrderResult, error) {
	return m.createOrderFn(ctx, req)
}

type mockOrderHandlerStore struct {
	orders     map[uuid.UUID]database.Order
	items      map[uuid.UUID][]database.OrderItem
	itemAddons map[uuid.UUID][]database.OrderItemAddon
}

func newMockOrderHandlerStore() *mockOrderHandlerStore {
	return &mockOrderHandlerStore{
		orders:     make(map[uuid.UUID]database.Order),
		items:      make(map[uuid.UUID][]database.OrderItem),
		itemAddons: make(map[uuid.UUID][]database.OrderItemAddon),
	}
}

func (m *mockOrderHandlerStore) GetOrder(_ context.Context, arg database.GetOrderParams) (database.Order, error) {
	o, ok := m.orders[arg.ID]
	if !ok || o.TenantID != arg.TenantID {
		return database.Order{}, pgx.ErrNoRows
	}
	return o, nil
}

func (m *mockOrderHandlerStore) ListOrders(_ context.Context, arg database.ListOrdersParams) ([]database.Order, error) {
	var result []database.Order
	for _, o := range m.orders {
		if o.TenantID != arg.TenantID {
			continue
		}
		if arg.Status.Valid && o.Status != arg.Status.String {
			continue
		}
		result = append(result, o)
	}
	return result, nil
}

func (m *mockOrderHandlerStore) ListOrderItemsByOrder(_ context.Context, orderID uuid.UUID) ([]database.OrderItem, error) {
	return m.items[orderID], nil
}

func (m *mockOrderHandlerStore) ListOrderItemAddonsByOrderItem(_ context.Context, orderItemID uuid.UUID) ([]database.OrderItemAddon, error) {
	return m.itemAddons[orderItemID], nil
}

func (m *mockOrderHandlerStore) UpdateOrderStatus(_ context.Context, arg database.UpdateOrderStatusParams) (database.Order, error) {
	o, ok := m.orders[arg.ID]
	if !ok || o.TenantID != arg.TenantID {
		return database.Order{}, pgx.ErrNoRows
	}
	o.Status = arg.Status
	m.orders[o.ID] = o
	return o, nil
}

func (m *mockOrderHandlerStore) CancelOrder(_ context.Context, arg database.CancelOrderParams) (database.Order, error) {
	o, ok := m.orders[arg.ID]
	if !ok || o.TenantID != arg.TenantID || o.Status == "COMPLETED" || o.Status == "CANCELLED" {
		return database.Order{}, pgx.ErrNoRows
	}
	o.Status = "CANCELLED"
	m.orders[o.ID] = o
	return o, nil
}

func (m *mockOrderHandlerStore) GetTenant(_ context.Context, id uuid.UUID) (database.Tenant, error) {
	return database.Tenant{ID: id, Name: "Test Kitchen", ContactEmail: "orders@test.example"}, nil
}

func (m *mockOrderHandlerStore) GetSettings(_ context.Context, tenantID uuid.UUID) (database.TenantSettings, error) {
	return database.TenantSettings{TenantID: tenantID}, nil
}

// --- Helpers ---

func setupOrderRouter(creator handler.OrderCreator, store *mockOrderHandlerStore) *chi.Mux {
	h := handler.NewOrderHandler(creator, store, nil, nil, nil)
	r := chi.NewRouter()
	r.Post("/tenants/{tid}/orders", h.Create)
	r.Route("/tenants/{tid}/admin/orders", h.RegisterRoutes)
	return r
}

func storedOrder(t *testing.T, tenantID uuid.UUID, status string) database.Order {
	t.Helper()
	return database.Order{
		ID:             uuid.New(),
		TenantID:       tenantID,
		OrderNumber:    "DF-001",
		OrderType:      "COLLECTION",
		Status:         status,
		CustomerName:   "Alice Smith",
		Subtotal:       testNumeric(t, "25.00"),
		TaxAmount:      testNumeric(t, "0.00"),
		DeliveryFee:    testNumeric(t, "0.00"),
		DiscountAmount: testNumeric(t, "0.00"),
		TotalAmount:    testNumeric(t, "25.00"),
		CreatedAt:      time.Now(),
	}
}

func orderPayload() map[string]interface{} {
	return map[string]interface{}{
		"order_type":    "COLLECTION",
		"customer_name": "Alice Smith",
		"items": []map[string]interface{}{
			{"menu_item_id": uuid.NewString(), "quantity": 2},
		},
	}
}

// --- Create tests ---

func TestOrderCreate_Success(t *testing.T) {
	tenantID := uuid.New()
	store := newMockOrderHandlerStore()
	creator := &mockOrderCreator{
		createOrderFn: func(_ context.Context, req service.CreateOrderRequest) (*service.CreateOrderResult, error) {
			if req.TenantID != tenantID {
				t.Errorf("tenant ID: got %s, want %s", req.TenantID, tenantID)
			}
			order := storedOrder(t, tenantID, "NEW")
			item := database.OrderItem{
				ID:         uuid.New(),
				OrderID:    order.ID,
				MenuItemID: uuid.New(),
				ItemName:   "Sweet and Sour Chicken",
				Quantity:   2,
				UnitPrice:  testNumeric(t, "12.50"),
				Subtotal:   testNumeric(t, "25.00"),
			}
			return &service.CreateOrderResult{
				Order: order,
				Items: []service.OrderItemResult{{Item: item}},
			}, nil
		},
	}
	router := setupOrderRouter(creator, store)

	rr := doRequest(t, router, "POST", "/tenants/"+tenantID.String()+"/orders", orderPayload())

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["order_number"] != "DF-001" {
		t.Errorf("order_number: got %v", resp["order_number"])
	}
	if resp["total_amount"] != "25.00" {
		t.Errorf("total_amount: got %v", resp["total_amount"])
	}
	items := resp["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("items: got %d, want 1", len(items))
	}
	first := items[0].(map[string]interface{})
	if first["name"] != "Sweet and Sour Chicken" {
		t.Errorf("item name: got %v", first["name"])
	}
}

func TestOrderCreate_RejectionIs422(t *testing.T) {
	tenantID := uuid.New()
	creator := &mockOrderCreator{
		createOrderFn: func(_ context.Context, _ service.CreateOrderRequest) (*service.CreateOrderResult, error) {
			return nil, service.ErrDeliveryUnavailable
		},
	}
	router := setupOrderRouter(creator, newMockOrderHandlerStore())

	rr := doRequest(t, router, "POST", "/tenants/"+tenantID.String()+"/orders", orderPayload())

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusUnprocessableEntity)
	}
	resp := decodeResponse(t, rr)
	if resp["error"] != service.ErrDeliveryUnavailable.Error() {
		t.Errorf("error: got %v", resp["error"])
	}
}

func TestOrderCreate_WrappedRejectionIs422(t *testing.T) {
	tenantID := uuid.New()
	creator := &mockOrderCreator{
		createOrderFn: func(_ context.Context, _ service.CreateOrderRequest) (*service.CreateOrderResult, error) {
			return nil, service.ErrMenuItemNotFound
		},
	}
	router := setupOrderRouter(creator, newMockOrderHandlerStore())

	rr := doRequest(t, router, "POST", "/tenants/"+tenantID.String()+"/orders", orderPayload())

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusUnprocessableEntity)
	}
}

func TestOrderCreate_UnknownErrorIs500(t *testing.T) {
	tenantID := uuid.New()
	creator := &mockOrderCreator{
		createOrderFn: func(_ context.Context, _ service.CreateOrderRequest) (*service.CreateOrderResult, error) {
			return nil, context.DeadlineExceeded
		},
	}
	router := setupOrderRouter(creator, newMockOrderHandlerStore())

	rr := doRequest(t, router, "POST", "/tenants/"+tenantID.String()+"/orders", orderPayload())

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}

// --- List tests ---

func TestOrderList_FiltersByStatus(t *testing.T) {
	tenantID := uuid.New()
	store := newMockOrderHandlerStore()
	newOrder := storedOrder(t, tenantID, "NEW")
	doneOrder := storedOrder(t, tenantID, "COMPLETED")
	store.orders[newOrder.ID] = newOrder
	store.orders[doneOrder.ID] = doneOrder
	router := setupOrderRouter(nil, store)

	rr := doRequest(t, router, "GET", "/tenants/"+tenantID.String()+"/admin/orders/?status=NEW", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d; body: %s", rr.Code, rr.Body.String())
	}
	resp := decodeListResponse(t, rr)
	if len(resp) != 1 {
		t.Fatalf("orders: got %d, want 1", len(resp))
	}
	if resp[0]["status"] != "NEW" {
		t.Errorf("status: got %v", resp[0]["status"])
	}
}

func TestOrderList_InvalidStatusFilter(t *testing.T) {
	router := setupOrderRouter(nil, newMockOrderHandlerStore())
	tenantID := uuid.New()

	rr := doRequest(t, router, "GET", "/tenants/"+tenantID.String()+"/admin/orders/?status=SHIPPED", nil)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

// --- Get tests ---

func TestOrderGet_WithItemsAndAddons(t *testing.T) {
	tenantID := uuid.New()
	store := newMockOrderHandlerStore()
	order := storedOrder(t, tenantID, "NEW")
	store.orders[order.ID] = order

	item := database.OrderItem{
		ID:        uuid.New(),
		OrderID:   order.ID,
		ItemName:  "Beef in Black Bean Sauce",
		Quantity:  1,
		UnitPrice: testNumeric(t, "10.50"),
		Subtotal:  testNumeric(t, "12.50"),
	}
	store.items[order.ID] = []database.OrderItem{item}
	store.itemAddons[item.ID] = []database.OrderItemAddon{{
		ID:          uuid.New(),
		OrderItemID: item.ID,
		AddonID:     uuid.New(),
		AddonName:   "Extra Rice",
		Price:       testNumeric(t, "2.00"),
	}}
	router := setupOrderRouter(nil, store)

	rr := doRequest(t, router, "GET", "/tenants/"+tenantID.String()+"/admin/orders/"+order.ID.String(), nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d; body: %s", rr.Code, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	items := resp["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("items: got %d, want 1", len(items))
	}
	first := items[0].(map[string]interface{})
	addons := first["addons"].([]interface{})
	if len(addons) != 1 {
		t.Fatalf("addons: got %d, want 1", len(addons))
	}
	addon := addons[0].(map[string]interface{})
	if addon["name"] != "Extra Rice" || addon["price"] != "2.00" {
		t.Errorf("addon: got %v", addon)
	}
}

func TestOrderGet_NotFound(t *testing.T) {
	router := setupOrderRouter(nil, newMockOrderHandlerStore())
	tenantID := uuid.New()

	rr := doRequest(t, router, "GET", "/tenants/"+tenantID.String()+"/admin/orders/"+uuid.NewString(), nil)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestOrderGet_WrongTenant(t *testing.T) {
	store := newMockOrderHandlerStore()
	order := storedOrder(t, uuid.New(), "NEW")
	store.orders[order.ID] = order
	router := setupOrderRouter(nil, store)

	rr := doRequest(t, router, "GET", "/tenants/"+uuid.NewString()+"/admin/orders/"+order.ID.String(), nil)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

// --- Status update tests ---

func TestOrderUpdateStatus(t *testing.T) {
	tenantID := uuid.New()
	store := newMockOrderHandlerStore()
	order := storedOrder(t, tenantID, "NEW")
	store.orders[order.ID] = order
	router := setupOrderRouter(nil, store)

	rr := doRequest(t, router, "PATCH", "/tenants/"+tenantID.String()+"/admin/orders/"+order.ID.String()+"/status",
		map[string]string{"status": "PREPARING"})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d; body: %s", rr.Code, rr.Body.String())
	}
	if store.orders[order.ID].Status != "PREPARING" {
		t.Errorf("stored status: got %s", store.orders[order.ID].Status)
	}
}

func TestOrderUpdateStatus_InvalidStatus(t *testing.T) {
	tenantID := uuid.New()
	store := newMockOrderHandlerStore()
	order := storedOrder(t, tenantID, "NEW")
	store.orders[order.ID] = order
	router := setupOrderRouter(nil, store)

	rr := doRequest(t, router, "PATCH", "/tenants/"+tenantID.String()+"/admin/orders/"+order.ID.String()+"/status",
		map[string]string{"status": "SHIPPED"})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if store.orders[order.ID].Status != "NEW" {
		t.Errorf("stored status changed: got %s", store.orders[order.ID].Status)
	}
}

// --- Cancel tests ---

func TestOrderCancel(t *testing.T) {
	tenantID := uuid.New()
	store := newMockOrderHandlerStore()
	order := storedOrder(t, tenantID, "CONFIRMED")
	store.orders[order.ID] = order
	router := setupOrderRouter(nil, store)

	rr := doRequest(t, router, "POST", "/tenants/"+tenantID.String()+"/admin/orders/"+order.ID.String()+"/cancel", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d; body: %s", rr.Code, rr.Body.String())
	}
	if store.orders[order.ID].Status != "CANCELLED" {
		t.Errorf("stored status: got %s", store.orders[order.ID].Status)
	}
}

func TestOrderCancel_AlreadyCompleted(t *testing.T) {
	tenantID := uuid.New()
	store := newMockOrderHandlerStore()
	order := storedOrder(t, tenantID, "COMPLETED")
	store.orders[order.ID] = order
	router := setupOrderRouter(nil, store)

	rr := doRequest(t, router, "POST", "/tenants/"+tenantID.String()+"/admin/orders/"+order.ID.String()+"/cancel", nil)

	if rr.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusConflict)
	}
	if store.orders[order.ID].Status != "COMPLETED" {
		t.Errorf("stored status changed: got %s", store.orders[order.ID].Status)
	}
}
