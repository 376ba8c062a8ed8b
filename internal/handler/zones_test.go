package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/dineflow/api/internal/database"
	"github.com/dineflow/api/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// --- Mock store ---

type mockZoneStore struct {
	zones map[uuid.UUID]database.DeliveryZone
}

func newMockZoneStore() *mockZoneStore {
	return &mockZoneStore{zones: make(map[uuid.UUID]database.DeliveryZone)}
}

func (m *mockZoneStore) ListDeliveryZonesByTenant(_ context.Context, tenantID uuid.UUID) ([]database.DeliveryZone, error) {
	var result []database.DeliveryZone
	for _, z := range m.zones {
		if z.TenantID == tenantID && z.IsActive {
			result = append(result, z)
		}
	}
	return result, nil
}

func (m *mockZoneStore) CreateDeliveryZone(_ context.Context, arg database.CreateDeliveryZoneParams) (database.DeliveryZone, error) {
	z := database.DeliveryZone{
		ID:          uuid.New(),
		TenantID:    arg.TenantID,
		Name:        arg.Name,
		Postcodes:   arg.Postcodes,
		DeliveryFee: arg.DeliveryFee,
		SortOrder:   arg.SortOrder,
		IsActive:    true,
	}
	m.zones[z.ID] = z
	return z, nil
}

func (m *mockZoneStore) UpdateDeliveryZone(_ context.Context, arg database.UpdateDeliveryZoneParams) (database.DeliveryZone, error) {
	z, ok := m.zones[arg.ID]
	if !ok || z.TenantID != arg.TenantID || !z.IsActive {
		return database.DeliveryZone{}, pgx.ErrNoRows
	}
	z.Name = arg.Name
	z.Postcodes = arg.Postcodes
	z.DeliveryFee = arg.DeliveryFee
	z.SortOrder = arg.SortOrder
	m.zones[z.ID] = z
	return z, nil
}

func (m *mockZoneStore) SoftDeleteDeliveryZone(_ context.Context, arg database.SoftDeleteDeliveryZoneParams) (uuid.UUID, error) {
	z, ok := m.zones[arg.ID]
	if !ok || z.TenantID != arg.TenantID || !z.IsActive {
		return uuid.Nil, pgx.ErrNoRows
	}
	z.IsActive = false
	m.zones[z.ID] = z
	return z.ID, nil
}

func setupZoneRouter(store *mockZoneStore) *chi.Mux {
	h := handler.NewZoneHandler(store)
	r := chi.NewRouter()
	r.Get("/tenants/{tid}/delivery-zones/check", h.CheckPostcode)
	r.Route("/tenants/{tid}/delivery-zones", h.RegisterRoutes)
	return r
}

func addZone(t *testing.T, store *mockZoneStore, tenantID uuid.UUID, name string, postcodes []string, fee string, sortOrder int32) database.DeliveryZone {
	t.Helper()
	z := database.DeliveryZone{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Name:        name,
		Postcodes:   postcodes,
		DeliveryFee: testNumeric(t, fee),
		SortOrder:   sortOrder,
		IsActive:    true,
	}
	store.zones[z.ID] = z
	return z
}

// --- CRUD tests ---

func TestZoneCreate(t *testing.T) {
	store := newMockZoneStore()
	router := setupZoneRouter(store)
	tenantID := uuid.New()

	rr := doRequest(t, router, "POST", "/tenants/"+tenantID.String()+"/delivery-zones/", map[string]interface{}{
		"name":         "Local",
		"postcodes":    []string{" sw1a ", "sw1b"},
		"delivery_fee": "2.50",
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["delivery_fee"] != "2.50" {
		t.Errorf("delivery_fee: got %v", resp["delivery_fee"])
	}
	postcodes := resp["postcodes"].([]interface{})
	if postcodes[0] != "SW1A" || postcodes[1] != "SW1B" {
		t.Errorf("postcodes not normalized: got %v", postcodes)
	}
}

func TestZoneCreate_MissingFields(t *testing.T) {
	router := setupZoneRouter(newMockZoneStore())
	tenantID := uuid.New()

	rr := doRequest(t, router, "POST", "/tenants/"+tenantID.String()+"/delivery-zones/", map[string]interface{}{
		"name": "Local",
	})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestZoneCreate_InvalidFee(t *testing.T) {
	router := setupZoneRouter(newMockZoneStore())
	tenantID := uuid.New()

	rr := doRequest(t, router, "POST", "/tenants/"+tenantID.String()+"/delivery-zones/", map[string]interface{}{
		"name":         "Local",
		"postcodes":    []string{"SW1A"},
		"delivery_fee": "abc",
	})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestZoneUpdate_NotFound(t *testing.T) {
	router := setupZoneRouter(newMockZoneStore())
	tenantID := uuid.New()

	rr := doRequest(t, router, "PUT", "/tenants/"+tenantID.String()+"/delivery-zones/"+uuid.NewString(), map[string]interface{}{
		"name":         "Local",
		"postcodes":    []string{"SW1A"},
		"delivery_fee": "3.00",
	})

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestZoneDelete(t *testing.T) {
	store := newMockZoneStore()
	tenantID := uuid.New()
	zone := addZone(t, store, tenantID, "Local", []string{"SW1A"}, "2.50", 0)
	router := setupZoneRouter(store)

	rr := doRequest(t, router, "DELETE", "/tenants/"+tenantID.String()+"/delivery-zones/"+zone.ID.String(), nil)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNoContent)
	}
	if store.zones[zone.ID].IsActive {
		t.Error("expected zone to be deactivated")
	}
}

// --- Postcode check tests ---

func TestCheckPostcode_Match(t *testing.T) {
	store := newMockZoneStore()
	tenantID := uuid.New()
	addZone(t, store, tenantID, "Local", []string{"SW1A"}, "2.50", 0)
	router := setupZoneRouter(store)

	rr := doRequest(t, router, "GET", "/tenants/"+tenantID.String()+"/delivery-zones/check?postcode=sw1a+1aa", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d; body: %s", rr.Code, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["deliverable"] != true {
		t.Fatalf("deliverable: got %v, want true", resp["deliverable"])
	}
	if resp["zone"] != "Local" {
		t.Errorf("zone: got %v", resp["zone"])
	}
	if resp["delivery_fee"] != "2.50" {
		t.Errorf("delivery_fee: got %v", resp["delivery_fee"])
	}
}

func TestCheckPostcode_NoMatch(t *testing.T) {
	store := newMockZoneStore()
	tenantID := uuid.New()
	addZone(t, store, tenantID, "Local", []string{"SW1A"}, "2.50", 0)
	router := setupZoneRouter(store)

	rr := doRequest(t, router, "GET", "/tenants/"+tenantID.String()+"/delivery-zones/check?postcode=N1+9GU", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	resp := decodeResponse(t, rr)
	if resp["deliverable"] != false {
		t.Errorf("deliverable: got %v, want false", resp["deliverable"])
	}
}

func TestCheckPostcode_Missing(t *testing.T) {
	router := setupZoneRouter(newMockZoneStore())
	tenantID := uuid.New()

	rr := doRequest(t, router, "GET", "/tenants/"+tenantID.String()+"/delivery-zones/check", nil)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
