package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dineflow/api/internal/database"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// MenuStore defines the database methods needed by menu handlers.
type MenuStore interface {
	ListCategoriesByTenant(ctx context.Context, tenantID uuid.UUID) ([]database.Category, error)
	ListMenuItemsByTenant(ctx context.Context, tenantID uuid.UUID) ([]database.MenuItem, error)
	CreateMenuItem(ctx context.Context, arg database.CreateMenuItemParams) (database.MenuItem, error)
	UpdateMenuItem(ctx context.Context, arg database.UpdateMenuItemParams) (database.MenuItem, error)
	DeleteMenuItem(ctx context.Context, arg database.DeleteMenuItemParams) (uuid.UUID, error)
	ListAddonsByMenuItem(ctx context.Context, menuItemID uuid.UUID) ([]database.Addon, error)
	CreateAddon(ctx context.Context, arg database.CreateAddonParams) (database.Addon, error)
	UpdateAddon(ctx context.Context, arg database.UpdateAddonParams) (database.Addon, error)
	SoftDeleteAddon(ctx context.Context, arg database.SoftDeleteAddonParams) (uuid.UUID, error)
}

// MenuHandler handles menu item and addon endpoints.
type MenuHandler struct {
	store MenuStore
}

func NewMenuHandler(store MenuStore) *MenuHandler {
	return &MenuHandler{store: store}
}

// RegisterRoutes registers menu item CRUD and nested addon endpoints.
// Mounted at /tenants/{tid}/menu-items.
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	r.Route("/{id}/addons", func(r chi.Router) {
		r.Get("/", h.ListAddons)
		r.Post("/", h.CreateAddon)
		r.Put("/{aid}", h.UpdateAddon)
		r.Delete("/{aid}", h.DeleteAddon)
	})
}

// --- Request / Response types ---

type menuItemRequest struct {
	CategoryID  string `json:"category_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	IsAvailable *bool  `json:"is_available"`
}

type menuItemResponse struct {
	ID          uuid.UUID `json:"id"`
	CategoryID  uuid.UUID `json:"category_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Price       string    `json:"price"`
	IsAvailable bool      `json:"is_available"`
}

func toMenuItemResponse(m database.MenuItem) menuItemResponse {
	resp := menuItemResponse{
		ID:          m.ID,
		CategoryID:  m.CategoryID,
		Name:        m.Name,
		Price:       numericToString(m.Price),
		IsAvailable: m.IsAvailable,
	}
	if m.Description.Valid {
		resp.Description = &m.Description.String
	}
	return resp
}

type addonRequest struct {
	Name      string `json:"name"`
	Price     string `json:"price"`
	SortOrder int32  `json:"sort_order"`
}

type addonResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	SortOrder int32     `json:"sort_order"`
}

func toAddonResponse(a database.Addon) addonResponse {
	return addonResponse{
		ID:        a.ID,
		Name:      a.Name,
		Price:     numericToString(a.Price),
		SortOrder: a.SortOrder,
	}
}

// publicMenuCategory groups available items under a category for the
// storefront menu.
type publicMenuCategory struct {
	ID    uuid.UUID        `json:"id"`
	Name  string           `json:"name"`
	Items []publicMenuItem `json:"items"`
}

type publicMenuItem struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       string          `json:"price"`
	Addons      []addonResponse `json:"addons"`
}

// --- Menu item handlers ---

func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tenant ID"})
		return
	}

	items, err := h.store.ListMenuItemsByTenant(r.Context(), tenantID)
	if err != nil {
		log.Printf("ERROR: list menu items: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]menuItemResponse, len(items))
	for i, m := range items {
		resp[i] = toMenuItemResponse(m)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tenant ID"})
		return
	}

	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" || req.Price == "" || req.CategoryID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name, price and category_id are required"})
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category_id"})
		return
	}

	price, err := parseNumeric(req.Price)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid price"})
		return
	}

	desc := pgtype.Text{}
	if req.Description != "" {
		desc = pgtype.Text{String: req.Description, Valid: true}
	}

	item, err := h.store.CreateMenuItem(r.Context(), database.CreateMenuItemParams{
		TenantID:    tenantID,
		CategoryID:  categoryID,
		Name:        req.Name,
		Description: desc,
		Price:       price,
	})
	if err != nil {
		log.Printf("ERROR: create menu item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toMenuItemResponse(item))
}

func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tenant ID"})
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item ID"})
		return
	}

	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" || req.Price == "" || req.CategoryID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name, price and category_id are required"})
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category_id"})
		return
	}

	price, err := parseNumeric(req.Price)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid price"})
		return
	}

	desc := pgtype.Text{}
	if req.Description != "" {
		desc = pgtype.Text{String: req.Description, Valid: true}
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	item, err := h.store.UpdateMenuItem(r.Context(), database.UpdateMenuItemParams{
		ID:          itemID,
		TenantID:    tenantID,
		CategoryID:  categoryID,
		Name:        req.Name,
		Description: desc,
		Price:       price,
		IsAvailable: available,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu item not found"})
			return
		}
		log.Printf("ERROR: update menu item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toMenuItemResponse(item))
}

func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tenant ID"})
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item ID"})
		return
	}

	_, err = h.store.DeleteMenuItem(r.Context(), database.DeleteMenuItemParams{
		ID:       itemID,
		TenantID: tenantID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu item not found"})
			return
		}
		log.Printf("ERROR: delete menu item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Addon handlers ---

func (h *MenuHandler) ListAddons(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item ID"})
		return
	}

	addons, err := h.store.ListAddonsByMenuItem(r.Context(), itemID)
	if err != nil {
		log.Printf("ERROR: list addons: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]addonResponse, len(addons))
	for i, a := range addons {
		resp[i] = toAddonResponse(a)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *MenuHandler) CreateAddon(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item ID"})
		return
	}

	var req addonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" || req.Price == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name and price are required"})
		return
	}

	price, err := parseNumeric(req.Price)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid price"})
		return
	}

	addon, err := h.store.CreateAddon(r.Context(), database.CreateAddonParams{
		MenuItemID: itemID,
		Name:       req.Name,
		Price:      price,
		SortOrder:  req.SortOrder,
	})
	if err != nil {
		log.Printf("ERROR: create addon: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toAddonResponse(addon))
}

func (h *MenuHandler) UpdateAddon(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item ID"})
		return
	}

	addonID, err := uuid.Parse(chi.URLParam(r, "aid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid addon ID"})
		return
	}

	var req addonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" || req.Price == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name and price are required"})
		return
	}

	price, err := parseNumeric(req.Price)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid price"})
		return
	}

	addon, err := h.store.UpdateAddon(r.Context(), database.UpdateAddonParams{
		ID:         addonID,
		MenuItemID: itemID,
		Name:       req.Name,
		Price:      price,
		SortOrder:  req.SortOrder,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "addon not found"})
			return
		}
		log.Printf("ERROR: update addon: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toAddonResponse(addon))
}

func (h *MenuHandler) DeleteAddon(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item ID"})
		return
	}

	addonID, err := uuid.Parse(chi.URLParam(r, "aid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid addon ID"})
		return
	}

	_, err = h.store.SoftDeleteAddon(r.Context(), database.SoftDeleteAddonParams{
		ID:         addonID,
		MenuItemID: itemID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "addon not found"})
			return
		}
		log.Printf("ERROR: delete addon: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Storefront ---

// PublicMenu returns the customer-facing menu: active categories with their
// available items and addons. Mounted publicly at GET /tenants/{tid}/menu.
func (h *MenuHandler) PublicMenu(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tenant ID"})
		return
	}

	categories, err := h.store.ListCategoriesByTenant(r.Context(), tenantID)
	if err != nil {
		log.Printf("ERROR: public menu categories: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	items, err := h.store.ListMenuItemsByTenant(r.Context(), tenantID)
	if err != nil {
		log.Printf("ERROR: public menu items: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	byCategory := make(map[uuid.UUID][]publicMenuItem)
	for _, m := range items {
		if !m.IsAvailable {
			continue
		}
		addons, err := h.store.ListAddonsByMenuItem(r.Context(), m.ID)
		if err != nil {
			log.Printf("ERROR: public menu addons: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		addonResp := make([]addonResponse, len(addons))
		for i, a := range addons {
			addonResp[i] = toAddonResponse(a)
		}

		entry := publicMenuItem{
			ID:     m.ID,
			Name:   m.Name,
			Price:  numericToString(m.Price),
			Addons: addonResp,
		}
		if m.Description.Valid {
			entry.Description = &m.Description.String
		}
		byCategory[m.CategoryID] = append(byCategory[m.CategoryID], entry)
	}

	resp := make([]publicMenuCategory, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, publicMenuCategory{
			ID:    c.ID,
			Name:  c.Name,
			Items: byCategory[c.ID],
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
