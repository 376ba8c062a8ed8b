package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/dineflow/api/internal/database"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"golang.org/x/crypto/bcrypt"
)

// TenantStore defines the database methods needed by tenant handlers.
type TenantStore interface {
	CreateTenant(ctx context.Context, arg database.CreateTenantParams) (database.Tenant, error)
	GetTenant(ctx context.Context, id uuid.UUID) (database.Tenant, error)
	ListTenants(ctx context.Context) ([]database.Tenant, error)
	UpdateTenant(ctx context.Context, arg database.UpdateTenantParams) (database.Tenant, error)
	SoftDeleteTenant(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	CreateUser(ctx context.Context, arg database.CreateUserParams) (database.User, error)
}

// TenantHandler handles super-admin tenant provisioning.
type TenantHandler struct {
	store TenantStore
}

func NewTenantHandler(store TenantStore) *TenantHandler {
	return &TenantHandler{store: store}
}

// RegisterRoutes registers tenant CRUD endpoints. Mounted behind
// RequireRole("SUPERADMIN") at /tenants.
func (h *TenantHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/users", h.CreateUser)
}

// --- Request / Response types ---

type tenantRequest struct {
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	ContactEmail string `json:"contact_email"`
}

type tenantResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	ContactEmail string    `json:"contact_email"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func toTenantResponse(t database.Tenant) tenantResponse {
	return tenantResponse{
		ID:           t.ID,
		Name:         t.Name,
		Slug:         t.Slug,
		ContactEmail: t.ContactEmail,
		IsActive:     t.IsActive,
		CreatedAt:    t.CreatedAt,
	}
}

type createTenantUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// --- Handlers ---

func (h *TenantHandler) List(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.store.ListTenants(r.Context())
	if err != nil {
		log.Printf("ERROR: list tenants: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]tenantResponse, len(tenants))
	for i, t := range tenants {
		resp[i] = toTenantResponse(t)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *TenantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req tenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" || req.Slug == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name and slug are required"})
		return
	}

	tenant, err := h.store.CreateTenant(r.Context(), database.CreateTenantParams{
		Name:         req.Name,
		Slug:         req.Slug,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		log.Printf("ERROR: create tenant: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toTenantResponse(tenant))
}

func (h *TenantHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tenant ID"})
		return
	}

	tenant, err := h.store.GetTenant(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "tenant not found"})
			return
		}
		log.Printf("ERROR: get tenant: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toTenantResponse(tenant))
}

func (h *TenantHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tenant ID"})
		return
	}

	var req tenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" || req.Slug == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name and slug are required"})
		return
	}

	tenant, err := h.store.UpdateTenant(r.Context(), database.UpdateTenantParams{
		ID:           id,
		Name:         req.Name,
		Slug:         req.Slug,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "tenant not found"})
			return
		}
		log.Printf("ERROR: update tenant: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toTenantResponse(tenant))
}

func (h *TenantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tenant ID"})
		return
	}

	if _, err := h.store.SoftDeleteTenant(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "tenant not found"})
			return
		}
		log.Printf("ERROR: delete tenant: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateUser provisions an ADMIN or STAFF account for a tenant.
func (h *TenantHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tenant ID"})
		return
	}

	var req createTenantUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email and password are required"})
		return
	}
	if req.Role != "ADMIN" && req.Role != "STAFF" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "role must be ADMIN or STAFF"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("ERROR: hash password: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	user, err := h.store.CreateUser(r.Context(), database.CreateUserParams{
		TenantID:     pgtype.UUID{Bytes: tenantID, Valid: true},
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
	})
	if err != nil {
		log.Printf("ERROR: create tenant user: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	tid := uuid.UUID(user.TenantID.Bytes)
	writeJSON(w, http.StatusCreated, userResponse{
		ID:       user.ID,
		TenantID: &tid,
		Email:    user.Email,
		Role:     user.Role,
	})
}
