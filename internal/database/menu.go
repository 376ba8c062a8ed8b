package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// --- Categories ---

const categoryColumns = `id, tenant_id, name, sort_order, is_active, created_at`

func scanCategory(row interface{ Scan(dest ...any) error }) (Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.TenantID, &c.Name, &c.SortOrder, &c.IsActive, &c.CreatedAt)
	return c, err
}

func (q *Queries) ListCategoriesByTenant(ctx context.Context, tenantID uuid.UUID) ([]Category, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE tenant_id = $1 AND is_active = TRUE
		ORDER BY sort_order, name`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

type CreateCategoryParams struct {
	TenantID  uuid.UUID
	Name      string
	SortOrder int32
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO categories (tenant_id, name, sort_order)
		VALUES ($1, $2, $3)
		RETURNING `+categoryColumns,
		arg.TenantID, arg.Name, arg.SortOrder)
	return scanCategory(row)
}

type UpdateCategoryParams struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Name      string
	SortOrder int32
}

func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (Category, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE categories
		SET name = $3, sort_order = $4
		WHERE id = $1 AND tenant_id = $2 AND is_active = TRUE
		RETURNING `+categoryColumns,
		arg.ID, arg.TenantID, arg.Name, arg.SortOrder)
	return scanCategory(row)
}

type SoftDeleteCategoryParams struct {
	ID       uuid.UUID
	TenantID uuid.UUID
}

func (q *Queries) SoftDeleteCategory(ctx context.Context, arg SoftDeleteCategoryParams) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE categories
		SET is_active = FALSE
		WHERE id = $1 AND tenant_id = $2 AND is_active = TRUE
		RETURNING id`, arg.ID, arg.TenantID)
	var id uuid.UUID
	err := row.Scan(&id)
	return id, err
}

// --- Menu items ---

const menuItemColumns = `id, tenant_id, category_id, name, description, price, is_available, created_at, updated_at`

func scanMenuItem(row interface{ Scan(dest ...any) error }) (MenuItem, error) {
	var m MenuItem
	err := row.Scan(&m.ID, &m.TenantID, &m.CategoryID, &m.Name, &m.Description,
		&m.Price, &m.IsAvailable, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func (q *Queries) ListMenuItemsByTenant(ctx context.Context, tenantID uuid.UUID) ([]MenuItem, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+menuItemColumns+` FROM menu_items
		WHERE tenant_id = $1
		ORDER BY name`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

type CreateMenuItemParams struct {
	TenantID    uuid.UUID
	CategoryID  uuid.UUID
	Name        string
	Description pgtype.Text
	Price       pgtype.Numeric
}

func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO menu_items (tenant_id, category_id, name, description, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+menuItemColumns,
		arg.TenantID, arg.CategoryID, arg.Name, arg.Description, arg.Price)
	return scanMenuItem(row)
}

type UpdateMenuItemParams struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	CategoryID  uuid.UUID
	Name        string
	Description pgtype.Text
	Price       pgtype.Numeric
	IsAvailable bool
}

func (q *Queries) UpdateMenuItem(ctx context.Context, arg UpdateMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE menu_items
		SET category_id = $3, name = $4, description = $5, price = $6,
		    is_available = $7, updated_at = now()
		WHERE id = $1 AND tenant_id = $2
		RETURNING `+menuItemColumns,
		arg.ID, arg.TenantID, arg.CategoryID, arg.Name, arg.Description, arg.Price, arg.IsAvailable)
	return scanMenuItem(row)
}

type DeleteMenuItemParams struct {
	ID       uuid.UUID
	TenantID uuid.UUID
}

func (q *Queries) DeleteMenuItem(ctx context.Context, arg DeleteMenuItemParams) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE menu_items
		SET is_available = FALSE, updated_at = now()
		WHERE id = $1 AND tenant_id = $2
		RETURNING id`, arg.ID, arg.TenantID)
	var id uuid.UUID
	err := row.Scan(&id)
	return id, err
}

// GetMenuItemForOrderParams scopes the lookup to a tenant so one tenant's
// checkout can never price another tenant's items.
type GetMenuItemForOrderParams struct {
	ID       uuid.UUID
	TenantID uuid.UUID
}

type GetMenuItemForOrderRow struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Name        string
	Price       pgtype.Numeric
	IsAvailable bool
}

func (q *Queries) GetMenuItemForOrder(ctx context.Context, arg GetMenuItemForOrderParams) (GetMenuItemForOrderRow, error) {
	var r GetMenuItemForOrderRow
	err := q.db.QueryRow(ctx, `
		SELECT id, tenant_id, name, price, is_available FROM menu_items
		WHERE id = $1 AND tenant_id = $2`,
		arg.ID, arg.TenantID).
		Scan(&r.ID, &r.TenantID, &r.Name, &r.Price, &r.IsAvailable)
	return r, err
}

// --- Addons ---

const addonColumns = `id, menu_item_id, name, price, sort_order, is_active`

func scanAddon(row interface{ Scan(dest ...any) error }) (Addon, error) {
	var a Addon
	err := row.Scan(&a.ID, &a.MenuItemID, &a.Name, &a.Price, &a.SortOrder, &a.IsActive)
	return a, err
}

func (q *Queries) ListAddonsByMenuItem(ctx context.Context, menuItemID uuid.UUID) ([]Addon, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+addonColumns+` FROM addons
		WHERE menu_item_id = $1 AND is_active = TRUE
		ORDER BY sort_order, name`, menuItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addons []Addon
	for rows.Next() {
		a, err := scanAddon(rows)
		if err != nil {
			return nil, err
		}
		addons = append(addons, a)
	}
	return addons, rows.Err()
}

type CreateAddonParams struct {
	MenuItemID uuid.UUID
	Name       string
	Price      pgtype.Numeric
	SortOrder  int32
}

func (q *Queries) CreateAddon(ctx context.Context, arg CreateAddonParams) (Addon, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO addons (menu_item_id, name, price, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING `+addonColumns,
		arg.MenuItemID, arg.Name, arg.Price, arg.SortOrder)
	return scanAddon(row)
}

type UpdateAddonParams struct {
	ID         uuid.UUID
	MenuItemID uuid.UUID
	Name       string
	Price      pgtype.Numeric
	SortOrder  int32
}

func (q *Queries) UpdateAddon(ctx context.Context, arg UpdateAddonParams) (Addon, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE addons
		SET name = $3, price = $4, sort_order = $5
		WHERE id = $1 AND menu_item_id = $2 AND is_active = TRUE
		RETURNING `+addonColumns,
		arg.ID, arg.MenuItemID, arg.Name, arg.Price, arg.SortOrder)
	return scanAddon(row)
}

type SoftDeleteAddonParams struct {
	ID         uuid.UUID
	MenuItemID uuid.UUID
}

func (q *Queries) SoftDeleteAddon(ctx context.Context, arg SoftDeleteAddonParams) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE addons
		SET is_active = FALSE
		WHERE id = $1 AND menu_item_id = $2 AND is_active = TRUE
		RETURNING id`, arg.ID, arg.MenuItemID)
	var id uuid.UUID
	err := row.Scan(&id)
	return id, err
}

type GetAddonForOrderRow struct {
	ID         uuid.UUID
	MenuItemID uuid.UUID
	Name       string
	Price      pgtype.Numeric
}

func (q *Queries) GetAddonForOrder(ctx context.Context, id uuid.UUID) (GetAddonForOrderRow, error) {
	var r GetAddonForOrderRow
	err := q.db.QueryRow(ctx, `
		SELECT id, menu_item_id, name, price FROM addons
		WHERE id = $1 AND is_active = TRUE`, id).
		Scan(&r.ID, &r.MenuItemID, &r.Name, &r.Price)
	return r, err
}
