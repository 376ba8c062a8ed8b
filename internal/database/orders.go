package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `id, tenant_id, order_number, order_type, status, customer_name,
	customer_email, customer_phone, postcode, address, scheduled_for,
	subtotal, tax_amount, delivery_fee, discount_amount, total_amount,
	voucher_code, notes, created_at, updated_at`

func scanOrder(row interface{ Scan(dest ...any) error }) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.TenantID, &o.OrderNumber, &o.OrderType, &o.Status,
		&o.CustomerName, &o.CustomerEmail, &o.CustomerPhone, &o.Postcode, &o.Address,
		&o.ScheduledFor, &o.Subtotal, &o.TaxAmount, &o.DeliveryFee, &o.DiscountAmount,
		&o.TotalAmount, &o.VoucherCode, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

// GetNextOrderNumber returns the next sequential number for today's orders.
// Numbers restart each day; the orders_tenant_id_order_number_key index is
// day-scoped to match. Concurrent transactions can read the same MAX; the
// caller retries on the resulting unique violation.
func (q *Queries) GetNextOrderNumber(ctx context.Context, tenantID uuid.UUID) (int32, error) {
	var next int32
	err := q.db.QueryRow(ctx, `
		SELECT COALESCE(MAX(CAST(SUBSTRING(order_number FROM 4) AS INTEGER)), 0) + 1
		FROM orders
		WHERE tenant_id = $1 AND created_at::date = CURRENT_DATE`, tenantID).
		Scan(&next)
	return next, err
}

type CreateOrderParams struct {
	TenantID       uuid.UUID
	OrderNumber    string
	OrderType      string
	CustomerName   string
	CustomerEmail  pgtype.Text
	CustomerPhone  pgtype.Text
	Postcode       pgtype.Text
	Address        pgtype.Text
	ScheduledFor   pgtype.Timestamptz
	Subtotal       pgtype.Numeric
	TaxAmount      pgtype.Numeric
	DeliveryFee    pgtype.Numeric
	DiscountAmount pgtype.Numeric
	TotalAmount    pgtype.Numeric
	VoucherCode    pgtype.Text
	Notes          pgtype.Text
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO orders (
			tenant_id, order_number, order_type, customer_name, customer_email,
			customer_phone, postcode, address, scheduled_for, subtotal, tax_amount,
			delivery_fee, discount_amount, total_amount, voucher_code, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING `+orderColumns,
		arg.TenantID, arg.OrderNumber, arg.OrderType, arg.CustomerName, arg.CustomerEmail,
		arg.CustomerPhone, arg.Postcode, arg.Address, arg.ScheduledFor, arg.Subtotal,
		arg.TaxAmount, arg.DeliveryFee, arg.DiscountAmount, arg.TotalAmount,
		arg.VoucherCode, arg.Notes)
	return scanOrder(row)
}

type CreateOrderItemParams struct {
	OrderID             uuid.UUID
	MenuItemID          uuid.UUID
	ItemName            string
	Quantity            int32
	UnitPrice           pgtype.Numeric
	Subtotal            pgtype.Numeric
	SpecialInstructions pgtype.Text
}

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error) {
	var item OrderItem
	err := q.db.QueryRow(ctx, `
		INSERT INTO order_items (order_id, menu_item_id, item_name, quantity, unit_price, subtotal, special_instructions)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, order_id, menu_item_id, item_name, quantity, unit_price, subtotal, special_instructions`,
		arg.OrderID, arg.MenuItemID, arg.ItemName, arg.Quantity, arg.UnitPrice,
		arg.Subtotal, arg.SpecialInstructions).
		Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.ItemName, &item.Quantity,
			&item.UnitPrice, &item.Subtotal, &item.SpecialInstructions)
	return item, err
}

type CreateOrderItemAddonParams struct {
	OrderItemID uuid.UUID
	AddonID     uuid.UUID
	AddonName   string
	Price       pgtype.Numeric
}

func (q *Queries) CreateOrderItemAddon(ctx context.Context, arg CreateOrderItemAddonParams) (OrderItemAddon, error) {
	var a OrderItemAddon
	err := q.db.QueryRow(ctx, `
		INSERT INTO order_item_addons (order_item_id, addon_id, addon_name, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id, order_item_id, addon_id, addon_name, price`,
		arg.OrderItemID, arg.AddonID, arg.AddonName, arg.Price).
		Scan(&a.ID, &a.OrderItemID, &a.AddonID, &a.AddonName, &a.Price)
	return a, err
}

type GetOrderParams struct {
	ID       uuid.UUID
	TenantID uuid.UUID
}

func (q *Queries) GetOrder(ctx context.Context, arg GetOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE id = $1 AND tenant_id = $2`, arg.ID, arg.TenantID)
	return scanOrder(row)
}

type ListOrdersParams struct {
	TenantID uuid.UUID
	Status   pgtype.Text
	Limit    int32
	Offset   int32
}

func (q *Queries) ListOrders(ctx context.Context, arg ListOrdersParams) ([]Order, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE tenant_id = $1 AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`,
		arg.TenantID, arg.Status, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (q *Queries) ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, order_id, menu_item_id, item_name, quantity, unit_price, subtotal, special_instructions
		FROM order_items
		WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.ItemName,
			&item.Quantity, &item.UnitPrice, &item.Subtotal, &item.SpecialInstructions); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (q *Queries) ListOrderItemAddonsByOrderItem(ctx context.Context, orderItemID uuid.UUID) ([]OrderItemAddon, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, order_item_id, addon_id, addon_name, price
		FROM order_item_addons
		WHERE order_item_id = $1`, orderItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addons []OrderItemAddon
	for rows.Next() {
		var a OrderItemAddon
		if err := rows.Scan(&a.ID, &a.OrderItemID, &a.AddonID, &a.AddonName, &a.Price); err != nil {
			return nil, err
		}
		addons = append(addons, a)
	}
	return addons, rows.Err()
}

type UpdateOrderStatusParams struct {
	ID       uuid.UUID
	TenantID uuid.UUID
	Status   string
}

func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE orders
		SET status = $3, updated_at = now()
		WHERE id = $1 AND tenant_id = $2
		RETURNING `+orderColumns,
		arg.ID, arg.TenantID, arg.Status)
	return scanOrder(row)
}

type CancelOrderParams struct {
	ID       uuid.UUID
	TenantID uuid.UUID
}

func (q *Queries) CancelOrder(ctx context.Context, arg CancelOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE orders
		SET status = 'CANCELLED', updated_at = now()
		WHERE id = $1 AND tenant_id = $2 AND status NOT IN ('COMPLETED', 'CANCELLED')
		RETURNING `+orderColumns,
		arg.ID, arg.TenantID)
	return scanOrder(row)
}
