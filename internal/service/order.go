package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dineflow/api/internal/checkout"
	"github.com/dineflow/api/internal/database"
	"github.com/dineflow/api/internal/enum"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const maxOrderNumberRetries = 3

// Errors returned by the order service.
var (
	ErrEmptyItems           = errors.New("items are required")
	ErrInvalidOrderType     = errors.New("invalid order_type")
	ErrOrderTypeDisabled    = errors.New("order type is not enabled for this restaurant")
	ErrInvalidQuantity      = errors.New("quantity must be > 0")
	ErrCustomerNameRequired = errors.New("customer_name is required")
	ErrInvalidMenuItemID    = errors.New("invalid menu_item_id")
	ErrInvalidAddonID       = errors.New("invalid addon_id")
	ErrMenuItemNotFound     = errors.New("menu item not found for restaurant")
	ErrMenuItemUnavailable  = errors.New("menu item is not available")
	ErrAddonNotFound        = errors.New("addon not found")
	ErrAddonMismatch        = errors.New("addon does not belong to menu item")
	ErrPostcodeRequired     = errors.New("postcode is required for delivery orders")
	ErrAddressRequired      = errors.New("address is required for delivery orders")
	ErrDeliveryUnavailable  = errors.New("delivery is not available to this postcode")
	ErrScheduledTime        = errors.New("scheduled_for is required for advance orders")
	ErrInvalidScheduledTime = errors.New("invalid scheduled_for")
	ErrSlotUnavailable      = errors.New("scheduled time is not a bookable slot")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed to create orders.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	GetNextOrderNumber(ctx context.Context, tenantID uuid.UUID) (int32, error)
	GetSettings(ctx context.Context, tenantID uuid.UUID) (database.TenantSettings, error)
	GetMenuItemForOrder(ctx context.Context, arg database.GetMenuItemForOrderParams) (database.GetMenuItemForOrderRow, error)
	GetAddonForOrder(ctx context.Context, id uuid.UUID) (database.GetAddonForOrderRow, error)
	ListDeliveryZonesByTenant(ctx context.Context, tenantID uuid.UUID) ([]database.DeliveryZone, error)
	ListActiveVouchersByTenant(ctx context.Context, tenantID uuid.UUID) ([]database.Voucher, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
	CreateOrderItemAddon(ctx context.Context, arg database.CreateOrderItemAddonParams) (database.OrderItemAddon, error)
	IncrementVoucherRedemptions(ctx context.Context, arg database.IncrementVoucherRedemptionsParams) error
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
// This allows the service to create store instances from transactions.
type NewOrderStore func(db database.DBTX) OrderStore

// CreateOrderRequest is the validated input for creating an order.
type CreateOrderRequest struct {
	TenantID      uuid.UUID
	OrderType     string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Postcode      string
	Address       string
	ScheduledFor  string // RFC3339, required for ADVANCE
	VoucherCode   string
	Notes         string
	Items         []CreateOrderItemRequest
}

// CreateOrderItemRequest is a single item in the order.
type CreateOrderItemRequest struct {
	MenuItemID          string
	Quantity            int32
	SpecialInstructions string
	AddonIDs            []string
}

// CreateOrderResult is the full created order with items.
type CreateOrderResult struct {
	Order database.Order
	Items []OrderItemResult
}

// OrderItemResult is an item with its selected addons.
type OrderItemResult struct {
	Item   database.OrderItem
	Addons []database.OrderItemAddon
}

// OrderService handles checkout business logic.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
}

// NewOrderService creates a new OrderService.
func NewOrderService(pool TxBeginner, newStore NewOrderStore) *OrderService {
	return &OrderService{pool: pool, newStore: newStore}
}

// addonInfo holds a priced addon snapshot to insert.
type addonInfo struct {
	addonID uuid.UUID
	name    string
	price   decimal.Decimal
}

// processedItem holds a prepared order item and its addon snapshots.
type processedItem struct {
	params database.CreateOrderItemParams
	line   checkout.LineItem
	addons []addonInfo
}

// CreateOrder validates, prices and creates an order atomically. Retries up
// to maxOrderNumberRetries times on order_number unique constraint violations
// (concurrent transactions can read the same MAX).
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	orderType, err := validateOrderType(req.OrderType)
	if err != nil {
		return nil, err
	}

	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return nil, ErrCustomerNameRequired
	}

	if orderType == enum.OrderTypeDelivery {
		if strings.TrimSpace(req.Postcode) == "" {
			return nil, ErrPostcodeRequired
		}
		if strings.TrimSpace(req.Address) == "" {
			return nil, ErrAddressRequired
		}
	}
	if orderType == enum.OrderTypeAdvance && req.ScheduledFor == "" {
		return nil, ErrScheduledTime
	}

	var lastErr error
	for attempt := 0; attempt < maxOrderNumberRetries; attempt++ {
		result, err := s.createOrderTx(ctx, req, orderType)
		if err == nil {
			return result, nil
		}
		if isOrderNumberConflict(err) {
			lastErr = err
			continue
		}
		return nil, err
	}
	return nil, lastErr
}

// isOrderNumberConflict checks if the error is a unique constraint violation
// on the order number (pgconn error code 23505).
func isOrderNumberConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "orders_tenant_id_order_number_key"
	}
	return false
}

// createOrderTx executes the full checkout in a single transaction.
func (s *OrderService) createOrderTx(ctx context.Context, req CreateOrderRequest, orderType string) (*CreateOrderResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	settings, err := store.GetSettings(ctx, req.TenantID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get settings: %w", err)
		}
		settings = defaultSettings(req.TenantID)
	}
	if !orderTypeEnabled(orderType, settings) {
		return nil, ErrOrderTypeDisabled
	}

	nextNum, err := store.GetNextOrderNumber(ctx, req.TenantID)
	if err != nil {
		return nil, fmt.Errorf("get next order number: %w", err)
	}
	orderNumber := fmt.Sprintf("DF-%03d", nextNum)

	// --- Process items: validate + snapshot prices ---
	var items []processedItem
	var lines []checkout.LineItem

	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("item[%d]: %w", i, ErrInvalidQuantity)
		}

		menuItemID, err := uuid.Parse(item.MenuItemID)
		if err != nil {
			return nil, fmt.Errorf("item[%d]: %w", i, ErrInvalidMenuItemID)
		}

		menuItem, err := store.GetMenuItemForOrder(ctx, database.GetMenuItemForOrderParams{
			ID:       menuItemID,
			TenantID: req.TenantID,
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("item[%d]: %w", i, ErrMenuItemNotFound)
			}
			return nil, fmt.Errorf("item[%d]: get menu item: %w", i, err)
		}
		if !menuItem.IsAvailable {
			return nil, fmt.Errorf("item[%d]: %w", i, ErrMenuItemUnavailable)
		}

		unitPrice := numericToDecimal(menuItem.Price)

		var itemAddons []addonInfo
		var lineAddons []checkout.Addon
		for j, addonIDStr := range item.AddonIDs {
			addonID, err := uuid.Parse(addonIDStr)
			if err != nil {
				return nil, fmt.Errorf("item[%d].addons[%d]: %w", i, j, ErrInvalidAddonID)
			}
			addon, err := store.GetAddonForOrder(ctx, addonID)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return nil, fmt.Errorf("item[%d].addons[%d]: %w", i, j, ErrAddonNotFound)
				}
				return nil, fmt.Errorf("item[%d].addons[%d]: get addon: %w", i, j, err)
			}
			if addon.MenuItemID != menuItemID {
				return nil, fmt.Errorf("item[%d].addons[%d]: %w", i, j, ErrAddonMismatch)
			}
			price := numericToDecimal(addon.Price)
			itemAddons = append(itemAddons, addonInfo{addonID: addonID, name: addon.Name, price: price})
			lineAddons = append(lineAddons, checkout.Addon{Name: addon.Name, Price: price})
		}

		line := checkout.LineItem{UnitPrice: unitPrice, Quantity: item.Quantity, Addons: lineAddons}
		lines = append(lines, line)

		// per-line subtotal for the item row
		lineTotals := checkout.ComputeTotal([]checkout.LineItem{line}, decimal.Zero, decimal.Zero, decimal.Zero)

		instructions := pgtype.Text{}
		if item.SpecialInstructions != "" {
			instructions = pgtype.Text{String: item.SpecialInstructions, Valid: true}
		}

		items = append(items, processedItem{
			params: database.CreateOrderItemParams{
				MenuItemID:          menuItemID,
				ItemName:            menuItem.Name,
				Quantity:            item.Quantity,
				UnitPrice:           decimalToNumeric(unitPrice),
				Subtotal:            decimalToNumeric(lineTotals.Subtotal),
				SpecialInstructions: instructions,
			},
			line:   line,
			addons: itemAddons,
		})
	}

	subtotal := checkout.ComputeTotal(lines, decimal.Zero, decimal.Zero, decimal.Zero).Subtotal

	// --- Resolve delivery fee ---
	deliveryFee := decimal.Zero
	if orderType == enum.OrderTypeDelivery {
		zoneRows, err := store.ListDeliveryZonesByTenant(ctx, req.TenantID)
		if err != nil {
			return nil, fmt.Errorf("list delivery zones: %w", err)
		}
		zone, ok := checkout.ResolveZone(req.Postcode, toCheckoutZones(zoneRows))
		if !ok {
			return nil, ErrDeliveryUnavailable
		}
		deliveryFee = zone.DeliveryFee
	}

	// --- Validate voucher ---
	discount := decimal.Zero
	voucherCode := pgtype.Text{}
	if req.VoucherCode != "" {
		voucherRows, err := store.ListActiveVouchersByTenant(ctx, req.TenantID)
		if err != nil {
			return nil, fmt.Errorf("list vouchers: %w", err)
		}
		voucher, err := checkout.ValidateVoucher(req.VoucherCode, toCheckoutVouchers(voucherRows), subtotal, time.Now())
		if err != nil {
			return nil, err
		}
		discount = checkout.ComputeDiscount(*voucher, subtotal)
		voucherCode = pgtype.Text{String: voucher.Code, Valid: true}
	}

	// --- Validate advance scheduling against bookable slots ---
	scheduledFor := pgtype.Timestamptz{}
	if orderType == enum.OrderTypeAdvance {
		t, err := time.Parse(time.RFC3339, req.ScheduledFor)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidScheduledTime, err)
		}
		day := dayHoursFor(settings.OpeningHours, t)
		slots := checkout.GenerateSlots(day, int(settings.SlotInterval))
		if !slotMatches(slots, t) {
			return nil, ErrSlotUnavailable
		}
		scheduledFor = pgtype.Timestamptz{Time: t, Valid: true}
	}

	// --- Compute totals ---
	taxRate := numericToDecimal(settings.TaxRate)
	totals := checkout.ComputeTotal(lines, taxRate, deliveryFee, discount)
	totalAmount := totals.Total
	if totalAmount.IsNegative() {
		totalAmount = decimal.Zero
	}

	customerEmail := pgtype.Text{}
	if req.CustomerEmail != "" {
		customerEmail = pgtype.Text{String: req.CustomerEmail, Valid: true}
	}
	customerPhone := pgtype.Text{}
	if req.CustomerPhone != "" {
		customerPhone = pgtype.Text{String: req.CustomerPhone, Valid: true}
	}
	postcode := pgtype.Text{}
	if req.Postcode != "" {
		postcode = pgtype.Text{String: strings.ToUpper(strings.TrimSpace(req.Postcode)), Valid: true}
	}
	address := pgtype.Text{}
	if req.Address != "" {
		address = pgtype.Text{String: req.Address, Valid: true}
	}
	notes := pgtype.Text{}
	if req.Notes != "" {
		notes = pgtype.Text{String: req.Notes, Valid: true}
	}

	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		TenantID:       req.TenantID,
		OrderNumber:    orderNumber,
		OrderType:      orderType,
		CustomerName:   req.CustomerName,
		CustomerEmail:  customerEmail,
		CustomerPhone:  customerPhone,
		Postcode:       postcode,
		Address:        address,
		ScheduledFor:   scheduledFor,
		Subtotal:       decimalToNumeric(totals.Subtotal),
		TaxAmount:      decimalToNumeric(totals.Tax),
		DeliveryFee:    decimalToNumeric(deliveryFee),
		DiscountAmount: decimalToNumeric(discount),
		TotalAmount:    decimalToNumeric(totalAmount),
		VoucherCode:    voucherCode,
		Notes:          notes,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	var itemResults []OrderItemResult
	for _, pi := range items {
		pi.params.OrderID = order.ID
		item, err := store.CreateOrderItem(ctx, pi.params)
		if err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}

		var addonResults []database.OrderItemAddon
		for _, addon := range pi.addons {
			oia, err := store.CreateOrderItemAddon(ctx, database.CreateOrderItemAddonParams{
				OrderItemID: item.ID,
				AddonID:     addon.addonID,
				AddonName:   addon.name,
				Price:       decimalToNumeric(addon.price),
			})
			if err != nil {
				return nil, fmt.Errorf("create order item addon: %w", err)
			}
			addonResults = append(addonResults, oia)
		}

		itemResults = append(itemResults, OrderItemResult{Item: item, Addons: addonResults})
	}

	if voucherCode.Valid {
		if err := store.IncrementVoucherRedemptions(ctx, database.IncrementVoucherRedemptionsParams{
			TenantID: req.TenantID,
			Code:     voucherCode.String,
		}); err != nil {
			return nil, fmt.Errorf("increment voucher redemptions: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &CreateOrderResult{Order: order, Items: itemResults}, nil
}

// --- Helpers ---

func validateOrderType(s string) (string, error) {
	switch s {
	case enum.OrderTypeDelivery, enum.OrderTypeCollection, enum.OrderTypeAdvance:
		return s, nil
	}
	return "", ErrInvalidOrderType
}

// defaultSettings mirrors what the settings endpoint reports for a tenant
// with no settings row yet: collection on, 15-minute slots, zero tax. A
// freshly provisioned tenant can take collection orders before configuring
// anything.
func defaultSettings(tenantID uuid.UUID) database.TenantSettings {
	return database.TenantSettings{
		TenantID:          tenantID,
		TaxRate:           decimalToNumeric(decimal.Zero),
		CollectionEnabled: true,
		SlotInterval:      checkout.DefaultSlotInterval,
	}
}

func orderTypeEnabled(orderType string, settings database.TenantSettings) bool {
	switch orderType {
	case enum.OrderTypeDelivery:
		return settings.DeliveryEnabled
	case enum.OrderTypeCollection:
		return settings.CollectionEnabled
	case enum.OrderTypeAdvance:
		return settings.AdvanceEnabled
	}
	return false
}

func toCheckoutZones(rows []database.DeliveryZone) []checkout.Zone {
	zones := make([]checkout.Zone, len(rows))
	for i, row := range rows {
		zones[i] = checkout.Zone{
			Name:        row.Name,
			Postcodes:   row.Postcodes,
			DeliveryFee: numericToDecimal(row.DeliveryFee),
		}
	}
	return zones
}

func toCheckoutVouchers(rows []database.Voucher) []checkout.Voucher {
	vouchers := make([]checkout.Voucher, len(rows))
	for i, row := range rows {
		v := checkout.Voucher{
			Code:     row.Code,
			Type:     row.Type,
			Value:    numericToDecimal(row.Value),
			MinOrder: numericToDecimal(row.MinOrder),
			Active:   row.IsActive,
		}
		if row.MaxDiscount.Valid {
			max := numericToDecimal(row.MaxDiscount)
			v.MaxDiscount = &max
		}
		if row.ExpiresAt.Valid {
			exp := row.ExpiresAt.Time
			v.ExpiresAt = &exp
		}
		vouchers[i] = v
	}
	return vouchers
}

// dayHoursFor decodes the opening-hours JSON and picks the weekday's entry.
// Missing or malformed config yields the zero DayHours, whose fail-soft
// fallback windows produce no slots.
func dayHoursFor(openingHours []byte, t time.Time) checkout.DayHours {
	var week map[string]checkout.DayHours
	if err := json.Unmarshal(openingHours, &week); err != nil {
		return checkout.DayHours{}
	}
	return week[strings.ToLower(t.Weekday().String())]
}

func slotMatches(slots []string, t time.Time) bool {
	clock := t.Format("15:04")
	for _, slot := range slots {
		if slot == clock {
			return true
		}
	}
	return false
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}
