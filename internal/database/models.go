package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Tenant is one restaurant instance on the platform.
type Tenant struct {
	ID           uuid.UUID
	Name         string
	Slug         string
	ContactEmail string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// User is a platform or tenant account. TenantID is null for superadmins.
type User struct {
	ID           uuid.UUID
	TenantID     pgtype.UUID
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
}

type Category struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Name      string
	SortOrder int32
	IsActive  bool
	CreatedAt time.Time
}

type MenuItem struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	CategoryID  uuid.UUID
	Name        string
	Description pgtype.Text
	Price       pgtype.Numeric
	IsAvailable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Addon is a priced modifier attached to a menu item.
type Addon struct {
	ID         uuid.UUID
	MenuItemID uuid.UUID
	Name       string
	Price      pgtype.Numeric
	SortOrder  int32
	IsActive   bool
}

// DeliveryZone is a postcode-prefix-keyed fee bucket. Zones are resolved in
// SortOrder; the first prefix match wins.
type DeliveryZone struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Name        string
	Postcodes   []string
	DeliveryFee pgtype.Numeric
	SortOrder   int32
	IsActive    bool
}

type Voucher struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Code        string
	Type        string
	Value       pgtype.Numeric
	MinOrder    pgtype.Numeric
	MaxDiscount pgtype.Numeric
	ExpiresAt   pgtype.Timestamptz
	Redemptions int32
	IsActive    bool
	CreatedAt   time.Time
}

// TenantSettings is the per-tenant configuration row (one per tenant).
// OpeningHours is a JSONB map of weekday name to checkout.DayHours.
type TenantSettings struct {
	TenantID          uuid.UUID
	TaxRate           pgtype.Numeric
	DeliveryEnabled   bool
	CollectionEnabled bool
	AdvanceEnabled    bool
	SlotInterval      int32
	OpeningHours      []byte
	EmailFromName     pgtype.Text
	EmailAccentColor  pgtype.Text
	EmailLogoURL      pgtype.Text
	EmailFooter       pgtype.Text
	UpdatedAt         time.Time
}

type Order struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	OrderNumber    string
	OrderType      string
	Status         string
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
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrderItem snapshots the menu item name and price at checkout time.
type OrderItem struct {
	ID                  uuid.UUID
	OrderID             uuid.UUID
	MenuItemID          uuid.UUID
	ItemName            string
	Quantity            int32
	UnitPrice           pgtype.Numeric
	Subtotal            pgtype.Numeric
	SpecialInstructions pgtype.Text
}

// OrderItemAddon snapshots a selected addon's name and price.
type OrderItemAddon struct {
	ID          uuid.UUID
	OrderItemID uuid.UUID
	AddonID     uuid.UUID
	AddonName   string
	Price       pgtype.Numeric
}
