// Package checkout holds the pure pricing logic shared by the customer
// checkout flow and the order service: delivery-zone fee resolution, voucher
// validation, time-slot generation and order total calculation. Everything
// here is a function of its inputs, with no I/O and no shared state.
package checkout

import (
	"time"

	"github.com/shopspring/decimal"
)

// Zone is a postcode-prefix-keyed delivery fee bucket.
type Zone struct {
	Name        string
	Postcodes   []string
	DeliveryFee decimal.Decimal
}

// Voucher is a discount code as configured by a tenant admin.
// MaxDiscount and ExpiresAt are nil when unset.
type Voucher struct {
	Code        string
	Type        string // enum.VoucherTypeAmount or enum.VoucherTypePercentage
	Value       decimal.Decimal
	MinOrder    decimal.Decimal
	MaxDiscount *decimal.Decimal
	ExpiresAt   *time.Time
	Active      bool
}

// Addon is a priced modifier attached to a line item.
type Addon struct {
	Name  string
	Price decimal.Decimal
}

// LineItem is a cart line with its price snapshot taken at add-to-cart time.
type LineItem struct {
	UnitPrice decimal.Decimal
	Quantity  int32
	Addons    []Addon
}

// DayHours is one day's opening-hours configuration. Exactly one shape is
// populated at a time: Closed, SINGLE (OpenTime/CloseTime) or SPLIT
// (Morning*/Evening*).
type DayHours struct {
	Closed       bool   `json:"closed"`
	TimeMode     string `json:"time_mode"`
	OpenTime     string `json:"open_time"`
	CloseTime    string `json:"close_time"`
	MorningOpen  string `json:"morning_open"`
	MorningClose string `json:"morning_close"`
	EveningOpen  string `json:"evening_open"`
	EveningClose string `json:"evening_close"`
}

// Totals is the result of ComputeTotal. Values are exact decimals; rounding
// to 2 places is a presentation concern.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}
