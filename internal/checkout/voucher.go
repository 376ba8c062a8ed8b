package checkout

import (
	"errors"
	"strings"
	"time"

	"github.com/dineflow/api/internal/enum"
	"github.com/shopspring/decimal"
)

// Errors returned by ValidateVoucher. These are user-visible outcomes, not
// failures: the handler maps them to messages, never to a 5xx.
var (
	ErrVoucherNotFound = errors.New("voucher not found or inactive")
	ErrVoucherExpired  = errors.New("voucher has expired")
	ErrVoucherMinOrder = errors.New("order subtotal below voucher minimum")
)

// ValidateVoucher matches code case-insensitively against active vouchers and
// checks the minimum order value and expiry at the given evaluation time.
func ValidateVoucher(code string, vouchers []Voucher, subtotal decimal.Decimal, now time.Time) (*Voucher, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, ErrVoucherNotFound
	}

	for i := range vouchers {
		v := &vouchers[i]
		if !v.Active || strings.ToUpper(strings.TrimSpace(v.Code)) != normalized {
			continue
		}
		if v.ExpiresAt != nil && v.ExpiresAt.Before(now) {
			return nil, ErrVoucherExpired
		}
		if subtotal.LessThan(v.MinOrder) {
			return nil, ErrVoucherMinOrder
		}
		return v, nil
	}
	return nil, ErrVoucherNotFound
}

// ComputeDiscount returns the discount a voucher yields against a subtotal.
// The result is capped by MaxDiscount when set and clamped to [0, subtotal]
// so a voucher can never push an order total negative.
func ComputeDiscount(v Voucher, subtotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch v.Type {
	case enum.VoucherTypePercentage:
		discount = subtotal.Mul(v.Value).Div(decimal.NewFromInt(100))
	default: // AMOUNT
		discount = v.Value
	}

	if v.MaxDiscount != nil && discount.GreaterThan(*v.MaxDiscount) {
		discount = *v.MaxDiscount
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	return discount
}
