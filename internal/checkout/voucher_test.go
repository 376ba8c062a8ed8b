package checkout

import (
	"errors"
	"testing"
	"time"

	"github.com/dineflow/api/internal/enum"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func testVouchers(expiry *time.Time) []Voucher {
	return []Voucher{
		{Code: "WELCOME10", Type: enum.VoucherTypePercentage, Value: dec("10"), MinOrder: dec("20"), MaxDiscount: decPtr("5"), Active: true},
		{Code: "FIVER", Type: enum.VoucherTypeAmount, Value: dec("5"), MinOrder: dec("15"), Active: true},
		{Code: "OLD", Type: enum.VoucherTypeAmount, Value: dec("3"), ExpiresAt: expiry, Active: true},
		{Code: "DISABLED", Type: enum.VoucherTypeAmount, Value: dec("5"), Active: false},
	}
}

func TestValidateVoucher_CaseInsensitive(t *testing.T) {
	now := time.Now()
	for _, code := range []string{"WELCOME10", "welcome10", " Welcome10 "} {
		v, err := ValidateVoucher(code, testVouchers(nil), dec("50"), now)
		if err != nil {
			t.Fatalf("ValidateVoucher(%q): %v", code, err)
		}
		if v.Code != "WELCOME10" {
			t.Errorf("ValidateVoucher(%q): matched %q", code, v.Code)
		}
	}
}

func TestValidateVoucher_NotFound(t *testing.T) {
	_, err := ValidateVoucher("NOPE", testVouchers(nil), dec("50"), time.Now())
	if !errors.Is(err, ErrVoucherNotFound) {
		t.Fatalf("expected ErrVoucherNotFound, got: %v", err)
	}
}

func TestValidateVoucher_InactiveIsNotFound(t *testing.T) {
	_, err := ValidateVoucher("DISABLED", testVouchers(nil), dec("50"), time.Now())
	if !errors.Is(err, ErrVoucherNotFound) {
		t.Fatalf("expected ErrVoucherNotFound for inactive voucher, got: %v", err)
	}
}

func TestValidateVoucher_BelowMinOrder(t *testing.T) {
	_, err := ValidateVoucher("WELCOME10", testVouchers(nil), dec("19.99"), time.Now())
	if !errors.Is(err, ErrVoucherMinOrder) {
		t.Fatalf("expected ErrVoucherMinOrder, got: %v", err)
	}
}

func TestValidateVoucher_Expired(t *testing.T) {
	yesterday := time.Now().Add(-24 * time.Hour)
	_, err := ValidateVoucher("OLD", testVouchers(&yesterday), dec("50"), time.Now())
	if !errors.Is(err, ErrVoucherExpired) {
		t.Fatalf("expected ErrVoucherExpired, got: %v", err)
	}
}

func TestValidateVoucher_FutureExpiryStillValid(t *testing.T) {
	tomorrow := time.Now().Add(24 * time.Hour)
	v, err := ValidateVoucher("OLD", testVouchers(&tomorrow), dec("50"), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Code != "OLD" {
		t.Errorf("matched %q, want OLD", v.Code)
	}
}

func TestComputeDiscount(t *testing.T) {
	tests := []struct {
		name     string
		voucher  Voucher
		subtotal string
		want     string
	}{
		{
			name:     "amount",
			voucher:  Voucher{Type: enum.VoucherTypeAmount, Value: dec("5")},
			subtotal: "50",
			want:     "5",
		},
		{
			name:     "percentage",
			voucher:  Voucher{Type: enum.VoucherTypePercentage, Value: dec("10")},
			subtotal: "50",
			want:     "5",
		},
		{
			// 10% of 100 capped at 5, not 10.
			name:     "percentage capped by max discount",
			voucher:  Voucher{Type: enum.VoucherTypePercentage, Value: dec("10"), MaxDiscount: decPtr("5")},
			subtotal: "100",
			want:     "5",
		},
		{
			name:     "amount capped by max discount",
			voucher:  Voucher{Type: enum.VoucherTypeAmount, Value: dec("20"), MaxDiscount: decPtr("12")},
			subtotal: "100",
			want:     "12",
		},
		{
			name:     "amount clamped to subtotal",
			voucher:  Voucher{Type: enum.VoucherTypeAmount, Value: dec("500")},
			subtotal: "30",
			want:     "30",
		},
		{
			name:     "negative value clamped to zero",
			voucher:  Voucher{Type: enum.VoucherTypeAmount, Value: dec("-5")},
			subtotal: "30",
			want:     "0",
		},
		{
			name:     "zero subtotal",
			voucher:  Voucher{Type: enum.VoucherTypePercentage, Value: dec("50")},
			subtotal: "0",
			want:     "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDiscount(tt.voucher, dec(tt.subtotal))
			if !got.Equal(dec(tt.want)) {
				t.Errorf("ComputeDiscount: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeDiscount_NeverExceedsSubtotal(t *testing.T) {
	subtotals := []string{"0", "0.01", "7.49", "22", "100", "9999.99"}
	vouchers := []Voucher{
		{Type: enum.VoucherTypeAmount, Value: dec("10000")},
		{Type: enum.VoucherTypePercentage, Value: dec("150")},
		{Type: enum.VoucherTypePercentage, Value: dec("100"), MaxDiscount: decPtr("50")},
	}

	for _, s := range subtotals {
		subtotal := dec(s)
		for _, v := range vouchers {
			if d := ComputeDiscount(v, subtotal); d.GreaterThan(subtotal) {
				t.Errorf("discount %v exceeds subtotal %v for voucher %+v", d, subtotal, v)
			}
		}
	}
}
