package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputeTotal_TaxAndDelivery(t *testing.T) {
	// 1x line of (10 + 1 addon) * 2 = 22; 20% tax = 4.4; +2.5 delivery = 28.9.
	items := []LineItem{
		{UnitPrice: dec("10"), Quantity: 2, Addons: []Addon{{Name: "Extra cheese", Price: dec("1")}}},
	}

	got := ComputeTotal(items, dec("0.2"), dec("2.5"), decimal.Zero)

	if !got.Subtotal.Equal(dec("22")) {
		t.Errorf("subtotal: got %v, want 22", got.Subtotal)
	}
	if !got.Tax.Equal(dec("4.4")) {
		t.Errorf("tax: got %v, want 4.4", got.Tax)
	}
	if !got.Total.Equal(dec("28.9")) {
		t.Errorf("total: got %v, want 28.9", got.Total)
	}
}

func TestComputeTotal_EmptyCart(t *testing.T) {
	got := ComputeTotal(nil, dec("0.2"), decimal.Zero, decimal.Zero)

	if !got.Subtotal.IsZero() || !got.Tax.IsZero() || !got.Total.IsZero() {
		t.Errorf("empty cart: got %+v, want all zero", got)
	}
}

func TestComputeTotal_MultipleItemsAndAddons(t *testing.T) {
	items := []LineItem{
		{UnitPrice: dec("8.50"), Quantity: 1},
		{UnitPrice: dec("12"), Quantity: 3, Addons: []Addon{
			{Name: "Chips", Price: dec("2.50")},
			{Name: "Drink", Price: dec("1.25")},
		}},
	}

	got := ComputeTotal(items, decimal.Zero, decimal.Zero, decimal.Zero)

	// 8.50 + (12 + 2.50 + 1.25) * 3 = 8.50 + 47.25 = 55.75
	if !got.Subtotal.Equal(dec("55.75")) {
		t.Errorf("subtotal: got %v, want 55.75", got.Subtotal)
	}
}

func TestComputeTotal_DiscountApplied(t *testing.T) {
	items := []LineItem{{UnitPrice: dec("20"), Quantity: 1}}

	got := ComputeTotal(items, decimal.Zero, dec("3"), dec("5"))

	if !got.Total.Equal(dec("18")) {
		t.Errorf("total: got %v, want 18", got.Total)
	}
}

func TestComputeTotal_MissingPricesTreatedAsZero(t *testing.T) {
	// Zero-value decimals stand in for prices the source guarded with || 0.
	items := []LineItem{{Quantity: 2, Addons: []Addon{{Name: "No price"}}}}

	got := ComputeTotal(items, dec("0.2"), decimal.Zero, decimal.Zero)

	if !got.Total.IsZero() {
		t.Errorf("total: got %v, want 0", got.Total)
	}
}

func TestComputeTotal_TaxNeverNegative(t *testing.T) {
	subtotals := []string{"0", "0.01", "9.99", "120"}
	rates := []string{"0", "0.05", "0.2"}

	for _, s := range subtotals {
		for _, r := range rates {
			items := []LineItem{{UnitPrice: dec(s), Quantity: 1}}
			got := ComputeTotal(items, dec(r), decimal.Zero, decimal.Zero)
			if got.Tax.IsNegative() {
				t.Errorf("tax negative for subtotal=%s rate=%s: %v", s, r, got.Tax)
			}
			if !got.Tax.Equal(dec(s).Mul(dec(r))) {
				t.Errorf("tax for subtotal=%s rate=%s: got %v", s, r, got.Tax)
			}
		}
	}
}
