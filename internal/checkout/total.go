package checkout

import "github.com/shopspring/decimal"

// ComputeTotal composes the item/addon subtotal, tax, delivery fee and
// discount into the order totals:
//
//	subtotal = Σ (unit_price + Σ addon.price) * quantity
//	tax      = subtotal * taxRate   (taxRate is a fraction, 0.2 = 20%)
//	total    = subtotal + tax + deliveryFee - discount
//
// The discount is expected to be pre-clamped by ComputeDiscount; this
// function does not enforce total >= 0 itself.
func ComputeTotal(items []LineItem, taxRate, deliveryFee, discount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		unit := item.UnitPrice
		for _, addon := range item.Addons {
			unit = unit.Add(addon.Price)
		}
		subtotal = subtotal.Add(unit.Mul(decimal.NewFromInt32(item.Quantity)))
	}

	tax := subtotal.Mul(taxRate)
	total := subtotal.Add(tax).Add(deliveryFee).Sub(discount)

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    total,
	}
}
