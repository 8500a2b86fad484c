package orders

import "github.com/bafnatoys/bafnatoys-backend/pkg/db/models"

// itemsPriceFor sums qty × per-piece price over the line items. The caller's
// declared total is never consulted for the items portion.
func itemsPriceFor(items []models.OrderItem) float64 {
	var sum float64
	for _, item := range items {
		sum += float64(item.Qty) * item.Price
	}
	return sum
}

// innersFor derives whole-inner counts: the ceiling of qty over the pack
// size, or 0 when the product has no inner packaging.
func innersFor(qty, piecesPerInner int) int {
	if piecesPerInner <= 0 || qty <= 0 {
		return 0
	}
	return (qty + piecesPerInner - 1) / piecesPerInner
}

// shippingPriceFor applies the flat-rate rule: orders below the free-shipping
// threshold pay the configured charge, everything at or above it ships free.
func shippingPriceFor(setting *models.ShippingSetting, itemsPrice float64) float64 {
	if setting == nil {
		return 0
	}
	if itemsPrice >= setting.FreeShippingThreshold {
		return 0
	}
	return setting.ShippingCharge
}

// remainingFor computes the COD balance still due on delivery.
func remainingFor(total, advancePaid float64) float64 {
	remaining := total - advancePaid
	if remaining < 0 {
		return 0
	}
	return remaining
}
