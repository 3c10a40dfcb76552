package compositions

// The composition form lets the user type either a proportion or a quantity;
// the other field is derived. These are two one-directional transforms picked
// by whichever field was edited last — never a two-way binding, so the pair
// cannot oscillate.

// QuantityFromProportion derives the item quantity (kg) from its proportion
// of the base quantity.
func QuantityFromProportion(proportionPct, baseQtyKg float64) float64 {
	return proportionPct / 100 * baseQtyKg
}

// ProportionFromQuantity derives the proportion (%) an item quantity
// represents of the base quantity.
func ProportionFromQuantity(quantityKg, baseQtyKg float64) float64 {
	if baseQtyKg <= 0 {
		return 0
	}
	return quantityKg / baseQtyKg * 100
}
