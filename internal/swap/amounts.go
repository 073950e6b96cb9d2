package swap

import "math"

// computeAmounts implements §6: taker_amount is the amount the taker
// receives, denominated in taker_currency (maker sends on taker's
// currency); maker_amount is the amount the maker receives, denominated in
// maker_currency, priced off the maker order (taker sends on maker's
// currency). Subunit factors are generalized from the spec's hard-wired
// 10^8 to the per-currency factor carried in chainreg.Params (Design Notes
// §9, "global subunit factor").
func computeAmounts(quantity, price float64, takerSubunitFactor, makerSubunitFactor uint64) (takerAmount, makerAmount uint64) {
	takerAmount = uint64(math.Round(quantity * float64(takerSubunitFactor)))
	makerAmount = uint64(math.Round(quantity * price * float64(makerSubunitFactor)))
	return takerAmount, makerAmount
}
