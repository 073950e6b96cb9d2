package swap

import "github.com/klingon-exchange/xswapd/internal/chainreg"

// computeMakerCltvDelta implements §4.4 step 7: scale the taker-leg route's
// observed end-to-end timelock into maker-currency block time, using the
// ratio of the two chains' configured final-hop deltas as a proxy for
// relative block-time speed (Design Notes §9 documents this ratio as a
// policy decision, not a measured block-time ratio).
//
// f = ltc.cltv_delta / btc.cltv_delta.
func (c *Coordinator) computeMakerCltvDelta(makerCurrency chainreg.Currency, routeCltvDelta uint32) (uint32, error) {
	btcDelta, ok := c.chainParams.Get(chainreg.BTC)
	if !ok {
		return 0, ErrUnsupportedPair
	}
	ltcDelta, ok := c.chainParams.Get(chainreg.LTC)
	if !ok {
		return 0, ErrUnsupportedPair
	}
	f := float64(ltcDelta.CltvDelta) / float64(btcDelta.CltvDelta)

	switch makerCurrency {
	case chainreg.BTC:
		return btcDelta.CltvDelta + uint32(float64(routeCltvDelta)/f), nil
	case chainreg.LTC:
		return ltcDelta.CltvDelta + uint32(float64(routeCltvDelta)*f), nil
	default:
		return 0, ErrUnsupportedPair
	}
}
