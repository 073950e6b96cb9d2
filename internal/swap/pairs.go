package swap

import (
	"fmt"
	"strings"

	"github.com/klingon-exchange/xswapd/internal/chainreg"
)

// splitPairID parses a "BASE/QUOTE" pair id.
func splitPairID(pairID string) (base, quote chainreg.Currency, err error) {
	parts := strings.SplitN(pairID, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("swap: malformed pair id %q", pairID)
	}
	return chainreg.Currency(parts[0]), chainreg.Currency(parts[1]), nil
}

// resolveCurrencies implements §4.3 step 1: buying the base currency means
// the taker receives base and the maker receives quote; selling reverses
// the legs.
func resolveCurrencies(pairID string, isBuy bool) (takerCurrency, makerCurrency chainreg.Currency, err error) {
	base, quote, err := splitPairID(pairID)
	if err != nil {
		return "", "", err
	}
	if isBuy {
		return base, quote, nil
	}
	return quote, base, nil
}

// IsPairSupported generalizes the spec's literal "LTC/BTC"-only predicate
// (§4.7) into membership + connectivity, per Design Notes §9 "currency
// dispatch": a pair is supported if its two legs are distinct, both are
// registered in chainParams, and both chain clients are connected. With the default registry seeding
// only BTC and LTC this still only ever admits the one pair the design
// names, in either order.
func (c *Coordinator) IsPairSupported(pairID string) bool {
	base, quote, err := splitPairID(pairID)
	if err != nil || base == quote {
		return false
	}
	for _, cur := range []chainreg.Currency{base, quote} {
		if _, ok := c.chainParams.Get(cur); !ok {
			return false
		}
		client := c.client(cur)
		if client == nil || !client.IsConnected() {
			return false
		}
	}
	return true
}
