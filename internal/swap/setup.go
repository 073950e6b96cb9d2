package swap

import (
	"github.com/klingon-exchange/xswapd/internal/chainreg"
	"github.com/klingon-exchange/xswapd/internal/peer"
)

// verifyLndSetup implements §4.6: both chain clients must be connected, and
// the peer must have advertised a chain pubkey for both currencies. Returns
// "ok" or a reason string.
func (c *Coordinator) verifyLndSetup(takerCurrency, makerCurrency chainreg.Currency, p peer.Peer) string {
	if _, ok := p.GetLndPubKey(takerCurrency); !ok {
		return "peer has not advertised a " + string(takerCurrency) + " pubkey"
	}
	if _, ok := p.GetLndPubKey(makerCurrency); !ok {
		return "peer has not advertised a " + string(makerCurrency) + " pubkey"
	}

	taker := c.client(takerCurrency)
	if taker == nil || !taker.IsConnected() {
		return string(takerCurrency) + " chain client is not connected"
	}
	maker := c.client(makerCurrency)
	if maker == nil || !maker.IsConnected() {
		return string(makerCurrency) + " chain client is not connected"
	}

	return "ok"
}
