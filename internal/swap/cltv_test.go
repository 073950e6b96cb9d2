package swap

import (
	"testing"

	"github.com/klingon-exchange/xswapd/internal/chainreg"
)

// B4: btc.cltv_delta=40, ltc.cltv_delta=576, route_cltv_delta=144,
// maker_currency=BTC => maker_cltv_delta = 40 + 144/(576/40) = 50.
func TestComputeMakerCltvDeltaBTC(t *testing.T) {
	c, _, _ := newTestCoordinator(t)
	got, err := c.computeMakerCltvDelta(chainreg.BTC, 144)
	if err != nil {
		t.Fatalf("computeMakerCltvDelta failed: %v", err)
	}
	if got != 50 {
		t.Errorf("maker_cltv_delta = %d, want 50", got)
	}
}

func TestComputeMakerCltvDeltaLTC(t *testing.T) {
	c, _, _ := newTestCoordinator(t)
	// f = 576/40 = 14.4; maker_currency=LTC => 576 + route_cltv_delta*f.
	got, err := c.computeMakerCltvDelta(chainreg.LTC, 10)
	if err != nil {
		t.Fatalf("computeMakerCltvDelta failed: %v", err)
	}
	want := uint32(576 + 10*14.4)
	if got != want {
		t.Errorf("maker_cltv_delta = %d, want %d", got, want)
	}
}

func TestComputeMakerCltvDeltaUnsupportedCurrency(t *testing.T) {
	c, _, _ := newTestCoordinator(t)
	if _, err := c.computeMakerCltvDelta(chainreg.Currency("ETH"), 10); err != ErrUnsupportedPair {
		t.Errorf("err = %v, want ErrUnsupportedPair", err)
	}
}
