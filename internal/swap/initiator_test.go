package swap

import (
	"context"
	"testing"

	"github.com/klingon-exchange/xswapd/internal/chainreg"
	"github.com/klingon-exchange/xswapd/internal/lnclient"
	"github.com/klingon-exchange/xswapd/internal/peer"
)

func beginTestDeal(t *testing.T, c *Coordinator, p peer.Peer) string {
	t.Helper()
	maker := MakerOrder{ID: "O1", PairID: "LTC/BTC", Price: 0.01, PeerPubKey: "P"}
	taker := TakerOrder{LocalID: "L1", Quantity: 1, IsBuy: true}
	rHash, err := c.BeginSwap(context.Background(), maker, taker, p)
	if err != nil {
		t.Fatalf("BeginSwap failed: %v", err)
	}
	return rHash
}

// B1: accepted quantity > proposed_quantity must not advance the deal.
func TestHandleSwapResponseRejectsOversizedQuantity(t *testing.T) {
	c, _, _ := newTestCoordinator(t)
	p := peer.NewStubPeer("P", map[chainreg.Currency]string{
		chainreg.BTC: genPubKeyHex(t),
		chainreg.LTC: genPubKeyHex(t),
	})
	rHash := beginTestDeal(t, c, p)

	q := 2.0 // > proposed_quantity of 1
	delta := uint32(50)
	err := c.HandleSwapResponse(context.Background(), "req-1", peer.SwapResponseBody{RHash: rHash, Quantity: &q, MakerCltvDelta: &delta}, p)
	if err == nil {
		t.Fatal("expected an error for an oversized accepted quantity")
	}

	d := c.registry.get(rHash)
	if d.CurrentState() != StateError {
		t.Errorf("state = %s, want Error", d.CurrentState())
	}
	if d.CurrentPhase() == PhaseSwapCompleted {
		t.Error("deal must not reach SwapCompleted")
	}
}

// B1: accepted quantity == 0 must not advance the deal.
func TestHandleSwapResponseRejectsZeroQuantity(t *testing.T) {
	c, _, _ := newTestCoordinator(t)
	p := peer.NewStubPeer("P", map[chainreg.Currency]string{
		chainreg.BTC: genPubKeyHex(t),
		chainreg.LTC: genPubKeyHex(t),
	})
	rHash := beginTestDeal(t, c, p)

	q := 0.0
	delta := uint32(50)
	err := c.HandleSwapResponse(context.Background(), "req-1", peer.SwapResponseBody{RHash: rHash, Quantity: &q, MakerCltvDelta: &delta}, p)
	if err == nil {
		t.Fatal("expected an error for a zero accepted quantity")
	}
	if c.registry.get(rHash).CurrentState() != StateError {
		t.Error("expected deal to be in Error")
	}
}

// Partial-fill decision (§9, SPEC_FULL.md): a strictly smaller accepted
// quantity is rejected rather than silently settled with stale amounts.
func TestHandleSwapResponseRejectsPartialFill(t *testing.T) {
	c, _, _ := newTestCoordinator(t)
	p := peer.NewStubPeer("P", map[chainreg.Currency]string{
		chainreg.BTC: genPubKeyHex(t),
		chainreg.LTC: genPubKeyHex(t),
	})
	rHash := beginTestDeal(t, c, p)

	q := 0.5 // < proposed_quantity of 1
	delta := uint32(50)
	err := c.HandleSwapResponse(context.Background(), "req-1", peer.SwapResponseBody{RHash: rHash, Quantity: &q, MakerCltvDelta: &delta}, p)
	if err == nil {
		t.Fatal("expected partial fill to be rejected")
	}

	last := p.(*peer.StubPeer).Last()
	if last.Type != peer.TypeSwapError {
		t.Errorf("expected a SwapError notification, got %s", last.Type)
	}
}

// Preimage check (§9): a chain client returning a mismatched preimage must
// drive the deal to Error, not SwapCompleted.
func TestHandleSwapResponsePreimageMismatch(t *testing.T) {
	c, _, btc := newTestCoordinator(t)
	p := peer.NewStubPeer("P", map[chainreg.Currency]string{
		chainreg.BTC: genPubKeyHex(t),
		chainreg.LTC: genPubKeyHex(t),
	})
	rHash := beginTestDeal(t, c, p)

	btc.PaymentRes = lnclient.PaymentResult{PaymentPreimage: []byte("not-the-real-preimage-not-real!")}

	q := 1.0
	delta := uint32(50)
	err := c.HandleSwapResponse(context.Background(), "req-1", peer.SwapResponseBody{RHash: rHash, Quantity: &q, MakerCltvDelta: &delta}, p)
	if err != ErrPreimageMismatch {
		t.Fatalf("err = %v, want ErrPreimageMismatch", err)
	}
	if c.registry.get(rHash).CurrentState() != StateError {
		t.Error("expected deal to be in Error")
	}
}

// §4.3 rejection-reason path: the maker can reject the request outright.
func TestHandleSwapResponseHandlesRejection(t *testing.T) {
	c, _, _ := newTestCoordinator(t)
	p := peer.NewStubPeer("P", map[chainreg.Currency]string{
		chainreg.BTC: genPubKeyHex(t),
		chainreg.LTC: genPubKeyHex(t),
	})
	rHash := beginTestDeal(t, c, p)

	err := c.HandleSwapResponse(context.Background(), "req-1", peer.SwapResponseBody{RHash: rHash, RejectionReason: peer.RejectionNoRoute}, p)
	if err == nil {
		t.Fatal("expected an error")
	}
	if c.registry.get(rHash).CurrentState() != StateError {
		t.Error("expected deal to be in Error")
	}
}
