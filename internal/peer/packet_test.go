package peer

import (
	"testing"

	"github.com/klingon-exchange/xswapd/internal/chainreg"
)

func TestNewPacketRoundTrip(t *testing.T) {
	body := SwapRequestBody{
		ProposedQuantity: 1.5,
		PairID:           "LTC/BTC",
		TakerCurrency:    "LTC",
		MakerCurrency:    "BTC",
		OrderID:          "O1",
		RHash:            "abc123",
		TakerAmount:      150000000,
		MakerAmount:      1000000,
		TakerCltvDelta:   576,
	}

	pkt, err := NewPacket(TypeSwapRequest, body)
	if err != nil {
		t.Fatalf("NewPacket failed: %v", err)
	}
	if pkt.RequestID == "" {
		t.Error("expected a non-empty request id")
	}
	if pkt.Type != TypeSwapRequest {
		t.Errorf("Type = %s, want %s", pkt.Type, TypeSwapRequest)
	}

	var decoded SwapRequestBody
	if err := pkt.Decode(&decoded); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if decoded != body {
		t.Errorf("decoded = %+v, want %+v", decoded, body)
	}
}

func TestNewReplyPacketEchoesRequestID(t *testing.T) {
	pkt, err := NewReplyPacket("the-original-id", TypeSwapError, SwapErrorBody{RHash: "h", ErrorMessage: "boom"})
	if err != nil {
		t.Fatalf("NewReplyPacket failed: %v", err)
	}
	if pkt.RequestID != "the-original-id" {
		t.Errorf("RequestID = %s, want the-original-id", pkt.RequestID)
	}
	if pkt.Type != TypeSwapError {
		t.Errorf("Type = %s, want %s", pkt.Type, TypeSwapError)
	}
}

func TestPacketRequestIDsAreUnique(t *testing.T) {
	p1, _ := NewPacket(TypeSwapComplete, SwapCompleteBody{RHash: "x"})
	p2, _ := NewPacket(TypeSwapComplete, SwapCompleteBody{RHash: "x"})
	if p1.RequestID == p2.RequestID {
		t.Error("expected distinct request ids")
	}
}

func TestStubPeerRecordsSentPackets(t *testing.T) {
	p := NewStubPeer("node-a", map[chainreg.Currency]string{chainreg.BTC: "pk-btc"})
	pkt, _ := NewPacket(TypeSwapError, SwapErrorBody{RHash: "h", ErrorMessage: "boom"})

	if err := p.SendPacket(nil, pkt); err != nil {
		t.Fatalf("SendPacket failed: %v", err)
	}
	if p.Last() != pkt {
		t.Error("expected Last() to return the sent packet")
	}

	if _, ok := p.GetLndPubKey(chainreg.BTC); !ok {
		t.Error("expected BTC pubkey to be registered")
	}
	if _, ok := p.GetLndPubKey(chainreg.LTC); ok {
		t.Error("LTC pubkey should not be registered")
	}
}
