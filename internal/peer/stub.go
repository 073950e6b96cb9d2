package peer

import (
	"context"

	"github.com/klingon-exchange/xswapd/internal/chainreg"
)

// StubPeer is a canned Peer used in coordinator tests: it records every
// packet sent to it instead of delivering it over a real transport.
type StubPeer struct {
	PubKey   string
	LndKeys  map[chainreg.Currency]string
	Sent     []*Packet
	SendErr  error
}

// NewStubPeer returns a StubPeer with the given node pubkey and per-currency
// chain pubkeys.
func NewStubPeer(pubKey string, lndKeys map[chainreg.Currency]string) *StubPeer {
	return &StubPeer{PubKey: pubKey, LndKeys: lndKeys}
}

func (p *StubPeer) NodePubKey() string { return p.PubKey }

func (p *StubPeer) GetLndPubKey(currency chainreg.Currency) (string, bool) {
	k, ok := p.LndKeys[currency]
	return k, ok
}

func (p *StubPeer) SendPacket(_ context.Context, pkt *Packet) error {
	if p.SendErr != nil {
		return p.SendErr
	}
	p.Sent = append(p.Sent, pkt)
	return nil
}

// Last returns the most recently sent packet, or nil if none were sent.
func (p *StubPeer) Last() *Packet {
	if len(p.Sent) == 0 {
		return nil
	}
	return p.Sent[len(p.Sent)-1]
}

var _ Peer = (*StubPeer)(nil)
