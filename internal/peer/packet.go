// Package peer defines the envelope and payload shapes for swap messages
// exchanged over the node's existing peer-to-peer channel, and the Peer
// interface the swap coordinator consumes to send them. The transport
// itself (framing, transit encryption, discovery) is out of scope for this
// package; see internal/p2p for a concrete libp2p-backed implementation.
package peer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/klingon-exchange/xswapd/internal/chainreg"
)

// Packet types.
const (
	TypeSwapRequest  = "swap_request"
	TypeSwapResponse = "swap_response"
	TypeSwapComplete = "swap_complete"
	TypeSwapError    = "swap_error"
)

// RejectionReason enumerates the reasons a SwapResponse can carry instead of
// (or alongside) an acceptance.
type RejectionReason string

const (
	RejectionNone             RejectionReason = ""
	RejectionPairNotSupported RejectionReason = "PAIR_NOT_SUPPORTED"
	RejectionOrderNotFound    RejectionReason = "ORDER_NOT_FOUND"
	RejectionOrderUnavailable RejectionReason = "ORDER_UNAVAILABLE"
	RejectionNoRoute          RejectionReason = "NO_ROUTE"
)

// Packet is the envelope every swap message travels in. RequestID correlates
// a response/notification back to the request that triggered it.
type Packet struct {
	RequestID string          `json:"request_id"`
	Type      string          `json:"type"`
	Body      json.RawMessage `json:"body"`
}

// NewPacket marshals body and wraps it in a freshly-minted Packet. Use this
// for a packet that opens a new exchange (e.g. a SwapRequest); use
// NewReplyPacket for anything sent in response to an inbound packet so the
// correlating peer can match the reply by RequestID.
func NewPacket(typ string, body interface{}) (*Packet, error) {
	return newPacket(uuid.New().String(), typ, body)
}

// NewReplyPacket marshals body into a Packet that echoes requestID, per §6:
// a SwapResponse/SwapError sent in reply to an inbound packet carries the
// same RequestID as the request that triggered it.
func NewReplyPacket(requestID string, typ string, body interface{}) (*Packet, error) {
	return newPacket(requestID, typ, body)
}

func newPacket(requestID string, typ string, body interface{}) (*Packet, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("peer: marshal %s body: %w", typ, err)
	}
	return &Packet{RequestID: requestID, Type: typ, Body: raw}, nil
}

// Decode unmarshals the packet body into v.
func (p *Packet) Decode(v interface{}) error {
	return json.Unmarshal(p.Body, v)
}

// SwapRequestBody is the body of a SwapRequest packet (§6).
type SwapRequestBody struct {
	ProposedQuantity float64 `json:"proposed_quantity"`
	PairID           string  `json:"pair_id"`
	TakerCurrency    string  `json:"taker_currency"`
	MakerCurrency    string  `json:"maker_currency"`
	OrderID          string  `json:"order_id"`
	RHash            string  `json:"r_hash"`
	TakerAmount      uint64  `json:"taker_amount"`
	MakerAmount      uint64  `json:"maker_amount"`
	TakerCltvDelta   uint32  `json:"taker_cltv_delta"`
}

// SwapResponseBody is the body of a SwapResponse packet (§6). Quantity and
// MakerCltvDelta are pointers because an acceptance and a rejection carry
// different subsets of the fields.
type SwapResponseBody struct {
	RHash           string          `json:"r_hash"`
	Quantity        *float64        `json:"quantity,omitempty"`
	MakerCltvDelta  *uint32         `json:"maker_cltv_delta,omitempty"`
	RejectionReason RejectionReason `json:"rejection_reason,omitempty"`
}

// SwapCompleteBody is the body of a SwapComplete packet (§6).
type SwapCompleteBody struct {
	RHash string `json:"r_hash"`
}

// SwapErrorBody is the body of a SwapError packet (§6).
type SwapErrorBody struct {
	RHash        string `json:"r_hash"`
	ErrorMessage string `json:"error_message"`
}

// Peer is the counterparty handle the coordinator sends packets through and
// queries for per-currency chain pubkeys (§6 "Peer interface consumed").
type Peer interface {
	// NodePubKey identifies the peer node itself (transport identity, not a
	// chain pubkey).
	NodePubKey() string

	// GetLndPubKey returns the peer's advertised chain-network node pubkey
	// for the given currency, if the peer has one.
	GetLndPubKey(currency chainreg.Currency) (string, bool)

	// SendPacket delivers a packet to the peer over the existing P2P
	// channel.
	SendPacket(ctx context.Context, p *Packet) error
}
