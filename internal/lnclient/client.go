// Package lnclient defines the chain-client contract the swap coordinator
// consumes: one handle per currency, backed by whatever payment-channel
// daemon that chain runs (LND for BTC/LTC, Connext for EVM chains, etc). The
// coordinator never talks to a daemon directly; it only calls through this
// interface, so the coordinator's tests can run against StubClient instead
// of a live node.
package lnclient

import (
	"context"
	"fmt"
)

// Route is the opaque routing result returned by QueryRoutes. TotalTimelock
// is the only field the coordinator reasons about (the maker-leg CLTV
// scaling in §4.4 step 7); everything else needed to actually pay along the
// route is carried inside the chain client's own representation and never
// inspected by the coordinator.
type Route struct {
	TotalTimelock uint32
	Opaque        interface{}
}

// ChainInfo is the result of GetInfo.
type ChainInfo struct {
	BlockHeight uint32
}

// SendPaymentRequest is a single-hop HTLC send keyed by payment hash.
type SendPaymentRequest struct {
	Amount         uint64
	Destination    []byte // peer's chain-network node pubkey, compressed secp256k1
	PaymentHash    [32]byte
	FinalCltvDelta uint32
}

// SendToRouteRequest pays along a previously queried route set.
type SendToRouteRequest struct {
	Routes      []Route
	PaymentHash [32]byte
}

// PaymentResult is returned by both send RPCs. PaymentError is populated
// on failure instead of the Go error return when the daemon itself reports
// a structured failure (the distinction LND's gRPC makes between a
// transport error and a payment_error string).
type PaymentResult struct {
	PaymentError    string
	PaymentPreimage []byte
}

// PendingHTLC describes an inbound HTLC the local chain client is holding,
// addressed to a payment hash the client recognizes from a prior
// QueryRoutes/SendPaymentSync call or an advertised invoice.
type PendingHTLC struct {
	Hash          string // hex-encoded r_hash
	AmountMsat    uint64
	TimeoutHeight uint32
	HeightNow     uint32
}

// Client is the interface the swap coordinator is written against. A real
// implementation wraps an LND or Connext RPC client; StubClient below is a
// canned implementation for tests.
type Client interface {
	// IsConnected reports whether the daemon connection is currently up.
	IsConnected() bool

	// CltvDelta is this chain's configured final-hop timelock delta.
	CltvDelta() uint32

	// QueryRoutes asks the daemon for up to numRoutes routes to pubKey
	// capable of carrying amount subunits with the given final CLTV delta.
	QueryRoutes(ctx context.Context, amount uint64, finalCltvDelta uint32, numRoutes int, pubKey []byte) ([]Route, error)

	// GetInfo returns the daemon's view of the current chain height.
	GetInfo(ctx context.Context) (ChainInfo, error)

	// SendPaymentSync sends a single-hop HTLC and blocks until it resolves.
	SendPaymentSync(ctx context.Context, req SendPaymentRequest) (PaymentResult, error)

	// SendToRouteSync pays along a precomputed route set and blocks until
	// it resolves.
	SendToRouteSync(ctx context.Context, req SendToRouteRequest) (PaymentResult, error)
}

// Resolver is implemented by the swap coordinator and invoked by a Client
// when an inbound HTLC addressed to a known payment hash is held pending.
// The returned preimage (hex) or error is handed back to the daemon, which
// settles or cancels the held HTLC accordingly.
type Resolver interface {
	ResolveHTLC(ctx context.Context, req PendingHTLC) (preimageHex string, err error)
}

// ErrNotConnected is the error a Client implementation can return when asked
// to act while disconnected. StubClient does not return it; it reports
// disconnection only through IsConnected.
var ErrNotConnected = fmt.Errorf("lnclient: not connected")
