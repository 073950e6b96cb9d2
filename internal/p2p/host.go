// Package p2p adapts the node's existing libp2p host into a concrete
// implementation of the peer.Peer interface the swap coordinator consumes.
// Grounded on the teacher's internal/node package, trimmed to exactly what
// the swap protocol needs: one length-prefixed-JSON stream protocol, no
// DHT/pubsub/mDNS discovery (those remain the order book/transport layer's
// concern, out of this package's scope).
package p2p

import (
	"crypto/rand"
	"fmt"

	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/multiformats/go-multiaddr"

	"github.com/klingon-exchange/xswapd/pkg/logging"
)

// Host wraps a libp2p host.Host configured for the swap protocol.
type Host struct {
	host host.Host
	log  *logging.Logger
}

// Config configures a new Host.
type Config struct {
	// PrivKey is this node's identity key. A fresh Ed25519 key is
	// generated if nil.
	PrivKey crypto.PrivKey
	// ListenAddrs are multiaddrs to listen on, e.g. "/ip4/0.0.0.0/tcp/9735".
	ListenAddrs []string
}

// NewHost creates a libp2p host with just enough configuration to carry
// the swap direct-message protocol: identity, listen addresses, and the
// default transport/mux/security stack. No connection manager, relay, or
// NAT traversal tuning — those are node-level concerns outside this
// package's scope.
func NewHost(cfg Config) (*Host, error) {
	privKey := cfg.PrivKey
	if privKey == nil {
		var err error
		privKey, _, err = crypto.GenerateEd25519Key(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("p2p: generate identity key: %w", err)
		}
	}

	listenAddrs := make([]multiaddr.Multiaddr, 0, len(cfg.ListenAddrs))
	for _, addr := range cfg.ListenAddrs {
		ma, err := multiaddr.NewMultiaddr(addr)
		if err != nil {
			return nil, fmt.Errorf("p2p: invalid listen addr %q: %w", addr, err)
		}
		listenAddrs = append(listenAddrs, ma)
	}

	h, err := libp2p.New(
		libp2p.Identity(privKey),
		libp2p.ListenAddrs(listenAddrs...),
		libp2p.DefaultTransports,
		libp2p.DefaultMuxers,
		libp2p.DefaultSecurity,
	)
	if err != nil {
		return nil, fmt.Errorf("p2p: create libp2p host: %w", err)
	}

	return &Host{host: h, log: logging.GetDefault().Component("p2p")}, nil
}

// Libp2pHost exposes the underlying host for stream registration.
func (h *Host) Libp2pHost() host.Host { return h.host }

// Close shuts the host down.
func (h *Host) Close() error { return h.host.Close() }
