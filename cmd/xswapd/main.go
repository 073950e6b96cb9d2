// Package main provides xswapd - the cross-chain atomic swap coordinator
// daemon. It wires the swap package's Coordinator to a libp2p transport and
// a per-currency parameter registry. The order book, chain-client daemons,
// and persistence layer are external collaborators consumed only through
// their stated interfaces; this binary does not implement them.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	libp2ppeer "github.com/libp2p/go-libp2p/core/peer"

	"github.com/klingon-exchange/xswapd/internal/chainreg"
	"github.com/klingon-exchange/xswapd/internal/p2p"
	"github.com/klingon-exchange/xswapd/internal/peer"
	"github.com/klingon-exchange/xswapd/internal/swap"
	"github.com/klingon-exchange/xswapd/pkg/helpers"
	"github.com/klingon-exchange/xswapd/pkg/logging"
)

var (
	version = "0.1.0-dev"
	commit  = "unknown"
)

func main() {
	var (
		configFile  = flag.String("config", "", "Chain parameter config file (YAML); defaults built in if unset")
		listenAddr  = flag.String("listen", "/ip4/0.0.0.0/tcp/9735", "Listen address (multiaddr)")
		logLevel    = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		showVersion = flag.Bool("version", false, "Show version and exit")
	)
	flag.Parse()

	log := logging.New(&logging.Config{
		Level:      *logLevel,
		TimeFormat: time.TimeOnly,
	})
	logging.SetDefault(log)

	if *showVersion {
		log.Infof("xswapd %s (commit: %s)", version, commit)
		os.Exit(0)
	}

	chainParams := chainreg.Default()
	if *configFile != "" {
		cfg, err := chainreg.Load(*configFile)
		if err != nil {
			log.Fatal("failed to load chain config", "path", *configFile, "error", err)
		}
		chainParams = cfg.Registry()
	}
	log.Info("chain parameter registry ready")

	coordinator := swap.NewCoordinator(swap.Config{ChainParams: chainParams})
	coordinator.OnEvent(func(e swap.Event) {
		switch e.Type {
		case swap.EventSwapPaid:
			log.Info("swap paid",
				"r_hash", e.Result.RHash,
				"pair_id", e.Result.PairID,
				"role", e.Result.Role,
				"amount_sent", helpers.FormatAmount(e.Result.AmountSent, 8),
				"amount_received", helpers.FormatAmount(e.Result.AmountReceived, 8))
		case swap.EventSwapFailed:
			log.Warn("swap failed", "r_hash", e.Deal.RHash, "reason", e.Deal.StateReason)
		}
	})
	log.Info("swap coordinator initialized")

	host, err := p2p.NewHost(p2p.Config{ListenAddrs: []string{*listenAddr}})
	if err != nil {
		log.Fatal("failed to create libp2p host", "error", err)
	}
	defer host.Close()
	log.Info("p2p host listening", "addr", *listenAddr)

	streamPeers := newPeerCache(host)

	p2p.NewRouter(host, p2p.RouterConfig{
		OnSwapRequest: func(ctx context.Context, from libp2ppeer.ID, pkt *peer.Packet) {
			// Accepting a swap request requires an order-book decision
			// (AcceptedOrder) this daemon does not make on its own; the
			// order book integration wires this callback in a full
			// deployment.
			log.Warn("swap_request received but no order book is wired", "from", from, "request_id", pkt.RequestID)
		},
		OnSwapResponse: func(ctx context.Context, from libp2ppeer.ID, pkt *peer.Packet) {
			var body peer.SwapResponseBody
			if err := pkt.Decode(&body); err != nil {
				log.Warn("malformed swap_response", "from", from, "error", err)
				return
			}
			if err := coordinator.HandleSwapResponse(ctx, pkt.RequestID, body, streamPeers.get(from)); err != nil {
				log.Warn("swap_response handling failed", "r_hash", body.RHash, "error", err)
			}
		},
		OnSwapComplete: func(ctx context.Context, from libp2ppeer.ID, pkt *peer.Packet) {
			var body peer.SwapCompleteBody
			if err := pkt.Decode(&body); err != nil {
				log.Warn("malformed swap_complete", "from", from, "error", err)
				return
			}
			coordinator.HandleSwapComplete(body.RHash)
		},
		OnSwapError: func(ctx context.Context, from libp2ppeer.ID, pkt *peer.Packet) {
			var body peer.SwapErrorBody
			if err := pkt.Decode(&body); err != nil {
				log.Warn("malformed swap_error", "from", from, "error", err)
				return
			}
			coordinator.HandleSwapError(body.RHash, body.ErrorMessage)
		},
	})
	log.Info("swap protocol router registered")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Info("shutting down")
	cancel()
}

// peerCache caches one *p2p.StreamPeer per remote libp2p peer ID, so the
// Coordinator always addresses the same peer.Peer for a given counterparty
// across the lifetime of a deal.
type peerCache struct {
	host *p2p.Host
	seen map[libp2ppeer.ID]*p2p.StreamPeer
}

func newPeerCache(h *p2p.Host) *peerCache {
	return &peerCache{host: h, seen: make(map[libp2ppeer.ID]*p2p.StreamPeer)}
}

func (c *peerCache) get(id libp2ppeer.ID) *p2p.StreamPeer {
	if sp, ok := c.seen[id]; ok {
		return sp
	}
	sp := p2p.NewStreamPeer(c.host, id)
	c.seen[id] = sp
	return sp
}
