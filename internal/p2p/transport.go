package p2p

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	libp2pnetwork "github.com/libp2p/go-libp2p/core/network"
	libp2ppeer "github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"

	"github.com/klingon-exchange/xswapd/internal/chainreg"
	"github.com/klingon-exchange/xswapd/internal/peer"
	"github.com/klingon-exchange/xswapd/pkg/logging"
)

// SwapProtocol is the protocol ID the swap packets travel over, adapted
// from the teacher's SwapDirectProtocol.
const SwapProtocol protocol.ID = "/xswap/swap/1.0.0"

const maxPacketSize = 1 << 20 // 1MiB

// StreamPeer is a peer.Peer backed by a libp2p stream to a specific remote
// peer. One StreamPeer exists per counterparty the swap coordinator is
// dealing with.
type StreamPeer struct {
	host *Host
	id   libp2ppeer.ID

	mu      sync.RWMutex
	lndKeys map[chainreg.Currency]string
}

// NewStreamPeer wraps a remote peer ID as a peer.Peer.
func NewStreamPeer(h *Host, id libp2ppeer.ID) *StreamPeer {
	return &StreamPeer{host: h, id: id, lndKeys: make(map[chainreg.Currency]string)}
}

// SetLndPubKey records the peer's advertised chain pubkey for a currency.
// Advertisement itself (where these come from) is the order book/handshake
// layer's concern, out of this package's scope.
func (p *StreamPeer) SetLndPubKey(currency chainreg.Currency, pubKeyHex string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lndKeys[currency] = pubKeyHex
}

func (p *StreamPeer) NodePubKey() string { return p.id.String() }

func (p *StreamPeer) GetLndPubKey(currency chainreg.Currency) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	k, ok := p.lndKeys[currency]
	return k, ok
}

// SendPacket opens a fresh stream to the peer, writes the length-prefixed
// JSON packet, and closes. This is the taker's/maker's one suspension point
// for "sending a packet to a peer" (§5).
func (p *StreamPeer) SendPacket(ctx context.Context, pkt *peer.Packet) error {
	stream, err := p.host.Libp2pHost().NewStream(ctx, p.id, SwapProtocol)
	if err != nil {
		return fmt.Errorf("p2p: open stream to %s: %w", p.id, err)
	}
	defer stream.Close()

	stream.SetWriteDeadline(time.Now().Add(30 * time.Second))

	body, err := json.Marshal(pkt)
	if err != nil {
		return fmt.Errorf("p2p: marshal packet: %w", err)
	}
	if err := writeLengthPrefixed(stream, body); err != nil {
		return fmt.Errorf("p2p: send packet: %w", err)
	}
	return nil
}

var _ peer.Peer = (*StreamPeer)(nil)

// Router dispatches inbound packets on SwapProtocol to the coordinator
// methods matching their type. It is registered once per Host.
type Router struct {
	host *Host
	log  *logging.Logger

	onSwapRequest  func(ctx context.Context, from libp2ppeer.ID, pkt *peer.Packet)
	onSwapResponse func(ctx context.Context, from libp2ppeer.ID, pkt *peer.Packet)
	onSwapComplete func(ctx context.Context, from libp2ppeer.ID, pkt *peer.Packet)
	onSwapError    func(ctx context.Context, from libp2ppeer.ID, pkt *peer.Packet)
}

// RouterConfig wires a Router's dispatch targets. Each field corresponds to
// one packet type from internal/peer; nil callbacks drop the matching
// packet type silently (logged).
type RouterConfig struct {
	OnSwapRequest  func(ctx context.Context, from libp2ppeer.ID, pkt *peer.Packet)
	OnSwapResponse func(ctx context.Context, from libp2ppeer.ID, pkt *peer.Packet)
	OnSwapComplete func(ctx context.Context, from libp2ppeer.ID, pkt *peer.Packet)
	OnSwapError    func(ctx context.Context, from libp2ppeer.ID, pkt *peer.Packet)
}

// NewRouter registers a stream handler on h for SwapProtocol.
func NewRouter(h *Host, cfg RouterConfig) *Router {
	r := &Router{
		host:           h,
		log:            logging.GetDefault().Component("p2p-router"),
		onSwapRequest:  cfg.OnSwapRequest,
		onSwapResponse: cfg.OnSwapResponse,
		onSwapComplete: cfg.OnSwapComplete,
		onSwapError:    cfg.OnSwapError,
	}
	h.Libp2pHost().SetStreamHandler(SwapProtocol, r.handleStream)
	return r
}

// Stop deregisters the stream handler.
func (r *Router) Stop() {
	r.host.Libp2pHost().RemoveStreamHandler(SwapProtocol)
}

func (r *Router) handleStream(s libp2pnetwork.Stream) {
	defer s.Close()

	remote := s.Conn().RemotePeer()
	s.SetReadDeadline(time.Now().Add(60 * time.Second))

	body, err := readLengthPrefixed(bufio.NewReader(s))
	if err != nil {
		r.log.Warn("failed to read packet", "peer", remote, "error", err)
		return
	}

	var pkt peer.Packet
	if err := json.Unmarshal(body, &pkt); err != nil {
		r.log.Warn("failed to parse packet", "peer", remote, "error", err)
		return
	}

	ctx := context.Background()
	switch pkt.Type {
	case peer.TypeSwapRequest:
		r.dispatch(r.onSwapRequest, ctx, remote, &pkt)
	case peer.TypeSwapResponse:
		r.dispatch(r.onSwapResponse, ctx, remote, &pkt)
	case peer.TypeSwapComplete:
		r.dispatch(r.onSwapComplete, ctx, remote, &pkt)
	case peer.TypeSwapError:
		r.dispatch(r.onSwapError, ctx, remote, &pkt)
	default:
		r.log.Warn("unknown packet type", "type", pkt.Type, "peer", remote)
	}
}

func (r *Router) dispatch(handler func(context.Context, libp2ppeer.ID, *peer.Packet), ctx context.Context, from libp2ppeer.ID, pkt *peer.Packet) {
	if handler == nil {
		r.log.Warn("no handler registered for packet type", "type", pkt.Type, "peer", from)
		return
	}
	handler(ctx, from, pkt)
}

// readLengthPrefixed and writeLengthPrefixed mirror the teacher's
// stream_handler.go framing: a 4-byte big-endian length prefix followed by
// the JSON body.

func readLengthPrefixed(r io.Reader) ([]byte, error) {
	var length uint32
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return nil, fmt.Errorf("read length: %w", err)
	}
	if length > maxPacketSize {
		return nil, fmt.Errorf("packet too large: %d > %d", length, maxPacketSize)
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}

func writeLengthPrefixed(w io.Writer, data []byte) error {
	if len(data) > maxPacketSize {
		return fmt.Errorf("packet too large: %d > %d", len(data), maxPacketSize)
	}
	length := uint32(len(data))
	if err := binary.Write(w, binary.BigEndian, length); err != nil {
		return fmt.Errorf("write length: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	return nil
}
