package swap

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/klingon-exchange/xswapd/internal/lnclient"
	"github.com/klingon-exchange/xswapd/internal/peer"
	"github.com/klingon-exchange/xswapd/pkg/helpers"
)

// BeginSwap implements the initiator (taker) protocol, §4.3 steps 1-8: it
// builds a new deal from a matched maker/taker order pair, generates the
// preimage, registers the deal, and transmits the swap request. It returns
// the deal's r_hash so the caller can correlate the later response.
func (c *Coordinator) BeginSwap(ctx context.Context, maker MakerOrder, taker TakerOrder, p peer.Peer) (string, error) {
	if !c.IsPairSupported(maker.PairID) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedPair, maker.PairID)
	}

	takerCurrency, makerCurrency, err := resolveCurrencies(maker.PairID, taker.IsBuy)
	if err != nil {
		return "", err
	}

	takerClient := c.client(takerCurrency)
	if takerClient == nil {
		return "", fmt.Errorf("%w: %s", ErrNoBackend, takerCurrency)
	}
	takerCltvDelta := takerClient.CltvDelta()

	takerFactor := c.chainParams.MustGet(takerCurrency).SubunitFactor
	makerFactor := c.chainParams.MustGet(makerCurrency).SubunitFactor
	takerAmount, makerAmount := computeAmounts(taker.Quantity, maker.Price, takerFactor, makerFactor)

	var preimage [32]byte
	if _, err := rand.Read(preimage[:]); err != nil {
		return "", fmt.Errorf("swap: generate preimage: %w", err)
	}
	hash := sha256.Sum256(preimage[:])
	rHash := hex.EncodeToString(hash[:])

	d := &Deal{
		RHash:            rHash,
		RPreimage:        hex.EncodeToString(preimage[:]),
		MyRole:           RoleTaker,
		Phase:            PhaseSwapCreated,
		State:            StateActive,
		PeerPubKey:       maker.PeerPubKey,
		OrderID:          maker.ID,
		LocalOrderID:     taker.LocalID,
		PairID:           maker.PairID,
		Price:            maker.Price,
		TakerCurrency:    takerCurrency,
		MakerCurrency:    makerCurrency,
		TakerAmount:      takerAmount,
		MakerAmount:      makerAmount,
		TakerCltvDelta:   takerCltvDelta,
		ProposedQuantity: taker.Quantity,
		CreateTime:       c.now(),
	}
	if err := c.registry.add(d); err != nil {
		return "", err
	}

	if reason := c.verifyLndSetup(takerCurrency, makerCurrency, p); reason != "ok" {
		c.setError(d, reason)
		return rHash, fmt.Errorf("swap: %s", reason)
	}

	pkt, err := peer.NewPacket(peer.TypeSwapRequest, peer.SwapRequestBody{
		ProposedQuantity: taker.Quantity,
		PairID:           maker.PairID,
		TakerCurrency:    string(takerCurrency),
		MakerCurrency:    string(makerCurrency),
		OrderID:          maker.ID,
		RHash:            rHash,
		TakerAmount:      takerAmount,
		MakerAmount:      makerAmount,
		TakerCltvDelta:   takerCltvDelta,
	})
	if err != nil {
		c.setError(d, err.Error())
		return rHash, err
	}
	if err := p.SendPacket(ctx, pkt); err != nil {
		c.setError(d, err.Error())
		return rHash, err
	}

	c.advancePhase(d, PhaseSwapRequested)
	return rHash, nil
}

// HandleSwapResponse implements §4.3's response handling: record the
// maker's chosen CLTV delta and (if compatible) accepted quantity, then
// issue a synchronous HTLC send and drive the deal to completion or error.
// requestID is the inbound SwapResponse packet's RequestID, echoed back on
// any SwapComplete/SwapError this call sends in reply.
func (c *Coordinator) HandleSwapResponse(ctx context.Context, requestID string, resp peer.SwapResponseBody, p peer.Peer) error {
	d := c.registry.get(resp.RHash)
	if d == nil {
		c.log.Warn("HandleSwapResponse: unknown r_hash", "r_hash", resp.RHash)
		return nil
	}

	if resp.RejectionReason != peer.RejectionNone {
		reason := "rejected by maker: " + string(resp.RejectionReason)
		c.setError(d, reason)
		return fmt.Errorf("swap: %s", reason)
	}

	if resp.MakerCltvDelta == nil {
		reason := "swap response missing maker_cltv_delta"
		c.setError(d, reason)
		return fmt.Errorf("swap: %s", reason)
	}

	d.mu.Lock()
	d.MakerCltvDelta = *resp.MakerCltvDelta
	proposed := d.ProposedQuantity
	makerCurrency := d.MakerCurrency
	makerAmount := d.MakerAmount
	makerCltvDelta := d.MakerCltvDelta
	rHashHex := d.RHash
	storedPreimage := d.RPreimage
	peerPubKey := d.PeerPubKey
	d.mu.Unlock()

	if resp.Quantity != nil {
		q := *resp.Quantity
		if q <= 0 || q > proposed {
			reason := fmt.Sprintf("accepted quantity %v out of range (proposed %v)", q, proposed)
			c.setError(d, reason)
			return fmt.Errorf("swap: %s", reason)
		}
		if q != proposed {
			// Partial fills are recognized but not implemented: amounts are
			// not recomputed (§9 "Partial fills"), so proceeding would leave
			// taker_amount/maker_amount inconsistent with the accepted
			// quantity. Reject rather than silently mis-settle.
			reason := "partial fill not supported"
			c.setError(d, reason)
			_ = c.sendSwapError(ctx, p, requestID, rHashHex, reason)
			return fmt.Errorf("swap: %s", reason)
		}
		d.mu.Lock()
		d.Quantity = &q
		d.mu.Unlock()
	}

	destination, ok := p.GetLndPubKey(makerCurrency)
	if !ok {
		reason := "peer has not advertised a " + string(makerCurrency) + " pubkey"
		c.setError(d, reason)
		return fmt.Errorf("swap: %s", reason)
	}
	destBytes, err := lnclient.ParsePubKeyHex(destination)
	if err != nil {
		reason := fmt.Sprintf("invalid %s destination pubkey: %v", makerCurrency, err)
		c.setError(d, reason)
		return fmt.Errorf("swap: %s", reason)
	}

	makerClient := c.client(makerCurrency)
	if makerClient == nil {
		reason := fmt.Sprintf("%s: %s", ErrNoBackend, makerCurrency)
		c.setError(d, reason)
		return fmt.Errorf("swap: %s", reason)
	}

	var rHash [32]byte
	if _, err := hex.Decode(rHash[:], []byte(rHashHex)); err != nil {
		reason := "malformed r_hash: " + err.Error()
		c.setError(d, reason)
		return fmt.Errorf("swap: %s", reason)
	}

	c.advancePhase(d, PhaseAmountSent)

	result, err := makerClient.SendPaymentSync(ctx, lnclient.SendPaymentRequest{
		Amount:         makerAmount,
		Destination:    destBytes,
		PaymentHash:    rHash,
		FinalCltvDelta: makerCltvDelta,
	})
	if err != nil {
		c.setError(d, err.Error())
		_ = c.sendSwapError(ctx, p, requestID, rHashHex, err.Error())
		return err
	}
	if result.PaymentError != "" {
		c.setError(d, result.PaymentError)
		_ = c.sendSwapError(ctx, p, requestID, rHashHex, result.PaymentError)
		return fmt.Errorf("swap: %s", result.PaymentError)
	}

	// Preimage check (§9): the chain client returns the preimage it learned
	// on send; compare it against the one generated at BeginSwap when both
	// are known. Constant-time since a preimage is secret material.
	if len(result.PaymentPreimage) > 0 && storedPreimage != "" {
		stored, err := helpers.HexToBytes(storedPreimage)
		if err != nil || !helpers.ConstantTimeCompare(result.PaymentPreimage, stored) {
			c.setError(d, ErrPreimageMismatch.Error())
			_ = c.sendSwapError(ctx, p, requestID, rHashHex, ErrPreimageMismatch.Error())
			return ErrPreimageMismatch
		}
	}

	if d.CurrentPhase() == PhaseAmountSent {
		c.advancePhase(d, PhaseAmountReceived)
	}
	c.advancePhase(d, PhaseSwapCompleted)

	completePkt, err := peer.NewReplyPacket(requestID, peer.TypeSwapComplete, peer.SwapCompleteBody{RHash: rHashHex})
	if err != nil {
		return err
	}
	if err := p.SendPacket(ctx, completePkt); err != nil {
		c.log.Warn("HandleSwapResponse: failed to send swap-complete", "r_hash", rHashHex, "peer", peerPubKey, "error", err)
		return err
	}

	return nil
}

// sendSwapError transmits a SwapError reply, echoing requestID (§4.4 step 2,
// §8 scenario 3: "outbound SwapError carries that message and the request
// id").
func (c *Coordinator) sendSwapError(ctx context.Context, p peer.Peer, requestID, rHash, message string) error {
	pkt, err := peer.NewReplyPacket(requestID, peer.TypeSwapError, peer.SwapErrorBody{RHash: rHash, ErrorMessage: message})
	if err != nil {
		return err
	}
	return p.SendPacket(ctx, pkt)
}
