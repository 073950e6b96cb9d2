package swap

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/klingon-exchange/xswapd/internal/lnclient"
)

// ResolveHTLC implements the preimage resolver, §4.5: invoked by a chain
// client when an inbound HTLC addressed to a known r_hash is held pending.
// It validates the HTLC's amount and timelock, then, depending on role,
// either forwards payment on the other chain (maker) or releases the
// already-known preimage (taker). It implements lnclient.Resolver.
func (c *Coordinator) ResolveHTLC(ctx context.Context, req lnclient.PendingHTLC) (string, error) {
	d := c.registry.get(req.Hash)
	if d == nil {
		return "", fmt.Errorf("swap: unknown r_hash %s", req.Hash)
	}

	if reason := c.validateResolveRequest(d, req); reason != "" {
		c.setError(d, reason)
		return "", fmt.Errorf("swap: %s", reason)
	}

	snap := d.Snapshot()
	switch snap.MyRole {
	case RoleMaker:
		return c.resolveAsMaker(ctx, d, snap)
	case RoleTaker:
		c.advancePhase(d, PhaseAmountReceived)
		return snap.RPreimage, nil
	default:
		assertf(false, "ResolveHTLC: unknown role %s", snap.MyRole)
		return "", nil
	}
}

// validateResolveRequest implements §4.5 "validate_request".
func (c *Coordinator) validateResolveRequest(d *Deal, req lnclient.PendingHTLC) string {
	snap := d.Snapshot()

	var expectedAmount uint64
	var requiredDelta uint32
	if snap.MyRole == RoleMaker {
		expectedAmount = snap.MakerAmount
		requiredDelta = snap.MakerCltvDelta
	} else {
		expectedAmount = snap.TakerAmount
		requiredDelta = snap.TakerCltvDelta
	}

	if req.AmountMsat < expectedAmount*1000 {
		return fmt.Sprintf("inbound HTLC amount %d msat below expected %d msat", req.AmountMsat, expectedAmount*1000)
	}
	remaining := int64(req.TimeoutHeight) - int64(req.HeightNow)
	if remaining < int64(requiredDelta) {
		return fmt.Sprintf("inbound HTLC timelock %d insufficient, need %d", remaining, requiredDelta)
	}
	return ""
}

// resolveAsMaker forwards payment to the taker on the maker-to-taker route
// stored at acceptance time, learning the preimage from the payment result.
func (c *Coordinator) resolveAsMaker(ctx context.Context, d *Deal, snap Snapshot) (string, error) {
	makerClient := c.client(snap.MakerCurrency)
	if makerClient == nil {
		reason := fmt.Sprintf("%s: %s", ErrNoBackend, snap.MakerCurrency)
		c.setError(d, reason)
		return "", fmt.Errorf("swap: %s", reason)
	}

	var rHash [32]byte
	if _, err := hex.Decode(rHash[:], []byte(snap.RHash)); err != nil {
		reason := "malformed r_hash: " + err.Error()
		c.setError(d, reason)
		return "", fmt.Errorf("swap: %s", reason)
	}

	d.mu.Lock()
	routes := d.MakerToTakerRoutes
	d.mu.Unlock()

	c.advancePhase(d, PhaseAmountSent)

	result, err := makerClient.SendToRouteSync(ctx, lnclient.SendToRouteRequest{Routes: routes, PaymentHash: rHash})
	if err != nil {
		c.setError(d, err.Error())
		return "", err
	}
	if result.PaymentError != "" {
		c.setError(d, result.PaymentError)
		return "", fmt.Errorf("swap: %s", result.PaymentError)
	}
	if len(result.PaymentPreimage) == 0 {
		reason := "chain client returned no preimage"
		c.setError(d, reason)
		return "", fmt.Errorf("swap: %s", reason)
	}

	preimageHex := hex.EncodeToString(result.PaymentPreimage)
	d.mu.Lock()
	d.RPreimage = preimageHex
	d.mu.Unlock()

	c.advancePhase(d, PhaseAmountReceived)
	return preimageHex, nil
}
