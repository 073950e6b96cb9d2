package swap

import (
	"context"
	"fmt"

	"github.com/klingon-exchange/xswapd/internal/chainreg"
	"github.com/klingon-exchange/xswapd/internal/lnclient"
	"github.com/klingon-exchange/xswapd/internal/peer"
)

// chainCurrency adapts a wire-level currency string to the chainreg type.
func chainCurrency(s string) chainreg.Currency {
	return chainreg.Currency(s)
}

// AcceptDeal implements the responder (maker) protocol, §4.4 steps 1-9: it
// registers a deal from an inbound swap request, queries a route to the
// taker, computes the maker-leg CLTV delta, and replies with an acceptance
// or a rejection. requestID is the inbound SwapRequest packet's RequestID,
// echoed back on the SwapResponse/SwapError this call sends in reply (§4.4
// step 8: the SwapResponse echoes the request id).
func (c *Coordinator) AcceptDeal(ctx context.Context, requestID string, accepted AcceptedOrder, req peer.SwapRequestBody, p peer.Peer) error {
	takerCurrency := chainCurrency(req.TakerCurrency)
	makerCurrency := chainCurrency(req.MakerCurrency)

	d := &Deal{
		RHash:            req.RHash,
		MyRole:           RoleMaker,
		Phase:            PhaseSwapCreated,
		State:            StateActive,
		PeerPubKey:       p.NodePubKey(),
		OrderID:          req.OrderID,
		LocalOrderID:     accepted.LocalID,
		PairID:           req.PairID,
		Price:            accepted.Price,
		TakerCurrency:    takerCurrency,
		MakerCurrency:    makerCurrency,
		TakerAmount:      req.TakerAmount,
		MakerAmount:      req.MakerAmount,
		TakerCltvDelta:   req.TakerCltvDelta,
		ProposedQuantity: req.ProposedQuantity,
		CreateTime:       c.now(),
	}
	if tk, ok := p.GetLndPubKey(takerCurrency); ok {
		d.TakerPubKey = tk
	}

	if err := c.registry.add(d); err != nil {
		_ = c.sendSwapError(ctx, p, requestID, req.RHash, ErrDealExists.Error())
		return ErrDealExists
	}

	if reason := c.verifyLndSetup(takerCurrency, makerCurrency, p); reason != "ok" {
		c.setError(d, reason)
		_ = c.sendSwapError(ctx, p, requestID, req.RHash, reason)
		return fmt.Errorf("swap: %s", reason)
	}

	takerClient := c.client(takerCurrency)
	if takerClient == nil {
		// §4.4 step 3: an unsupported currency is a transmitted swap-error,
		// not a rejection response.
		reason := fmt.Sprintf("%s: %s", ErrNoBackend, takerCurrency)
		c.setError(d, reason)
		_ = c.sendSwapError(ctx, p, requestID, req.RHash, reason)
		return fmt.Errorf("swap: %s", reason)
	}

	if accepted.QuantityToAccept <= 0 || accepted.QuantityToAccept > req.ProposedQuantity {
		reason := "accepted quantity out of range"
		c.setError(d, reason)
		_ = c.sendSwapError(ctx, p, requestID, req.RHash, reason)
		return fmt.Errorf("swap: %s", reason)
	}
	if accepted.QuantityToAccept != req.ProposedQuantity {
		// See the matching guard in HandleSwapResponse: the design
		// acknowledges but does not implement recomputing amounts for a
		// partial fill (§9), so reject instead of quoting a response whose
		// amounts no longer match the quantity.
		reason := "partial fill not supported"
		c.setError(d, reason)
		_ = c.sendSwapError(ctx, p, requestID, req.RHash, reason)
		return fmt.Errorf("swap: %s", reason)
	}

	takerPubKeyBytes, err := lnclient.ParsePubKeyHex(d.TakerPubKey)
	if err != nil {
		reason := "invalid taker destination pubkey: " + err.Error()
		c.setError(d, reason)
		_ = c.sendSwapError(ctx, p, requestID, req.RHash, reason)
		return fmt.Errorf("swap: %s", reason)
	}

	routes, err := takerClient.QueryRoutes(ctx, req.TakerAmount, req.TakerCltvDelta, 1, takerPubKeyBytes)
	if err != nil || len(routes) == 0 {
		// §8 scenario 3: no route to the taker is an outbound SwapError
		// carrying the message and the request id, not a SwapResponse
		// rejection.
		reason := "unable to find route to taker"
		c.setError(d, reason)
		_ = c.sendSwapError(ctx, p, requestID, req.RHash, reason)
		return fmt.Errorf("swap: %s", reason)
	}

	info, err := takerClient.GetInfo(ctx)
	if err != nil {
		reason := "chain height unavailable: " + err.Error()
		c.setError(d, reason)
		_ = c.sendSwapError(ctx, p, requestID, req.RHash, reason)
		return fmt.Errorf("swap: %s", reason)
	}

	routeCltvDelta := routes[0].TotalTimelock - info.BlockHeight
	makerCltvDelta, err := c.computeMakerCltvDelta(makerCurrency, routeCltvDelta)
	if err != nil {
		c.setError(d, err.Error())
		_ = c.sendSwapError(ctx, p, requestID, req.RHash, err.Error())
		return err
	}

	d.mu.Lock()
	d.MakerToTakerRoutes = routes
	d.MakerCltvDelta = makerCltvDelta
	quantity := req.ProposedQuantity
	d.Quantity = &quantity
	d.mu.Unlock()

	respQuantity := req.ProposedQuantity
	respDelta := makerCltvDelta
	pkt, err := peer.NewReplyPacket(requestID, peer.TypeSwapResponse, peer.SwapResponseBody{
		RHash:          req.RHash,
		Quantity:       &respQuantity,
		MakerCltvDelta: &respDelta,
	})
	if err != nil {
		return err
	}
	if err := p.SendPacket(ctx, pkt); err != nil {
		return err
	}

	c.advancePhase(d, PhaseSwapAgreed)
	return nil
}
