package swap

// HandleSwapComplete implements §4.8's inbound swap-complete handler:
// locate the deal and advance it to SwapCompleted. Unknown hashes are
// logged and otherwise ignored.
func (c *Coordinator) HandleSwapComplete(rHash string) {
	d := c.registry.get(rHash)
	if d == nil {
		c.log.Warn("HandleSwapComplete: unknown r_hash", "r_hash", rHash)
		return
	}
	if d.CurrentPhase() == PhaseAmountSent {
		c.advancePhase(d, PhaseAmountReceived)
	}
	c.advancePhase(d, PhaseSwapCompleted)
}

// HandleSwapError implements §4.8's inbound swap-error handler: locate the
// deal and set it to Error with the supplied message. Unknown hashes are
// logged and otherwise ignored.
func (c *Coordinator) HandleSwapError(rHash, message string) {
	d := c.registry.get(rHash)
	if d == nil {
		c.log.Warn("HandleSwapError: unknown r_hash", "r_hash", rHash)
		return
	}
	c.setError(d, message)
}
