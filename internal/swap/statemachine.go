package swap

import "time"

// advancePhase moves d to next, asserting the transition is legal per the
// per-role phase sequence (§4.2 of the design). Illegal transitions are
// programming errors, not protocol errors, so they panic rather than
// returning an error.
func (c *Coordinator) advancePhase(d *Deal, next Phase) {
	d.mu.Lock()

	assertf(d.State == StateActive, "advancePhase(%s): deal %s is not Active (state=%s)", next, d.RHash, d.State)

	prev := d.Phase
	switch next {
	case PhaseSwapRequested:
		assertf(d.MyRole == RoleTaker, "SwapRequested requires MyRole=Taker, got %s", d.MyRole)
		assertf(prev == PhaseSwapCreated, "SwapRequested requires previous phase SwapCreated, got %s", prev)
	case PhaseSwapAgreed:
		assertf(d.MyRole == RoleMaker, "SwapAgreed requires MyRole=Maker, got %s", d.MyRole)
		assertf(prev == PhaseSwapCreated, "SwapAgreed requires previous phase SwapCreated, got %s", prev)
	case PhaseAmountSent:
		ok := (d.MyRole == RoleTaker && prev == PhaseSwapRequested) || (d.MyRole == RoleMaker && prev == PhaseSwapAgreed)
		assertf(ok, "AmountSent requires (Taker,SwapRequested) or (Maker,SwapAgreed), got (%s,%s)", d.MyRole, prev)
	case PhaseAmountReceived:
		assertf(prev == PhaseAmountSent, "AmountReceived requires previous phase AmountSent, got %s", prev)
	case PhaseSwapCompleted:
		assertf(prev == PhaseAmountReceived, "SwapCompleted requires previous phase AmountReceived, got %s", prev)
	default:
		assertf(false, "advancePhase: %s may not be set explicitly", next)
	}

	d.Phase = next

	switch next {
	case PhaseAmountSent:
		d.ExecuteTime = c.now()
	case PhaseSwapCompleted:
		d.CompletionTime = c.now()
		d.State = StateCompleted
	}

	var emitPaid bool
	if next == PhaseAmountReceived {
		emitPaid = true
	}
	d.mu.Unlock()

	if emitPaid {
		c.emitPaid(d)
	}
}

// setError transitions d to Error, aggregating the reason if it is already
// in Error. Returns true if this is the first error recorded (and so
// swap.failed was emitted).
func (c *Coordinator) setError(d *Deal, reason string) bool {
	d.mu.Lock()

	switch d.State {
	case StateCompleted:
		d.mu.Unlock()
		return false
	case StateError:
		d.StateReason = d.StateReason + "; " + reason
		d.mu.Unlock()
		return false
	case StateActive:
		d.State = StateError
		d.StateReason = reason
		d.mu.Unlock()
		c.emitFailed(d)
		return true
	default:
		d.mu.Unlock()
		assertf(false, "setError: unknown state %s", d.State)
		return false
	}
}

// now is a seam for tests; real callers always get time.Now.
func (c *Coordinator) now() time.Time {
	if c.clock != nil {
		return c.clock()
	}
	return time.Now()
}
