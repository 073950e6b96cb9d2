package swap

import "testing"

// R2: handle_swap_complete and handle_swap_error are no-ops for unknown
// r_hash.
func TestDispatchNoopsOnUnknownHash(t *testing.T) {
	c, _, _ := newTestCoordinator(t)

	var events int
	c.OnEvent(func(Event) { events++ })

	c.HandleSwapComplete("unknown")
	c.HandleSwapError("unknown", "whatever")

	if events != 0 {
		t.Errorf("events = %d, want 0", events)
	}
}

func TestHandleSwapCompleteFromAmountSent(t *testing.T) {
	c, _, _ := newTestCoordinator(t)
	d := &Deal{RHash: "h", MyRole: RoleTaker, Phase: PhaseSwapRequested, State: StateActive}
	if err := c.registry.add(d); err != nil {
		t.Fatal(err)
	}
	c.advancePhase(d, PhaseAmountSent)

	c.HandleSwapComplete("h")

	if d.CurrentPhase() != PhaseSwapCompleted {
		t.Errorf("phase = %s, want SwapCompleted", d.CurrentPhase())
	}
	if d.CurrentState() != StateCompleted {
		t.Errorf("state = %s, want Completed", d.CurrentState())
	}
}

func TestHandleSwapErrorSetsError(t *testing.T) {
	c, _, _ := newTestCoordinator(t)
	d := &Deal{RHash: "h", MyRole: RoleMaker, Phase: PhaseSwapAgreed, State: StateActive}
	if err := c.registry.add(d); err != nil {
		t.Fatal(err)
	}

	c.HandleSwapError("h", "counterparty aborted")

	snap := d.Snapshot()
	if snap.State != StateError {
		t.Errorf("state = %s, want Error", snap.State)
	}
	if snap.StateReason != "counterparty aborted" {
		t.Errorf("StateReason = %q, want %q", snap.StateReason, "counterparty aborted")
	}
}
