package swap

import "testing"

func TestAdvancePhaseTakerSequence(t *testing.T) {
	c, _, _ := newTestCoordinator(t)
	d := &Deal{RHash: "h", MyRole: RoleTaker, Phase: PhaseSwapCreated, State: StateActive}
	if err := c.registry.add(d); err != nil {
		t.Fatal(err)
	}

	c.advancePhase(d, PhaseSwapRequested)
	c.advancePhase(d, PhaseAmountSent)
	c.advancePhase(d, PhaseAmountReceived)
	c.advancePhase(d, PhaseSwapCompleted)

	snap := d.Snapshot()
	if snap.Phase != PhaseSwapCompleted {
		t.Errorf("phase = %s, want SwapCompleted", snap.Phase)
	}
	if snap.State != StateCompleted {
		t.Errorf("state = %s, want Completed", snap.State)
	}
	if snap.CompletionTime.IsZero() {
		t.Error("expected CompletionTime to be set")
	}
	if snap.ExecuteTime.IsZero() {
		t.Error("expected ExecuteTime to be set")
	}
}

func TestAdvancePhaseRejectsIllegalTransition(t *testing.T) {
	c, _, _ := newTestCoordinator(t)
	d := &Deal{RHash: "h", MyRole: RoleTaker, Phase: PhaseSwapCreated, State: StateActive}
	if err := c.registry.add(d); err != nil {
		t.Fatal(err)
	}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic for an illegal phase transition")
		}
		if _, ok := r.(*ProtocolViolationError); !ok {
			t.Errorf("expected a *ProtocolViolationError, got %T", r)
		}
	}()

	// SwapAgreed requires MyRole=Maker; this deal is Taker.
	c.advancePhase(d, PhaseSwapAgreed)
}

func TestAdvancePhaseRejectsWrongRole(t *testing.T) {
	c, _, _ := newTestCoordinator(t)
	d := &Deal{RHash: "h", MyRole: RoleMaker, Phase: PhaseSwapCreated, State: StateActive}
	if err := c.registry.add(d); err != nil {
		t.Fatal(err)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic")
		}
	}()

	// SwapRequested requires MyRole=Taker; this deal is Maker.
	c.advancePhase(d, PhaseSwapRequested)
}

func TestAdvancePhaseFreezesAfterTerminal(t *testing.T) {
	c, _, _ := newTestCoordinator(t)
	d := &Deal{RHash: "h", MyRole: RoleTaker, Phase: PhaseSwapCreated, State: StateActive}
	if err := c.registry.add(d); err != nil {
		t.Fatal(err)
	}
	c.setError(d, "boom")

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic: phase may not advance once not Active")
		}
	}()
	c.advancePhase(d, PhaseSwapRequested)
}
