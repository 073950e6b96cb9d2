package swap

import "testing"

func TestComputeAmounts(t *testing.T) {
	// §8 scenario 1: quantity=1 LTC, price=0.01, both chains at 1e8 subunits.
	takerAmount, makerAmount := computeAmounts(1.0, 0.01, 100000000, 100000000)
	if takerAmount != 100000000 {
		t.Errorf("takerAmount = %d, want 100000000", takerAmount)
	}
	if makerAmount != 1000000 {
		t.Errorf("makerAmount = %d, want 1000000", makerAmount)
	}
}

func TestComputeAmountsRounds(t *testing.T) {
	_, makerAmount := computeAmounts(0.333333335, 1, 100, 100)
	if makerAmount != 33 {
		t.Errorf("makerAmount = %d, want 33", makerAmount)
	}
}
