package idhash

import "testing"

func TestComputeSpinID_Deterministic(t *testing.T) {
	first := ComputeSpinID("evolution-1", 42, 17, 1717243200000)
	second := ComputeSpinID("evolution-1", 42, 17, 1717243200000)

	if first != second {
		t.Errorf("same inputs produced different ids: %s vs %s", first, second)
	}
	if first == "" {
		t.Error("empty spin id")
	}
}

func TestComputeSpinID_DistinguishesInputs(t *testing.T) {
	base := ComputeSpinID("evolution-1", 42, 17, 1717243200000)

	variants := []string{
		ComputeSpinID("evolution-2", 42, 17, 1717243200000),
		ComputeSpinID("evolution-1", 43, 17, 1717243200000),
		ComputeSpinID("evolution-1", 42, 18, 1717243200000),
		ComputeSpinID("evolution-1", 42, 17, 1717243200001),
	}
	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d collided with base id", i)
		}
	}
}

func TestComputeSpinID_FieldOrderMatters(t *testing.T) {
	// Swapping number and sequence must not collide thanks to the
	// delimited preimage.
	a := ComputeSpinID("t", 5, 10, 0)
	b := ComputeSpinID("t", 10, 5, 0)
	if a == b {
		t.Error("field order not encoded in id")
	}
}
