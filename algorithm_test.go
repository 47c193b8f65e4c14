package wasmsign

import (
	"errors"
	"testing"
)

func TestAlgorithmForKnownIDs(t *testing.T) {
	for _, id := range []uint32{AlgIDSecp256k1ECDSA, AlgIDEd25519} {
		alg, err := AlgorithmFor(id)
		if err != nil {
			t.Fatalf("AlgorithmFor(%d): %v", id, err)
		}
		if alg.AlgID() != id {
			t.Fatalf("alg.AlgID() = %d, want %d", alg.AlgID(), id)
		}
	}
}

func TestAlgorithmForUnknownID(t *testing.T) {
	_, err := AlgorithmFor(0xffffffff)
	if err == nil {
		t.Fatalf("expected an error for an unregistered algorithm id")
	}
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("got err=%v, want Unsupported", err)
	}
}
