package wasmsign

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/jedisct1/wasmsign/internal/wasmbin"
)

func allAlgorithms(t *testing.T) []Algorithm {
	t.Helper()
	return []Algorithm{ed25519Alg{}, secp256k1ECDSAAlg{}}
}

// TestSignThenVerify checks spec.md §8 invariant 1: sign-then-verify
// succeeds, for both the embedded-global and custom-section strategies and
// for every registered algorithm.
func TestSignThenVerify(t *testing.T) {
	for _, alg := range allAlgorithms(t) {
		kp := mustKeyPair(alg)
		module := buildTestModule()

		signed, err := Sign(module, kp, []byte("ad"), "")
		if err != nil {
			t.Fatalf("alg %d: Sign: %v", alg.AlgID(), err)
		}
		if err := Verify(signed, kp.PK, []byte("ad"), ""); err != nil {
			t.Fatalf("alg %d: Verify: %v\n%s", alg.AlgID(), err, spew.Sdump(signed))
		}

		signedCS, err := SignCustomSection(module, kp, []byte("ad"), "")
		if err != nil {
			t.Fatalf("alg %d: SignCustomSection: %v", alg.AlgID(), err)
		}
		if err := VerifyCustomSection(signedCS, kp.PK, []byte("ad"), ""); err != nil {
			t.Fatalf("alg %d: VerifyCustomSection: %v\n%s", alg.AlgID(), err, spew.Sdump(signedCS))
		}
	}
}

// TestADBinding checks invariant 2: a different AD at verify time fails.
func TestADBinding(t *testing.T) {
	kp := mustKeyPair(ed25519Alg{})
	module := buildTestModule()

	signed, err := Sign(module, kp, []byte("ad-one"), "")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	err = Verify(signed, kp.PK, []byte("ad-two"), "")
	var e Error
	if !errors.As(err, &e) || e.Kind != ErrSignature {
		t.Fatalf("got err=%v, want a SignatureError", err)
	}
}

// TestKeyBinding checks invariant 3: verifying with an unrelated public key
// fails.
func TestKeyBinding(t *testing.T) {
	kp := mustKeyPair(ed25519Alg{})
	other := mustKeyPair(ed25519Alg{})
	module := buildTestModule()

	signed, err := Sign(module, kp, nil, "")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if err := Verify(signed, other.PK, nil, ""); err == nil {
		t.Fatalf("Verify succeeded with the wrong public key")
	}
}

// TestAlgorithmBinding checks invariant 4: corrupting the stored alg_id
// never lets verification succeed.
func TestAlgorithmBinding(t *testing.T) {
	kp := mustKeyPair(ed25519Alg{})
	module := buildTestModule()

	signed, err := Sign(module, kp, nil, "")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	m := mustParse(t, signed)
	slotIdx, err := locateEmbeddedSignatureSlot(m, DefaultSymbolName)
	if err != nil {
		t.Fatalf("locateEmbeddedSignatureSlot: %v", err)
	}
	reencoded, slotOffset, err := m.EncodeLocatingDataPayload(slotIdx)
	if err != nil {
		t.Fatalf("EncodeLocatingDataPayload: %v", err)
	}
	if !bytes.Equal(reencoded, signed) {
		t.Fatalf("re-encoding an already-signed module changed its bytes")
	}
	corrupted := append([]byte(nil), signed...)
	corrupted[slotOffset] ^= 0xff // first byte of the stored alg_id

	err = Verify(corrupted, kp.PK, nil, "")
	if err == nil {
		t.Fatalf("Verify succeeded after corrupting alg_id")
	}
	var e Error
	if errors.As(err, &e) && e.Kind != ErrSignature && e.Kind != ErrUnsupported {
		t.Fatalf("got kind %v, want SignatureError or Unsupported", e.Kind)
	}
}

// TestTamperDetection checks invariant 5: flipping a bit outside the
// signature slot causes verification to fail.
func TestTamperDetection(t *testing.T) {
	kp := mustKeyPair(ed25519Alg{})
	module := buildTestModule()

	signed, err := Sign(module, kp, nil, "")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	tampered := append([]byte(nil), signed...)
	tampered[8] ^= 0x01 // the first section's id byte, outside the slot

	if err := Verify(tampered, kp.PK, nil, ""); err == nil {
		t.Fatalf("Verify succeeded on a tampered module")
	}
}

// TestDuplicateSymbolRejected exercises spec.md §4.4's duplicate-export
// guard.
func TestDuplicateSymbolRejected(t *testing.T) {
	kp := mustKeyPair(ed25519Alg{})
	module := buildTestModule()

	signed, err := Sign(module, kp, nil, "")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := Sign(signed, kp, nil, ""); err == nil {
		t.Fatalf("expected an error signing an already-signed module with the same symbol name")
	}
}

// TestMismatchedKeyPairPanics checks the programming-error contract
// documented on NewKeyPair.
func TestMismatchedKeyPairPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic constructing a mismatched KeyPair")
		}
	}()
	edKP := mustKeyPair(ed25519Alg{})
	secKP := mustKeyPair(secp256k1ECDSAAlg{})
	NewKeyPair(edKP.PK, secKP.SK)
}

// TestIdempotentVerification checks invariant 6: verifying the same signed
// module twice yields the same outcome and does not mutate it.
func TestIdempotentVerification(t *testing.T) {
	kp := mustKeyPair(ed25519Alg{})
	module := buildTestModule()

	signed, err := Sign(module, kp, []byte("ad"), "")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	before := append([]byte(nil), signed...)

	err1 := Verify(signed, kp.PK, []byte("ad"), "")
	err2 := Verify(signed, kp.PK, []byte("ad"), "")
	if err1 != nil || err2 != nil {
		t.Fatalf("got err1=%v err2=%v, want both nil", err1, err2)
	}
	if !bytes.Equal(signed, before) {
		t.Fatalf("Verify mutated its input module")
	}
}

// TestSignatureSlotPreservedAfterVerify checks invariant 7: a signed module
// is byte-identical before and after a successful verify.
func TestSignatureSlotPreservedAfterVerify(t *testing.T) {
	kp := mustKeyPair(ed25519Alg{})
	module := buildTestModule()

	signed, err := Sign(module, kp, nil, "")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	before := append([]byte(nil), signed...)
	if err := Verify(signed, kp.PK, nil, ""); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !bytes.Equal(signed, before) {
		t.Fatalf("Verify changed the signed module's bytes")
	}
}

// TestSignCustomSectionRejectsOversizedName checks invariant 9 / spec.md
// scenario S5: a 100-character Custom Section name overflows the
// single-LEB128-byte framed-length bound.
func TestSignCustomSectionRejectsOversizedName(t *testing.T) {
	kp := mustKeyPair(ed25519Alg{})
	module := buildTestModule()
	longName := strings.Repeat("x", 100)

	_, err := SignCustomSection(module, kp, nil, longName)
	var e Error
	if !errors.As(err, &e) || e.Kind != ErrUsage {
		t.Fatalf("got err=%v, want a UsageError", err)
	}
}

func mustParse(t *testing.T, b []byte) *wasmbin.Module {
	t.Helper()
	m, err := parseModuleBytes(b)
	if err != nil {
		t.Fatalf("parseModuleBytes: %v", err)
	}
	return m
}
