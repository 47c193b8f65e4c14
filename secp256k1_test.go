package wasmsign

import "testing"

func TestSecp256k1SignVerify(t *testing.T) {
	alg := secp256k1ECDSAAlg{}
	kp, err := alg.Keygen()
	if err != nil {
		t.Fatalf("Keygen: %v", err)
	}
	data := []byte("a wasm module's worth of bytes")
	sig, err := alg.Sign(data, []byte("ad"), kp)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if err := alg.Verify(data, []byte("ad"), kp.PK.Raw(), sig); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if err := alg.Verify(data, []byte("different ad"), kp.PK.Raw(), sig); err == nil {
		t.Fatalf("Verify succeeded with mismatched AD")
	}
}

func TestSecp256k1VerifyRejectsWrongAlgID(t *testing.T) {
	alg := secp256k1ECDSAAlg{}
	kp, _ := alg.Keygen()
	sig := NewSignature(AlgIDEd25519, make([]byte, 64))
	if err := alg.Verify([]byte("x"), nil, kp.PK.Raw(), sig); err == nil {
		t.Fatalf("Verify accepted a signature tagged with a different algorithm")
	}
}
