package wasmsign

// Algorithm is the pluggable signature-scheme abstraction described in
// spec.md §4.1. Every scheme in the registry implements it; call sites
// never depend on a concrete algorithm type, only on this interface.
type Algorithm interface {
	// AlgID returns the 32-bit identifier this algorithm is registered
	// under.
	AlgID() uint32

	// RawSignatureLength returns the length, in bytes, of the raw
	// signature this algorithm produces (excluding the 4-byte alg_id
	// prefix).
	RawSignatureLength() int

	// Keygen produces a fresh key pair for this algorithm.
	Keygen() (KeyPair, error)

	// Sign produces a Signature over data, binding ad as additional
	// authenticated data.
	Sign(data, ad []byte, kp KeyPair) (Signature, error)

	// Verify checks sig against data and ad using the given raw public
	// key bytes. It returns a non-nil Error on any mismatch.
	Verify(data, ad, pk []byte, sig Signature) error
}

// algorithms is the closed, statically-defined registry from spec.md §4.1.
// It is immutable after package init: no global state is mutated by any
// call (spec.md §5).
var algorithms = map[uint32]Algorithm{
	AlgIDSecp256k1ECDSA: secp256k1ECDSAAlg{},
	AlgIDEd25519: ed25519Alg{},
}

// AlgorithmFor maps a 32-bit algorithm id to its Algorithm implementation.
// It returns an Unsupported error if id is not present in the registry.
func AlgorithmFor(id uint32) (Algorithm, error) {
	alg, ok := algorithms[id]
	if !ok {
		return nil, NewError(ErrUnsupported, "unknown algorithm id")
	}
	return alg, nil
}
