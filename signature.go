package wasmsign

// Signature is the pair (alg_id, raw) described in spec.md §3. Its wire
// encoding is alg_id (little-endian u32) followed by raw; the length of raw
// is determined entirely by the algorithm.
type Signature struct {
	algID uint32
	raw   []byte
}

// NewSignature wraps raw signature bytes under the given algorithm id.
func NewSignature(algID uint32, raw []byte) Signature {
	return Signature{algID: algID, raw: append([]byte(nil), raw...)}
}

// AlgID returns the algorithm id this signature was produced under.
func (s Signature) AlgID() uint32 { return s.algID }

// Raw returns the algorithm-specific signature bytes, excluding the
// alg_id prefix.
func (s Signature) Raw() []byte { return s.raw }

// Bytes returns the self-describing wire form alg_id ‖ raw.
func (s Signature) Bytes() []byte { return keyToBytes(s.algID, s.raw) }

// Len returns the total on-wire length of this signature: 4 + len(raw).
func (s Signature) Len() int { return 4 + len(s.raw) }

// SignatureLength returns 4 + the raw signature length of alg — the total
// size of the wire-encoded Signature slot this algorithm occupies.
func SignatureLength(alg Algorithm) int {
	return 4 + alg.RawSignatureLength()
}

// ParseSignature decodes a Signature from its wire form alg_id‖raw. It
// fails only if the buffer is 4 bytes or shorter (no raw bytes after the
// 4-byte id); a raw
// length mismatch for the decoded algorithm is caught later, by that
// algorithm's Verify (spec.md §4.3).
func ParseSignature(b []byte) (Signature, error) {
	alg, raw, err := anyKeyFromBytes(b)
	if err != nil {
		return Signature{}, err
	}
	return Signature{algID: alg, raw: raw}, nil
}

// Algorithm resolves this signature's algorithm via the registry.
func (s Signature) Algorithm() (Algorithm, error) { return AlgorithmFor(s.algID) }
