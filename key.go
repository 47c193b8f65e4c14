package wasmsign

import "encoding/binary"

// Key is the shared behavior of PublicKey and SecretKey: both are carried
// on the wire as alg_id (little-endian u32) followed by algorithm-specific
// raw bytes (spec.md §3, §4.3).
type Key interface {
	AlgID() uint32
	Raw() []byte
	Bytes() []byte
}

// anyKeyFromBytes decodes the common alg_id‖raw wire prefix shared by
// PublicKey, SecretKey, and Signature. Decoding only fails if the buffer is
// 4 bytes or shorter (no raw bytes after the id); the raw length is not
// validated here —
// the algorithm itself rejects wrongly-sized input (spec.md §4.3).
func anyKeyFromBytes(b []byte) (alg uint32, raw []byte, err error) {
	if len(b) <= 4 {
		return 0, nil, parseErrorf("short encoded key or signature (%d bytes)", len(b))
	}
	alg = binary.LittleEndian.Uint32(b[:4])
	raw = append([]byte(nil), b[4:]...)
	return alg, raw, nil
}

func keyToBytes(algID uint32, raw []byte) []byte {
	out := make([]byte, 4+len(raw))
	binary.LittleEndian.PutUint32(out[:4], algID)
	copy(out[4:], raw)
	return out
}

// PublicKey is a self-describing public key: alg_id ‖ raw.
type PublicKey struct {
	algID uint32
	raw   []byte
}

// NewPublicKey wraps raw public-key bytes under the given algorithm id.
func NewPublicKey(algID uint32, raw []byte) PublicKey {
	return PublicKey{algID: algID, raw: append([]byte(nil), raw...)}
}

// ParsePublicKey decodes a public key from its on-disk alg_id‖raw form
// (spec.md §6, "on-disk key files").
func ParsePublicKey(b []byte) (PublicKey, error) {
	alg, raw, err := anyKeyFromBytes(b)
	if err != nil {
		return PublicKey{}, err
	}
	return PublicKey{algID: alg, raw: raw}, nil
}

// AlgID returns the algorithm id this key is registered under.
func (k PublicKey) AlgID() uint32 { return k.algID }

// Raw returns the algorithm-specific key bytes, excluding the alg_id prefix.
func (k PublicKey) Raw() []byte { return k.raw }

// Bytes returns the self-describing wire form alg_id ‖ raw.
func (k PublicKey) Bytes() []byte { return keyToBytes(k.algID, k.raw) }

// Algorithm resolves this key's algorithm via the registry.
func (k PublicKey) Algorithm() (Algorithm, error) { return AlgorithmFor(k.algID) }

// SecretKey is a self-describing secret key: alg_id ‖ raw.
type SecretKey struct {
	algID uint32
	raw   []byte
}

// NewSecretKey wraps raw secret-key bytes under the given algorithm id.
func NewSecretKey(algID uint32, raw []byte) SecretKey {
	return SecretKey{algID: algID, raw: append([]byte(nil), raw...)}
}

// ParseSecretKey decodes a secret key from its on-disk alg_id‖raw form.
func ParseSecretKey(b []byte) (SecretKey, error) {
	alg, raw, err := anyKeyFromBytes(b)
	if err != nil {
		return SecretKey{}, err
	}
	return SecretKey{algID: alg, raw: raw}, nil
}

// AlgID returns the algorithm id this key is registered under.
func (k SecretKey) AlgID() uint32 { return k.algID }

// Raw returns the algorithm-specific key bytes, excluding the alg_id prefix.
func (k SecretKey) Raw() []byte { return k.raw }

// Bytes returns the self-describing wire form alg_id ‖ raw.
func (k SecretKey) Bytes() []byte { return keyToBytes(k.algID, k.raw) }

// Algorithm resolves this key's algorithm via the registry.
func (k SecretKey) Algorithm() (Algorithm, error) { return AlgorithmFor(k.algID) }

// KeyPair couples a public and secret key that must agree on algorithm id.
// Constructing a pair with mismatched ids is a programming error and panics,
// per spec.md §3 ("constructing a pair otherwise is a programming error").
type KeyPair struct {
	AlgID uint32
	PK    PublicKey
	SK    SecretKey
}

// NewKeyPair builds a KeyPair from a public and a secret key. It panics if
// pk.AlgID() != sk.AlgID(): mismatched algorithm ids between the two halves
// of a pair can only happen from a caller bug, never from untrusted input,
// so spec.md classifies it as a programming error rather than a returned
// Error.
func NewKeyPair(pk PublicKey, sk SecretKey) KeyPair {
	if pk.AlgID() != sk.AlgID() {
		panic("wasmsign: public and secret key algorithm ids do not match")
	}
	return KeyPair{AlgID: pk.AlgID(), PK: pk, SK: sk}
}
