package wasmsign

import (
	"crypto"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha512"
	"encoding/binary"
)

// AlgIDEd25519 is the registry id for pre-hashed Ed25519, per spec.md §3
// and the canonical choice recorded in spec.md §9 (resolving the
// 0x00000001-vs-0x00000002 ambiguity observed across draft copies of the
// original implementation in favor of 0x00000002).
const AlgIDEd25519 uint32 = 0x00000002

// ed25519Context is the fixed domain-separation context string used for
// every Ed25519ph signature this package produces (spec.md §4.2).
const ed25519Context = "WasmSignature"

// ed25519Alg implements Algorithm for pre-hashed Ed25519.
type ed25519Alg struct{}

func (ed25519Alg) AlgID() uint32 { return AlgIDEd25519 }

func (ed25519Alg) RawSignatureLength() int { return ed25519.SignatureSize }

func (ed25519Alg) Keygen() (KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return KeyPair{}, NewError(ErrIO, err.Error())
	}
	pk := NewPublicKey(AlgIDEd25519, pub)
	sk := NewSecretKey(AlgIDEd25519, priv)
	return NewKeyPair(pk, sk), nil
}

func (ed25519Alg) Sign(data, ad []byte, kp KeyPair) (Signature, error) {
	if kp.SK.AlgID() != AlgIDEd25519 {
		return Signature{}, signatureErrorf("secret key is not an Ed25519 key")
	}
	hashed, err := ed25519PreHash(data, ad)
	if err != nil {
		return Signature{}, err
	}
	priv := ed25519.PrivateKey(kp.SK.Raw())
	opts := &ed25519.Options{Hash: crypto.SHA512, Context: ed25519Context}
	raw, err := priv.Sign(rand.Reader, hashed[:], opts)
	if err != nil {
		return Signature{}, signatureErrorf("ed25519 sign: %s", err)
	}
	return NewSignature(AlgIDEd25519, raw), nil
}

func (ed25519Alg) Verify(data, ad, pk []byte, sig Signature) error {
	if sig.AlgID() != AlgIDEd25519 {
		return signatureErrorf("signature uses a different scheme than the Ed25519 algorithm")
	}
	if len(pk) != ed25519.PublicKeySize {
		return parseErrorf("invalid ed25519 public key length: %d", len(pk))
	}
	if len(sig.Raw()) != ed25519.SignatureSize {
		return parseErrorf("invalid ed25519 signature length: %d", len(sig.Raw()))
	}
	hashed, err := ed25519PreHash(data, ad)
	if err != nil {
		return err
	}
	opts := &ed25519.Options{Hash: crypto.SHA512, Context: ed25519Context}
	if err := ed25519.VerifyWithOptions(ed25519.PublicKey(pk), hashed[:], sig.Raw(), opts); err != nil {
		return signatureErrorf("ed25519 verification failed")
	}
	return nil
}

// ed25519PreHash implements the pre-hash input framing of spec.md §4.2:
//
//	SHA-512(CONTEXT ‖ ad_len_le32 ‖ ad ‖ data)
//
// The 64-byte digest is then fed to Ed25519ph (via crypto/ed25519's
// Options.Hash = crypto.SHA512), which itself prepends its own
// dom2(1, context) prefix before the final signature. This resolves the
// framing ambiguity spec.md §9 flags between draft copies of the original
// implementation by canonicalizing on the later, context-prefixed variant.
func ed25519PreHash(data, ad []byte) ([sha512.Size]byte, error) {
	var out [sha512.Size]byte
	if uint64(len(ad)) > 0xFFFFFFFF {
		return out, usageErrorf("additional data too long")
	}
	var adLen [4]byte
	binary.LittleEndian.PutUint32(adLen[:], uint32(len(ad)))

	h := sha512.New()
	h.Write([]byte(ed25519Context))
	h.Write(adLen[:])
	h.Write(ad)
	h.Write(data)
	copy(out[:], h.Sum(nil))
	return out, nil
}
