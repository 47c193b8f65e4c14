package wasmsign

import (
	"github.com/jedisct1/wasmsign/internal/wasmbin"
)

// parseModuleBytes decodes a Wasm module, translating wasmbin's decode
// errors into this package's ParseError kind.
func parseModuleBytes(b []byte) (*wasmbin.Module, error) {
	m, err := wasmbin.ParseModule(b)
	if err != nil {
		return nil, parseErrorf("%s", err)
	}
	return m, nil
}

// Keygen generates a fresh key pair for the given algorithm (spec.md §6).
func Keygen(alg Algorithm) (KeyPair, error) {
	return alg.Keygen()
}

// Sign attaches a signature to moduleBytes using the embedded-global
// strategy (spec.md §4.4) and returns the signed module. symbolName
// defaults to DefaultSymbolName when empty.
//
// This implements the two-pass signing procedure of spec.md §4.4: the
// slot is constructed and the module re-encoded once (Pass 1 — "shape"),
// then the signature is computed over those exact bytes and patched into
// the already-encoded buffer in place (Pass 2), rather than decoding and
// re-encoding a second time. Patching in place makes the Editor
// Round-trip property (the bytes verification will see are exactly the
// bytes that were signed) structurally obvious instead of depending on
// the encoder being deterministic across two independent calls — though
// wasmbin's Module.Encode is in fact deterministic, so either approach
// would agree.
func Sign(moduleBytes []byte, kp KeyPair, ad []byte, symbolName string) ([]byte, error) {
	if symbolName == "" {
		symbolName = DefaultSymbolName
	}
	alg, err := AlgorithmFor(kp.SK.AlgID())
	if err != nil {
		return nil, err
	}

	m, err := parseModuleBytes(moduleBytes)
	if err != nil {
		return nil, err
	}

	sigLen := SignatureLength(alg)
	sigSegIdx, err := attachEmbeddedSignature(m, sigLen, symbolName)
	if err != nil {
		return nil, err
	}

	// Pass 1 — shape: the slot is zero-filled by construction. Encoding
	// also reports where D_sig's payload lands in the byte stream, so
	// Pass 2 can patch it in place instead of decoding a second time.
	m0, slotOffset, err := m.EncodeLocatingDataPayload(sigSegIdx)
	if err != nil {
		return nil, parseErrorf("%s", err)
	}

	sig, err := alg.Sign(m0, ad, kp)
	if err != nil {
		return nil, err
	}
	if sig.Len() != sigLen {
		return nil, NewError(ErrUsage, "algorithm produced a signature of unexpected length")
	}

	// Pass 2 — signing: patch the signature bytes directly into the
	// already-encoded M0, so the final module differs from the bytes
	// that were signed only in that one range (the Editor Round-trip
	// property of spec.md §4.4).
	if !isAllZero(m0[slotOffset : slotOffset+sigLen]) {
		panic("wasmsign: signature slot is not zero-filled before patching")
	}
	m1 := append([]byte(nil), m0...)
	copy(m1[slotOffset:slotOffset+sigLen], sig.Bytes())
	return m1, nil
}

// SignCustomSection attaches a signature to moduleBytes as a trailing
// Custom Section (spec.md §4.5) and returns the signed module.
// sectionName defaults to DefaultCustomSectionName when empty.
func SignCustomSection(moduleBytes []byte, kp KeyPair, ad []byte, sectionName string) ([]byte, error) {
	if sectionName == "" {
		sectionName = DefaultCustomSectionName
	}
	alg, err := AlgorithmFor(kp.SK.AlgID())
	if err != nil {
		return nil, err
	}
	if err := checkCustomSectionNameLength(sectionName, SignatureLength(alg)); err != nil {
		return nil, err
	}
	if hasCustomSectionNamed(moduleBytes, sectionName) {
		return nil, parseErrorf("custom section %s already present", sectionName)
	}

	sig, err := alg.Sign(moduleBytes, ad, kp)
	if err != nil {
		return nil, err
	}
	return appendSignatureCustomSection(moduleBytes, sectionName, sig)
}
