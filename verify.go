package wasmsign

// Verify checks a module signed with Sign (the embedded-global strategy),
// per spec.md §4.4's extraction procedure and §4.6's zero-mask discipline.
// It does not mutate moduleBytes; verifying the same bytes twice yields
// the same outcome (spec.md §8, Idempotent verification).
func Verify(moduleBytes []byte, pk PublicKey, ad []byte, symbolName string) error {
	if symbolName == "" {
		symbolName = DefaultSymbolName
	}
	alg, err := AlgorithmFor(pk.AlgID())
	if err != nil {
		return err
	}

	m, err := parseModuleBytes(moduleBytes)
	if err != nil {
		return err
	}

	slotIdx, err := locateEmbeddedSignatureSlot(m, symbolName)
	if err != nil {
		return err
	}

	sig, err := ParseSignature(m.Data[slotIdx].Payload)
	if err != nil {
		return err
	}
	if sig.AlgID() != pk.AlgID() {
		return signatureErrorf("signature uses a different scheme than the provided public key")
	}

	zeroed := zeroedSlotBytes(m, slotIdx, len(m.Data[slotIdx].Payload))
	return alg.Verify(zeroed, ad, pk.Raw(), sig)
}

// VerifyCustomSection checks a module signed with SignCustomSection (the
// trailing Custom Section strategy), per spec.md §4.5's "Extract".
func VerifyCustomSection(moduleBytes []byte, pk PublicKey, ad []byte, sectionName string) error {
	if sectionName == "" {
		sectionName = DefaultCustomSectionName
	}
	if _, err := AlgorithmFor(pk.AlgID()); err != nil {
		return err
	}

	sig, signedLen, err := extractTrailingSignatureSection(moduleBytes, sectionName)
	if err != nil {
		return err
	}
	if sig.AlgID() != pk.AlgID() {
		return signatureErrorf("signature uses a different scheme than the provided public key")
	}

	alg, err := AlgorithmFor(sig.AlgID())
	if err != nil {
		return err
	}
	return alg.Verify(moduleBytes[:signedLen], ad, pk.Raw(), sig)
}
