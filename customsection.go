package wasmsign

// DefaultCustomSectionName is the Custom Section name used when the caller
// doesn't supply one (spec.md §6).
const DefaultCustomSectionName = "signature_wasmsign"

// maxSectionFramedLen is the largest value a single LEB128 byte can encode
// (spec.md §3: "its total framed length fits in one byte of LEB128
// (≤127)").
const maxSectionFramedLen = 127

// customSectionFramedLen computes `1 + len(name) + signatureLen`, the
// framed length spec.md §4.5 requires to fit in one LEB128 byte.
func customSectionFramedLen(name string, signatureLen int) int {
	return 1 + len(name) + signatureLen
}

// checkCustomSectionNameLength validates the bound from spec.md §4.5/§3.
func checkCustomSectionNameLength(name string, signatureLen int) error {
	framed := customSectionFramedLen(name, signatureLen)
	if framed > maxSectionFramedLen {
		return usageErrorf("custom section name too long: framed length %d exceeds %d", framed, maxSectionFramedLen)
	}
	return nil
}

// appendSignatureCustomSection appends a trailing Custom Section carrying sig's
// wire form, after validating no section by that name already exists, per
// spec.md §4.5's "Attach" procedure. moduleBytes is the *unmodified*
// module — with the custom-section strategy, the signed bytes are the
// module as-is; the signature lives entirely outside the signed region.
func appendSignatureCustomSection(moduleBytes []byte, name string, sig Signature) ([]byte, error) {
	if err := checkCustomSectionNameLength(name, sig.Len()); err != nil {
		return nil, err
	}
	if hasCustomSectionNamed(moduleBytes, name) {
		return nil, parseErrorf("custom section %s already present", name)
	}

	framedLen := customSectionFramedLen(name, sig.Len())
	out := make([]byte, 0, len(moduleBytes)+2+framedLen)
	out = append(out, moduleBytes...)
	out = append(out, 0x00)           // custom section id
	out = append(out, byte(framedLen)) // section size, fits in one LEB128 byte
	out = append(out, byte(len(name)))
	out = append(out, name...)
	out = append(out, sig.Bytes()...)
	return out, nil
}

// hasCustomSectionNamed decodes moduleBytes and reports whether any Custom
// Section already carries the given name. A module that fails to decode
// reports false.
func hasCustomSectionNamed(moduleBytes []byte, name string) bool {
	m, err := parseModuleBytes(moduleBytes)
	if err != nil {
		return false
	}
	for _, c := range m.Custom {
		if c.Name == name {
			return true
		}
	}
	return false
}

// extractTrailingSignatureSection locates the trailing Custom Section
// named sectionName and returns the decoded Signature together with the
// byte length of the signed prefix (spec.md §4.5's "Extract"): the module
// bytes with that section's framed bytes stripped off the end.
func extractTrailingSignatureSection(moduleBytes []byte, sectionName string) (sig Signature, signedPrefixLen int, err error) {
	m, err := parseModuleBytes(moduleBytes)
	if err != nil {
		return Signature{}, 0, err
	}
	var payload []byte
	found := false
	for _, c := range m.Custom {
		if c.Name == sectionName {
			payload = c.Payload
			found = true
			break
		}
	}
	if !found {
		return Signature{}, 0, parseErrorf("custom section %s not found", sectionName)
	}

	sig, err = ParseSignature(payload)
	if err != nil {
		return Signature{}, 0, err
	}

	alg, err := AlgorithmFor(sig.AlgID())
	if err != nil {
		return Signature{}, 0, err
	}
	framedLen := customSectionFramedLen(sectionName, SignatureLength(alg))
	trailerLen := 2 + framedLen
	if trailerLen > len(moduleBytes) {
		return Signature{}, 0, parseErrorf("module too short for its trailing signature section")
	}
	return sig, len(moduleBytes) - trailerLen, nil
}
