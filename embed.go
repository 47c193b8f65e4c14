package wasmsign

import (
	"encoding/binary"
	"math"

	"github.com/jedisct1/wasmsign/internal/wasmbin"
)

// DefaultSymbolName is the exported symbol name used when the caller
// doesn't supply one (spec.md §6).
const DefaultSymbolName = "___SIGNATURE"

// findLongestDataSegment scans every existing data segment, validating its
// offset-expression, and returns the index of the one with the maximum
// payload length. Ties are broken by the lowest index (spec.md §9: "the
// tie-breaking rule... is unspecified; implementations should pick the
// lowest-index such segment to be deterministic").
func findLongestDataSegment(m *wasmbin.Module) (idx int, offset int32, length uint32, err error) {
	if len(m.Data) == 0 {
		return 0, 0, 0, parseErrorf("module has no data segments")
	}
	best := -1
	var bestOffset int32
	var bestLen uint32
	for i, seg := range m.Data {
		off, ok := seg.Offset.I32Const()
		if !ok {
			return 0, 0, 0, parseErrorf("data segment %d has a malformed offset expression", i)
		}
		if off < 0 {
			return 0, 0, 0, parseErrorf("data segment %d has a negative offset", i)
		}
		segLen := uint32(len(seg.Payload))
		if uint64(off)+uint64(segLen) > math.MaxUint32 {
			return 0, 0, 0, usageErrorf("data segment %d offset would overflow", i)
		}
		if best == -1 || segLen > bestLen {
			best = i
			bestOffset = off
			bestLen = segLen
		}
	}
	return best, bestOffset, bestLen, nil
}

// attachEmbeddedSignature performs spec.md §4.4's slot construction: it
// appends D_sig (zero-filled), D_ref (pointer to D_sig), a new immutable
// i32 global pointing at D_ref, and an export entry naming that global. It
// returns the index of the new D_sig data segment so the caller can
// overwrite its payload once the signature is known.
func attachEmbeddedSignature(m *wasmbin.Module, sigLen int, symbolName string) (sigSegIdx int, err error) {
	for _, e := range m.Exports {
		if e.Name == symbolName {
			return 0, parseErrorf("%s symbol already present", symbolName)
		}
	}

	_, longestOffset, longestLen, err := findLongestDataSegment(m)
	if err != nil {
		return 0, err
	}

	if uint64(longestOffset)+uint64(longestLen) > math.MaxInt32 {
		return 0, usageErrorf("data section is full, offset would overflow")
	}
	oSig := longestOffset + int32(longestLen)

	if uint64(oSig)+uint64(sigLen) > math.MaxInt32 {
		return 0, usageErrorf("data section is full, offset would overflow")
	}
	oRef := oSig + int32(sigLen)
	if uint64(oRef)+4 > math.MaxInt32 {
		return 0, usageErrorf("data section is full, offset would overflow")
	}

	sigSegIdx = m.AddDataSegment(oSig, make([]byte, sigLen))

	var refBytes [4]byte
	binary.LittleEndian.PutUint32(refBytes[:], uint32(oSig))
	m.AddDataSegment(oRef, refBytes[:])

	globalIdx := m.AddGlobal(wasmbin.ValTypeI32, false, wasmbin.I32ConstExpr(oRef))
	m.AddExport(symbolName, wasmbin.ExtGlobal, uint32(globalIdx))

	return sigSegIdx, nil
}

// locateEmbeddedSignatureSlot implements spec.md §4.4's extraction
// procedure: follow symbolName's export to its global, dereference the
// global's init value to find the reference segment, and follow that to
// the signature slot itself. It returns the index of the data segment
// holding the signature (the slot to be zeroed and, on verify, read).
func locateEmbeddedSignatureSlot(m *wasmbin.Module, symbolName string) (slotIdx int, err error) {
	var exportEntry *wasmbin.Export
	for i := range m.Exports {
		if m.Exports[i].Name == symbolName {
			exportEntry = &m.Exports[i]
			break
		}
	}
	if exportEntry == nil {
		return 0, parseErrorf("symbol %s not found", symbolName)
	}
	if exportEntry.Target.Kind != wasmbin.ExtGlobal {
		return 0, parseErrorf("wrong type for the signature global")
	}
	globalIdx := exportEntry.Target.Idx

	if int(globalIdx) >= len(m.Globals) {
		return 0, parseErrorf("global section is too short")
	}
	global := m.Globals[globalIdx]
	if global.Type.Mutable {
		return 0, parseErrorf("signature global is mutable")
	}
	if global.Type.ValType != wasmbin.ValTypeI32 {
		return 0, parseErrorf("unexpected type for the signature global")
	}
	oRef, ok := global.Init.I32Const()
	if !ok {
		return 0, parseErrorf("malformed init expression for the signature global")
	}

	refSegIdx := -1
	for i, seg := range m.Data {
		off, ok := seg.Offset.I32Const()
		if ok && off == oRef {
			refSegIdx = i
			break
		}
	}
	if refSegIdx == -1 {
		return 0, parseErrorf("reference data segment not found")
	}
	refPayload := m.Data[refSegIdx].Payload
	if len(refPayload) != 4 {
		return 0, parseErrorf("encoded reference is too short")
	}
	oSig := int32(binary.LittleEndian.Uint32(refPayload))
	if oSig < 0 {
		return 0, parseErrorf("negative data segment offset")
	}

	for i, seg := range m.Data {
		off, ok := seg.Offset.I32Const()
		if ok && off == oSig {
			return i, nil
		}
	}
	return 0, parseErrorf("data segment not found")
}

// zeroedSlotBytes returns the encoded module with the data segment at
// slotIdx overwritten with allZeroLen zero bytes, without disturbing
// anything else — the "zero-mask discipline" of spec.md §4.6.
func zeroedSlotBytes(m *wasmbin.Module, slotIdx int, allZeroLen int) []byte {
	saved := m.Data[slotIdx].Payload
	m.Data[slotIdx].Payload = make([]byte, allZeroLen)
	out := m.Encode()
	m.Data[slotIdx].Payload = saved
	return out
}

func isAllZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
