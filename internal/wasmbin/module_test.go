package wasmbin

import (
	"bytes"
	"testing"
)

func buildMinimalModule(t *testing.T) []byte {
	t.Helper()
	m := NewModule()
	m.AddDataSegment(1024, []byte{0x01, 0x02, 0x03, 0x04})
	m.AddGlobal(ValTypeI32, false, I32ConstExpr(42))
	m.AddExport("some_global", ExtGlobal, 0)
	return m.Encode()
}

func TestRoundTripMinimalModule(t *testing.T) {
	raw := buildMinimalModule(t)
	m, err := ParseModule(raw)
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}
	if len(m.Data) != 1 {
		t.Fatalf("got %d data segments, want 1", len(m.Data))
	}
	off, ok := m.Data[0].Offset.I32Const()
	if !ok || off != 1024 {
		t.Fatalf("got offset %d ok=%v, want 1024", off, ok)
	}
	if !bytes.Equal(m.Data[0].Payload, []byte{0x01, 0x02, 0x03, 0x04}) {
		t.Fatalf("unexpected data payload: %x", m.Data[0].Payload)
	}
	if len(m.Globals) != 1 || m.Globals[0].Type.Mutable {
		t.Fatalf("unexpected globals: %+v", m.Globals)
	}
	if len(m.Exports) != 1 || m.Exports[0].Name != "some_global" {
		t.Fatalf("unexpected exports: %+v", m.Exports)
	}

	roundtrip := m.Encode()
	if !bytes.Equal(raw, roundtrip) {
		t.Fatalf("encode(parse(raw)) != raw\nraw:       %x\nroundtrip: %x", raw, roundtrip)
	}
}

func TestAddDataSegmentOnExistingSections(t *testing.T) {
	raw := buildMinimalModule(t)
	m, err := ParseModule(raw)
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}

	idx := m.AddDataSegment(1028, make([]byte, 64))
	if idx != 1 {
		t.Fatalf("got new segment index %d, want 1", idx)
	}
	gIdx := m.AddGlobal(ValTypeI32, false, I32ConstExpr(2000))
	if gIdx != 1 {
		t.Fatalf("got new global index %d, want 1", gIdx)
	}
	m.AddExport("___SIGNATURE", ExtGlobal, uint32(gIdx))

	encoded := m.Encode()
	m2, err := ParseModule(encoded)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if len(m2.Data) != 2 || len(m2.Globals) != 2 || len(m2.Exports) != 2 {
		t.Fatalf("unexpected section lengths after add: data=%d globals=%d exports=%d",
			len(m2.Data), len(m2.Globals), len(m2.Exports))
	}
}

func TestAddSectionsFromScratch(t *testing.T) {
	m := NewModule()
	idx := m.AddDataSegment(0, []byte{0xff})
	if idx != 0 {
		t.Fatalf("got index %d, want 0", idx)
	}
	gIdx := m.AddGlobal(ValTypeI32, false, I32ConstExpr(1))
	m.AddExport("g", ExtGlobal, uint32(gIdx))

	raw := m.Encode()
	m2, err := ParseModule(raw)
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}
	if len(m2.Data) != 1 || len(m2.Globals) != 1 || len(m2.Exports) != 1 {
		t.Fatalf("unexpected counts: %+v", m2)
	}
}

func TestAppendCustomSectionIsLast(t *testing.T) {
	raw := buildMinimalModule(t)
	m, err := ParseModule(raw)
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}
	m.AppendCustomSection("signature_wasmsign", []byte{0x02, 0x00, 0x00, 0x00})

	encoded := m.Encode()
	m2, err := ParseModule(encoded)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if len(m2.Custom) != 1 {
		t.Fatalf("got %d custom sections, want 1", len(m2.Custom))
	}
	if m2.Custom[0].Name != "signature_wasmsign" {
		t.Fatalf("unexpected custom section name: %q", m2.Custom[0].Name)
	}
	if m2.sections[len(m2.sections)-1].id != SecCustom {
		t.Fatalf("custom section is not last")
	}
}

func TestMalformedOffsetExpressionRejected(t *testing.T) {
	// i32.const with no terminating End.
	bad := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	bad = append(bad, SecData)
	payload := []byte{0x01, 0x00, opI32Const, 0x00} // missing End
	bad = appendULEB128(bad, uint32(len(payload)))
	bad = append(bad, payload...)

	if _, err := ParseModule(bad); err == nil {
		t.Fatalf("expected parse error for malformed offset expression")
	}
}

func TestBadMagicRejected(t *testing.T) {
	if _, err := ParseModule([]byte{0, 1, 2, 3, 4, 5, 6, 7}); err == nil {
		t.Fatalf("expected error for bad magic")
	}
}

func TestLEB128RoundTrip(t *testing.T) {
	for _, v := range []uint32{0, 1, 127, 128, 300, 1 << 20, 0xFFFFFFFF} {
		buf := appendULEB128(nil, v)
		r := newReader(buf)
		got, err := r.uleb128()
		if err != nil {
			t.Fatalf("uleb128 decode: %v", err)
		}
		if got != v {
			t.Fatalf("uleb128 roundtrip: got %d want %d", got, v)
		}
	}
	for _, v := range []int32{0, 1, -1, 63, -64, 1000, -1000, 1 << 20, -(1 << 20)} {
		buf := appendSLEB128(nil, v)
		r := newReader(buf)
		got, err := r.sleb128()
		if err != nil {
			t.Fatalf("sleb128 decode: %v", err)
		}
		if got != v {
			t.Fatalf("sleb128 roundtrip: got %d want %d", got, v)
		}
	}
}
