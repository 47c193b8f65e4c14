package wasmbin

// ensureSection returns the index into m.sections for the given structural
// section id, inserting an empty placeholder in canonical position (before
// the first existing non-custom section with a strictly greater id) if the
// module did not already carry one.
func (m *Module) ensureSection(id byte, cur *int) int {
	if *cur >= 0 {
		return *cur
	}
	pos := len(m.sections)
	for i, s := range m.sections {
		if s.id != SecCustom && s.id > id {
			pos = i
			break
		}
	}
	m.insertSection(pos, id)
	*cur = pos
	return pos
}

// insertSection splices a new, empty section record into m.sections at
// pos, fixing up every recorded index that now falls after it.
func (m *Module) insertSection(pos int, id byte) {
	m.sections = append(m.sections, rawSection{})
	copy(m.sections[pos+1:], m.sections[pos:])
	m.sections[pos] = rawSection{id: id}

	bump := func(idx *int) {
		if *idx >= pos {
			*idx++
		}
	}
	bump(&m.dataSectionIdx)
	bump(&m.globalSectionIdx)
	bump(&m.exportSectionIdx)
	for i := range m.customSectionIdx {
		bump(&m.customSectionIdx[i])
	}
}

// AddDataSegment appends a new active data segment targeting memory 0 at
// the given offset, returning its index within the Data section.
func (m *Module) AddDataSegment(offset int32, payload []byte) int {
	m.ensureSection(SecData, &m.dataSectionIdx)
	idx := len(m.Data)
	m.Data = append(m.Data, DataSegment{Offset: I32ConstExpr(offset), Payload: payload})
	return idx
}

// AddGlobal appends a new global, returning its index within the Global
// section.
func (m *Module) AddGlobal(valType byte, mutable bool, init ConstExpr) int {
	m.ensureSection(SecGlobal, &m.globalSectionIdx)
	idx := len(m.Globals)
	m.Globals = append(m.Globals, Global{Type: GlobalType{ValType: valType, Mutable: mutable}, Init: init})
	return idx
}

// AddExport appends a new export entry.
func (m *Module) AddExport(name string, kind byte, idx uint32) {
	m.ensureSection(SecExport, &m.exportSectionIdx)
	m.Exports = append(m.Exports, Export{Name: name, Target: ExportTarget{Kind: kind, Idx: idx}})
}

// AppendCustomSection appends a brand-new Custom Section as the very last
// section of the module — the shape spec.md §4.5's custom-section strategy
// requires.
func (m *Module) AppendCustomSection(name string, payload []byte) {
	pos := len(m.sections)
	m.sections = append(m.sections, rawSection{id: SecCustom})
	m.Custom = append(m.Custom, CustomSection{Name: name, Payload: payload})
	m.customSectionIdx = append(m.customSectionIdx, pos)
}

// Encode re-serializes the module deterministically: every structural
// section (Data, Global, Export, Custom) is rebuilt from its current
// in-memory form, every other section is copied through verbatim, in the
// original relative order plus whatever positions Add* inserted new
// sections at.
func (m *Module) Encode() []byte {
	out := make([]byte, 0, 64)
	out = append(out, magic[:]...)
	out = append(out, 0x01, 0x00, 0x00, 0x00)

	dataPayload := encodeDataSection(m.Data)
	globalPayload := encodeGlobalSection(m.Globals)
	exportPayload := encodeExportSection(m.Exports)
	customPayload := make(map[int][]byte, len(m.customSectionIdx))
	for i, idx := range m.customSectionIdx {
		customPayload[idx] = encodeCustomSection(m.Custom[i])
	}

	for i, s := range m.sections {
		var payload []byte
		switch {
		case i == m.dataSectionIdx:
			payload = dataPayload
		case i == m.globalSectionIdx:
			payload = globalPayload
		case i == m.exportSectionIdx:
			payload = exportPayload
		default:
			if p, ok := customPayload[i]; ok {
				payload = p
			} else {
				payload = s.payload
			}
		}
		out = append(out, s.id)
		out = appendULEB128(out, uint32(len(payload)))
		out = append(out, payload...)
	}
	return out
}

func encodeDataSection(segs []DataSegment) []byte {
	buf, _ := encodeDataSectionWithOffsets(segs)
	return buf
}

// encodeDataSectionWithOffsets encodes the Data section payload exactly
// like encodeDataSection, additionally reporting, for each segment, the
// byte offset within the returned payload at which that segment's data
// bytes begin.
func encodeDataSectionWithOffsets(segs []DataSegment) (payload []byte, payloadOffsets []int) {
	var buf []byte
	buf = appendULEB128(buf, uint32(len(segs)))
	offsets := make([]int, len(segs))
	for i, seg := range segs {
		buf = appendULEB128(buf, 0) // memory index 0
		buf = append(buf, seg.Offset.Raw...)
		buf = appendULEB128(buf, uint32(len(seg.Payload)))
		offsets[i] = len(buf)
		buf = append(buf, seg.Payload...)
	}
	return buf, offsets
}

// EncodeLocatingDataPayload encodes the module exactly like Encode, and
// additionally returns the absolute byte offset, within the returned
// buffer, at which the payload of the data segment segIdx begins. This
// lets a caller patch that segment's bytes in place afterward without a
// second decode/encode round trip.
func (m *Module) EncodeLocatingDataPayload(segIdx int) (out []byte, payloadOffset int, err error) {
	if segIdx < 0 || segIdx >= len(m.Data) {
		return nil, 0, errMalformed
	}

	out = make([]byte, 0, 64)
	out = append(out, magic[:]...)
	out = append(out, 0x01, 0x00, 0x00, 0x00)

	dataPayload, dataOffsets := encodeDataSectionWithOffsets(m.Data)
	globalPayload := encodeGlobalSection(m.Globals)
	exportPayload := encodeExportSection(m.Exports)
	customPayload := make(map[int][]byte, len(m.customSectionIdx))
	for i, idx := range m.customSectionIdx {
		customPayload[idx] = encodeCustomSection(m.Custom[i])
	}

	found := false
	for i, s := range m.sections {
		var payload []byte
		switch {
		case i == m.dataSectionIdx:
			payload = dataPayload
		case i == m.globalSectionIdx:
			payload = globalPayload
		case i == m.exportSectionIdx:
			payload = exportPayload
		default:
			if p, ok := customPayload[i]; ok {
				payload = p
			} else {
				payload = s.payload
			}
		}
		out = append(out, s.id)
		out = appendULEB128(out, uint32(len(payload)))
		if i == m.dataSectionIdx {
			payloadOffset = len(out) + dataOffsets[segIdx]
			found = true
		}
		out = append(out, payload...)
	}
	if !found {
		return nil, 0, errMalformed
	}
	return out, payloadOffset, nil
}

func encodeGlobalSection(globals []Global) []byte {
	var buf []byte
	buf = appendULEB128(buf, uint32(len(globals)))
	for _, g := range globals {
		buf = append(buf, g.Type.ValType)
		if g.Type.Mutable {
			buf = append(buf, 0x01)
		} else {
			buf = append(buf, 0x00)
		}
		buf = append(buf, g.Init.Raw...)
	}
	return buf
}

func encodeExportSection(exports []Export) []byte {
	var buf []byte
	buf = appendULEB128(buf, uint32(len(exports)))
	for _, e := range exports {
		buf = appendULEB128(buf, uint32(len(e.Name)))
		buf = append(buf, e.Name...)
		buf = append(buf, e.Target.Kind)
		buf = appendULEB128(buf, e.Target.Idx)
	}
	return buf
}

func encodeCustomSection(c CustomSection) []byte {
	var buf []byte
	buf = appendULEB128(buf, uint32(len(c.Name)))
	buf = append(buf, c.Name...)
	buf = append(buf, c.Payload...)
	return buf
}
