package wasmbin

var magic = [4]byte{0x00, 0x61, 0x73, 0x6d}

// ParseModule decodes a Wasm binary module, keeping the Data, Global,
// Export, and Custom sections structured and every other section opaque.
func ParseModule(buf []byte) (*Module, error) {
	if len(buf) < 8 || buf[0] != magic[0] || buf[1] != magic[1] || buf[2] != magic[2] || buf[3] != magic[3] {
		return nil, errBadMagic
	}
	if buf[4] != 0x01 || buf[5] != 0 || buf[6] != 0 || buf[7] != 0 {
		return nil, errBadMagic
	}

	m := NewModule()
	r := newReader(buf[8:])
	for r.remaining() > 0 {
		id, err := r.byte()
		if err != nil {
			return nil, errMalformed
		}
		size, err := r.uleb128()
		if err != nil {
			return nil, errMalformed
		}
		payload, err := r.bytes(int(size))
		if err != nil {
			return nil, errMalformed
		}

		idx := len(m.sections)
		m.sections = append(m.sections, rawSection{id: id, payload: payload})

		switch id {
		case SecData:
			segs, err := decodeDataSection(payload)
			if err != nil {
				return nil, err
			}
			m.Data = segs
			m.dataSectionIdx = idx
		case SecGlobal:
			globals, err := decodeGlobalSection(payload)
			if err != nil {
				return nil, err
			}
			m.Globals = globals
			m.globalSectionIdx = idx
		case SecExport:
			exports, err := decodeExportSection(payload)
			if err != nil {
				return nil, err
			}
			m.Exports = exports
			m.exportSectionIdx = idx
		case SecCustom:
			cr := newReader(payload)
			name, err := cr.name()
			if err != nil {
				return nil, errMalformed
			}
			m.Custom = append(m.Custom, CustomSection{
				Name:    name,
				Payload: append([]byte(nil), payload[cr.pos:]...),
			})
			m.customSectionIdx = append(m.customSectionIdx, idx)
		}
	}
	return m, nil
}

func decodeDataSection(payload []byte) ([]DataSegment, error) {
	r := newReader(payload)
	count, err := r.uleb128()
	if err != nil {
		return nil, errMalformed
	}
	segs := make([]DataSegment, 0, count)
	for i := uint32(0); i < count; i++ {
		memIdx, err := r.uleb128()
		if err != nil {
			return nil, errMalformed
		}
		if memIdx != 0 {
			return nil, errMalformed
		}
		offset, err := decodeConstExpr(r)
		if err != nil {
			return nil, errMalformed
		}
		n, err := r.uleb128()
		if err != nil {
			return nil, errMalformed
		}
		data, err := r.bytes(int(n))
		if err != nil {
			return nil, errMalformed
		}
		segs = append(segs, DataSegment{
			Offset:  offset,
			Payload: append([]byte(nil), data...),
		})
	}
	if r.remaining() != 0 {
		return nil, errMalformed
	}
	return segs, nil
}

func decodeGlobalSection(payload []byte) ([]Global, error) {
	r := newReader(payload)
	count, err := r.uleb128()
	if err != nil {
		return nil, errMalformed
	}
	globals := make([]Global, 0, count)
	for i := uint32(0); i < count; i++ {
		valType, err := r.byte()
		if err != nil {
			return nil, errMalformed
		}
		mutByte, err := r.byte()
		if err != nil {
			return nil, errMalformed
		}
		if mutByte != 0 && mutByte != 1 {
			return nil, errMalformed
		}
		init, err := decodeConstExpr(r)
		if err != nil {
			return nil, errMalformed
		}
		globals = append(globals, Global{
			Type: GlobalType{ValType: valType, Mutable: mutByte == 1},
			Init: init,
		})
	}
	if r.remaining() != 0 {
		return nil, errMalformed
	}
	return globals, nil
}

func decodeExportSection(payload []byte) ([]Export, error) {
	r := newReader(payload)
	count, err := r.uleb128()
	if err != nil {
		return nil, errMalformed
	}
	exports := make([]Export, 0, count)
	for i := uint32(0); i < count; i++ {
		name, err := r.name()
		if err != nil {
			return nil, errMalformed
		}
		kind, err := r.byte()
		if err != nil {
			return nil, errMalformed
		}
		idx, err := r.uleb128()
		if err != nil {
			return nil, errMalformed
		}
		exports = append(exports, Export{Name: name, Target: ExportTarget{Kind: kind, Idx: idx}})
	}
	if r.remaining() != 0 {
		return nil, errMalformed
	}
	return exports, nil
}
