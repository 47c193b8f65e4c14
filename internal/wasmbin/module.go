package wasmbin

import "errors"

// Section ids, per the WebAssembly binary format.
const (
	SecCustom   = 0
	SecType     = 1
	SecImport   = 2
	SecFunction = 3
	SecTable    = 4
	SecMemory   = 5
	SecGlobal   = 6
	SecExport   = 7
	SecStart    = 8
	SecElement  = 9
	SecCode     = 10
	SecData     = 11
)

// Value types this package needs to recognize structurally.
const (
	ValTypeI32 = 0x7f
	ValTypeI64 = 0x7e
	ValTypeF32 = 0x7d
	ValTypeF64 = 0x7c
)

// External kinds for export/import entries.
const (
	ExtFunc   = 0x00
	ExtTable  = 0x01
	ExtMem    = 0x02
	ExtGlobal = 0x03
)

var (
	errMalformedLEB = errors.New("wasmbin: malformed LEB128 integer")
	errBadMagic     = errors.New("wasmbin: bad magic number or version")
	errMalformed    = errors.New("wasmbin: malformed module")
)

// ConstExpr is a decoded constant initializer expression (the offset of a
// data segment, or the init value of a global). Raw holds the exact bytes
// of the expression as they appeared in the module, including the
// terminating End opcode, so that re-encoding entries this package does
// not structurally understand is still byte-exact.
type ConstExpr struct {
	Raw []byte
}

// I32Const returns (k, true) if expr is exactly the two-instruction
// sequence `i32.const k; end`, per spec.md's definition of a well-formed
// offset-expression. Any other shape returns (0, false).
func (e ConstExpr) I32Const() (int32, bool) {
	if len(e.Raw) < 2 || e.Raw[0] != opI32Const || e.Raw[len(e.Raw)-1] != opEnd {
		return 0, false
	}
	r := newReader(e.Raw[1 : len(e.Raw)-1])
	v, err := r.sleb128()
	if err != nil || r.remaining() != 0 {
		return 0, false
	}
	return v, true
}

// I32ConstExpr builds the canonical two-instruction `i32.const k; end`
// constant expression.
func I32ConstExpr(k int32) ConstExpr {
	buf := []byte{opI32Const}
	buf = appendSLEB128(buf, k)
	buf = append(buf, opEnd)
	return ConstExpr{Raw: buf}
}

// DataSegment is an entry of the Data section. This package only supports
// the active, explicit-memory-index-0 encoding described in spec.md §3;
// any other encoding is rejected as malformed during decode.
type DataSegment struct {
	Offset  ConstExpr
	Payload []byte
}

// GlobalType describes the shape of a Global entry.
type GlobalType struct {
	ValType byte
	Mutable bool
}

// Global is an entry of the Global section.
type Global struct {
	Type GlobalType
	Init ConstExpr
}

// ExportTarget names what kind of entity an Export entry refers to.
type ExportTarget struct {
	Kind byte
	Idx  uint32
}

// Export is an entry of the Export section.
type Export struct {
	Name   string
	Target ExportTarget
}

// CustomSection is an entry among the module's Custom sections.
type CustomSection struct {
	Name    string
	Payload []byte
}

// rawSection is an as-encountered section record. For section ids this
// package understands structurally (Data, Global, Export, Custom) the
// payload field is authoritative only until the corresponding structured
// slice on Module is mutated; Encode always rebuilds those four kinds of
// section payloads from the structured fields and passes every other
// section through byte-for-byte.
type rawSection struct {
	id      byte
	payload []byte
}

// Module is the structured view of a Wasm binary module that spec.md §3
// requires: ordered Data segments, ordered Globals, ordered Exports, and
// ordered Custom sections, plus whatever else the module contains, kept
// opaque.
type Module struct {
	Data    []DataSegment
	Globals []Global
	Exports []Export
	Custom  []CustomSection

	// sections preserves the relative order of every top-level section as
	// it was encountered in the input, so Encode can reproduce the same
	// section ordering modulo the structural edits callers make.
	sections []rawSection

	// indices into sections for the structural ones, or -1 if the module
	// had no such section on decode. Lazily created, in canonical
	// section-id order, the first time a matching Add* method is called.
	dataSectionIdx   int
	globalSectionIdx int
	exportSectionIdx int

	// customSectionIdx[i] is the index into sections holding Custom[i]'s
	// section record.
	customSectionIdx []int
}

// NewModule returns an empty module with no sections, ready for Add*
// calls. ParseModule builds its Module values the same way before
// populating them from decoded bytes.
func NewModule() *Module {
	return &Module{dataSectionIdx: -1, globalSectionIdx: -1, exportSectionIdx: -1}
}
