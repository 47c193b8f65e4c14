// Package wasmbin is a minimal WebAssembly binary-format reader/writer.
//
// It implements exactly the module-level read/write interface spec.md
// treats as an external collaborator: decode bytes into a structured
// module, enumerate and mutate the Data, Global, Export, and Custom
// sections, and re-encode deterministically. It deliberately does not
// attempt to be a general-purpose Wasm toolchain library (no validation of
// function bodies, no support for every post-MVP proposal) — only the
// slice of the binary format the signing/verifying engine touches.
//
// Sections this package does not interpret structurally (Type, Import,
// Function, Table, Memory, Start, Element, Code) are preserved as opaque
// payload bytes and re-emitted unchanged, in their original position
// relative to the sections this package does understand.
package wasmbin

import "io"

// appendULEB128 appends the unsigned LEB128 encoding of v to buf.
func appendULEB128(buf []byte, v uint32) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		buf = append(buf, b)
		if v == 0 {
			return buf
		}
	}
}

// appendSLEB128 appends the signed LEB128 encoding of v to buf.
func appendSLEB128(buf []byte, v int32) []byte {
	more := true
	for more {
		b := byte(v & 0x7f)
		v >>= 7
		signBitSet := b&0x40 != 0
		if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
			more = false
		} else {
			b |= 0x80
		}
		buf = append(buf, b)
	}
	return buf
}

// reader is a cursor over an in-memory byte slice with the handful of
// decode primitives the module parser needs.
type reader struct {
	buf []byte
	pos int
}

func newReader(buf []byte) *reader {
	return &reader{buf: buf}
}

func (r *reader) remaining() int {
	return len(r.buf) - r.pos
}

func (r *reader) byte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.buf) {
		return nil, io.ErrUnexpectedEOF
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) uleb128() (uint32, error) {
	var result uint32
	var shift uint
	for {
		b, err := r.byte()
		if err != nil {
			return 0, err
		}
		if shift >= 32 {
			return 0, errMalformedLEB
		}
		result |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
}

func (r *reader) sleb128() (int32, error) {
	var result int64
	var shift uint
	var b byte
	var err error
	for {
		b, err = r.byte()
		if err != nil {
			return 0, err
		}
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
		if shift >= 64 {
			return 0, errMalformedLEB
		}
	}
	if shift < 64 && b&0x40 != 0 {
		result |= -1 << shift
	}
	if result < -(1<<31) || result > (1<<31)-1 {
		return 0, errMalformedLEB
	}
	return int32(result), nil
}

func (r *reader) sleb64() (int64, error) {
	var result int64
	var shift uint
	var b byte
	var err error
	for {
		b, err = r.byte()
		if err != nil {
			return 0, err
		}
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
		if shift >= 64 {
			return 0, errMalformedLEB
		}
	}
	if shift < 64 && b&0x40 != 0 {
		result |= -1 << shift
	}
	return result, nil
}

func (r *reader) name() (string, error) {
	n, err := r.uleb128()
	if err != nil {
		return "", err
	}
	b, err := r.bytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
