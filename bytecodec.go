// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

import "encoding/binary"

// ByteReader is an endian-aware byte-level reader over an immutable slice,
// used by the container layer wherever a field is byte-aligned rather than
// bit-packed. Bounds checks follow the teacher's ReadUintN convention
// (helper.go): every read validates before indexing and returns a KindIO
// *Error carrying the read offset otherwise.
type ByteReader struct {
	data []byte
	pos  uint64
}

// NewByteReader wraps data for byte-level reading starting at position 0.
func NewByteReader(data []byte) *ByteReader { return &ByteReader{data: data} }

// Pos returns the current byte offset.
func (b *ByteReader) Pos() uint64 { return b.pos }

// SeekTo moves the cursor to an absolute byte offset.
func (b *ByteReader) SeekTo(offset uint64) { b.pos = offset }

// Remaining returns the number of unread bytes.
func (b *ByteReader) Remaining() uint64 {
	if b.pos >= uint64(len(b.data)) {
		return 0
	}
	return uint64(len(b.data)) - b.pos
}

func (b *ByteReader) require(n uint64) error {
	if b.pos+n > uint64(len(b.data)) {
		return NewErrorAt(KindIO, "read past end of buffer", b.pos)
	}
	return nil
}

// U8 reads one byte.
func (b *ByteReader) U8() (uint8, error) {
	if err := b.require(1); err != nil {
		return 0, err
	}
	v := b.data[b.pos]
	b.pos++
	return v, nil
}

// U16 reads a little-endian uint16.
func (b *ByteReader) U16() (uint16, error) {
	if err := b.require(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(b.data[b.pos:])
	b.pos += 2
	return v, nil
}

// U16BE reads a big-endian uint16.
func (b *ByteReader) U16BE() (uint16, error) {
	if err := b.require(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(b.data[b.pos:])
	b.pos += 2
	return v, nil
}

// U32 reads a little-endian uint32.
func (b *ByteReader) U32() (uint32, error) {
	if err := b.require(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(b.data[b.pos:])
	b.pos += 4
	return v, nil
}

// I32 reads a little-endian int32.
func (b *ByteReader) I32() (int32, error) {
	v, err := b.U32()
	return int32(v), err
}

// U64 reads a little-endian uint64.
func (b *ByteReader) U64() (uint64, error) {
	if err := b.require(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(b.data[b.pos:])
	b.pos += 8
	return v, nil
}

// I64 reads a little-endian int64.
func (b *ByteReader) I64() (int64, error) {
	v, err := b.U64()
	return int64(v), err
}

// Bytes reads n raw bytes.
func (b *ByteReader) Bytes(n uint64) ([]byte, error) {
	if err := b.require(n); err != nil {
		return nil, err
	}
	v := b.data[b.pos : b.pos+n]
	b.pos += n
	return v, nil
}

// FixedASCII reads n bytes and trims trailing NUL padding.
func (b *ByteReader) FixedASCII(n uint64) (string, error) {
	raw, err := b.Bytes(n)
	if err != nil {
		return "", err
	}
	end := len(raw)
	for end > 0 && raw[end-1] == 0 {
		end--
	}
	return string(raw[:end]), nil
}
