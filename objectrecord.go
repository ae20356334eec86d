// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// readObjectRecord reads the size-prefixed record at offset within data:
// an MS payload size (bytes, excluding the trailing 2-byte CRC), followed
// immediately by that many bytes of object body. The returned record
// carries everything a caller needs to bind a fresh BitReader at the
// exact sub-byte position where the body begins.
func readObjectRecord(data []byte, offset uint64, opts *Options) (*ObjectRecord, error) {
	if offset >= uint64(len(data)) {
		return nil, NewErrorAt(KindFormat, "object record offset out of range", offset)
	}
	br := NewBitReader(data[offset:])
	size, err := br.MS()
	if err != nil {
		return nil, err
	}

	bodyPos := br.Pos()
	bodyByteStart := offset + bodyPos.Byte
	bodyEnd := bodyByteStart + uint64(size)
	if bodyEnd > uint64(len(data)) {
		return nil, NewErrorAt(KindFormat, "object record body exceeds buffer", offset)
	}

	return &ObjectRecord{
		Offset:        offset,
		Size:          uint64(size),
		BodyByteStart: bodyByteStart,
		BodyBitPos:    bodyPos,
		Body:          data[bodyByteStart:bodyEnd],
	}, nil
}

// bodyReader binds a fresh BitReader to an ObjectRecord's body at the
// exact sub-byte position the size prefix ended on.
func (rec *ObjectRecord) bodyReader() *BitReader {
	br := NewBitReader(rec.Body)
	br.SetPos(BitPos{Byte: 0, Bit: rec.BodyBitPos.Bit})
	return br
}
