// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// cursor18 is a byte cursor over the R18 (R2004) compressed stream.
type cursor18 struct {
	data []byte
	pos  int
}

func (c *cursor18) readU8() (uint8, error) {
	if c.pos >= len(c.data) {
		return 0, NewError(KindDecode, "unexpected end of compressed stream")
	}
	v := c.data[c.pos]
	c.pos++
	return v, nil
}

// decompressR18 expands src (a R2004/R18-dialect LZ77-style compressed
// buffer) to exactly dstSize bytes, mirroring decompress_r18 in the
// reference decoder bit for bit.
func decompressR18(src []byte, dstSize int) ([]byte, error) {
	dst := make([]byte, 0, dstSize)
	cur := &cursor18{data: src}

	literalLen, opcode1, err := r18ReadLiteralLength(cur)
	if err != nil {
		return nil, err
	}
	dst, err = r18CopyLiteral(dst, src, cur, literalLen)
	if err != nil {
		return nil, err
	}

loop:
	for cur.pos < len(src) {
		if opcode1 == 0x00 {
			opcode1, err = cur.readU8()
			if err != nil {
				return nil, err
			}
		}

		var compBytes, compOffset, nextLiteralLen int
		var nextOpcode1 uint8

		switch {
		case opcode1 == 0x10:
			n, err := r18ReadLongCompressionOffset(cur)
			if err != nil {
				return nil, err
			}
			compBytes = n + 9
			offset, litCount, err := r18ReadTwoByteOffset(cur)
			if err != nil {
				return nil, err
			}
			compOffset = offset + 0x3FFF
			if litCount == 0 {
				nextLiteralLen, nextOpcode1, err = r18ReadLiteralLength(cur)
				if err != nil {
					return nil, err
				}
			} else {
				nextLiteralLen = litCount
			}
		case opcode1 == 0x11:
			break loop
		case opcode1 >= 0x12 && opcode1 <= 0x1F:
			compBytes = int(opcode1&0x0F) + 2
			offset, litCount, err := r18ReadTwoByteOffset(cur)
			if err != nil {
				return nil, err
			}
			compOffset = offset + 0x3FFF
			if litCount == 0 {
				nextLiteralLen, nextOpcode1, err = r18ReadLiteralLength(cur)
				if err != nil {
					return nil, err
				}
			} else {
				nextLiteralLen = litCount
			}
		case opcode1 == 0x20:
			n, err := r18ReadLongCompressionOffset(cur)
			if err != nil {
				return nil, err
			}
			compBytes = n + 0x21
			offset, litCount, err := r18ReadTwoByteOffset(cur)
			if err != nil {
				return nil, err
			}
			compOffset = offset
			if litCount == 0 {
				nextLiteralLen, nextOpcode1, err = r18ReadLiteralLength(cur)
				if err != nil {
					return nil, err
				}
			} else {
				nextLiteralLen = litCount
			}
		case opcode1 >= 0x21 && opcode1 <= 0x3F:
			compBytes = int(opcode1) - 0x1E
			offset, litCount, err := r18ReadTwoByteOffset(cur)
			if err != nil {
				return nil, err
			}
			compOffset = offset
			if litCount == 0 {
				nextLiteralLen, nextOpcode1, err = r18ReadLiteralLength(cur)
				if err != nil {
					return nil, err
				}
			} else {
				nextLiteralLen = litCount
			}
		case opcode1 >= 0x40:
			compBytes = int((opcode1&0xF0)>>4) - 1
			opcode2, err := cur.readU8()
			if err != nil {
				return nil, err
			}
			compOffset = (int(opcode2) << 2) | (int(opcode1&0x0C) >> 2)
			if opcode1&0x03 != 0 {
				nextLiteralLen = int(opcode1 & 0x03)
			} else {
				nextLiteralLen, nextOpcode1, err = r18ReadLiteralLength(cur)
				if err != nil {
					return nil, err
				}
			}
		default:
			return nil, NewError(KindFormat, "invalid R2004 compression opcode")
		}

		dst, err = r18CopyDecompressed(dst, compOffset+1, compBytes)
		if err != nil {
			return nil, err
		}
		dst, err = r18CopyLiteral(dst, src, cur, nextLiteralLen)
		if err != nil {
			return nil, err
		}
		opcode1 = nextOpcode1
	}

	if len(dst) > dstSize {
		dst = dst[:dstSize]
	} else if len(dst) < dstSize {
		padded := make([]byte, dstSize)
		copy(padded, dst)
		dst = padded
	}
	return dst, nil
}

func r18ReadLiteralLength(cur *cursor18) (int, uint8, error) {
	b, err := cur.readU8()
	if err != nil {
		return 0, 0, err
	}
	switch {
	case b >= 0x01 && b <= 0x0F:
		return int(b) + 3, 0, nil
	case b&0xF0 != 0:
		return 0, b, nil
	case b == 0x00:
		length := 0x0F
		nb, err := cur.readU8()
		if err != nil {
			return 0, 0, err
		}
		for nb == 0x00 {
			length += 0xFF
			nb, err = cur.readU8()
			if err != nil {
				return 0, 0, err
			}
		}
		length += int(nb) + 3
		return length, 0, nil
	default:
		return 0, 0, nil
	}
}

func r18ReadLongCompressionOffset(cur *cursor18) (int, error) {
	b, err := cur.readU8()
	if err != nil {
		return 0, err
	}
	value := 0
	if b == 0x00 {
		value = 0xFF
		b, err = cur.readU8()
		if err != nil {
			return 0, err
		}
		for b == 0x00 {
			value += 0xFF
			b, err = cur.readU8()
			if err != nil {
				return 0, err
			}
		}
	}
	return value + int(b), nil
}

func r18ReadTwoByteOffset(cur *cursor18) (int, int, error) {
	b1, err := cur.readU8()
	if err != nil {
		return 0, 0, err
	}
	b2, err := cur.readU8()
	if err != nil {
		return 0, 0, err
	}
	value := (int(b1) >> 2) | (int(b2) << 6)
	litCount := int(b1 & 0x03)
	return value, litCount, nil
}

func r18CopyLiteral(dst []byte, src []byte, cur *cursor18, length int) ([]byte, error) {
	if length == 0 {
		return dst, nil
	}
	end := cur.pos + length
	if end > len(src) {
		return nil, NewError(KindDecode, "literal run exceeds compressed data")
	}
	dst = append(dst, src[cur.pos:end]...)
	cur.pos = end
	return dst, nil
}

// r18CopyDecompressed appends a back-reference copy of length bytes from
// offset bytes before the current write position. Offsets beyond the
// already-produced prefix advance without copying (zero-filled), mirroring
// known-tolerant vendor behavior for corrupted back-references.
func r18CopyDecompressed(dst []byte, offset, length int) ([]byte, error) {
	if length == 0 {
		return dst, nil
	}
	dstIdx := len(dst)
	if offset > dstIdx {
		grown := make([]byte, dstIdx+length)
		copy(grown, dst)
		return grown, nil
	}
	grown := make([]byte, dstIdx+length)
	copy(grown, dst)
	for i := 0; i < length; i++ {
		srcIdx := dstIdx + i - offset
		grown[dstIdx+i] = grown[srcIdx]
	}
	return grown, nil
}
