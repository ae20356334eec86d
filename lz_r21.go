// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// decompressR21 expands src (the R2007-dialect LZ77-style compressed
// buffer) to exactly dstSize bytes, mirroring decompress_r18's shape but
// implementing R21's distinct opcode table per spec.md §4.5. Unlike R18,
// a back-reference that reads or writes outside the output buffer is a
// hard Decode error rather than a tolerant zero-fill.
func decompressR21(src []byte, dstSize int) ([]byte, error) {
	if dstSize == 0 {
		return nil, nil
	}
	if len(src) == 0 {
		return nil, NewError(KindDecode, "R2007 compressed stream is empty")
	}

	dst := make([]byte, dstSize)
	srcSize := len(src)
	srcIdx := 0
	dstIdx := 0
	length := 0

	opcode, err := r21ReadU8(src, &srcIdx)
	if err != nil {
		return nil, err
	}
	if opcode&0xF0 == 0x20 {
		srcIdx += 2
		if srcIdx >= srcSize {
			return nil, NewError(KindDecode, "R2007 opcode bootstrap exceeds input")
		}
		length = int(src[srcIdx] & 0x07)
		srcIdx++
	}

	for srcIdx < srcSize {
		if length == 0 {
			length, srcIdx, err = r21ReadLiteralLength(src, srcIdx, opcode)
			if err != nil {
				return nil, err
			}
		}

		if dstIdx+length > dstSize {
			break
		}
		if err := r21CopyLiteralChunk(src, srcIdx, length, dst, dstIdx); err != nil {
			return nil, err
		}
		dstIdx += length
		srcIdx += length

		if srcIdx >= srcSize {
			break
		}

		opcode, length, srcIdx, dstIdx, err = r21CopyBackReferences(src, srcIdx, dst, dstIdx)
		if err != nil {
			return nil, err
		}
	}

	return dst, nil
}

func r21ReadU8(src []byte, srcIdx *int) (int, error) {
	if *srcIdx >= len(src) {
		return 0, NewError(KindDecode, "R2007 compressed stream read exceeds buffer")
	}
	v := int(src[*srcIdx])
	*srcIdx++
	return v, nil
}

// r21ReadLiteralLength decodes the literal-run length that follows an
// opcode whose high nibble is 0: length = opcode+8, with an extension
// chain when that equals 0x17 (23): one byte, and if that byte is 0xFF a
// run of little-endian 16-bit extensions until a non-0xFFFF value.
func r21ReadLiteralLength(src []byte, srcIdx int, opcode int) (int, int, error) {
	length := opcode + 8
	if length == 0x17 {
		if srcIdx >= len(src) {
			return 0, 0, NewError(KindDecode, "R2007 literal length read exceeds compressed data")
		}
		n := int(src[srcIdx])
		srcIdx++
		length += n
		if n == 0xFF {
			for {
				if srcIdx+1 >= len(src) {
					return 0, 0, NewError(KindDecode, "R2007 literal extension exceeds compressed data")
				}
				n = int(src[srcIdx]) | int(src[srcIdx+1])<<8
				srcIdx += 2
				length += n
				if n != 0xFFFF {
					break
				}
			}
		}
	}
	return length, srcIdx, nil
}

// r21CopyBackReferences reads one instruction triplet and every chained
// back-reference that follows it until a literal run resumes, mirroring
// copy_decompressed_chunks: each back-reference's trailing opcode&0x07
// is the next literal length, and (opcode>>4)==15 clears the high nibble
// before the next instruction is decoded.
func r21CopyBackReferences(src []byte, srcIdx int, dst []byte, dstIdx int) (int, int, int, int, error) {
	opcode, err := r21ReadU8(src, &srcIdx)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	offset, length, srcIdx, err := r21ReadInstructions(src, srcIdx, opcode)
	if err != nil {
		return 0, 0, 0, 0, err
	}

	for {
		dstIdx, err = r21CopyFromOutput(dst, dstIdx, offset, length)
		if err != nil {
			return 0, 0, 0, 0, err
		}

		length = opcode & 0x07
		if length != 0 || srcIdx >= len(src) {
			break
		}

		opcode, err = r21ReadU8(src, &srcIdx)
		if err != nil {
			return 0, 0, 0, 0, err
		}
		if opcode>>4 == 0 {
			break
		}
		if opcode>>4 == 15 {
			opcode &= 0x0F
		}

		offset, length, srcIdx, err = r21ReadInstructions(src, srcIdx, opcode)
		if err != nil {
			return 0, 0, 0, 0, err
		}
	}

	return opcode, length, srcIdx, dstIdx, nil
}

// r21ReadInstructions decodes one (offset, length) back-reference from
// opcode plus the bytes that follow it, the 4-case dispatch on opcode>>4
// from spec.md §4.5's "R21 decompressor" section.
func r21ReadInstructions(src []byte, srcIdx int, opcode int) (offset, length, newIdx int, err error) {
	switch opcode >> 4 {
	case 0:
		length = (opcode & 0x0F) + 0x13
		b1, err := r21ReadU8(src, &srcIdx)
		if err != nil {
			return 0, 0, 0, err
		}
		b2, err := r21ReadU8(src, &srcIdx)
		if err != nil {
			return 0, 0, 0, err
		}
		length = ((b2>>3)&0x10) + length
		offset = ((b2&0x78)<<5) + 1 + b1
		return offset, length, srcIdx, nil
	case 1:
		length = (opcode & 0x0F) + 0x03
		b1, err := r21ReadU8(src, &srcIdx)
		if err != nil {
			return 0, 0, 0, err
		}
		b2, err := r21ReadU8(src, &srcIdx)
		if err != nil {
			return 0, 0, 0, err
		}
		offset = ((b2&0xF8)<<5) + 1 + b1
		return offset, length, srcIdx, nil
	case 2:
		b1, err := r21ReadU8(src, &srcIdx)
		if err != nil {
			return 0, 0, 0, err
		}
		b2, err := r21ReadU8(src, &srcIdx)
		if err != nil {
			return 0, 0, 0, err
		}
		off := (b2<<8)&0xFF00 | b1
		length = opcode & 0x07
		if opcode&0x08 == 0 {
			b3, err := r21ReadU8(src, &srcIdx)
			if err != nil {
				return 0, 0, 0, err
			}
			length = (b3 & 0xF8) + length
		} else {
			off++
			b3, err := r21ReadU8(src, &srcIdx)
			if err != nil {
				return 0, 0, 0, err
			}
			length = (b3 << 3) + length
			b4, err := r21ReadU8(src, &srcIdx)
			if err != nil {
				return 0, 0, 0, err
			}
			length = ((b4&0xF8)<<8) + length + 0x100
		}
		return off, length, srcIdx, nil
	default:
		length = opcode >> 4
		off := opcode & 0x0F
		b1, err := r21ReadU8(src, &srcIdx)
		if err != nil {
			return 0, 0, 0, err
		}
		off = ((b1 & 0xF8) << 1) + off + 1
		return off, length, srcIdx, nil
	}
}

// r21CopyFromOutput copies length already-written bytes from offset bytes
// before dstIdx, byte-by-byte so overlapping runs repeat correctly. Any
// read or write outside the output buffer is a hard Decode error.
func r21CopyFromOutput(dst []byte, dstIdx, offset, length int) (int, error) {
	srcIdx := dstIdx - offset
	if srcIdx < 0 {
		return 0, NewError(KindDecode, "R2007 back-reference offset exceeds decompressed prefix")
	}
	end := dstIdx + length
	if end > len(dst) {
		return 0, NewError(KindDecode, "R2007 decompressed write exceeds output buffer")
	}
	for i := 0; i < length; i++ {
		srcPos := srcIdx + i
		if srcPos >= len(dst) {
			return 0, NewError(KindDecode, "R2007 decompressed read exceeds output buffer")
		}
		dst[dstIdx+i] = dst[srcPos]
	}
	return end, nil
}

// r21CopyLiteralChunk copies a literal run via the fixed dispatch table
// keyed on the remaining byte count (1..31, plus a 32-byte loop), each
// case a pattern of 1/2/3/4/8/16-byte moves. The byte-reversed sub-copies
// (r21Copy2/3) undo the fact the source was stored big-endian in 16-byte
// blocks, producing little-endian output.
func r21CopyLiteralChunk(src []byte, srcIdx, length int, dst []byte, dstIdx int) error {
	out := dstIdx
	for length >= 32 {
		if err := r21Copy16(src, srcIdx+16, dst, &out); err != nil {
			return err
		}
		if err := r21Copy16(src, srcIdx, dst, &out); err != nil {
			return err
		}
		srcIdx += 32
		length -= 32
	}

	switch length {
	case 0:
	case 1:
		return r21Copy1(src, srcIdx, dst, &out)
	case 2:
		return r21Copy2(src, srcIdx, dst, &out)
	case 3:
		return r21Copy3(src, srcIdx, dst, &out)
	case 4:
		return r21Copy4(src, srcIdx, dst, &out)
	case 5:
		if err := r21Copy1(src, srcIdx+4, dst, &out); err != nil {
			return err
		}
		return r21Copy4(src, srcIdx, dst, &out)
	case 6:
		if err := r21Copy1(src, srcIdx+5, dst, &out); err != nil {
			return err
		}
		if err := r21Copy4(src, srcIdx+1, dst, &out); err != nil {
			return err
		}
		return r21Copy1(src, srcIdx, dst, &out)
	case 7:
		if err := r21Copy2(src, srcIdx+5, dst, &out); err != nil {
			return err
		}
		if err := r21Copy4(src, srcIdx+1, dst, &out); err != nil {
			return err
		}
		return r21Copy1(src, srcIdx, dst, &out)
	case 8:
		if err := r21Copy4(src, srcIdx, dst, &out); err != nil {
			return err
		}
		return r21Copy4(src, srcIdx+4, dst, &out)
	case 9:
		if err := r21Copy1(src, srcIdx+8, dst, &out); err != nil {
			return err
		}
		return r21Copy8(src, srcIdx, dst, &out)
	case 10:
		if err := r21Copy1(src, srcIdx+9, dst, &out); err != nil {
			return err
		}
		if err := r21Copy8(src, srcIdx+1, dst, &out); err != nil {
			return err
		}
		return r21Copy1(src, srcIdx, dst, &out)
	case 11:
		if err := r21Copy2(src, srcIdx+9, dst, &out); err != nil {
			return err
		}
		if err := r21Copy8(src, srcIdx+1, dst, &out); err != nil {
			return err
		}
		return r21Copy1(src, srcIdx, dst, &out)
	case 12:
		if err := r21Copy4(src, srcIdx+8, dst, &out); err != nil {
			return err
		}
		return r21Copy8(src, srcIdx, dst, &out)
	case 13:
		if err := r21Copy1(src, srcIdx+12, dst, &out); err != nil {
			return err
		}
		if err := r21Copy4(src, srcIdx+8, dst, &out); err != nil {
			return err
		}
		return r21Copy8(src, srcIdx, dst, &out)
	case 14:
		if err := r21Copy1(src, srcIdx+13, dst, &out); err != nil {
			return err
		}
		if err := r21Copy4(src, srcIdx+9, dst, &out); err != nil {
			return err
		}
		if err := r21Copy8(src, srcIdx+1, dst, &out); err != nil {
			return err
		}
		return r21Copy1(src, srcIdx, dst, &out)
	case 15:
		if err := r21Copy2(src, srcIdx+13, dst, &out); err != nil {
			return err
		}
		if err := r21Copy4(src, srcIdx+9, dst, &out); err != nil {
			return err
		}
		if err := r21Copy8(src, srcIdx+1, dst, &out); err != nil {
			return err
		}
		return r21Copy1(src, srcIdx, dst, &out)
	case 16:
		return r21Copy16(src, srcIdx, dst, &out)
	case 17:
		if err := r21Copy8(src, srcIdx+9, dst, &out); err != nil {
			return err
		}
		if err := r21Copy1(src, srcIdx+8, dst, &out); err != nil {
			return err
		}
		return r21Copy8(src, srcIdx, dst, &out)
	case 18:
		if err := r21Copy1(src, srcIdx+17, dst, &out); err != nil {
			return err
		}
		if err := r21Copy16(src, srcIdx+1, dst, &out); err != nil {
			return err
		}
		return r21Copy1(src, srcIdx, dst, &out)
	case 19:
		if err := r21Copy3(src, srcIdx+16, dst, &out); err != nil {
			return err
		}
		return r21Copy16(src, srcIdx, dst, &out)
	case 20:
		if err := r21Copy4(src, srcIdx+16, dst, &out); err != nil {
			return err
		}
		return r21Copy16(src, srcIdx, dst, &out)
	case 21:
		if err := r21Copy1(src, srcIdx+20, dst, &out); err != nil {
			return err
		}
		if err := r21Copy4(src, srcIdx+16, dst, &out); err != nil {
			return err
		}
		return r21Copy16(src, srcIdx, dst, &out)
	case 22:
		if err := r21Copy2(src, srcIdx+20, dst, &out); err != nil {
			return err
		}
		if err := r21Copy4(src, srcIdx+16, dst, &out); err != nil {
			return err
		}
		return r21Copy16(src, srcIdx, dst, &out)
	case 23:
		if err := r21Copy3(src, srcIdx+20, dst, &out); err != nil {
			return err
		}
		if err := r21Copy4(src, srcIdx+16, dst, &out); err != nil {
			return err
		}
		return r21Copy16(src, srcIdx, dst, &out)
	case 24:
		if err := r21Copy8(src, srcIdx+16, dst, &out); err != nil {
			return err
		}
		return r21Copy16(src, srcIdx, dst, &out)
	case 25:
		if err := r21Copy8(src, srcIdx+17, dst, &out); err != nil {
			return err
		}
		if err := r21Copy1(src, srcIdx+16, dst, &out); err != nil {
			return err
		}
		return r21Copy16(src, srcIdx, dst, &out)
	case 26:
		if err := r21Copy1(src, srcIdx+25, dst, &out); err != nil {
			return err
		}
		if err := r21Copy8(src, srcIdx+17, dst, &out); err != nil {
			return err
		}
		if err := r21Copy1(src, srcIdx+16, dst, &out); err != nil {
			return err
		}
		return r21Copy16(src, srcIdx, dst, &out)
	case 27:
		if err := r21Copy2(src, srcIdx+25, dst, &out); err != nil {
			return err
		}
		if err := r21Copy8(src, srcIdx+17, dst, &out); err != nil {
			return err
		}
		if err := r21Copy1(src, srcIdx+16, dst, &out); err != nil {
			return err
		}
		return r21Copy16(src, srcIdx, dst, &out)
	case 28:
		if err := r21Copy4(src, srcIdx+24, dst, &out); err != nil {
			return err
		}
		if err := r21Copy8(src, srcIdx+16, dst, &out); err != nil {
			return err
		}
		return r21Copy16(src, srcIdx, dst, &out)
	case 29:
		if err := r21Copy1(src, srcIdx+28, dst, &out); err != nil {
			return err
		}
		if err := r21Copy4(src, srcIdx+24, dst, &out); err != nil {
			return err
		}
		if err := r21Copy8(src, srcIdx+16, dst, &out); err != nil {
			return err
		}
		return r21Copy16(src, srcIdx, dst, &out)
	case 30:
		if err := r21Copy2(src, srcIdx+28, dst, &out); err != nil {
			return err
		}
		if err := r21Copy4(src, srcIdx+24, dst, &out); err != nil {
			return err
		}
		if err := r21Copy8(src, srcIdx+16, dst, &out); err != nil {
			return err
		}
		return r21Copy16(src, srcIdx, dst, &out)
	case 31:
		if err := r21Copy1(src, srcIdx+30, dst, &out); err != nil {
			return err
		}
		if err := r21Copy4(src, srcIdx+26, dst, &out); err != nil {
			return err
		}
		if err := r21Copy8(src, srcIdx+18, dst, &out); err != nil {
			return err
		}
		if err := r21Copy16(src, srcIdx+2, dst, &out); err != nil {
			return err
		}
		return r21Copy2(src, srcIdx, dst, &out)
	default:
		return NewError(KindDecode, "R2007 invalid compressed chunk length")
	}
	return nil
}

func r21Copy1(src []byte, srcIdx int, dst []byte, dstIdx *int) error {
	if srcIdx >= len(src) || *dstIdx >= len(dst) {
		return NewError(KindDecode, "R2007 literal copy out of range")
	}
	dst[*dstIdx] = src[srcIdx]
	*dstIdx++
	return nil
}

// r21Copy2 emits two bytes in reversed order, undoing the big-endian
// 16-byte block layout the literal stream was stored in.
func r21Copy2(src []byte, srcIdx int, dst []byte, dstIdx *int) error {
	if err := r21Copy1(src, srcIdx+1, dst, dstIdx); err != nil {
		return err
	}
	return r21Copy1(src, srcIdx, dst, dstIdx)
}

func r21Copy3(src []byte, srcIdx int, dst []byte, dstIdx *int) error {
	if err := r21Copy1(src, srcIdx+2, dst, dstIdx); err != nil {
		return err
	}
	if err := r21Copy1(src, srcIdx+1, dst, dstIdx); err != nil {
		return err
	}
	return r21Copy1(src, srcIdx, dst, dstIdx)
}

func r21Copy4(src []byte, srcIdx int, dst []byte, dstIdx *int) error {
	return r21CopyDirect(src, srcIdx, 4, dst, dstIdx)
}

func r21Copy8(src []byte, srcIdx int, dst []byte, dstIdx *int) error {
	return r21CopyDirect(src, srcIdx, 8, dst, dstIdx)
}

func r21Copy16(src []byte, srcIdx int, dst []byte, dstIdx *int) error {
	if err := r21Copy8(src, srcIdx+8, dst, dstIdx); err != nil {
		return err
	}
	return r21Copy8(src, srcIdx, dst, dstIdx)
}

func r21CopyDirect(src []byte, srcIdx, length int, dst []byte, dstIdx *int) error {
	srcEnd := srcIdx + length
	dstEnd := *dstIdx + length
	if srcEnd > len(src) || dstEnd > len(dst) {
		return NewError(KindDecode, "R2007 direct copy out of range")
	}
	copy(dst[*dstIdx:dstEnd], src[srcIdx:srcEnd])
	*dstIdx = dstEnd
	return nil
}
