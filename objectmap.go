// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// parseObjectMap decodes the AcDb:Handles section: a concatenation of
// blocks, each a big-endian u16 block-size (including itself; a size of
// 2 terminates the stream), then signed-modular-char (handle,offset)
// deltas accumulating onto a running absolute total, then a big-endian
// u16 CRC (unverified in permissive mode).
func parseObjectMap(data []byte, opts *Options) ([]ObjectRef, error) {
	br := NewByteReader(data)
	var refs []ObjectRef
	var handle, offset int64

	for br.Remaining() >= 2 {
		blockStart := br.Pos()
		blockSize, err := br.U16BE()
		if err != nil {
			return nil, err
		}
		if blockSize == 2 {
			break
		}
		if blockSize < 4 {
			return nil, NewErrorAt(KindFormat, "object map block size too small", blockStart)
		}
		blockEnd := blockStart + uint64(blockSize)
		if blockEnd > uint64(len(data)) {
			return nil, NewErrorAt(KindFormat, "object map block exceeds section length", blockStart)
		}

		for br.Pos()+2 < blockEnd {
			dh, err := readModularCharSigned(br)
			if err != nil {
				return nil, err
			}
			do, err := readModularCharSigned(br)
			if err != nil {
				return nil, err
			}
			handle += dh
			offset += do
			if handle < 0 {
				return nil, asDwgError(ErrNegativeObjectMapDelta)
			}
			if offset < 0 {
				return nil, asDwgError(ErrNegativeObjectMapDelta)
			}
			if uint64(offset) > 0xFFFFFFFF {
				return nil, NewErrorAt(KindFormat, "object map offset exceeds 32 bits", br.Pos())
			}
			if uint64(len(refs)) >= uint64(opts.MaxObjects) {
				return nil, asDwgError(ErrTooManyObjects)
			}
			refs = append(refs, ObjectRef{Handle: uint64(handle), Offset: uint64(offset)})
		}

		// skip to block end (covers the CRC and any padding)
		br.SeekTo(blockEnd)
		if br.Remaining() >= 0 && blockEnd+2 <= uint64(len(data)) {
			// CRC already consumed if exactly at blockEnd; otherwise the
			// loop above stopped two bytes short and blockEnd accounts
			// for it.
		}
	}

	return refs, nil
}

// readModularCharSigned reads a byte-aligned signed modular char directly
// from a ByteReader (the object-map stream is not bit-packed elsewhere,
// but modular chars share the same 7-bits-plus-continuation encoding as
// BitReader.MC).
func readModularCharSigned(br *ByteReader) (int64, error) {
	var result int64
	shift := uint(0)
	for i := 0; i < 5; i++ {
		b, err := br.U8()
		if err != nil {
			return 0, err
		}
		if i == 4 {
			result |= int64(b&0x7F) << shift
			break
		}
		if b&0x80 == 0 {
			negative := b&0x40 != 0
			result |= int64(b&0x3F) << shift
			if negative {
				return -result, nil
			}
			return result, nil
		}
		result |= int64(b&0x7F) << shift
		shift += 7
	}
	return result, nil
}

// reachabilityFilter drops candidate offsets that fail to parse a minimal
// ObjectRecord header, per the non-strict "reachability filter" policy.
func reachabilityFilter(data []byte, refs []ObjectRef, opts *Options) []ObjectRef {
	if opts.Strict {
		return refs
	}
	surviving := make([]ObjectRef, 0, len(refs))
	for _, ref := range refs {
		if ref.Offset >= uint64(len(data)) {
			continue
		}
		if _, err := readObjectRecord(data, ref.Offset, opts); err != nil {
			continue
		}
		surviving = append(surviving, ref)
	}
	return surviving
}

// buildObjectIndex decodes, filters, and indexes the object map in one
// step, mirroring the ObjectMap component's public contract.
func buildObjectIndex(data []byte, opts *Options) (*ObjectIndex, error) {
	refs, err := parseObjectMap(data, opts)
	if err != nil {
		return nil, err
	}
	refs = reachabilityFilter(data, refs, opts)
	return newObjectIndex(refs), nil
}
