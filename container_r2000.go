// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

import "bytes"

// sectionLocatorSentinel is the 16-byte literal that must immediately
// follow the R2000 section-locator directory.
var sectionLocatorSentinel = [16]byte{
	0x95, 0xA0, 0x4E, 0x28, 0x99, 0x82, 0x1A, 0xE5,
	0x5E, 0x41, 0xE0, 0x5F, 0x9D, 0x3A, 0x4D, 0x00,
}

const maxSectionLocatorRecords = 64

const r2000DirectoryOffset = 0x15

// r2000SectionNames gives the canonical numeric-record-number names R2000
// uses, per the data model (§3).
var r2000SectionNames = map[uint8]string{
	0: "HeaderVariables",
	1: "Classes",
	2: "ObjectMap",
	3: "Unknown3",
	4: "Measurement",
}

// parseR2000Directory reads the section-locator directory starting at
// absolute offset 0x15 and returns the raw records.
func parseR2000Directory(data []byte, opts *Options) ([]SectionLocator, error) {
	br := NewByteReader(data)
	br.SeekTo(r2000DirectoryOffset)

	count, err := br.U32()
	if err != nil {
		return nil, err
	}
	if count > maxSectionLocatorRecords {
		return nil, asDwgError(ErrSectionLocatorOverflow)
	}

	locators := make([]SectionLocator, 0, count)
	for i := uint32(0); i < count; i++ {
		recNo, err := br.U8()
		if err != nil {
			return nil, err
		}
		offset, err := br.U32()
		if err != nil {
			return nil, err
		}
		size, err := br.U32()
		if err != nil {
			return nil, err
		}
		name := r2000SectionNames[recNo]
		if name == "" {
			name = "Unknown"
		}
		locators = append(locators, SectionLocator{Name: name, Offset: uint64(offset), Size: uint64(size)})
	}

	// u16 CRC - retained but not verified in permissive mode.
	if _, err := br.U16(); err != nil {
		return nil, err
	}

	sentinel, err := br.Bytes(16)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(sentinel, sectionLocatorSentinel[:]) {
		if opts.Strict {
			return nil, NewError(KindFormat, "R2000 section-locator sentinel mismatch")
		}
	}

	return locators, nil
}

// loadR2000Section returns the bounds-checked byte slice for one locator
// record, read directly out of the whole file.
func loadR2000Section(data []byte, loc SectionLocator, opts *Options) ([]byte, error) {
	if loc.Size > opts.MaxSectionBytes {
		return nil, asDwgError(ErrSectionTooLarge)
	}
	end := loc.Offset + loc.Size
	if end > uint64(len(data)) || end < loc.Offset {
		return nil, NewErrorAt(KindFormat, "section offset+size exceeds file length", loc.Offset)
	}
	return data[loc.Offset:end], nil
}
