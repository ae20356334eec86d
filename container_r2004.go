// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

import "encoding/binary"

const (
	r2004HeaderOffset = 0x80
	r2004HeaderSize   = 0x6c

	r2004SectionPageMapMagic = 0x41630E3B
	r2004SectionMapMagic     = 0x4163003B
	r2004DataSectionMagic    = 0x4163043B
)

type r2004HeaderData struct {
	sectionPageMapID      uint32
	sectionPageMapAddress uint64
	sectionMapID          uint32
	sectionPageArraySize  uint32
	gapArraySize          uint32
}

type r2004PageMapEntry struct {
	id      int32
	size    uint32
	address uint64
}

type r2004SectionPageInfo struct {
	pageID     uint32
	dataSize   uint32
	startOff   uint64
}

type r2004SectionEntry struct {
	size           uint64
	pageCount      uint32
	maxDecompSize  uint32
	unknown        uint32
	compressed     uint32
	sectionID      uint32
	encrypted      uint32
	name           string
	pages          []r2004SectionPageInfo
}

// r2004MagicSequence generates the 0x6c-byte pseudo-random XOR mask that
// de-obfuscates the R2004 file header, via the LCG
// seed <- seed*0x343fd + 0x269ec3 starting at seed=1, each byte the high
// byte (bits 16..23) of the running seed.
func r2004MagicSequence() [r2004HeaderSize]byte {
	var seq [r2004HeaderSize]byte
	seed := uint32(1)
	for i := range seq {
		seed = seed*0x343fd + 0x269ec3
		seq[i] = byte(seed >> 16)
	}
	return seq
}

func r2004ReadHeaderData(data []byte) (*r2004HeaderData, error) {
	if len(data) < r2004HeaderOffset+r2004HeaderSize {
		return nil, NewError(KindFormat, "file too small for R2004 header data")
	}
	encrypted := data[r2004HeaderOffset : r2004HeaderOffset+r2004HeaderSize]
	magic := r2004MagicSequence()
	decrypted := make([]byte, r2004HeaderSize)
	for i := range decrypted {
		decrypted[i] = encrypted[i] ^ magic[i]
	}

	br := NewByteReader(decrypted)
	br.SeekTo(0x50)
	pageMapID, err := br.U32()
	if err != nil {
		return nil, err
	}
	pageMapAddr, err := br.U64()
	if err != nil {
		return nil, err
	}
	sectionMapID, err := br.U32()
	if err != nil {
		return nil, err
	}
	pageArraySize, err := br.U32()
	if err != nil {
		return nil, err
	}
	gapArraySize, err := br.U32()
	if err != nil {
		return nil, err
	}

	return &r2004HeaderData{
		sectionPageMapID:      pageMapID,
		sectionPageMapAddress: pageMapAddr,
		sectionMapID:          sectionMapID,
		sectionPageArraySize:  pageArraySize,
		gapArraySize:          gapArraySize,
	}, nil
}

func r2004ReadSystemSection(data []byte, address uint64, expectedSignature uint32) ([]byte, error) {
	offset := address
	if offset+0x14 > uint64(len(data)) {
		return nil, NewError(KindFormat, "system section header out of range")
	}
	br := NewByteReader(data)
	br.SeekTo(offset)
	signature, err := br.U32()
	if err != nil {
		return nil, err
	}
	decompressedSize, err := br.U32()
	if err != nil {
		return nil, err
	}
	compressedSize, err := br.U32()
	if err != nil {
		return nil, err
	}
	compressedType, err := br.U32()
	if err != nil {
		return nil, err
	}
	if _, err := br.U32(); err != nil { // checksum, unverified
		return nil, err
	}
	if signature != expectedSignature {
		return nil, NewError(KindFormat, "unexpected system section signature")
	}
	dataOffset := offset + 0x14
	dataEnd := dataOffset + uint64(compressedSize)
	if dataEnd > uint64(len(data)) || dataEnd < dataOffset {
		return nil, NewError(KindFormat, "system section data out of range")
	}
	payload := data[dataOffset:dataEnd]
	if compressedSize == 0 {
		return nil, nil
	}
	switch compressedType {
	case 0x02:
		return decompressR18(payload, int(decompressedSize))
	default:
		return nil, NotImplemented("R2004 system section compression type")
	}
}

func r2004ReadPageMap(data []byte, header *r2004HeaderData) ([]r2004PageMapEntry, error) {
	pageMapAddr := header.sectionPageMapAddress + 0x100
	sectionData, err := r2004ReadSystemSection(data, pageMapAddr, r2004SectionPageMapMagic)
	if err != nil {
		return nil, err
	}
	br := NewByteReader(sectionData)
	pageAddress := uint64(0x100)
	var entries []r2004PageMapEntry
	for br.Remaining() >= 8 {
		id, err := br.I32()
		if err != nil {
			return nil, err
		}
		size, err := br.U32()
		if err != nil {
			return nil, err
		}
		entry := r2004PageMapEntry{id: id, size: size, address: pageAddress}
		pageAddress += uint64(size)
		if id < 0 {
			if br.Remaining() < 16 {
				return nil, NewError(KindFormat, "page map gap entry truncated")
			}
			if _, err := br.Bytes(16); err != nil {
				return nil, err
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func r2004ReadSectionMap(data []byte, header *r2004HeaderData, pageMap []r2004PageMapEntry) ([]r2004SectionEntry, error) {
	var sectionMapPage *r2004PageMapEntry
	for i := range pageMap {
		if pageMap[i].id == int32(header.sectionMapID) {
			sectionMapPage = &pageMap[i]
			break
		}
	}
	if sectionMapPage == nil {
		return nil, NewError(KindFormat, "section map page not found in page map")
	}
	sectionData, err := r2004ReadSystemSection(data, sectionMapPage.address, r2004SectionMapMagic)
	if err != nil {
		return nil, err
	}
	br := NewByteReader(sectionData)
	if br.Remaining() < 20 {
		return nil, NewError(KindFormat, "section map header truncated")
	}
	count, err := br.U32()
	if err != nil {
		return nil, err
	}
	if _, err := br.U32(); err != nil { // x02
		return nil, err
	}
	if _, err := br.U32(); err != nil { // x00007400
		return nil, err
	}
	if _, err := br.U32(); err != nil { // x00
		return nil, err
	}
	if _, err := br.U32(); err != nil { // unknown
		return nil, err
	}

	sections := make([]r2004SectionEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		if br.Remaining() < 88 {
			return nil, NewError(KindFormat, "section entry truncated")
		}
		size, err := br.U64()
		if err != nil {
			return nil, err
		}
		pageCount, err := br.U32()
		if err != nil {
			return nil, err
		}
		maxDecompSize, err := br.U32()
		if err != nil {
			return nil, err
		}
		unknown, err := br.U32()
		if err != nil {
			return nil, err
		}
		compressed, err := br.U32()
		if err != nil {
			return nil, err
		}
		sectionID, err := br.U32()
		if err != nil {
			return nil, err
		}
		encrypted, err := br.U32()
		if err != nil {
			return nil, err
		}
		name, err := br.FixedASCII(64)
		if err != nil {
			return nil, err
		}

		pages := make([]r2004SectionPageInfo, 0, pageCount)
		for p := uint32(0); p < pageCount; p++ {
			if br.Remaining() < 16 {
				return nil, NewError(KindFormat, "section page info truncated")
			}
			pageID, err := br.U32()
			if err != nil {
				return nil, err
			}
			dataSize, err := br.U32()
			if err != nil {
				return nil, err
			}
			startOff, err := br.U64()
			if err != nil {
				return nil, err
			}
			pages = append(pages, r2004SectionPageInfo{pageID: pageID, dataSize: dataSize, startOff: startOff})
		}

		sections = append(sections, r2004SectionEntry{
			size: size, pageCount: pageCount, maxDecompSize: maxDecompSize,
			unknown: unknown, compressed: compressed, sectionID: sectionID,
			encrypted: encrypted, name: name, pages: pages,
		})
	}
	return sections, nil
}

func r2004DecryptDataSectionHeader(raw []byte, offset uint64) ([32]byte, error) {
	var out [32]byte
	if len(raw) < 32 {
		return out, NewError(KindFormat, "data section header truncated")
	}
	copy(out[:], raw[:32])
	mask := uint32(0x4164536B) ^ uint32(offset)
	for i := 0; i < 32; i += 4 {
		v := binary.LittleEndian.Uint32(out[i:]) ^ mask
		binary.LittleEndian.PutUint32(out[i:], v)
	}
	return out, nil
}

type r2004DataSectionHeader struct {
	signature        uint32
	dataType         uint32
	compressedSize   uint32
	decompressedSize uint32
	startOffset      uint32
}

func r2004ParseDataSectionHeader(buf [32]byte) (*r2004DataSectionHeader, error) {
	br := NewByteReader(buf[:])
	sig, err := br.U32()
	if err != nil {
		return nil, err
	}
	dataType, err := br.U32()
	if err != nil {
		return nil, err
	}
	compSize, err := br.U32()
	if err != nil {
		return nil, err
	}
	decompSize, err := br.U32()
	if err != nil {
		return nil, err
	}
	startOff, err := br.U32()
	if err != nil {
		return nil, err
	}
	return &r2004DataSectionHeader{signature: sig, dataType: dataType, compressedSize: compSize, decompressedSize: decompSize, startOffset: startOff}, nil
}

// r2004LoadSectionData reconstitutes one logical section's bytes from its
// pages, mirroring load_section_data in the reference decoder.
func r2004LoadSectionData(data []byte, section r2004SectionEntry, pageByID map[uint32]r2004PageMapEntry, opts *Options) ([]byte, error) {
	if section.encrypted == 1 {
		return nil, NotImplemented("encrypted R2004 sections")
	}
	pageSize := uint64(section.maxDecompSize)
	totalSize := pageSize * uint64(section.pageCount)
	if totalSize > opts.MaxSectionBytes {
		return nil, asDwgError(ErrSectionTooLarge)
	}
	if totalSize == 0 {
		return nil, nil
	}
	output := make([]byte, totalSize)

	for pageIdx, page := range section.pages {
		entry, ok := pageByID[page.pageID]
		if !ok {
			return nil, NewError(KindFormat, "section page not found in page map")
		}
		pageOffset := entry.address
		if pageOffset+32 > uint64(len(data)) {
			return nil, NewError(KindFormat, "data section header out of range")
		}
		var raw [32]byte
		copy(raw[:], data[pageOffset:pageOffset+32])
		headerBytes, err := r2004DecryptDataSectionHeader(raw[:], entry.address)
		if err != nil {
			return nil, err
		}
		header, err := r2004ParseDataSectionHeader(headerBytes)
		if err != nil {
			return nil, err
		}
		if header.signature != r2004DataSectionMagic {
			return nil, NewError(KindFormat, "invalid data section signature")
		}
		dataOffset := pageOffset + 32
		dataEnd := dataOffset + uint64(header.compressedSize)
		if dataEnd > uint64(len(data)) {
			return nil, NewError(KindFormat, "data section data out of range")
		}
		payload := data[dataOffset:dataEnd]
		var decompressed []byte
		if section.compressed == 2 {
			decompressed, err = decompressR18(payload, int(section.maxDecompSize))
			if err != nil {
				return nil, err
			}
		} else {
			decompressed = payload
		}

		start := uint64(pageIdx) * pageSize
		if start >= uint64(len(output)) {
			continue
		}
		end := start + uint64(len(decompressed))
		if end > uint64(len(output)) {
			end = uint64(len(output))
		}
		copy(output[start:end], decompressed[:end-start])
	}

	if section.size < uint64(len(output)) {
		output = output[:section.size]
	}
	return output, nil
}

// r2004RecordNoForName maps well-known section names to the numeric record
// numbers the data model uses elsewhere.
func r2004RecordNoForName(name string) uint8 {
	switch name {
	case "AcDb:Header":
		return 0
	case "AcDb:Classes":
		return 1
	case "AcDb:Handles":
		return 2
	case "AcDb:Template":
		return 4
	default:
		return 255
	}
}

// r2004Open parses an R2004 container fully, returning its section locator
// directory and every section's reconstituted bytes.
func r2004Open(data []byte, opts *Options) ([]SectionLocator, map[string][]byte, error) {
	header, err := r2004ReadHeaderData(data)
	if err != nil {
		return nil, nil, err
	}
	pageMap, err := r2004ReadPageMap(data, header)
	if err != nil {
		return nil, nil, err
	}
	sectionMap, err := r2004ReadSectionMap(data, header, pageMap)
	if err != nil {
		return nil, nil, err
	}

	pageByID := make(map[uint32]r2004PageMapEntry, len(pageMap))
	for _, e := range pageMap {
		if e.id > 0 {
			pageByID[uint32(e.id)] = e
		}
	}

	locators := make([]SectionLocator, 0, len(sectionMap))
	sections := make(map[string][]byte, len(sectionMap))
	for _, section := range sectionMap {
		bytesOut, err := r2004LoadSectionData(data, section, pageByID, opts)
		if err != nil {
			return nil, nil, err
		}
		var offset uint64
		if len(section.pages) > 0 {
			if e, ok := pageByID[section.pages[0].pageID]; ok {
				offset = e.address
			}
		}
		locators = append(locators, SectionLocator{Name: section.name, Offset: offset, Size: section.size})
		sections[section.name] = bytesOut
	}

	return locators, sections, nil
}
