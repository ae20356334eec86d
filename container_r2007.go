// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

const (
	r2007StreamBaseOffset   = 0x480
	r2007SecondHeaderOffset = 0x80
	r2007SecondHeaderRSSize = 0x3D8
	r2007SecondHeaderOff20  = 0x20
	r2007SecondHeaderBody   = 0x110

	r2007SystemPageRSData  = 239
	r2007SystemPageRSCode  = 255
	r2007SystemPageCRCBlk  = 8
	r2007SystemPageAlign   = 0x20
	r2007DataPageRSData    = 251

	r2007SectionEntrySize  = 8 * 8
	r2007SectionPageSize   = 7 * 8
)

type r2007HeaderData struct {
	pagesMapOffset          uint64
	pagesMapSizeCompressed  uint64
	pagesMapSizeUncompressed uint64
	pagesMapCorrection      uint64
	sectionsMapID           uint64
	sectionsMapSizeCompressed   uint64
	sectionsMapSizeUncompressed uint64
	sectionsMapCorrection   uint64
	sectionsAmount          uint64
}

type r2007PageMapEntry struct {
	id      int64
	size    uint64
	address uint64
}

type r2007SectionPageInfo struct {
	offset           uint64
	id               uint64
	sizeUncompressed uint64
	sizeCompressed   uint64
}

type r2007SectionEntry struct {
	size    uint64
	encoded uint64
	name    string
	pages   []r2007SectionPageInfo
}

// r2007AlignUp rounds value up to the next multiple of align.
func r2007AlignUp(value, align uint64) uint64 {
	return (value + align - 1) / align * align
}

// r2007DivCeil is the integer ceil(value/divisor), zero for a zero value.
func r2007DivCeil(value, divisor uint64) uint64 {
	if value == 0 {
		return 0
	}
	return (value + divisor - 1) / divisor
}

// r2007DecodeReedSolomon reshuffles an RS-coded buffer into its k*blockCount
// data bytes. Method 4 de-interleaves column-wise; method 1 is a flat copy.
// Per spec.md §4.5 this decoder trusts the storage layer and never verifies
// RS syndromes.
func r2007DecodeReedSolomon(src []byte, k int, blockCount int, method int) ([]byte, error) {
	outSize := k * blockCount
	if outSize == 0 {
		return nil, nil
	}
	if len(src) < outSize {
		return nil, NewError(KindDecode, "R2007 RS input smaller than required output layout")
	}
	switch method {
	case 4:
		out := make([]byte, outSize)
		dst := 0
		for bc := 0; bc < blockCount; bc++ {
			for idx := 0; idx < k; idx++ {
				out[dst] = src[blockCount*idx+bc]
				dst++
			}
		}
		return out, nil
	case 1:
		out := make([]byte, outSize)
		copy(out, src[:outSize])
		return out, nil
	default:
		return nil, NotImplemented("R2007 Reed-Solomon method")
	}
}

// r2007ReadHeaderData decodes the second header at offset 0x80 and extracts
// the page-map/section-map locations from its 34-field u64 payload.
func r2007ReadHeaderData(data []byte) (*r2007HeaderData, error) {
	if len(data) < r2007SecondHeaderOffset+r2007SecondHeaderRSSize {
		return nil, NewError(KindFormat, "file too small for R2007 second header")
	}
	encoded := data[r2007SecondHeaderOffset : r2007SecondHeaderOffset+r2007SecondHeaderRSSize]
	decoded, err := r2007DecodeReedSolomon(encoded, r2007SystemPageRSData, 3, 4)
	if err != nil {
		return nil, err
	}
	if len(decoded) < r2007SecondHeaderOff20 {
		return nil, NewError(KindFormat, "R2007 second header decode is truncated")
	}

	head := NewByteReader(decoded)
	if _, err := head.U64(); err != nil { // crc
		return nil, err
	}
	if _, err := head.U64(); err != nil { // key
		return nil, err
	}
	if _, err := head.U64(); err != nil { // compressed_data_crc
		return nil, err
	}
	compressedSize, err := head.I32()
	if err != nil {
		return nil, err
	}
	if _, err := head.I32(); err != nil { // length2
		return nil, err
	}

	var body []byte
	switch {
	case compressedSize < 0:
		size := uint64(-compressedSize)
		end := uint64(r2007SecondHeaderOff20) + size
		if end > uint64(len(decoded)) {
			return nil, NewError(KindFormat, "R2007 second header body out of range")
		}
		body = decoded[r2007SecondHeaderOff20:end]
	case compressedSize > 0:
		size := uint64(compressedSize)
		end := uint64(r2007SecondHeaderOff20) + size
		if end > uint64(len(decoded)) {
			return nil, NewError(KindFormat, "R2007 compressed second header body out of range")
		}
		body, err = decompressR21(decoded[r2007SecondHeaderOff20:end], r2007SecondHeaderBody)
		if err != nil {
			return nil, err
		}
	default:
		return nil, NewError(KindFormat, "invalid R2007 second header compressed size: 0")
	}
	if len(body) < r2007SecondHeaderBody {
		return nil, NewError(KindFormat, "R2007 second header body is truncated")
	}

	bodyReader := NewByteReader(body[:r2007SecondHeaderBody])
	fields := make([]uint64, 34)
	for i := range fields {
		fields[i], err = bodyReader.U64()
		if err != nil {
			return nil, err
		}
	}

	return &r2007HeaderData{
		pagesMapOffset:              fields[7],
		pagesMapSizeCompressed:      fields[10],
		pagesMapSizeUncompressed:    fields[11],
		pagesMapCorrection:          fields[3],
		sectionsMapID:               fields[24],
		sectionsMapSizeCompressed:   fields[22],
		sectionsMapSizeUncompressed: fields[25],
		sectionsMapCorrection:       fields[27],
		sectionsAmount:              fields[20],
	}, nil
}

// r2007ReadSystemPage loads and decodes one RS-protected system page
// (the page map or the section map) per spec.md §4.5's "System page read"
// algorithm.
func r2007ReadSystemPage(data []byte, address, sizeCompressed, sizeUncompressed, correctionFactor uint64) ([]byte, error) {
	compressedPadded := r2007AlignUp(sizeCompressed, r2007SystemPageCRCBlk)
	rsPreEncoded := compressedPadded * correctionFactor
	blockCount := r2007DivCeil(rsPreEncoded, r2007SystemPageRSData)
	pageSize := r2007AlignUp(blockCount*r2007SystemPageRSCode, r2007SystemPageAlign)

	if address+pageSize > uint64(len(data)) {
		return nil, NewError(KindFormat, "R2007 system page out of file range")
	}
	decoded, err := r2007DecodeReedSolomon(data[address:address+pageSize], r2007SystemPageRSData, int(blockCount), 4)
	if err != nil {
		return nil, err
	}

	if sizeCompressed < sizeUncompressed {
		if sizeCompressed > uint64(len(decoded)) {
			return nil, NewError(KindFormat, "R2007 compressed system page data out of range")
		}
		return decompressR21(decoded[:sizeCompressed], int(sizeUncompressed))
	}
	if sizeUncompressed > uint64(len(decoded)) {
		return nil, NewError(KindFormat, "R2007 system page data out of range")
	}
	return decoded[:sizeUncompressed], nil
}

// r2007ReadPageMap reads the (size, id) run-length page directory starting
// at the stream base 0x480, terminated by a (0, 0) entry.
func r2007ReadPageMap(data []byte, header *r2007HeaderData) ([]r2007PageMapEntry, error) {
	address := r2007StreamBaseOffset + header.pagesMapOffset
	pageData, err := r2007ReadSystemPage(data, address, header.pagesMapSizeCompressed, header.pagesMapSizeUncompressed, header.pagesMapCorrection)
	if err != nil {
		return nil, err
	}

	br := NewByteReader(pageData)
	var entries []r2007PageMapEntry
	current := uint64(r2007StreamBaseOffset)
	for br.Remaining() >= 16 {
		size, err := br.I64()
		if err != nil {
			return nil, err
		}
		id, err := br.I64()
		if err != nil {
			return nil, err
		}
		if size == 0 && id == 0 {
			break
		}
		if size <= 0 {
			return nil, NewError(KindFormat, "R2007 page map entry has invalid size")
		}
		entries = append(entries, r2007PageMapEntry{id: id, size: uint64(size), address: current})
		current += uint64(size)
	}
	if len(entries) == 0 {
		return nil, NewError(KindFormat, "R2007 page map has no entries")
	}
	return entries, nil
}

// r2007ReadSectionMap reads the logical section directory: size/flags,
// UTF-16LE name, and per-page (offset, id, uncompressed/compressed sizes).
func r2007ReadSectionMap(data []byte, header *r2007HeaderData, pageMap []r2007PageMapEntry) ([]r2007SectionEntry, error) {
	var sectionMapPage *r2007PageMapEntry
	for i := range pageMap {
		if pageMap[i].id == int64(header.sectionsMapID) {
			sectionMapPage = &pageMap[i]
			break
		}
	}
	if sectionMapPage == nil {
		return nil, NewError(KindFormat, "R2007 section map page not found")
	}

	pageData, err := r2007ReadSystemPage(data, sectionMapPage.address, header.sectionsMapSizeCompressed, header.sectionsMapSizeUncompressed, header.sectionsMapCorrection)
	if err != nil {
		return nil, err
	}

	br := NewByteReader(pageData)
	maxSections := ^uint64(0)
	if header.sectionsAmount > 0 {
		maxSections = header.sectionsAmount - 1
	}

	var sections []r2007SectionEntry
	for uint64(len(sections)) < maxSections && br.Remaining() >= r2007SectionEntrySize {
		size, err := br.U64()
		if err != nil {
			return nil, err
		}
		if _, err := br.U64(); err != nil { // max_size
			return nil, err
		}
		encrypted, err := br.U64()
		if err != nil {
			return nil, err
		}
		if _, err := br.U64(); err != nil { // hash_code
			return nil, err
		}
		nameLength, err := br.U64()
		if err != nil {
			return nil, err
		}
		if _, err := br.U64(); err != nil { // unknown
			return nil, err
		}
		encoded, err := br.U64()
		if err != nil {
			return nil, err
		}
		pageCount, err := br.U64()
		if err != nil {
			return nil, err
		}
		if size == 0 && pageCount == 0 && nameLength == 0 {
			break
		}
		if encrypted == 1 {
			return nil, NotImplemented("encrypted R2007 sections")
		}
		if br.Remaining() < nameLength {
			return nil, NewError(KindFormat, "R2007 section name exceeds section map bounds")
		}
		nameBytes, err := br.Bytes(nameLength)
		if err != nil {
			return nil, err
		}
		name, err := DecodeUTF16String(nameBytes)
		if err != nil {
			return nil, err
		}

		pages := make([]r2007SectionPageInfo, 0, pageCount)
		for p := uint64(0); p < pageCount; p++ {
			if br.Remaining() < r2007SectionPageSize {
				return nil, NewError(KindFormat, "R2007 section page info is truncated")
			}
			offset, err := br.U64()
			if err != nil {
				return nil, err
			}
			if _, err := br.U64(); err != nil { // size
				return nil, err
			}
			id, err := br.U64()
			if err != nil {
				return nil, err
			}
			sizeUncompressed, err := br.U64()
			if err != nil {
				return nil, err
			}
			sizeCompressed, err := br.U64()
			if err != nil {
				return nil, err
			}
			if _, err := br.U64(); err != nil { // checksum
				return nil, err
			}
			if _, err := br.U64(); err != nil { // crc
				return nil, err
			}
			pages = append(pages, r2007SectionPageInfo{
				offset: offset, id: id, sizeUncompressed: sizeUncompressed, sizeCompressed: sizeCompressed,
			})
		}

		sections = append(sections, r2007SectionEntry{size: size, encoded: encoded, name: name, pages: pages})
	}
	if len(sections) == 0 {
		return nil, NewError(KindFormat, "R2007 section map has no entries")
	}
	return sections, nil
}

// r2007ReadDataPage loads and decodes one logical section's data page, per
// spec.md §4.5's "Data pages" rule: storage size is
// max(page.size, ceil(compressed/251)*251), RS(251, ...)-decoded when
// encoded is 1 or 4, then R21-decompressed if compressed < uncompressed.
func r2007ReadDataPage(data []byte, pageEntry r2007PageMapEntry, encoded, sizeCompressed, sizeUncompressed uint64) ([]byte, error) {
	blockCount := r2007DivCeil(sizeCompressed, r2007DataPageRSData)
	minPageSize := r2007DataPageRSData * blockCount
	readSize := pageEntry.size
	if minPageSize > readSize {
		readSize = minPageSize
	}

	if pageEntry.address+readSize > uint64(len(data)) {
		return nil, NewError(KindFormat, "R2007 data page out of file range")
	}
	pageBuf := data[pageEntry.address : pageEntry.address+readSize]

	var decoded []byte
	var err error
	switch encoded {
	case 0:
		decoded = pageBuf
	case 1, 4:
		decoded, err = r2007DecodeReedSolomon(pageBuf, r2007DataPageRSData, int(blockCount), int(encoded))
		if err != nil {
			return nil, err
		}
	default:
		return nil, NotImplemented("R2007 data page encoding method")
	}

	if sizeCompressed < sizeUncompressed {
		if sizeCompressed > uint64(len(decoded)) {
			return nil, NewError(KindFormat, "R2007 compressed data page exceeds decoded buffer")
		}
		return decompressR21(decoded[:sizeCompressed], int(sizeUncompressed))
	}
	if sizeUncompressed > uint64(len(decoded)) {
		return nil, NewError(KindFormat, "R2007 data page exceeds decoded buffer")
	}
	return decoded[:sizeUncompressed], nil
}

// r2007LoadSectionData reconstitutes one logical section's bytes from its
// pages, mirroring r2004LoadSectionData's page-stitching shape.
func r2007LoadSectionData(data []byte, section r2007SectionEntry, pageByID map[int64]r2007PageMapEntry, opts *Options) ([]byte, error) {
	if section.size > opts.MaxSectionBytes {
		return nil, asDwgError(ErrSectionTooLarge)
	}
	output := make([]byte, section.size)
	if section.size == 0 {
		return output, nil
	}

	for _, page := range section.pages {
		entry, ok := pageByID[int64(page.id)]
		if !ok {
			return nil, NewError(KindFormat, "R2007 section page not found in page map")
		}
		pageData, err := r2007ReadDataPage(data, entry, section.encoded, page.sizeCompressed, page.sizeUncompressed)
		if err != nil {
			return nil, err
		}
		start := page.offset
		if start >= uint64(len(output)) {
			continue
		}
		end := start + uint64(len(pageData))
		if end > uint64(len(output)) {
			end = uint64(len(output))
		}
		copy(output[start:end], pageData[:end-start])
	}
	return output, nil
}

// r2007Open parses an R2007 container fully: second header, page map,
// section map, and every section's reconstituted bytes, the same entry
// point shape as r2004Open.
func r2007Open(data []byte, opts *Options) ([]SectionLocator, map[string][]byte, error) {
	header, err := r2007ReadHeaderData(data)
	if err != nil {
		return nil, nil, err
	}
	pageMap, err := r2007ReadPageMap(data, header)
	if err != nil {
		return nil, nil, err
	}
	sectionMap, err := r2007ReadSectionMap(data, header, pageMap)
	if err != nil {
		return nil, nil, err
	}

	pageByID := make(map[int64]r2007PageMapEntry, len(pageMap))
	for _, e := range pageMap {
		pageByID[e.id] = e
	}

	locators := make([]SectionLocator, 0, len(sectionMap))
	sections := make(map[string][]byte, len(sectionMap))
	for _, section := range sectionMap {
		bytesOut, err := r2007LoadSectionData(data, section, pageByID, opts)
		if err != nil {
			return nil, nil, err
		}
		var offset uint64
		if len(section.pages) > 0 {
			if e, ok := pageByID[int64(section.pages[0].id)]; ok {
				offset = e.address
			}
		}
		locators = append(locators, SectionLocator{Name: section.name, Offset: offset, Size: section.size})
		sections[section.name] = bytesOut
	}

	return locators, sections, nil
}
