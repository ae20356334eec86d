// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// SectionLocator is a raw directory entry as exposed by ListSectionLocators:
// a name (numeric for R2000, symbolic for R2004/R2007), a logical offset,
// and a size.
type SectionLocator struct {
	Name   string
	Offset uint64
	Size   uint64
}

// Section is a named logical blob produced by the container layer.
type Section struct {
	Name   string
	Offset uint64
	Size   uint64
	Data   []byte
}

// ObjectRef is a (handle, byte-offset) pair into the objects section.
type ObjectRef struct {
	Handle uint64
	Offset uint64
}

// ObjectIndex is the ordered sequence of ObjectRefs plus a Handle -> position
// map, built once per open and immutable thereafter.
type ObjectIndex struct {
	Refs       []ObjectRef
	byHandle   map[uint64]int
}

func newObjectIndex(refs []ObjectRef) *ObjectIndex {
	idx := &ObjectIndex{Refs: refs, byHandle: make(map[uint64]int, len(refs))}
	for i, ref := range refs {
		idx.byHandle[ref.Handle] = i
	}
	return idx
}

// PositionOf returns the index of handle within Refs, if present.
func (idx *ObjectIndex) PositionOf(handle uint64) (int, bool) {
	p, ok := idx.byHandle[handle]
	return p, ok
}

// ObjectRecord is one size-prefixed record extracted from the objects
// section.
type ObjectRecord struct {
	Offset        uint64
	Size          uint64
	BodyByteStart uint64
	BodyBitPos    BitPos
	Body          []byte
}

// ObjectHeaderRow is the flat (handle, offset, data-size, type-code) tuple
// exposed by ListObjectHeaders.
type ObjectHeaderRow struct {
	Handle      uint64
	Offset      uint64
	DataSize    uint64
	TypeCode    uint16
	HandleBits  uint64
	HasHandleSz bool
}

// ObjectHeaderTypedRow extends ObjectHeaderRow with the resolved type name
// and class ("O" built-in object, "E" built-in entity, "" dynamic/unknown).
type ObjectHeaderTypedRow struct {
	ObjectHeaderRow
	TypeName  string
	TypeClass string
}

// ObjectHeader is the per-record header prefix: type code plus, for
// R2010/R2013 only, a declared handle-stream size in bits.
type ObjectHeader struct {
	TypeCode       uint16
	HandleStreamSz uint64
	HasHandleSz    bool
}

// EntityColor is the decoded color portion of a CommonEntityHeader.
type EntityColor struct {
	Index     uint16
	HasIndex  bool
	TrueColor uint32
	HasTrue   bool
}

// CommonEntityHeader is the shared preamble of every graphical entity.
type CommonEntityHeader struct {
	Handle       uint64
	ObjSize      uint64 // end-of-data bit position, relative to record body start
	Color        EntityColor
	EntityMode   uint8
	ReactorCount uint32
	XdicMissing  bool
	LtypeFlags   uint8
	PlotStyle    uint8
	MaterialFlg  uint8
	ShadowFlags  uint8
	HasFullVS    bool
	HasFaceVS    bool
	HasEdgeVS    bool
	Invisibility uint16
	LineWeight   uint8
}

// CommonEntityHandles is the set of handles read from an entity's handle
// stream.
type CommonEntityHandles struct {
	Owner      uint64
	HasOwner   bool
	Reactors   []uint64
	Xdic       uint64
	HasXdic    bool
	Layer      uint64
	Linetype   uint64
	PlotStyleH uint64
	Material   uint64
}

// EntityStyle is the flat row exposed by DecodeEntityStyles.
type EntityStyle struct {
	Handle      uint64
	ColorIndex  *uint16
	TrueColor   *uint32
	LayerHandle uint64
}

// LayerColor is the flat row exposed by DecodeLayerColors.
type LayerColor struct {
	Handle     uint64
	ColorIndex uint16
	TrueColor  *uint32
}

// ObjectRecordRow is the flat row exposed by ObjectRecordsByType: the
// object header fields plus the record's raw body bounds.
type ObjectRecordRow struct {
	ObjectHeaderTypedRow
	BodyOffset uint64
	BodySize   uint64
}

// SectionDiagnostic is one logical section's diagnostic fingerprint.
type SectionDiagnostic struct {
	Name            string
	Size            uint64
	XXHash64        uint64
	CompressedRatio float64
}

// Diagnostics is the per-section checksum and compression-ratio summary
// exposed by (*File).Diagnostics, an ambient addition grounded on the
// teacher's debug-info surface.
type Diagnostics struct {
	Dialect  string
	Sections []SectionDiagnostic
}
