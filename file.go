// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

import (
	"os"

	"github.com/cespare/xxhash/v2"
	mmap "github.com/edsrzf/mmap-go"
	"github.com/go-kratos/kratos/v2/log"
)

// File represents an open DWG file: the decoded container directory plus
// everything needed to decode object records and entities on demand.
// Entities are never eagerly decoded in full during Parse; Decode<Kind>
// methods walk the ObjectMap themselves, the same lazy-per-kind shape the
// reference implementation's `decode_line_entities`-style functions use.
type File struct {
	Dialect   Dialect
	Version   string
	Locators  []SectionLocator
	anomalies []string

	data     []byte
	sections map[string][]byte
	registry *ClassRegistry
	index    *ObjectIndex

	mmapped mmap.MMap
	f       *os.File
	opts    *Options
	logger  *log.Helper
}

// Open instantiates a File from a path, memory-mapping the file the way
// the teacher's pe.New does. DWG decoding needs random access across the
// whole byte range, so nothing is ever read lazily off disk afterward;
// the mmap is kept purely for the large-file win of avoiding a full copy.
func Open(name string, opts *Options) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	file := newFile(data, opts)
	file.f = f
	file.mmapped = data
	if err := file.Parse(); err != nil {
		file.Close()
		return nil, err
	}
	return file, nil
}

// OpenBytes instantiates a File from an in-memory buffer.
func OpenBytes(data []byte, opts *Options) (*File, error) {
	file := newFile(data, opts)
	if err := file.Parse(); err != nil {
		return nil, err
	}
	return file, nil
}

func newFile(data []byte, opts *Options) *File {
	file := &File{opts: normalizeOptions(opts), data: data}

	var logger log.Logger
	if file.opts.Logger == nil {
		logger = log.NewStdLogger(os.Stderr)
		file.logger = log.NewHelper(log.NewFilter(logger, log.FilterLevel(log.LevelError)))
	} else {
		file.logger = log.NewHelper(file.opts.Logger)
	}
	return file
}

// Close releases the memory mapping, if any.
func (d *File) Close() error {
	if d.mmapped != nil {
		_ = d.mmapped.Unmap()
	}
	if d.f != nil {
		return d.f.Close()
	}
	return nil
}

// Parse demultiplexes the container, decodes the Classes and ObjectMap
// sections, and leaves the file ready for Decode<Kind>Entities calls.
// Non-fatal surprises (an unrecognized version tag outside Strict mode,
// an R2000 section that fails to load, a Classes section that fails to
// parse, and in best-effort dialects an ObjectMap that fails to parse)
// are recorded in Anomalies rather than failing the whole parse,
// matching the teacher's pe.Parse tolerance for per-directory failure.
func (d *File) Parse() error {
	d.Version = DetectVersion(d.data)
	d.Dialect = DialectOf(d.Version)
	if d.Dialect == DialectUnknown {
		if d.opts.Strict {
			return asDwgError(ErrUnknownVersion)
		}
		d.addAnomaly(AnoUnrecognizedVersion + ": " + d.Version)
		return nil
	}

	var err error
	switch d.Dialect {
	case DialectR2000:
		d.Locators, err = parseR2000Directory(d.data, d.opts)
		if err != nil {
			return err
		}
		d.sections = make(map[string][]byte, len(d.Locators))
		for _, loc := range d.Locators {
			body, lerr := loadR2000Section(d.data, loc, d.opts)
			if lerr != nil {
				d.addAnomaly(AnoSectionLoadFailed + ": " + loc.Name + ": " + lerr.Error())
				continue
			}
			d.sections[loc.Name] = body
		}
	case DialectR2004:
		d.Locators, d.sections, err = r2004Open(d.data, d.opts)
		if err != nil {
			return err
		}
	case DialectR2007:
		d.Locators, d.sections, err = r2007Open(d.data, d.opts)
		if err != nil {
			return err
		}
	default:
		// R2010/R2013 reuse the R2004 container dialect; only the
		// per-object header and entity-layer recovery differ.
		d.Locators, d.sections, err = r2004Open(d.data, d.opts)
		if err != nil {
			return err
		}
	}

	if classes, ok := d.sectionByAlias("Classes", "AcDb:Classes"); ok {
		reg, rerr := parseClassRegistry(classes, d.Dialect, d.opts)
		if rerr != nil {
			d.addAnomaly(AnoClassRegistryFailed + ": " + rerr.Error())
			d.logger.Warnf("class registry parse failed: %v", rerr)
		} else {
			d.registry = reg
		}
	}

	if objmap, ok := d.sectionByAlias("ObjectMap", "AcDb:Handles"); ok {
		idx, ierr := buildObjectIndex(objmap, d.opts)
		if ierr != nil {
			if d.opts.bestEffort(d.Dialect) {
				d.addAnomaly(AnoObjectMapFailed + ": " + ierr.Error())
				d.logger.Warnf("object map parse failed: %v", ierr)
			} else {
				return ierr
			}
		} else {
			d.index = idx
		}
	}

	return nil
}

// sectionByAlias fetches a logical section trying each of the names the
// container dialects use for it: R2000 uses bare numeric-record names
// ("Classes", "ObjectMap"), R2004+ uses "AcDb:"-prefixed section-map
// names ("AcDb:Classes", "AcDb:Handles").
func (d *File) sectionByAlias(names ...string) ([]byte, bool) {
	for _, n := range names {
		if body, ok := d.sections[n]; ok {
			return body, true
		}
	}
	return nil, false
}

// objectDataBytes returns the byte slice ObjectRef offsets are relative
// to: the whole raw file for R2000, or the decoded AcDb:AcDbObjects
// section for R2004 and later, per §4.7's dialect-dependent base.
func (d *File) objectDataBytes() ([]byte, bool) {
	if d.Dialect == DialectR2000 {
		return d.data, true
	}
	return d.sectionByAlias("AcDb:AcDbObjects")
}

// SectionLocators returns the raw container directory.
func (d *File) SectionLocators() []SectionLocator {
	return d.Locators
}

// ReadSectionBytes returns the logical section payload at the given
// directory index.
func (d *File) ReadSectionBytes(index int) ([]byte, error) {
	if index < 0 || index >= len(d.Locators) {
		return nil, NewError(KindFormat, "section locator index out of range")
	}
	loc := d.Locators[index]
	body, ok := d.sections[loc.Name]
	if !ok {
		return nil, NewErrorAt(KindFormat, "section body unavailable: "+loc.Name, loc.Offset)
	}
	return body, nil
}

// ObjectMapEntries returns up to limit (0 = all) object map entries.
func (d *File) ObjectMapEntries(limit int) []ObjectRef {
	if d.index == nil {
		return nil
	}
	return boundSlice(d.index.Refs, limit)
}

func boundSlice[T any](in []T, limit int) []T {
	if limit <= 0 || limit >= len(in) {
		out := make([]T, len(in))
		copy(out, in)
		return out
	}
	out := make([]T, limit)
	copy(out, in[:limit])
	return out
}

// headerRowFor reads just the object header (not the full entity body)
// for one ObjectRef, the lightweight walk ObjectHeaders/ObjectHeadersWithType
// use instead of decoding every entity in full.
func (d *File) headerRowFor(ref ObjectRef) (ObjectHeaderRow, bool) {
	objects, ok := d.objectDataBytes()
	if !ok {
		return ObjectHeaderRow{}, false
	}
	rec, err := readObjectRecord(objects, ref.Offset, d.opts)
	if err != nil {
		return ObjectHeaderRow{}, false
	}
	r := rec.bodyReader()
	oh, err := readObjectHeader(r, d.Dialect)
	if err != nil {
		return ObjectHeaderRow{}, false
	}
	return ObjectHeaderRow{
		Handle:      ref.Handle,
		Offset:      ref.Offset,
		DataSize:    rec.Size,
		TypeCode:    oh.TypeCode,
		HandleBits:  oh.HandleStreamSz,
		HasHandleSz: oh.HasHandleSz,
	}, true
}

// ObjectHeaders returns up to limit (0 = all) per-record header rows
// without resolving type names or decoding entity bodies.
func (d *File) ObjectHeaders(limit int) []ObjectHeaderRow {
	if d.index == nil {
		return nil
	}
	var out []ObjectHeaderRow
	for _, ref := range d.index.Refs {
		if limit > 0 && len(out) >= limit {
			break
		}
		if row, ok := d.headerRowFor(ref); ok {
			out = append(out, row)
		}
	}
	return out
}

func (d *File) typedRowFor(ref ObjectRef) (ObjectHeaderTypedRow, bool) {
	row, ok := d.headerRowFor(ref)
	if !ok {
		return ObjectHeaderTypedRow{}, false
	}
	name, class := resolveTypeName(row.TypeCode, d.registry)
	return ObjectHeaderTypedRow{ObjectHeaderRow: row, TypeName: name, TypeClass: class}, true
}

// ObjectHeadersWithType returns up to limit (0 = all) header rows with
// their type name and class resolved.
func (d *File) ObjectHeadersWithType(limit int) []ObjectHeaderTypedRow {
	if d.index == nil {
		return nil
	}
	var out []ObjectHeaderTypedRow
	for _, ref := range d.index.Refs {
		if limit > 0 && len(out) >= limit {
			break
		}
		if row, ok := d.typedRowFor(ref); ok {
			out = append(out, row)
		}
	}
	return out
}

func matchesTypeFilter(typeCodes []uint16, typeCode uint16, typeName string) bool {
	for _, want := range typeCodes {
		if want == typeCode {
			return true
		}
		if name, _ := builtinEntityNames[want]; name != "" && name == typeName {
			return true
		}
	}
	return false
}

// ObjectHeadersByType returns up to limit (0 = all) header rows whose
// type code or resolved name matches one of typeCodes.
func (d *File) ObjectHeadersByType(typeCodes []uint16, limit int) []ObjectHeaderTypedRow {
	if d.index == nil || len(typeCodes) == 0 {
		return nil
	}
	var out []ObjectHeaderTypedRow
	for _, ref := range d.index.Refs {
		if limit > 0 && len(out) >= limit {
			break
		}
		row, ok := d.typedRowFor(ref)
		if !ok || !matchesTypeFilter(typeCodes, row.TypeCode, row.TypeName) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// ObjectRecordsByType returns up to limit (0 = all) object record rows
// (header plus raw body bounds) whose type matches one of typeCodes.
func (d *File) ObjectRecordsByType(typeCodes []uint16, limit int) []ObjectRecordRow {
	if d.index == nil || len(typeCodes) == 0 {
		return nil
	}
	objects, ok := d.objectDataBytes()
	if !ok {
		return nil
	}
	var out []ObjectRecordRow
	for _, ref := range d.index.Refs {
		if limit > 0 && len(out) >= limit {
			break
		}
		row, ok := d.typedRowFor(ref)
		if !ok || !matchesTypeFilter(typeCodes, row.TypeCode, row.TypeName) {
			continue
		}
		rec, err := readObjectRecord(objects, ref.Offset, d.opts)
		if err != nil {
			continue
		}
		out = append(out, ObjectRecordRow{
			ObjectHeaderTypedRow: row,
			BodyOffset:           rec.BodyByteStart,
			BodySize:             rec.Size,
		})
	}
	return out
}

// DecodeEntityStyles returns up to limit (0 = all) flat (color, layer)
// rows across every graphical entity, decoding only the common entity
// header rather than each entity's type-specific body. On R2010/R2013,
// a layer handle that does not match any known LAYER object triggers the
// §4.14 recovery search (layerrecovery.go) rather than being reported as-is.
func (d *File) DecodeEntityStyles(limit int) []EntityStyle {
	if d.index == nil {
		return nil
	}
	objects, ok := d.objectDataBytes()
	if !ok {
		return nil
	}

	var knownLayers map[uint64]bool
	if d.Dialect == DialectR2010 || d.Dialect == DialectR2013 {
		if layers, _ := d.DecodeLayerEntities(0); len(layers) > 0 {
			knownLayers = make(map[uint64]bool, len(layers))
			for _, l := range layers {
				knownLayers[l.Handle] = true
			}
		}
	}

	var out []EntityStyle
	for _, ref := range d.index.Refs {
		if limit > 0 && len(out) >= limit {
			break
		}
		rec, err := readObjectRecord(objects, ref.Offset, d.opts)
		if err != nil {
			continue
		}
		r := rec.bodyReader()
		oh, err := readObjectHeader(r, d.Dialect)
		if err != nil {
			continue
		}
		_, class := resolveTypeName(oh.TypeCode, d.registry)
		if class != "E" {
			continue
		}
		var objDataEndBit uint64
		if oh.HasHandleSz {
			totalBits := uint64(len(rec.Body)) * 8
			if oh.HandleStreamSz <= totalBits {
				objDataEndBit = totalBits - oh.HandleStreamSz
			}
		}
		hdr, _, err := readCommonEntityHeader(r, d.Dialect, objDataEndBit)
		if err != nil {
			continue
		}
		handlesPos := r.Pos()
		r.SeekBits(hdr.ObjSize)
		handles, err := readCommonEntityHandles(r, hdr, hdr.Handle)
		var layerHandle uint64
		if err == nil {
			layerHandle = handles.Layer
		}
		if knownLayers != nil && !knownLayers[layerHandle] {
			r.SetPos(handlesPos)
			recordTotalBits := uint64(len(rec.Body)) * 8
			if recovered := recoverEntityLayerHandle(r, hdr, d.Dialect, hdr.Handle, recordTotalBits, knownLayers); recovered != 0 {
				layerHandle = recovered
				d.addAnomaly(AnoEntityLayerRecovered)
			}
		}
		var colorIndex *uint16
		if hdr.Color.HasIndex {
			ci := hdr.Color.Index
			colorIndex = &ci
		}
		var trueColor *uint32
		if hdr.Color.HasTrue {
			tc := hdr.Color.TrueColor
			trueColor = &tc
		}
		out = append(out, EntityStyle{Handle: hdr.Handle, ColorIndex: colorIndex, TrueColor: trueColor, LayerHandle: layerHandle})
	}
	return out
}

// DecodeLayerColors returns up to limit (0 = all) flat (handle, color)
// rows, one per decoded LAYER record.
func (d *File) DecodeLayerColors(limit int) []LayerColor {
	layers, err := d.DecodeLayerEntities(limit)
	if err != nil && len(layers) == 0 {
		return nil
	}
	out := make([]LayerColor, 0, len(layers))
	for _, l := range layers {
		var tc *uint32
		if l.TrueColorRGB != 0 {
			v := l.TrueColorRGB
			tc = &v
		}
		out = append(out, LayerColor{Handle: l.Handle, ColorIndex: uint16(l.ColorIndex), TrueColor: tc})
	}
	return out
}

// Anomalies returns the non-fatal findings accumulated during Parse and
// by later Decode* calls.
func (d *File) Anomalies() []string {
	return d.anomalies
}

// Diagnostics summarizes every decoded logical section: its decoded
// size, an xxhash64 fingerprint of its decoded bytes (useful for spotting
// two files that share a section verbatim, e.g. a template reused across
// drawings), and how its decoded size compares to the locator's declared
// size as a rough compression-ratio signal.
func (d *File) Diagnostics() Diagnostics {
	diag := Diagnostics{Dialect: d.Dialect.String()}
	for _, loc := range d.Locators {
		body, ok := d.sections[loc.Name]
		if !ok {
			continue
		}
		ratio := 1.0
		if loc.Size > 0 {
			ratio = float64(len(body)) / float64(loc.Size)
		}
		diag.Sections = append(diag.Sections, SectionDiagnostic{
			Name:            loc.Name,
			Size:            uint64(len(body)),
			XXHash64:        xxhash.Sum64(body),
			CompressedRatio: ratio,
		})
	}
	return diag
}

// objectRecordsFor decodes object records up to limit (0 = all) and
// dispatches each to DecodeEntity, filtering to those whose decoded Kind
// equals kind. Used by every Decode<Kind>Entities method.
func (d *File) objectRecordsFor(kind string, limit int) ([]*Entity, error) {
	if d.index == nil {
		return nil, nil
	}
	objects, ok := d.objectDataBytes()
	if !ok {
		return nil, NewError(KindFormat, "object data section unavailable")
	}
	var out []*Entity
	for _, ref := range d.index.Refs {
		if limit > 0 && len(out) >= limit {
			break
		}
		if ref.Offset >= uint64(len(objects)) {
			d.addAnomaly(AnoObjectMapUnreachable)
			if d.opts.bestEffort(d.Dialect) {
				continue
			}
			return out, NewErrorAt(KindFormat, "object map entry offset unreachable", ref.Offset)
		}
		rec, err := readObjectRecord(objects, ref.Offset, d.opts)
		if err != nil {
			if d.opts.bestEffort(d.Dialect) {
				d.logger.Debugf("skipping unreadable object record at handle %d: %v", ref.Handle, err)
				continue
			}
			return out, err
		}
		ent, err := DecodeEntity(rec, d.registry, d.Dialect, d.addAnomaly)
		if err != nil {
			if d.opts.bestEffort(d.Dialect) {
				d.logger.Debugf("skipping undecodable entity at handle %d: %v", ref.Handle, err)
				continue
			}
			continue
		}
		if ent.Kind != kind {
			continue
		}
		out = append(out, ent)
	}
	return out, nil
}

// decodeKindEntities is a small helper shared by every exported
// Decode<Kind>Entities method: it asserts each matching Entity's Body to
// the concrete type T and collects them.
func decodeKindEntities[T any](d *File, kind string, limit int) ([]T, error) {
	ents, err := d.objectRecordsFor(kind, limit)
	out := make([]T, 0, len(ents))
	for _, e := range ents {
		if v, ok := e.Body.(T); ok {
			out = append(out, v)
		}
	}
	return out, err
}

// DecodeLineEntities decodes every LINE entity (up to limit; 0 = all).
func (d *File) DecodeLineEntities(limit int) ([]*LineEntity, error) {
	return decodeKindEntities[*LineEntity](d, "LINE", limit)
}

// DecodePointEntities decodes every POINT entity.
func (d *File) DecodePointEntities(limit int) ([]*PointEntity, error) {
	return decodeKindEntities[*PointEntity](d, "POINT", limit)
}

// DecodeArcEntities decodes every ARC entity.
func (d *File) DecodeArcEntities(limit int) ([]*ArcEntity, error) {
	return decodeKindEntities[*ArcEntity](d, "ARC", limit)
}

// DecodeCircleEntities decodes every CIRCLE entity.
func (d *File) DecodeCircleEntities(limit int) ([]*CircleEntity, error) {
	return decodeKindEntities[*CircleEntity](d, "CIRCLE", limit)
}

// DecodeEllipseEntities decodes every ELLIPSE entity.
func (d *File) DecodeEllipseEntities(limit int) ([]*EllipseEntity, error) {
	return decodeKindEntities[*EllipseEntity](d, "ELLIPSE", limit)
}

// DecodeSplineEntities decodes every SPLINE entity.
func (d *File) DecodeSplineEntities(limit int) ([]*SplineEntity, error) {
	return decodeKindEntities[*SplineEntity](d, "SPLINE", limit)
}

// DecodeTextEntities decodes every TEXT entity.
func (d *File) DecodeTextEntities(limit int) ([]*TextEntity, error) {
	return decodeKindEntities[*TextEntity](d, "TEXT", limit)
}

// DecodeAttribEntities decodes every ATTRIB entity.
func (d *File) DecodeAttribEntities(limit int) ([]*AttribEntity, error) {
	return decodeKindEntities[*AttribEntity](d, "ATTRIB", limit)
}

// DecodeAttdefEntities decodes every ATTDEF entity.
func (d *File) DecodeAttdefEntities(limit int) ([]*AttribEntity, error) {
	return decodeKindEntities[*AttribEntity](d, "ATTDEF", limit)
}

// DecodeMTextEntities decodes every MTEXT entity.
func (d *File) DecodeMTextEntities(limit int) ([]*MTextEntity, error) {
	return decodeKindEntities[*MTextEntity](d, "MTEXT", limit)
}

// DecodeInsertEntities decodes every INSERT entity.
func (d *File) DecodeInsertEntities(limit int) ([]*InsertEntity, error) {
	return decodeKindEntities[*InsertEntity](d, "INSERT", limit)
}

// DecodeMInsertEntities decodes every MINSERT entity.
func (d *File) DecodeMInsertEntities(limit int) ([]*MInsertEntity, error) {
	return decodeKindEntities[*MInsertEntity](d, "MINSERT", limit)
}

// DecodePolyline2DEntities decodes every POLYLINE_2D entity.
func (d *File) DecodePolyline2DEntities(limit int) ([]*Polyline2DEntity, error) {
	return decodeKindEntities[*Polyline2DEntity](d, "POLYLINE_2D", limit)
}

// DecodeVertex2DEntities decodes every VERTEX_2D entity.
func (d *File) DecodeVertex2DEntities(limit int) ([]*Vertex2DEntity, error) {
	return decodeKindEntities[*Vertex2DEntity](d, "VERTEX_2D", limit)
}

// DecodeLWPolylineEntities decodes every LWPOLYLINE entity.
func (d *File) DecodeLWPolylineEntities(limit int) ([]*LWPolylineEntity, error) {
	return decodeKindEntities[*LWPolylineEntity](d, "LWPOLYLINE", limit)
}

// DecodeDimLinearEntities decodes every DIM_LINEAR entity.
func (d *File) DecodeDimLinearEntities(limit int) ([]*DimLinearEntity, error) {
	return decodeKindEntities[*DimLinearEntity](d, "DIM_LINEAR", limit)
}

// DecodeDimAlignedEntities decodes every DIM_ALIGNED entity.
func (d *File) DecodeDimAlignedEntities(limit int) ([]*DimLinearEntity, error) {
	return decodeKindEntities[*DimLinearEntity](d, "DIM_ALIGNED", limit)
}

// DecodeDimOrdinateEntities decodes every DIM_ORDINATE entity.
func (d *File) DecodeDimOrdinateEntities(limit int) ([]*DimLinearEntity, error) {
	return decodeKindEntities[*DimLinearEntity](d, "DIM_ORDINATE", limit)
}

// DecodeDimAng3PtEntities decodes every DIM_ANG3PT entity.
func (d *File) DecodeDimAng3PtEntities(limit int) ([]*DimLinearEntity, error) {
	return decodeKindEntities[*DimLinearEntity](d, "DIM_ANG3PT", limit)
}

// DecodeDimAng2LnEntities decodes every DIM_ANG2LN entity.
func (d *File) DecodeDimAng2LnEntities(limit int) ([]*DimLinearEntity, error) {
	return decodeKindEntities[*DimLinearEntity](d, "DIM_ANG2LN", limit)
}

// DecodeDimRadiusEntities decodes every DIM_RADIUS entity.
func (d *File) DecodeDimRadiusEntities(limit int) ([]*DimLinearEntity, error) {
	return decodeKindEntities[*DimLinearEntity](d, "DIM_RADIUS", limit)
}

// DecodeDimDiameterEntities decodes every DIM_DIAMETER entity.
func (d *File) DecodeDimDiameterEntities(limit int) ([]*DimLinearEntity, error) {
	return decodeKindEntities[*DimLinearEntity](d, "DIM_DIAMETER", limit)
}

// DecodeHatchEntities decodes every HATCH entity.
func (d *File) DecodeHatchEntities(limit int) ([]*HatchEntity, error) {
	return decodeKindEntities[*HatchEntity](d, "HATCH", limit)
}

// DecodeLeaderEntities decodes every LEADER entity.
func (d *File) DecodeLeaderEntities(limit int) ([]*LeaderEntity, error) {
	return decodeKindEntities[*LeaderEntity](d, "LEADER", limit)
}

// DecodeLayerEntities decodes every LAYER entity.
func (d *File) DecodeLayerEntities(limit int) ([]*LayerEntity, error) {
	return decodeKindEntities[*LayerEntity](d, "LAYER", limit)
}
