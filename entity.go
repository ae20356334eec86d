// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// Entity is one decoded graphical object, tagged with the DXF name it
// resolved to and carrying the concrete decoded payload (e.g. *LineEntity,
// *HatchEntity). Kind is always populated even when Body is nil, so a
// caller can report coverage without type-asserting every record.
type Entity struct {
	Handle uint64
	Kind   string
	Body   interface{}
}

// decodeEntityBody resolves an object record's type code to a DXF name
// and dispatches to the matching decode* function. CommonEntityHeader has
// already been parsed by the caller (every decoder below takes it as
// input rather than parsing its own copy); base is the handle every
// relative handle reference in the body resolves against, conventionally
// the entity's own handle.
//
// Entities with no decoder below (BLOCK, ENDBLK, SEQEND, VIEWPORT, SOLID,
// and the handful of control/table objects) resolve their Kind but return
// a KindNotImplemented error, matching the partial coverage the reference
// decoder this package is grounded on itself exposes.
func decodeEntityBody(r *BitReader, hdr *CommonEntityHeader, base uint64, dialect Dialect, kind string, report func(string)) (*Entity, error) {
	ent := &Entity{Handle: hdr.Handle, Kind: kind}

	var body interface{}
	var err error
	switch kind {
	case "LINE":
		body, err = decodeLine(r, hdr)
	case "POINT":
		body, err = decodePoint(r, hdr)
	case "ARC":
		body, err = decodeArc(r, hdr)
	case "CIRCLE":
		body, err = decodeCircle(r, hdr)
	case "ELLIPSE":
		body, err = decodeEllipse(r, hdr)
	case "SPLINE":
		body, err = decodeSpline(r, hdr, base, dialect)
	case "TEXT":
		body, err = decodeText(r, hdr, base)
	case "ATTRIB":
		body, err = decodeAttribLike(r, hdr, base, false)
	case "ATTDEF":
		body, err = decodeAttribLike(r, hdr, base, true)
	case "MTEXT":
		body, err = decodeMText(r, hdr, base, dialect)
	case "INSERT":
		body, err = decodeInsert(r, hdr)
	case "MINSERT":
		body, err = decodeMInsert(r, hdr)
	case "POLYLINE_2D":
		body, err = decodePolyline2D(r, hdr, base)
	case "VERTEX_2D":
		body, err = decodeVertex2D(r, hdr, base)
	case "LWPOLYLINE":
		body, err = decodeLWPolyline(r, hdr, base)
	case "HATCH":
		body, err = decodeHatch(r, hdr, base, dialect)
	case "LEADER":
		body, err = decodeLeader(r, hdr, base)
	case "LAYER":
		body, err = decodeLayer(r, hdr, base, report)
	case "DIM_LINEAR":
		body, err = decodeDimLinear(r, hdr, base)
	case "DIM_ALIGNED":
		body, err = decodeDimAligned(r, hdr, base)
	case "DIM_ORDINATE":
		body, err = decodeDimOrdinate(r, hdr, base)
	case "DIM_ANG3PT":
		body, err = decodeDimAng3Pt(r, hdr, base)
	case "DIM_ANG2LN":
		body, err = decodeDimAng2Ln(r, hdr, base)
	case "DIM_RADIUS":
		body, err = decodeDimRadius(r, hdr, base)
	case "DIM_DIAMETER":
		body, err = decodeDimDiameter(r, hdr, base, dialect)
	default:
		return ent, NotImplemented("entity kind " + kind)
	}
	if err != nil {
		return ent, err
	}
	ent.Body = body
	return ent, nil
}

// DecodeEntity reads one object record's body as a graphical entity: the
// object header (type code, plus an R2010+ declared handle-stream size),
// the common entity header, then the type-specific payload dispatched by
// the name resolveTypeName assigns the type code. report, if non-nil, is
// called with a short anomaly string when a decoder has to fall back to a
// heuristic recovery path rather than failing outright.
func DecodeEntity(rec *ObjectRecord, registry *ClassRegistry, dialect Dialect, report func(string)) (*Entity, error) {
	r := rec.bodyReader()
	oh, err := readObjectHeader(r, dialect)
	if err != nil {
		return nil, err
	}

	name, class := resolveTypeName(oh.TypeCode, registry)
	if class != "E" && name == "" {
		return nil, NotImplemented("non-entity or unresolved object type")
	}
	if name == "" {
		name = "UNKNOWN"
	}

	var objDataEndBit uint64
	if oh.HasHandleSz {
		totalBits := uint64(len(rec.Body)) * 8
		if oh.HandleStreamSz <= totalBits {
			objDataEndBit = totalBits - oh.HandleStreamSz
		}
	}

	hdr, _, err := readCommonEntityHeader(r, dialect, objDataEndBit)
	if err != nil {
		return nil, err
	}

	return decodeEntityBody(r, hdr, hdr.Handle, dialect, name, report)
}
