// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// readObjectHeader dispatches on dialect to read the per-record header
// prefix: a bare BS type-code for R2000/R2004, or a UMC handle-stream
// size in bits followed by an OT-R2010 type-code for R2010/R2013.
func readObjectHeader(r *BitReader, dialect Dialect) (*ObjectHeader, error) {
	switch dialect {
	case DialectR2010, DialectR2013:
		handleStreamSz, err := r.UMC()
		if err != nil {
			return nil, err
		}
		typeCode, err := r.OTR2010()
		if err != nil {
			return nil, err
		}
		if typeCode == 0 {
			return nil, NewErrorAt(KindFormat, "object type-code 0", r.BitOffset())
		}
		return &ObjectHeader{TypeCode: typeCode, HandleStreamSz: handleStreamSz, HasHandleSz: true}, nil
	default:
		typeCode, err := r.BS()
		if err != nil {
			return nil, err
		}
		return &ObjectHeader{TypeCode: typeCode}, nil
	}
}

// builtinEntityNames maps the low, fixed type codes (the DWG "built-in"
// range) to DXF names, entities and a few table objects alike; class
// numbers >= 500 resolve dynamically
// via ClassRegistry instead.
var builtinEntityNames = map[uint16]string{
	1:  "TEXT",
	2:  "ATTRIB",
	3:  "ATTDEF",
	4:  "BLOCK",
	5:  "ENDBLK",
	6:  "SEQEND",
	7:  "INSERT",
	8:  "MINSERT",
	10: "VERTEX_2D",
	11: "VERTEX_3D",
	17: "POLYLINE_2D",
	18: "POLYLINE_3D",
	19: "ARC",
	20: "CIRCLE",
	21: "LINE",
	22: "DIM_ORDINATE",
	23: "DIM_LINEAR",
	24: "DIM_ALIGNED",
	25: "DIM_ANG3PT",
	26: "DIM_ANG2LN",
	27: "DIM_RADIUS",
	28: "DIM_DIAMETER",
	29: "POINT",
	30: "FACE3D",
	31: "POLYLINE_PFACE",
	32: "POLYLINE_MESH",
	33: "SOLID",
	34: "TRACE",
	35: "SHAPE",
	36: "VIEWPORT",
	37: "ELLIPSE",
	38: "SPLINE",
	40: "REGION",
	41: "3DSOLID",
	42: "BODY",
	43: "RAY",
	44: "XLINE",
	48: "MTEXT",
	49: "LEADER",
	51: "TOLERANCE",
	52: "MLINE",
	53: "BLOCK_CONTROL",
	55: "LAYER_CONTROL",
	56: "LAYER",
	62: "HATCH",
}

// resolveTypeName resolves a header's type code to a DXF name and class
// ("E" built-in entity, "O" built-in object, "" dynamic/unknown).
func resolveTypeName(typeCode uint16, registry *ClassRegistry) (name string, class string) {
	if typeCode < 500 {
		if n, ok := builtinEntityNames[typeCode]; ok {
			switch n {
			case "BLOCK_CONTROL", "LAYER_CONTROL", "LAYER":
				return n, "O"
			}
			return n, "E"
		}
		return "", "O"
	}
	if registry != nil {
		if n, ok := registry.Lookup(typeCode); ok {
			return n, ""
		}
	}
	return "", ""
}
