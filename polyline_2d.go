// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// PolylineFlags decodes the bit-packed POLYLINE_2D flags word.
type PolylineFlags struct {
	Closed             bool
	CurveFit           bool
	SplineFit          bool
	Is3DPolyline       bool
	Is3DMesh           bool
	IsClosedMesh       bool
	IsPolyfaceMesh     bool
	ContinuousLinetype bool
}

func polylineFlagsFrom(flags uint16) PolylineFlags {
	return PolylineFlags{
		Closed:             flags&0x01 != 0,
		CurveFit:           flags&0x02 != 0,
		SplineFit:          flags&0x04 != 0,
		Is3DPolyline:       flags&0x08 != 0,
		Is3DMesh:           flags&0x10 != 0,
		IsClosedMesh:       flags&0x20 != 0,
		IsPolyfaceMesh:     flags&0x40 != 0,
		ContinuousLinetype: flags&0x80 != 0,
	}
}

// polylineCurveTypeLabel labels the POLYLINE_2D curve-type code.
func polylineCurveTypeLabel(code uint16) string {
	switch code {
	case 0:
		return "None"
	case 5:
		return "QuadraticBSpline"
	case 6:
		return "CubicBSpline"
	case 8:
		return "Bezier"
	default:
		return "Unknown"
	}
}

// Polyline2DEntity is a decoded POLYLINE_2D.
type Polyline2DEntity struct {
	Handle        uint64
	Flags         uint16
	FlagsInfo     PolylineFlags
	CurveType     uint16
	CurveTypeName string
	WidthStart    float64
	WidthEnd      float64
	Thickness     float64
	Elevation     float64
	OwnedHandles  []uint64
}

func decodePolyline2D(r *BitReader, hdr *CommonEntityHeader, base uint64) (*Polyline2DEntity, error) {
	flags, err := r.BS()
	if err != nil {
		return nil, err
	}
	curveType, err := r.BS()
	if err != nil {
		return nil, err
	}
	widthStart, err := r.BD()
	if err != nil {
		return nil, err
	}
	widthEnd, err := r.BD()
	if err != nil {
		return nil, err
	}
	thickness, err := r.BT()
	if err != nil {
		return nil, err
	}
	elevation, err := r.BD()
	if err != nil {
		return nil, err
	}
	if _, err := r.BE(); err != nil {
		return nil, err
	}
	ownedCount, err := r.BL()
	if err != nil {
		return nil, err
	}

	r.SeekBits(hdr.ObjSize)
	if _, err := readCommonEntityHandles(r, hdr, base); err != nil {
		return nil, err
	}

	owned := make([]uint64, 0, ownedCount)
	for i := uint32(0); i < ownedCount; i++ {
		h, err := readHandleReference(r, hdr.Handle)
		if err != nil {
			return nil, err
		}
		owned = append(owned, h)
	}

	return &Polyline2DEntity{
		Handle: hdr.Handle, Flags: flags, FlagsInfo: polylineFlagsFrom(flags),
		CurveType: curveType, CurveTypeName: polylineCurveTypeLabel(curveType),
		WidthStart: widthStart, WidthEnd: widthEnd, Thickness: thickness,
		Elevation: elevation, OwnedHandles: owned,
	}, nil
}

// Vertex2DEntity is a decoded VERTEX_2D.
type Vertex2DEntity struct {
	Handle     uint64
	Flags      uint16
	Position   Vec3
	StartWidth float64
	EndWidth   float64
	Bulge      float64
	TangentDir float64
}

func decodeVertex2D(r *BitReader, hdr *CommonEntityHeader, base uint64) (*Vertex2DEntity, error) {
	flags, err := r.RS(LittleEndian)
	if err != nil {
		return nil, err
	}
	position, err := r.ThreeBD()
	if err != nil {
		return nil, err
	}
	startWidth, err := r.BD()
	if err != nil {
		return nil, err
	}
	var endWidth float64
	if startWidth < 0 {
		startWidth = -startWidth
		endWidth = startWidth
	} else {
		endWidth, err = r.BD()
		if err != nil {
			return nil, err
		}
	}
	bulge, err := r.BD()
	if err != nil {
		return nil, err
	}
	tangentDir, err := r.BD()
	if err != nil {
		return nil, err
	}

	r.SeekBits(hdr.ObjSize)
	if _, err := readCommonEntityHandles(r, hdr, base); err != nil {
		return nil, err
	}

	return &Vertex2DEntity{
		Handle: hdr.Handle, Flags: flags, Position: position,
		StartWidth: startWidth, EndWidth: endWidth, Bulge: bulge, TangentDir: tangentDir,
	}, nil
}
