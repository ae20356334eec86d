// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// LWPolylineEntity is a decoded LWPOLYLINE. The reference decoder this
// repository is grounded on treats width/bulge data as NotImplemented;
// here the optional bulge, vertex-id and width arrays are decoded in
// full, gated by the flag bits documented below, as a supplement beyond
// what the reference decoder covered.
type LWPolylineEntity struct {
	Handle      uint64
	LayerHandle uint64
	Flags       uint16
	ConstWidth  float64
	Elevation   float64
	Thickness   float64
	Normal      Vec3
	Vertices    []Vec2
	Bulges      []float64
	VertexIDs   []int32
	Widths      [][2]float64 // [start, end] per vertex
}

// Vec2 is a planar point, used by entities (LWPOLYLINE) whose vertices
// carry no Z component of their own.
type Vec2 struct {
	X, Y float64
}

const (
	lwFlagHasConstWidth = 0x04
	lwFlagHasElevation  = 0x08
	lwFlagHasThickness  = 0x02
	lwFlagHasNormal     = 0x01
	lwFlagPlinegen      = 0x80
	lwFlagClosed        = 0x200
	lwFlagHasWidths     = 0x10
	lwFlagHasBulges     = 0x20
	lwFlagHasVertexIDs  = 0x40
)

func decodeLWPolyline(r *BitReader, hdr *CommonEntityHeader, base uint64) (*LWPolylineEntity, error) {
	flags, err := r.BS()
	if err != nil {
		return nil, err
	}
	ent := &LWPolylineEntity{Flags: flags}

	if flags&lwFlagHasConstWidth != 0 {
		ent.ConstWidth, err = r.BD()
		if err != nil {
			return nil, err
		}
	}
	if flags&lwFlagHasElevation != 0 {
		ent.Elevation, err = r.BD()
		if err != nil {
			return nil, err
		}
	}
	if flags&lwFlagHasThickness != 0 {
		ent.Thickness, err = r.BD()
		if err != nil {
			return nil, err
		}
	}
	if flags&lwFlagHasNormal != 0 {
		ent.Normal, err = r.ThreeBD()
		if err != nil {
			return nil, err
		}
	}

	numVerts, err := r.BL()
	if err != nil {
		return nil, err
	}

	var numBulges, numVertexIDs, numWidths uint32
	if flags&lwFlagHasBulges != 0 {
		numBulges, err = r.BL()
		if err != nil {
			return nil, err
		}
	}
	if flags&lwFlagHasVertexIDs != 0 {
		numVertexIDs, err = r.BL()
		if err != nil {
			return nil, err
		}
	}
	if flags&lwFlagHasWidths != 0 {
		numWidths, err = r.BL()
		if err != nil {
			return nil, err
		}
	}

	ent.Vertices = make([]Vec2, 0, numVerts)
	if numVerts > 0 {
		x0, err := r.RD(LittleEndian)
		if err != nil {
			return nil, err
		}
		y0, err := r.RD(LittleEndian)
		if err != nil {
			return nil, err
		}
		ent.Vertices = append(ent.Vertices, Vec2{X: x0, Y: y0})

		for i := uint32(1); i < numVerts; i++ {
			prev := ent.Vertices[len(ent.Vertices)-1]
			x, err := r.DD(prev.X)
			if err != nil {
				return nil, err
			}
			y, err := r.DD(prev.Y)
			if err != nil {
				return nil, err
			}
			ent.Vertices = append(ent.Vertices, Vec2{X: x, Y: y})
		}
	}

	ent.Bulges = make([]float64, 0, numBulges)
	for i := uint32(0); i < numBulges; i++ {
		b, err := r.BD()
		if err != nil {
			return nil, err
		}
		ent.Bulges = append(ent.Bulges, b)
	}

	ent.VertexIDs = make([]int32, 0, numVertexIDs)
	for i := uint32(0); i < numVertexIDs; i++ {
		v, err := r.BL()
		if err != nil {
			return nil, err
		}
		ent.VertexIDs = append(ent.VertexIDs, int32(v))
	}

	ent.Widths = make([][2]float64, 0, numWidths)
	for i := uint32(0); i < numWidths; i++ {
		start, err := r.BD()
		if err != nil {
			return nil, err
		}
		end, err := r.BD()
		if err != nil {
			return nil, err
		}
		ent.Widths = append(ent.Widths, [2]float64{start, end})
	}

	r.SeekBits(hdr.ObjSize)
	handlesPos := r.Pos()
	handles, err := readCommonEntityHandles(r, hdr, base)
	if err == nil {
		ent.LayerHandle = handles.Layer
	} else {
		r.SetPos(handlesPos)
		ent.LayerHandle, _ = readEntityLayerHandle(r, hdr, base)
	}

	ent.Handle = hdr.Handle
	return ent, nil
}
