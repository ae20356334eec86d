// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

func decodeInsertScale(r *BitReader) (Vec3, error) {
	flags, err := r.BB()
	if err != nil {
		return Vec3{}, err
	}
	switch flags {
	case 0x03:
		return Vec3{X: 1, Y: 1, Z: 1}, nil
	case 0x01:
		y, err := r.DD(1.0)
		if err != nil {
			return Vec3{}, err
		}
		z, err := r.DD(1.0)
		if err != nil {
			return Vec3{}, err
		}
		return Vec3{X: 1, Y: y, Z: z}, nil
	case 0x02:
		x, err := r.RD(LittleEndian)
		if err != nil {
			return Vec3{}, err
		}
		return Vec3{X: x, Y: x, Z: x}, nil
	default:
		x, err := r.RD(LittleEndian)
		if err != nil {
			return Vec3{}, err
		}
		y, err := r.DD(x)
		if err != nil {
			return Vec3{}, err
		}
		z, err := r.DD(x)
		if err != nil {
			return Vec3{}, err
		}
		return Vec3{X: x, Y: y, Z: z}, nil
	}
}

// InsertEntity is a decoded INSERT.
type InsertEntity struct {
	Handle   uint64
	Position Vec3
	Scale    Vec3
	Rotation float64
}

func decodeInsert(r *BitReader, hdr *CommonEntityHeader) (*InsertEntity, error) {
	position, err := r.ThreeBD()
	if err != nil {
		return nil, err
	}
	scale, err := decodeInsertScale(r)
	if err != nil {
		return nil, err
	}
	rotation, err := r.BD()
	if err != nil {
		return nil, err
	}
	if _, err := r.ThreeBD(); err != nil { // extrusion
		return nil, err
	}
	hasAttribs, err := r.B()
	if err != nil {
		return nil, err
	}
	if hasAttribs == 1 {
		if _, err := r.BL(); err != nil {
			return nil, err
		}
	}
	return &InsertEntity{Handle: hdr.Handle, Position: position, Scale: scale, Rotation: rotation}, nil
}

// MInsertEntity is a decoded MINSERT.
type MInsertEntity struct {
	Handle        uint64
	Position      Vec3
	Scale         Vec3
	Rotation      float64
	NumColumns    uint16
	NumRows       uint16
	ColumnSpacing float64
	RowSpacing    float64
}

func decodeMInsert(r *BitReader, hdr *CommonEntityHeader) (*MInsertEntity, error) {
	position, err := r.ThreeBD()
	if err != nil {
		return nil, err
	}
	scale, err := decodeInsertScale(r)
	if err != nil {
		return nil, err
	}
	rotation, err := r.BD()
	if err != nil {
		return nil, err
	}
	if _, err := r.ThreeBD(); err != nil { // extrusion
		return nil, err
	}
	hasAttribs, err := r.B()
	if err != nil {
		return nil, err
	}
	if hasAttribs == 1 {
		if _, err := r.BL(); err != nil {
			return nil, err
		}
	}
	cols, err := r.BS()
	if err != nil {
		return nil, err
	}
	rows, err := r.BS()
	if err != nil {
		return nil, err
	}
	colSpacing, err := r.BD()
	if err != nil {
		return nil, err
	}
	rowSpacing, err := r.BD()
	if err != nil {
		return nil, err
	}
	return &MInsertEntity{
		Handle: hdr.Handle, Position: position, Scale: scale, Rotation: rotation,
		NumColumns: cols, NumRows: rows, ColumnSpacing: colSpacing, RowSpacing: rowSpacing,
	}, nil
}
