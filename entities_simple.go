// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// LineEntity is a decoded LINE.
type LineEntity struct {
	Handle uint64
	Start  Vec3
	End    Vec3
}

// decodeLine reads a LINE body immediately following the common entity
// header: B z-is-zero, RD/DD x, RD/DD y, optional RD/DD z, BT, BE.
func decodeLine(r *BitReader, hdr *CommonEntityHeader) (*LineEntity, error) {
	zIsZero, err := r.B()
	if err != nil {
		return nil, err
	}
	xStart, err := r.RD(LittleEndian)
	if err != nil {
		return nil, err
	}
	xEnd, err := r.DD(xStart)
	if err != nil {
		return nil, err
	}
	yStart, err := r.RD(LittleEndian)
	if err != nil {
		return nil, err
	}
	yEnd, err := r.DD(yStart)
	if err != nil {
		return nil, err
	}

	var zStart, zEnd float64
	if zIsZero == 0 {
		zStart, err = r.RD(LittleEndian)
		if err != nil {
			return nil, err
		}
		zEnd, err = r.DD(zStart)
		if err != nil {
			return nil, err
		}
	}

	if _, err := r.BT(); err != nil {
		return nil, err
	}
	if _, err := r.BE(); err != nil {
		return nil, err
	}

	return &LineEntity{
		Handle: hdr.Handle,
		Start:  Vec3{X: xStart, Y: yStart, Z: zStart},
		End:    Vec3{X: xEnd, Y: yEnd, Z: zEnd},
	}, nil
}

// PointEntity is a decoded POINT.
type PointEntity struct {
	Handle      uint64
	Location    Vec3
	XAxisAngle  float64
}

func decodePoint(r *BitReader, hdr *CommonEntityHeader) (*PointEntity, error) {
	loc, err := r.ThreeBD()
	if err != nil {
		return nil, err
	}
	if _, err := r.BT(); err != nil {
		return nil, err
	}
	if _, err := r.BE(); err != nil {
		return nil, err
	}
	angle, err := r.BD()
	if err != nil {
		return nil, err
	}
	return &PointEntity{Handle: hdr.Handle, Location: loc, XAxisAngle: angle}, nil
}

// ArcEntity is a decoded ARC.
type ArcEntity struct {
	Handle            uint64
	Center            Vec3
	Radius            float64
	AngleStart        float64
	AngleEnd          float64
}

func decodeArc(r *BitReader, hdr *CommonEntityHeader) (*ArcEntity, error) {
	center, err := r.ThreeBD()
	if err != nil {
		return nil, err
	}
	radius, err := r.BD()
	if err != nil {
		return nil, err
	}
	if _, err := r.BT(); err != nil {
		return nil, err
	}
	if _, err := r.BE(); err != nil {
		return nil, err
	}
	angleStart, err := r.BD()
	if err != nil {
		return nil, err
	}
	angleEnd, err := r.BD()
	if err != nil {
		return nil, err
	}
	return &ArcEntity{Handle: hdr.Handle, Center: center, Radius: radius, AngleStart: angleStart, AngleEnd: angleEnd}, nil
}

// CircleEntity is a decoded CIRCLE.
type CircleEntity struct {
	Handle uint64
	Center Vec3
	Radius float64
}

func decodeCircle(r *BitReader, hdr *CommonEntityHeader) (*CircleEntity, error) {
	center, err := r.ThreeBD()
	if err != nil {
		return nil, err
	}
	radius, err := r.BD()
	if err != nil {
		return nil, err
	}
	if _, err := r.BT(); err != nil {
		return nil, err
	}
	if _, err := r.BE(); err != nil {
		return nil, err
	}
	return &CircleEntity{Handle: hdr.Handle, Center: center, Radius: radius}, nil
}

// EllipseEntity is a decoded ELLIPSE.
type EllipseEntity struct {
	Handle     uint64
	Center     Vec3
	MajorAxis  Vec3
	Extrusion  Vec3
	AxisRatio  float64
	StartAngle float64
	EndAngle   float64
}

func decodeEllipse(r *BitReader, hdr *CommonEntityHeader) (*EllipseEntity, error) {
	center, err := r.ThreeBD()
	if err != nil {
		return nil, err
	}
	majorAxis, err := r.ThreeBD()
	if err != nil {
		return nil, err
	}
	extrusion, err := r.ThreeBD()
	if err != nil {
		return nil, err
	}
	axisRatio, err := r.BD()
	if err != nil {
		return nil, err
	}
	startAngle, err := r.BD()
	if err != nil {
		return nil, err
	}
	endAngle, err := r.BD()
	if err != nil {
		return nil, err
	}
	return &EllipseEntity{
		Handle: hdr.Handle, Center: center, MajorAxis: majorAxis, Extrusion: extrusion,
		AxisRatio: axisRatio, StartAngle: startAngle, EndAngle: endAngle,
	}, nil
}
