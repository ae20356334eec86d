// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// LeaderEntity is a decoded LEADER.
type LeaderEntity struct {
	Handle         uint64
	LayerHandle    uint64
	AnnotationType uint16
	PathType       uint16
	Points         []Vec3
}

func decodeLeader(r *BitReader, hdr *CommonEntityHeader, base uint64) (*LeaderEntity, error) {
	if _, err := r.B(); err != nil { // unknown
		return nil, err
	}
	annotationType, err := r.BS()
	if err != nil {
		return nil, err
	}
	pathType, err := r.BS()
	if err != nil {
		return nil, err
	}
	numPointsRaw, err := r.BL()
	if err != nil {
		return nil, err
	}
	numPoints, err := boundedCount(numPointsRaw, "leader points")
	if err != nil {
		return nil, err
	}
	points := make([]Vec3, 0, numPoints)
	for i := 0; i < numPoints; i++ {
		p, err := r.ThreeBD()
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}

	// Best-effort optional tail: malformed trailing fields must not block
	// the core geometry already extracted above.
	if err := skipOptionalLeaderPayload(r); err != nil {
		if de, ok := err.(*Error); !ok || (de.Kind != KindFormat && de.Kind != KindDecode && de.Kind != KindIO) {
			return nil, err
		}
	}

	r.SeekBits(hdr.ObjSize)
	handlesPos := r.Pos()
	var layerHandle uint64
	handles, err := readCommonEntityHandles(r, hdr, base)
	if err == nil {
		layerHandle = handles.Layer
	} else {
		r.SetPos(handlesPos)
		layerHandle, _ = readEntityLayerHandle(r, hdr, base)
	}

	return &LeaderEntity{
		Handle: hdr.Handle, LayerHandle: layerHandle,
		AnnotationType: annotationType, PathType: pathType, Points: points,
	}, nil
}

func skipOptionalLeaderPayload(r *BitReader) error {
	reads := []func() error{
		func() error { _, err := r.ThreeBD(); return err },
		func() error { _, err := r.ThreeBD(); return err },
		func() error { _, err := r.ThreeBD(); return err },
		func() error { _, err := r.ThreeBD(); return err },
		func() error { _, err := r.ThreeBD(); return err },
		func() error { _, err := r.BD(); return err },
		func() error { _, err := r.BD(); return err },
		func() error { _, err := r.BD(); return err },
		func() error { _, err := r.B(); return err },
		func() error { _, err := r.B(); return err },
		func() error { _, err := r.BS(); return err },
		func() error { _, err := r.BD(); return err },
		func() error { _, err := r.B(); return err },
		func() error { _, err := r.B(); return err },
		func() error { _, err := r.BS(); return err },
		func() error { _, err := r.BS(); return err },
		func() error { _, err := r.B(); return err },
		func() error { _, err := r.B(); return err },
		func() error { _, err := r.BS(); return err },
		func() error { _, err := r.B(); return err },
		func() error { _, err := r.B(); return err },
	}
	for _, read := range reads {
		if err := read(); err != nil {
			return err
		}
	}
	return nil
}
