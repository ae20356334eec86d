// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// textBody is the field set shared by TEXT, ATTRIB and ATTDEF, decoded
// from the RC data-flags byte onward.
type textBody struct {
	Elevation    float64
	Insertion    Vec3
	HasAlignment bool
	Alignment    Vec3
	Extrusion    Vec3
	Thickness    float64
	ObliqueAngle float64
	Rotation     float64
	Height       float64
	WidthFactor  float64
	Text         string
	Generation   uint16
	HAlign       uint16
	VAlign       uint16
}

func decodeTextBody(r *BitReader) (*textBody, error) {
	dataFlags, err := r.RC()
	if err != nil {
		return nil, err
	}
	body := &textBody{WidthFactor: 1.0}

	if dataFlags&0x01 == 0 {
		body.Elevation, err = r.RD(LittleEndian)
		if err != nil {
			return nil, err
		}
	}

	insX, err := r.RD(LittleEndian)
	if err != nil {
		return nil, err
	}
	insY, err := r.RD(LittleEndian)
	if err != nil {
		return nil, err
	}
	body.Insertion = Vec3{X: insX, Y: insY, Z: body.Elevation}

	if dataFlags&0x02 == 0 {
		alignX, err := r.DD(insX)
		if err != nil {
			return nil, err
		}
		alignY, err := r.DD(insY)
		if err != nil {
			return nil, err
		}
		body.HasAlignment = true
		body.Alignment = Vec3{X: alignX, Y: alignY, Z: body.Elevation}
	}

	body.Extrusion, err = r.BE()
	if err != nil {
		return nil, err
	}
	body.Thickness, err = r.BT()
	if err != nil {
		return nil, err
	}

	if dataFlags&0x04 == 0 {
		body.ObliqueAngle, err = r.RD(LittleEndian)
		if err != nil {
			return nil, err
		}
	}
	if dataFlags&0x08 == 0 {
		body.Rotation, err = r.RD(LittleEndian)
		if err != nil {
			return nil, err
		}
	}

	body.Height, err = r.RD(LittleEndian)
	if err != nil {
		return nil, err
	}

	if dataFlags&0x10 == 0 {
		body.WidthFactor, err = r.RD(LittleEndian)
		if err != nil {
			return nil, err
		}
	}

	body.Text, err = r.TV()
	if err != nil {
		return nil, err
	}

	if dataFlags&0x20 == 0 {
		body.Generation, err = r.BS()
		if err != nil {
			return nil, err
		}
	}
	if dataFlags&0x40 == 0 {
		body.HAlign, err = r.BS()
		if err != nil {
			return nil, err
		}
	}
	if dataFlags&0x80 == 0 {
		body.VAlign, err = r.BS()
		if err != nil {
			return nil, err
		}
	}

	return body, nil
}

// TextEntity is a decoded TEXT.
type TextEntity struct {
	Handle      uint64
	Body        textBody
	LayerHandle uint64
	StyleHandle uint64
	HasStyle    bool
}

func decodeText(r *BitReader, hdr *CommonEntityHeader, base uint64) (*TextEntity, error) {
	body, err := decodeTextBody(r)
	if err != nil {
		return nil, err
	}
	r.SeekBits(hdr.ObjSize)
	handles, err := readCommonEntityHandles(r, hdr, base)
	if err != nil {
		return nil, err
	}
	style, err := readHandleReference(r, base)
	hasStyle := err == nil

	return &TextEntity{
		Handle:      hdr.Handle,
		Body:        *body,
		LayerHandle: handles.Layer,
		StyleHandle: style,
		HasStyle:    hasStyle,
	}, nil
}

// attribTail is the tag/flags/lock-position/prompt trailer ATTRIB and
// ATTDEF append after the shared text body, attempted with and without a
// leading version byte (observed in some files).
type attribTail struct {
	Tag          string
	Flags        uint8
	LockPosition bool
	Prompt       string
	HasPrompt    bool
}

func decodeAttribTail(r *BitReader, withVersionPrefix, isAttdef bool) (*attribTail, error) {
	if withVersionPrefix {
		if _, err := r.RC(); err != nil {
			return nil, err
		}
	}
	tag, err := r.TV()
	if err != nil {
		return nil, err
	}
	if _, err := r.BS(); err != nil { // field-length
		return nil, err
	}
	flags, err := r.RC()
	if err != nil {
		return nil, err
	}
	lockPos, err := r.B()
	if err != nil {
		return nil, err
	}
	tail := &attribTail{Tag: tag, Flags: flags, LockPosition: lockPos != 0}
	if isAttdef {
		prompt, err := r.TV()
		if err != nil {
			return nil, err
		}
		tail.Prompt = prompt
		tail.HasPrompt = true
	}
	return tail, nil
}

// AttribEntity is a decoded ATTRIB or ATTDEF.
type AttribEntity struct {
	Handle      uint64
	Body        textBody
	LayerHandle uint64
	StyleHandle uint64
	HasStyle    bool
	Tail        attribTail
}

func decodeAttribLike(r *BitReader, hdr *CommonEntityHeader, base uint64, isAttdef bool) (*AttribEntity, error) {
	body, err := decodeTextBody(r)
	if err != nil {
		return nil, err
	}

	tailStart := r.Pos()
	var tail *attribTail
	for _, withVersion := range []bool{false, true} {
		r.SetPos(tailStart)
		t, err := decodeAttribTail(r, withVersion, isAttdef)
		if err == nil {
			tail = t
			break
		}
	}
	if tail == nil {
		tail = &attribTail{}
	}

	r.SeekBits(hdr.ObjSize)
	handlesPos := r.Pos()
	handles, err := readCommonEntityHandles(r, hdr, base)
	var layerHandle uint64
	var styleHandle uint64
	var hasStyle bool
	if err == nil {
		layerHandle = handles.Layer
		styleHandle, err = readHandleReference(r, base)
		hasStyle = err == nil
	} else {
		r.SetPos(handlesPos)
		layerHandle, _ = readEntityLayerHandle(r, hdr, base)
	}

	return &AttribEntity{
		Handle:      hdr.Handle,
		Body:        *body,
		LayerHandle: layerHandle,
		StyleHandle: styleHandle,
		HasStyle:    hasStyle,
		Tail:        *tail,
	}, nil
}

// readEntityLayerHandle reads only as far as the layer handle, skipping
// owner/reactors/xdic, used as a fallback when the full handle stream
// fails to parse (e.g. an unexpected style-handle trailer).
func readEntityLayerHandle(r *BitReader, hdr *CommonEntityHeader, base uint64) (uint64, error) {
	if hdr.EntityMode == 0 {
		if _, err := readHandleReference(r, base); err != nil {
			return 0, err
		}
	}
	for i := uint32(0); i < hdr.ReactorCount; i++ {
		if _, err := readHandleReference(r, base); err != nil {
			return 0, err
		}
	}
	if !hdr.XdicMissing {
		if _, err := readHandleReference(r, base); err != nil {
			return 0, err
		}
	}
	return readHandleReference(r, base)
}
