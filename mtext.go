// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// MTextBackground is the optional background-fill block appended to
// MTEXT bodies when flags & (0x01|0x10) is set. Not present in the
// original decoder (which treated any background flag as
// NotImplemented); decoded in full here per the expanded specification.
type MTextBackground struct {
	Scale        float64
	ColorIndex   uint16
	ColorRGB     uint32
	ColorByte    uint8
	HasNames     bool
	AppName      string
	Transparency uint32
}

// MTextEntity is a decoded MTEXT.
type MTextEntity struct {
	Handle       uint64
	LayerHandle  uint64
	Text         string
	Insertion    Vec3
	Extrusion    Vec3
	XAxisDir     Vec3
	RectWidth    float64
	TextHeight   float64
	Attachment   uint16
	DrawingDir   uint16
	Background   *MTextBackground
}

func decodeMText(r *BitReader, hdr *CommonEntityHeader, base uint64, dialect Dialect) (*MTextEntity, error) {
	insertion, err := r.ThreeBD()
	if err != nil {
		return nil, err
	}
	extrusion, err := r.ThreeBD()
	if err != nil {
		return nil, err
	}
	xAxisDir, err := r.ThreeBD()
	if err != nil {
		return nil, err
	}
	rectWidth, err := r.BD()
	if err != nil {
		return nil, err
	}
	textHeight, err := r.BD()
	if err != nil {
		return nil, err
	}
	attachment, err := r.BS()
	if err != nil {
		return nil, err
	}
	drawingDir, err := r.BS()
	if err != nil {
		return nil, err
	}
	if _, err := r.BD(); err != nil { // extents-height
		return nil, err
	}
	if _, err := r.BD(); err != nil { // extents-width
		return nil, err
	}
	text, err := r.TV()
	if err != nil {
		return nil, err
	}
	if _, err := r.BS(); err != nil { // linespacing-style
		return nil, err
	}
	if _, err := r.BD(); err != nil { // linespacing-factor
		return nil, err
	}
	if _, err := r.B(); err != nil { // unknown
		return nil, err
	}

	var background *MTextBackground
	if dialect != DialectR2000 {
		flags, err := r.BL()
		if err != nil {
			return nil, err
		}
		if flags&(0x01|0x10) != 0 {
			background, err = decodeMTextBackground(r)
			if err != nil {
				return nil, err
			}
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

	return &MTextEntity{
		Handle:      hdr.Handle,
		LayerHandle: layerHandle,
		Text:        text,
		Insertion:   insertion,
		Extrusion:   extrusion,
		XAxisDir:    xAxisDir,
		RectWidth:   rectWidth,
		TextHeight:  textHeight,
		Attachment:  attachment,
		DrawingDir:  drawingDir,
		Background:  background,
	}, nil
}

func decodeMTextBackground(r *BitReader) (*MTextBackground, error) {
	scale, err := r.BD()
	if err != nil {
		return nil, err
	}
	colorIndex, err := r.BS()
	if err != nil {
		return nil, err
	}
	colorRGB, err := r.BL()
	if err != nil {
		return nil, err
	}
	colorByte, err := r.RC()
	if err != nil {
		return nil, err
	}

	bg := &MTextBackground{Scale: scale, ColorIndex: colorIndex, ColorRGB: colorRGB, ColorByte: colorByte}

	if colorByte == 0 {
		appName, err := r.TV()
		if err != nil {
			return nil, err
		}
		bg.HasNames = true
		bg.AppName = appName
	}

	transparency, err := r.BL()
	if err != nil {
		return nil, err
	}
	bg.Transparency = transparency

	return bg, nil
}
