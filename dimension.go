// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// DimensionCommonData is the block shared by every DIM_* entity: the
// common dimension-style fields that precede the subtype-specific control
// points. Several fields are only present under some layout variants,
// which is why they are held as pointers here rather than bare values.
type DimensionCommonData struct {
	Handle               uint64
	LayerHandle          uint64
	Extrusion            Vec3
	TextMidpoint         Vec3
	Elevation            float64
	DimFlags             uint8
	UserText             string
	TextRotation         float64
	HorizontalDirection  float64
	InsertScale          Vec3
	InsertRotation       float64
	AttachmentPoint      *uint16
	LineSpacingStyle     *uint16
	LineSpacingFactor    *float64
	ActualMeasurement    *float64
	InsertPoint          *Vec3
	DimstyleHandle       *uint64
	AnonymousBlockHandle *uint64
}

// DimLinearEntity is the decoded body shared by DIM_LINEAR, DIM_ALIGNED,
// DIM_ORDINATE, DIM_ANG3PT, DIM_ANG2LN, DIM_RADIUS and DIM_DIAMETER: real
// files carry the same three control points across all of these subtypes,
// differing only in which of ExtLineRotation/DimRotation are meaningful.
type DimLinearEntity struct {
	Common          DimensionCommonData
	Point13         Vec3
	Point14         Vec3
	Point10         Vec3
	ExtLineRotation float64
	DimRotation     float64
}

type dimLinearVariant struct {
	hasAttachment      bool
	hasUnknownFlag     bool
	hasFlipArrow1      bool
	hasFlipArrow2      bool
	hasPoint12         bool
	styleBeforeCommon  bool
}

// dimLinearVariants enumerates the 12 benign layouts real R2000/R2004
// files use for the common dimension block, in the order they should be
// tried. Each is scored by plausibility once decoded; see dimscore.go.
var dimLinearVariants = []dimLinearVariant{
	{true, true, true, true, true, true},
	{true, true, true, false, true, true},
	{true, true, false, false, true, true},
	{true, false, false, false, true, true},
	{true, false, false, false, false, true},
	{false, false, false, false, false, true},
	{true, true, true, true, true, false},
	{true, true, true, false, true, false},
	{true, true, false, false, true, false},
	{true, false, false, false, true, false},
	{true, false, false, false, false, false},
	{false, false, false, false, false, false},
}

// decodeDimLinearFamily decodes any of the DIM_* subtypes sharing the
// DimLinearEntity layout. On R2000/R2004 files the body never includes a
// dimension-version byte or BE-coded extrusion, and the handle stream
// directly follows the body (no seek to hdr.ObjSize): this matches every
// dimension subtype observed, so the same enumeration serves all of them.
func decodeDimLinearFamily(r *BitReader, hdr *CommonEntityHeader, base uint64) (*DimLinearEntity, error) {
	startPos := r.Pos()

	candidates := make([]*DimLinearEntity, len(dimLinearVariants))
	errs := make([]error, len(dimLinearVariants))
	for i, v := range dimLinearVariants {
		r.SetPos(startPos)
		ent, err := decodeDimLinearVariant(r, hdr, base, v)
		candidates[i] = ent
		errs[i] = err
	}

	return pickLowestScore(candidates, errs, dimLinearPlausibility)
}

func decodeDimLinearVariant(r *BitReader, hdr *CommonEntityHeader, base uint64, v dimLinearVariant) (*DimLinearEntity, error) {
	extrusion, err := r.ThreeBD()
	if err != nil {
		return nil, err
	}
	textMidX, err := r.RD(LittleEndian)
	if err != nil {
		return nil, err
	}
	textMidY, err := r.RD(LittleEndian)
	if err != nil {
		return nil, err
	}
	elevation, err := r.BD()
	if err != nil {
		return nil, err
	}
	dimFlags, err := r.RC()
	if err != nil {
		return nil, err
	}
	userText, err := r.TV()
	if err != nil {
		return nil, err
	}
	textRotation, err := r.BD()
	if err != nil {
		return nil, err
	}
	horizontalDirection, err := r.BD()
	if err != nil {
		return nil, err
	}
	scaleX, err := r.BD()
	if err != nil {
		return nil, err
	}
	scaleY, err := r.BD()
	if err != nil {
		return nil, err
	}
	scaleZ, err := r.BD()
	if err != nil {
		return nil, err
	}
	insertRotation, err := r.BD()
	if err != nil {
		return nil, err
	}

	var attachmentPoint, lineSpacingStyle *uint16
	var lineSpacingFactor, actualMeasurement *float64
	if v.hasAttachment {
		ap, err := r.BS()
		if err != nil {
			return nil, err
		}
		ls, err := r.BS()
		if err != nil {
			return nil, err
		}
		lsf, err := r.BD()
		if err != nil {
			return nil, err
		}
		am, err := r.BD()
		if err != nil {
			return nil, err
		}
		attachmentPoint, lineSpacingStyle, lineSpacingFactor, actualMeasurement = &ap, &ls, &lsf, &am
	}

	if v.hasUnknownFlag {
		if _, err := r.B(); err != nil {
			return nil, err
		}
	}
	if v.hasFlipArrow1 {
		if _, err := r.B(); err != nil {
			return nil, err
		}
	}
	if v.hasFlipArrow2 {
		if _, err := r.B(); err != nil {
			return nil, err
		}
	}

	var insertPoint *Vec3
	if v.hasPoint12 {
		x, err := r.RD(LittleEndian)
		if err != nil {
			return nil, err
		}
		y, err := r.RD(LittleEndian)
		if err != nil {
			return nil, err
		}
		p := Vec3{X: x, Y: y, Z: elevation}
		insertPoint = &p
	}

	point13, err := r.ThreeBD()
	if err != nil {
		return nil, err
	}
	point14, err := r.ThreeBD()
	if err != nil {
		return nil, err
	}
	point10, err := r.ThreeBD()
	if err != nil {
		return nil, err
	}
	extLineRotation, err := r.BD()
	if err != nil {
		return nil, err
	}
	dimRotation, err := r.BD()
	if err != nil {
		return nil, err
	}

	var dimstyleHandle, anonBlockHandle *uint64
	var layerHandle uint64
	if v.styleBeforeCommon {
		d, err := readHandleReference(r, base)
		if err != nil {
			return nil, err
		}
		b, err := readHandleReference(r, base)
		if err != nil {
			return nil, err
		}
		handles, err := readCommonEntityHandles(r, hdr, base)
		if err != nil {
			return nil, err
		}
		dimstyleHandle, anonBlockHandle, layerHandle = &d, &b, handles.Layer
	} else {
		handles, err := readCommonEntityHandles(r, hdr, base)
		if err != nil {
			return nil, err
		}
		if d, err := readHandleReference(r, base); err == nil {
			dimstyleHandle = &d
		}
		if b, err := readHandleReference(r, base); err == nil {
			anonBlockHandle = &b
		}
		layerHandle = handles.Layer
	}

	return &DimLinearEntity{
		Common: DimensionCommonData{
			Handle:               hdr.Handle,
			LayerHandle:          layerHandle,
			Extrusion:            extrusion,
			TextMidpoint:         Vec3{X: textMidX, Y: textMidY, Z: elevation},
			Elevation:            elevation,
			DimFlags:             dimFlags,
			UserText:             userText,
			TextRotation:         textRotation,
			HorizontalDirection:  horizontalDirection,
			InsertScale:          Vec3{X: scaleX, Y: scaleY, Z: scaleZ},
			InsertRotation:       insertRotation,
			AttachmentPoint:      attachmentPoint,
			LineSpacingStyle:     lineSpacingStyle,
			LineSpacingFactor:    lineSpacingFactor,
			ActualMeasurement:    actualMeasurement,
			InsertPoint:          insertPoint,
			DimstyleHandle:       dimstyleHandle,
			AnonymousBlockHandle: anonBlockHandle,
		},
		Point13:         point13,
		Point14:         point14,
		Point10:         point10,
		ExtLineRotation: extLineRotation,
		DimRotation:     dimRotation,
	}, nil
}

func dimLinearPlausibility(e *DimLinearEntity) uint64 {
	c := &e.Common
	var score uint64
	for _, pt := range []Vec3{e.Point10, e.Point13, e.Point14, c.TextMidpoint} {
		score += pointScore(pt)
	}
	if c.InsertPoint != nil {
		score += pointScore(*c.InsertPoint)
	}
	score += pointScore(c.Extrusion)
	score += pointScore(c.InsertScale)

	for _, angle := range []float64{c.TextRotation, c.HorizontalDirection, e.ExtLineRotation, e.DimRotation, c.InsertRotation} {
		score += angleScore(angle)
	}
	if c.ActualMeasurement != nil {
		score += valueScore(*c.ActualMeasurement)
	}
	if c.LineSpacingFactor != nil {
		score += valueScore(*c.LineSpacingFactor)
	}
	return score
}

func decodeDimLinear(r *BitReader, hdr *CommonEntityHeader, base uint64) (*DimLinearEntity, error) {
	return decodeDimLinearFamily(r, hdr, base)
}

func decodeDimAligned(r *BitReader, hdr *CommonEntityHeader, base uint64) (*DimLinearEntity, error) {
	return decodeDimLinearFamily(r, hdr, base)
}

func decodeDimOrdinate(r *BitReader, hdr *CommonEntityHeader, base uint64) (*DimLinearEntity, error) {
	return decodeDimLinearFamily(r, hdr, base)
}

func decodeDimAng3Pt(r *BitReader, hdr *CommonEntityHeader, base uint64) (*DimLinearEntity, error) {
	return decodeDimLinearFamily(r, hdr, base)
}

func decodeDimAng2Ln(r *BitReader, hdr *CommonEntityHeader, base uint64) (*DimLinearEntity, error) {
	return decodeDimLinearFamily(r, hdr, base)
}

// decodeDimRadius decodes DIM_RADIUS. R2000/R2004 radius dimensions share
// a compatible body layout with linear dimensions for the fields surfaced
// here, so the same enumeration is reused rather than duplicated.
func decodeDimRadius(r *BitReader, hdr *CommonEntityHeader, base uint64) (*DimLinearEntity, error) {
	return decodeDimLinearFamily(r, hdr, base)
}

// decodeDimDiameter decodes DIM_DIAMETER. On R2000/R2004 it shares the
// linear layout; on R2010/R2013 it uses a distinct 15-point/10-point/
// leader-length tail, handled by decodeDimDiameterR2010Plus.
func decodeDimDiameter(r *BitReader, hdr *CommonEntityHeader, base uint64, dialect Dialect) (*DimLinearEntity, error) {
	if dialect == DialectR2010 || dialect == DialectR2013 {
		return decodeDimDiameterR2010Plus(r, hdr, base)
	}
	return decodeDimLinearFamily(r, hdr, base)
}

type dimR2010PlusVariant struct {
	hasDimensionVersion bool
	hasUserText         bool
	extrusionIsBE       bool
}

var dimR2010PlusVariants = []dimR2010PlusVariant{
	{true, true, false},
	{true, false, false},
	{false, true, false},
	{false, false, false},
	{true, true, true},
	{true, false, true},
	{false, true, true},
	{false, false, true},
}

// decodeDimDiameterR2010Plus decodes the R2010/R2013 DIM_DIAMETER body:
// an optional leading dimension-version byte, an extrusion that is BE- or
// 3BD-coded depending on variant, the common block, then a 15-point,
// 10-point and leader length in place of the linear family's third point
// and trailing angles.
func decodeDimDiameterR2010Plus(r *BitReader, hdr *CommonEntityHeader, base uint64) (*DimLinearEntity, error) {
	startPos := r.Pos()

	candidates := make([]*DimLinearEntity, len(dimR2010PlusVariants))
	errs := make([]error, len(dimR2010PlusVariants))
	for i, v := range dimR2010PlusVariants {
		r.SetPos(startPos)
		ent, err := decodeDimDiameterR2010Variant(r, hdr, base, v)
		candidates[i] = ent
		errs[i] = err
	}

	return pickLowestScore(candidates, errs, dimDiameterR2010Plausibility)
}

func decodeDimDiameterR2010Variant(r *BitReader, hdr *CommonEntityHeader, base uint64, v dimR2010PlusVariant) (*DimLinearEntity, error) {
	if v.hasDimensionVersion {
		if _, err := r.RC(); err != nil {
			return nil, err
		}
	}
	var extrusion Vec3
	var err error
	if v.extrusionIsBE {
		extrusion, err = r.BE()
	} else {
		extrusion, err = r.ThreeBD()
	}
	if err != nil {
		return nil, err
	}
	textMidX, err := r.RD(LittleEndian)
	if err != nil {
		return nil, err
	}
	textMidY, err := r.RD(LittleEndian)
	if err != nil {
		return nil, err
	}
	elevation, err := r.BD()
	if err != nil {
		return nil, err
	}
	dimFlags, err := r.RC()
	if err != nil {
		return nil, err
	}
	var userText string
	if v.hasUserText {
		userText, err = r.TV()
		if err != nil {
			return nil, err
		}
	}
	textRotation, err := r.BD()
	if err != nil {
		return nil, err
	}
	horizontalDirection, err := r.BD()
	if err != nil {
		return nil, err
	}
	scaleX, err := r.BD()
	if err != nil {
		return nil, err
	}
	scaleY, err := r.BD()
	if err != nil {
		return nil, err
	}
	scaleZ, err := r.BD()
	if err != nil {
		return nil, err
	}
	insertRotation, err := r.BD()
	if err != nil {
		return nil, err
	}
	attachmentPoint, err := r.BS()
	if err != nil {
		return nil, err
	}
	lineSpacingStyle, err := r.BS()
	if err != nil {
		return nil, err
	}
	lineSpacingFactor, err := r.BD()
	if err != nil {
		return nil, err
	}
	actualMeasurement, err := r.BD()
	if err != nil {
		return nil, err
	}
	if _, err := r.B(); err != nil { // unknown
		return nil, err
	}
	if _, err := r.B(); err != nil { // flip arrow 1
		return nil, err
	}
	if _, err := r.B(); err != nil { // flip arrow 2
		return nil, err
	}
	point12X, err := r.RD(LittleEndian)
	if err != nil {
		return nil, err
	}
	point12Y, err := r.RD(LittleEndian)
	if err != nil {
		return nil, err
	}
	insertPoint := Vec3{X: point12X, Y: point12Y, Z: elevation}

	point15, err := r.ThreeBD()
	if err != nil {
		return nil, err
	}
	point10, err := r.ThreeBD()
	if err != nil {
		return nil, err
	}
	if _, err := r.BD(); err != nil { // leader length
		return nil, err
	}

	r.SeekBits(hdr.ObjSize)
	handlesPos := r.Pos()
	var dimstyleHandle, anonBlockHandle *uint64
	var layerHandle uint64
	d, errD := readHandleReference(r, base)
	b, errB := readHandleReference(r, base)
	handles, errH := readCommonEntityHandles(r, hdr, base)
	if errD == nil && errB == nil && errH == nil {
		dimstyleHandle, anonBlockHandle, layerHandle = &d, &b, handles.Layer
	} else {
		r.SetPos(handlesPos)
		layerHandle, _ = readEntityLayerHandle(r, hdr, base)
	}

	return &DimLinearEntity{
		Common: DimensionCommonData{
			Handle:               hdr.Handle,
			LayerHandle:          layerHandle,
			Extrusion:            extrusion,
			TextMidpoint:         Vec3{X: textMidX, Y: textMidY, Z: elevation},
			Elevation:            elevation,
			DimFlags:             dimFlags,
			UserText:             userText,
			TextRotation:         textRotation,
			HorizontalDirection:  horizontalDirection,
			InsertScale:          Vec3{X: scaleX, Y: scaleY, Z: scaleZ},
			InsertRotation:       insertRotation,
			AttachmentPoint:      &attachmentPoint,
			LineSpacingStyle:     &lineSpacingStyle,
			LineSpacingFactor:    &lineSpacingFactor,
			ActualMeasurement:    &actualMeasurement,
			InsertPoint:          &insertPoint,
			DimstyleHandle:       dimstyleHandle,
			AnonymousBlockHandle: anonBlockHandle,
		},
		Point13:         point15,
		Point14:         point10,
		Point10:         point10,
		ExtLineRotation: 0,
		DimRotation:     0,
	}, nil
}

func dimDiameterR2010Plausibility(e *DimLinearEntity) uint64 {
	c := &e.Common
	var score uint64
	for _, pt := range []Vec3{e.Point10, e.Point13, e.Point14, c.TextMidpoint} {
		score += pointScore(pt)
	}
	if c.InsertPoint != nil {
		score += pointScore(*c.InsertPoint)
	}
	score += pointScore(c.Extrusion)
	score += pointScore(c.InsertScale)
	score += extrusionScore(c.Extrusion)
	score += scaleScore(c.InsertScale)

	for _, angle := range []float64{c.TextRotation, c.HorizontalDirection, c.InsertRotation} {
		score += angleScore(angle)
	}
	if c.ActualMeasurement != nil {
		score += valueScore(*c.ActualMeasurement)
	}
	if c.LineSpacingFactor != nil {
		score += valueScore(*c.LineSpacingFactor)
	}
	if c.AttachmentPoint != nil && *c.AttachmentPoint > 9 {
		score += 10_000
	}
	if c.LineSpacingStyle != nil && *c.LineSpacingStyle > 2 {
		score += 10_000
	}
	if c.DimFlags > 0x3F {
		score += 1_000
	}
	return score
}
