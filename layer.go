// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// LayerEntity is a decoded LAYER object: name, on/off and frozen state,
// and the color it draws entities with when they inherit "BYLAYER".
type LayerEntity struct {
	Handle          uint64
	Name            string
	Frozen          bool
	On              bool
	Locked          bool
	Plotting        bool
	ColorIndex      int16
	ColorByte       uint8
	TrueColorRGB    uint32
	LinetypeHandle  uint64
	MaterialHandle  uint64
	PlotStyleHandle uint64
}

// layerColorVariant is one of the 8 candidate bit layouts around the
// layer's 64-flag bit: real files pad that bit with 0 or 2 filler bits on
// either side, and additionally sometimes insert 2 filler bits ahead of
// the color/value fields that follow it.
type layerColorVariant struct {
	preFlagBits   int
	postFlagBits  int
	preValuesBits int
}

var layerColorVariants = []layerColorVariant{
	{0, 0, 0},
	{2, 0, 0},
	{0, 2, 0},
	{0, 0, 2},
	{2, 2, 0},
	{2, 0, 2},
	{0, 2, 2},
	{2, 2, 2},
}

// decodeLayer decodes a LAYER object body: name, the 64-flag bit wrapped
// in one of 8 candidate paddings, then a color block (BS color index, RC
// color byte, BL true-color RGB), scored for plausibility per variant and
// the lowest-scoring candidate kept. On total failure the simplest (all-
// zero-padding) variant is accepted so the decode still makes progress.
func decodeLayer(r *BitReader, hdr *CommonEntityHeader, base uint64, report func(string)) (*LayerEntity, error) {
	name, err := r.TV()
	if err != nil {
		return nil, err
	}
	flags64, err := r.BS()
	if err != nil {
		return nil, err
	}

	startPos := r.Pos()
	candidates := make([]*LayerEntity, len(layerColorVariants))
	errs := make([]error, len(layerColorVariants))
	for i, v := range layerColorVariants {
		r.SetPos(startPos)
		ent, err := decodeLayerColorVariant(r, v)
		candidates[i] = ent
		errs[i] = err
	}

	ent, err := pickLowestScore(candidates, errs, layerColorScore)
	if err != nil {
		r.SetPos(startPos)
		ent, err = decodeLayerColorVariant(r, layerColorVariants[0])
		if err != nil {
			return nil, err
		}
		if report != nil {
			report(AnoLayerColorFallback)
		}
	}

	ent.Handle = hdr.Handle
	ent.Name = name
	ent.Frozen = flags64&0x01 != 0
	ent.On = flags64&0x02 == 0
	ent.Locked = flags64&0x04 != 0
	ent.Plotting = flags64&0x4000 == 0

	r.SeekBits(hdr.ObjSize)
	handlesPos := r.Pos()
	handles, err := readCommonEntityHandles(r, hdr, base)
	if err == nil {
		ent.LinetypeHandle = handles.Linetype
		ent.MaterialHandle = handles.Material
		ent.PlotStyleHandle = handles.PlotStyleH
	} else {
		r.SetPos(handlesPos)
	}

	return ent, nil
}

func decodeLayerColorVariant(r *BitReader, v layerColorVariant) (*LayerEntity, error) {
	if err := skipBits(r, v.preFlagBits); err != nil {
		return nil, err
	}
	if err := skipBits(r, v.postFlagBits); err != nil {
		return nil, err
	}
	if err := skipBits(r, v.preValuesBits); err != nil {
		return nil, err
	}

	colorRaw, err := r.BS()
	if err != nil {
		return nil, err
	}
	colorByte, err := r.RC()
	if err != nil {
		return nil, err
	}
	trueColor, err := r.BL()
	if err != nil {
		return nil, err
	}

	return &LayerEntity{
		ColorIndex:   int16(colorRaw),
		ColorByte:    colorByte,
		TrueColorRGB: trueColor,
	}, nil
}

func skipBits(r *BitReader, n int) error {
	for i := 0; i < n; i++ {
		if _, err := r.B(); err != nil {
			return err
		}
	}
	return nil
}

func layerColorScore(ent *LayerEntity) uint64 {
	var score uint64
	idx := ent.ColorIndex
	if idx < 0 {
		idx = -idx
	}
	switch {
	case idx > 4096:
		score += 10_000
	case idx > 257:
		score += 1_000
	}
	if ent.ColorByte > 3 {
		score += 5_000
	}
	if ent.TrueColorRGB>>24 == 0 || ent.TrueColorRGB > 0x00FFFFFF {
		score += 100
	}
	return score
}
