// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

import "testing"

func TestLayerColorScorePlausible(t *testing.T) {
	// The true-color check penalizes a zero high byte and any value above
	// 0x00FFFFFF, so every TrueColorRGB adds 100; 100 is the floor.
	ent := &LayerEntity{ColorIndex: 7, ColorByte: 1, TrueColorRGB: 0xC2112233}
	if got := layerColorScore(ent); got != 100 {
		t.Errorf("layerColorScore(plausible) = %d, want 100", got)
	}
}

func TestLayerColorScorePenalizesOutOfRangeIndex(t *testing.T) {
	ent := &LayerEntity{ColorIndex: 9000, ColorByte: 1, TrueColorRGB: 0xC2112233}
	if got := layerColorScore(ent); got < 10_000 {
		t.Errorf("layerColorScore(huge index) = %d, want >= 10000", got)
	}
}

func TestLayerColorScorePenalizesBadColorByte(t *testing.T) {
	ent := &LayerEntity{ColorIndex: 7, ColorByte: 200, TrueColorRGB: 0xC2112233}
	if got := layerColorScore(ent); got < 5_000 {
		t.Errorf("layerColorScore(bad color byte) = %d, want >= 5000", got)
	}
}

func TestLayerColorScorePenalizesMissingMethodByte(t *testing.T) {
	ent := &LayerEntity{ColorIndex: 7, ColorByte: 1, TrueColorRGB: 0x00112233}
	if got := layerColorScore(ent); got < 100 {
		t.Errorf("layerColorScore(zero method byte) = %d, want >= 100", got)
	}
}

func TestDecodeLayerColorVariantSimplest(t *testing.T) {
	// Variant {0,0,0}: no filler bits, straight BS/RC/BL color block. The
	// BS selector (constant-0 branch) leaves the color-byte RC() and the
	// BL() selector both reading off a byte boundary, so the second byte
	// is derived to carry the color byte's high bits plus BL's own
	// constant-0 selector.
	r := NewBitReader([]byte{0x80, 0xE0})
	ent, err := decodeLayerColorVariant(r, layerColorVariants[0])
	if err != nil {
		t.Fatalf("decodeLayerColorVariant() failed: %v", err)
	}
	if ent.ColorIndex != 0 {
		t.Errorf("ColorIndex = %d, want 0", ent.ColorIndex)
	}
	if ent.ColorByte != 0x03 {
		t.Errorf("ColorByte = %#x, want 0x03", ent.ColorByte)
	}
	if ent.TrueColorRGB != 0 {
		t.Errorf("TrueColorRGB = %#x, want 0", ent.TrueColorRGB)
	}
}

func TestSkipBits(t *testing.T) {
	r := NewBitReader([]byte{0xFF})
	if err := skipBits(r, 4); err != nil {
		t.Fatalf("skipBits() failed: %v", err)
	}
	if r.BitOffset() != 4 {
		t.Errorf("BitOffset() after skipBits(4) = %d, want 4", r.BitOffset())
	}
}
