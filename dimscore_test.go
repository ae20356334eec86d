// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

import (
	"math"
	"testing"
)

func TestValueScoreBuckets(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want uint64
	}{
		{"small", 12.5, 0},
		{"just under million", 999_999.0, 0},
		{"million-plus", 5_000_000.0, 10},
		{"billion-plus", 5_000_000_000.0, 100},
		{"trillion-plus", 5_000_000_000_000.0, 1_000},
		{"huge", 5.0e20, 10_000},
		{"absurd", 5.0e30, 1_000_000},
		{"nan", math.NaN(), 1_000_000},
		{"inf", math.Inf(1), 1_000_000},
		{"negative small", -12.5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := valueScore(tt.v); got != tt.want {
				t.Errorf("valueScore(%v) = %d, want %d", tt.v, got, tt.want)
			}
		})
	}
}

func TestAngleScoreBuckets(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want uint64
	}{
		{"within range", 3.14, 0},
		{"large", 5_000.0, 25},
		{"huge", 5_000_000_000.0, 250},
		{"absurd", 1.0e20, 1_000_000},
		{"nan", math.NaN(), 1_000_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := angleScore(tt.v); got != tt.want {
				t.Errorf("angleScore(%v) = %d, want %d", tt.v, got, tt.want)
			}
		})
	}
}

func TestPointScoreSumsComponents(t *testing.T) {
	p := Vec3{X: 5_000_000_000.0, Y: 1.0, Z: 5.0e30}
	want := valueScore(p.X) + valueScore(p.Y) + valueScore(p.Z)
	if got := pointScore(p); got != want {
		t.Errorf("pointScore(%+v) = %d, want %d", p, got, want)
	}
}

func TestExtrusionScoreDefaultAxis(t *testing.T) {
	if got := extrusionScore(Vec3{0, 0, 1}); got != 0 {
		t.Errorf("extrusionScore(default Z axis) = %d, want 0", got)
	}
}

func TestExtrusionScoreZeroVector(t *testing.T) {
	if got := extrusionScore(Vec3{0, 0, 0}); got != 50_000 {
		t.Errorf("extrusionScore(zero vector) = %d, want 50000", got)
	}
}

func TestExtrusionScoreNotUnitNorm(t *testing.T) {
	got := extrusionScore(Vec3{10, 0, 0})
	if got == 0 {
		t.Errorf("extrusionScore(non-unit norm) = 0, want a nonzero penalty")
	}
}

func TestScaleScoreDegenerate(t *testing.T) {
	got := scaleScore(Vec3{1e-15, 1, 1})
	if got != 2_500 {
		t.Errorf("scaleScore(near-zero component) = %d, want 2500", got)
	}
}

func TestScaleScoreNormal(t *testing.T) {
	if got := scaleScore(Vec3{1, 1, 1}); got != 0 {
		t.Errorf("scaleScore(unit scale) = %d, want 0", got)
	}
}

func TestPickLowestScore(t *testing.T) {
	candidates := []int{10, 3, 7}
	errs := []error{nil, nil, nil}
	got, err := pickLowestScore(candidates, errs, func(v int) uint64 { return uint64(v) })
	if err != nil {
		t.Fatalf("pickLowestScore() failed: %v", err)
	}
	if got != 3 {
		t.Errorf("pickLowestScore() = %d, want 3", got)
	}
}

func TestPickLowestScoreSkipsErrors(t *testing.T) {
	candidates := []int{10, 3, 7}
	errs := []error{nil, NewErrorAt(KindDecode, "bad candidate", 0), nil}
	got, err := pickLowestScore(candidates, errs, func(v int) uint64 { return uint64(v) })
	if err != nil {
		t.Fatalf("pickLowestScore() failed: %v", err)
	}
	if got != 7 {
		t.Errorf("pickLowestScore() skipping errored candidate = %d, want 7", got)
	}
}

func TestPickLowestScoreAllFail(t *testing.T) {
	candidates := []int{10, 3}
	errs := []error{
		NewErrorAt(KindDecode, "bad", 0),
		NewErrorAt(KindDecode, "bad", 0),
	}
	if _, err := pickLowestScore(candidates, errs, func(v int) uint64 { return uint64(v) }); err == nil {
		t.Fatalf("pickLowestScore() with every candidate failed should return an error")
	}
}
